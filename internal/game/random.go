// internal/game/random.go
//
// Target draws for the evaluator.
// Responsibilities:
//   - Define the RandomSource contract (uniform over [MinTarget, MaxTarget]).
//   - Provide the crypto/rand default and deterministic sources for tests.

package game

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/rs/zerolog/log"
)

// RandomSource draws the secret number. Implementations must return a value
// uniformly distributed over [MinTarget, MaxTarget].
type RandomSource interface {
	Intn() int
}

// CryptoSource draws targets from crypto/rand. Reader overrides the entropy
// source when non-nil.
type CryptoSource struct {
	Reader io.Reader
}

// Intn returns a uniform value in [MinTarget, MaxTarget].
// If the entropy source fails, the failure is logged and the midpoint is used.
func (c CryptoSource) Intn() int {
	r := c.Reader
	if r == nil {
		r = rand.Reader
	}
	n, err := rand.Int(r, big.NewInt(MaxTarget-MinTarget+1))
	if err != nil {
		log.Warn().Err(err).Msg("random target draw failed; using midpoint")
		return (MinTarget + MaxTarget) / 2
	}
	return int(n.Int64()) + MinTarget
}

// FixedSource always returns the same target. Useful for tests and demos.
type FixedSource int

func (f FixedSource) Intn() int { return int(f) }

// SequenceSource returns its values in order, cycling when exhausted.
// Not safe for concurrent use.
type SequenceSource struct {
	Values []int
	next   int
}

func (s *SequenceSource) Intn() int {
	if len(s.Values) == 0 {
		return MinTarget
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return v
}
