// internal/game/engine.go
//
// Core game engine for a single number guessing round.
// Responsibilities:
//   - Start rounds with a target drawn from an injected RandomSource.
//   - Validate raw guess text (lenient leading-integer parse, range 1–100).
//   - Classify valid guesses: too low / too high / correct.
//   - Track state transitions: in_progress → won.
//
// Notes:
//   - State is a value; every call returns a new State and never mutates input.
//   - Invalid input only replaces the message and never counts as an attempt.
//   - Once a round is won, guesses are no-ops until StartRound is called.
package game

import "unicode"

// Evaluator owns the random source and turns inputs into next states.
// It holds no round state itself.
type Evaluator struct {
	src RandomSource
}

// NewEvaluator constructs an Evaluator. A nil src uses CryptoSource.
func NewEvaluator(src RandomSource) *Evaluator {
	if src == nil {
		src = CryptoSource{}
	}
	return &Evaluator{src: src}
}

// StartRound draws a fresh target and returns the initial state.
func (e *Evaluator) StartRound() State {
	return State{
		Target:       clampTarget(e.src.Intn()),
		Attempts:     0,
		Status:       StatusInProgress,
		LastFeedback: FeedbackNone,
		Message:      MsgWelcome,
	}
}

// SubmitGuess applies raw input to s and returns the next state.
func (e *Evaluator) SubmitGuess(s State, raw string) State {
	return e.Evaluate(s, raw).State
}

// Evaluate is SubmitGuess plus a flag telling whether the input failed
// validation.
//
// Validation rules:
//   - A won round returns s unchanged (not flagged invalid).
//   - raw must start (after whitespace and an optional sign) with a digit.
//   - The parsed value must lie in [MinTarget, MaxTarget].
func (e *Evaluator) Evaluate(s State, raw string) Outcome {
	if s.Won() {
		return Outcome{State: s}
	}

	n, ok := parseLeadingInt(raw)
	if !ok || n < MinTarget || n > MaxTarget {
		next := s
		next.Message = MsgInvalid
		return Outcome{State: next, Invalid: true}
	}

	next := s
	next.Attempts++
	switch {
	case n == s.Target:
		next.Status = StatusWon
		next.LastFeedback = FeedbackCorrect
		next.Message = winMessage(s.Target, next.Attempts)
	case n < s.Target:
		next.LastFeedback = FeedbackTooLow
		next.Message = MsgTooLow
	default:
		next.LastFeedback = FeedbackTooHigh
		next.Message = MsgTooHigh
	}
	return Outcome{State: next}
}

// parseLeadingInt reads a base-10 integer prefix: leading whitespace (as
// isLeadingSpace defines it), an optional sign, then digits up to the first
// non-digit. Trailing text is ignored, so "12abc" yields 12. It fails when
// no digit follows.
//
// Magnitudes past overflowAt stop accumulating; anything that large is out
// of range for the game anyway.
func parseLeadingInt(raw string) (int, bool) {
	const overflowAt = 1 << 20

	rs := []rune(raw)
	i := 0
	for i < len(rs) && isLeadingSpace(rs[i]) {
		i++
	}
	neg := false
	if i < len(rs) && (rs[i] == '+' || rs[i] == '-') {
		neg = rs[i] == '-'
		i++
	}

	n, digits := 0, 0
	for ; i < len(rs) && rs[i] >= '0' && rs[i] <= '9'; i++ {
		digits++
		if n < overflowAt {
			n = n*10 + int(rs[i]-'0')
		}
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// isLeadingSpace reports whether r is skipped before a number: the
// ECMAScript WhiteSpace and LineTerminator sets. That includes the BOM
// (U+FEFF) and every Zs space, but not NEL (U+0085).
func isLeadingSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\u00a0', '\ufeff', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// clampTarget keeps a misbehaving RandomSource from breaking the range invariant.
func clampTarget(n int) int {
	if n < MinTarget {
		return MinTarget
	}
	if n > MaxTarget {
		return MaxTarget
	}
	return n
}
