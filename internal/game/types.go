// internal/game/types.go
//
// Core type definitions for the number guessing engine.
// Defines:
//   - Status: round lifecycle (in_progress → won).
//   - Feedback: classification of the most recent valid guess.
//   - State: the immutable snapshot of one round.
//   - Outcome: result of a single SubmitGuess call.

package game

// Bounds of the secret number (inclusive).
const (
	MinTarget = 1
	MaxTarget = 100
)

// Status represents the lifecycle of a round.
// Possible values:
//   - "in_progress": guesses are accepted.
//   - "won":         the target was guessed; terminal until a new round.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
)

// Feedback classifies the most recent valid guess.
type Feedback string

const (
	FeedbackNone    Feedback = "none"
	FeedbackTooHigh Feedback = "too_high"
	FeedbackTooLow  Feedback = "too_low"
	FeedbackCorrect Feedback = "correct"
)

// State holds one round. Values are never mutated in place; every
// transition returns a fresh copy.
type State struct {
	Target       int      `json:"target"`       // Secret number in [MinTarget, MaxTarget].
	Attempts     int      `json:"attempts"`     // Valid guesses made this round.
	Status       Status   `json:"status"`       // in_progress | won
	LastFeedback Feedback `json:"lastFeedback"` // none | too_high | too_low | correct
	Message      string   `json:"message"`      // Display text for the current state.
}

// Won reports whether the round is over.
func (s State) Won() bool { return s.Status == StatusWon }

// Outcome is what SubmitGuess produces: the next state plus whether the
// input was rejected by validation (which does not count as an attempt).
type Outcome struct {
	State   State
	Invalid bool
}
