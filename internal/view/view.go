// internal/view/view.go
//
// Presentation mapping for rendering collaborators.
// Turns a game.State into what the player sees:
//   - a directional indicator (up/down/trophy/blank),
//   - which control is offered (submit vs. new round),
//   - whether the guess input accepts text,
//   - the invalid-input pulse, a side-channel effect with a fixed duration.
//
// Nothing here feeds back into game state.

package view

import (
	"time"

	"github.com/robalobadob/guessnumber/internal/game"
)

// Indicator is the icon shown above the message.
type Indicator string

const (
	IndicatorBlank  Indicator = "blank"
	IndicatorUp     Indicator = "up"     // guess was too low
	IndicatorDown   Indicator = "down"   // guess was too high
	IndicatorTrophy Indicator = "trophy" // correct
)

// Control is the primary action button offered next to the input.
type Control string

const (
	ControlSubmit   Control = "submit"
	ControlNewRound Control = "new_round"
)

// PulseDuration is how long the invalid-input shake lasts.
const PulseDuration = 500 * time.Millisecond

// IndicatorFor maps feedback to its icon.
func IndicatorFor(f game.Feedback) Indicator {
	switch f {
	case game.FeedbackTooHigh:
		return IndicatorDown
	case game.FeedbackTooLow:
		return IndicatorUp
	case game.FeedbackCorrect:
		return IndicatorTrophy
	default:
		return IndicatorBlank
	}
}

// ControlFor picks the primary control for a status.
func ControlFor(st game.Status) Control {
	if st == game.StatusWon {
		return ControlNewRound
	}
	return ControlSubmit
}

// Snapshot is the display-ready form of a round.
// Target is only populated once the round is won.
type Snapshot struct {
	Message      string        `json:"message"`
	Attempts     int           `json:"attempts"`
	Status       game.Status   `json:"status"`
	Feedback     game.Feedback `json:"feedback"`
	Indicator    Indicator     `json:"indicator"`
	Control      Control       `json:"control"`
	InputEnabled bool          `json:"inputEnabled"`
	Target       int           `json:"target,omitempty"`
}

// Render builds a Snapshot from s.
func Render(s game.State) Snapshot {
	snap := Snapshot{
		Message:      s.Message,
		Attempts:     s.Attempts,
		Status:       s.Status,
		Feedback:     s.LastFeedback,
		Indicator:    IndicatorFor(s.LastFeedback),
		Control:      ControlFor(s.Status),
		InputEnabled: !s.Won(),
	}
	if s.Won() {
		snap.Target = s.Target
	}
	return snap
}

// Pulse describes the invalid-input effect.
type Pulse struct {
	DurationMs int64 `json:"durationMs"`
}

// PulseFor returns the pulse to emit for an outcome, or nil if none.
func PulseFor(out game.Outcome) *Pulse {
	if !out.Invalid {
		return nil
	}
	return &Pulse{DurationMs: PulseDuration.Milliseconds()}
}
