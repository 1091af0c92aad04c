// internal/game/messages.go
//
// Fixed display strings for every game transition.

package game

import "fmt"

// Fixed display strings.
const (
	MsgWelcome = "Welcome! Guess a number between 1 and 100"
	MsgInvalid = "Please enter a valid number between 1 and 100"
	MsgTooLow  = "Your guess is too low! Try again"
	MsgTooHigh = "Your guess is too high! Try again"
)

// winMessage is parameterized by the target and the final attempt count.
func winMessage(target, attempts int) string {
	return fmt.Sprintf("Congratulations! You guessed the correct number %d in %d attempts", target, attempts)
}
