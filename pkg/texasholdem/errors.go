package texasholdem

import "errors"

// UserError is an error that is safe to return in a response
type UserError string

func (u UserError) Error() string {
	return string(u)
}

// errors returned when an action is rejected
// a rejected action never changes the table
const (
	ErrNoHandInProgress  = UserError("no hand is in progress")
	ErrHandInProgress    = UserError("a hand is already in progress")
	ErrNotEnoughPlayers  = UserError("at least two players are required")
	ErrNotYourTurn       = UserError("it is not your turn")
	ErrPlayerNotFound    = UserError("player is not seated at the table")
	ErrAlreadySeated     = UserError("player is already seated")
	ErrNameTaken         = UserError("that name is already seated")
	ErrTableFull         = UserError("the table is full")
	ErrNameRequired      = UserError("a name is required")
	ErrInvalidAmount     = UserError("amount must be greater than zero")
	ErrInsufficientChips = UserError("insufficient chips")
	ErrAlreadyDealt      = UserError("those cards have already been dealt")
	ErrDealOutOfOrder    = UserError("the previous cards have not been dealt")
)

// ErrOutOfCards is returned when the deck runs dry in the middle of a hand
// The hand is aborted and every contribution is refunded.
var ErrOutOfCards = errors.New("out of cards")
