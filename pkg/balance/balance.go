package balance

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a player does not have a stored balance
var ErrNotFound = errors.New("balance not found")

// Store persists player balances between hands
type Store interface {
	// GetBalance returns the stored balance for the player
	// If the player is unknown, ErrNotFound is returned
	GetBalance(ctx context.Context, playerID string) (int, error)

	// UpdateBalance sets the stored balance for the player, creating the record if needed
	UpdateBalance(ctx context.Context, playerID string, amount int) (bool, error)
}

// Update is a single balance write
type Update struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
}
