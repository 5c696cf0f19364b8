package texasholdem

import (
	"encoding/json"
	"fmt"
)

// Round is the betting round of the current hand
type Round int

// Round constants
const (
	RoundPreFlop Round = iota
	RoundFlop
	RoundTurn
	RoundRiver
	RoundShowdown
)

func (r Round) String() string {
	switch r {
	case RoundPreFlop:
		return "pre-flop"
	case RoundFlop:
		return "flop"
	case RoundTurn:
		return "turn"
	case RoundRiver:
		return "river"
	case RoundShowdown:
		return "showdown"
	}

	panic(fmt.Sprintf("unknown round: %d", r))
}

// MarshalJSON encodes the round with both its number and name
func (r Round) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(r),
		Name: r.String(),
	})
}
