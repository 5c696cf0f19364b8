package texasholdem

import "holdem-server/pkg/deck"

// Snapshot is the public state of the table
type Snapshot struct {
	Players        []PlayerSnapshot `json:"players"`
	Pot            int              `json:"pot"`
	CurrentBet     int              `json:"currentBet"`
	CommunityCards deck.Hand        `json:"communityCards"`
	CurrentPlayer  string           `json:"currentPlayer"`
	Round          Round            `json:"round"`
	Active         bool             `json:"active"`
	HandNumber     int              `json:"handNumber"`
}

// Snapshot returns the public state of the table
// Hole cards are never included.
func (t *Table) Snapshot() Snapshot {
	players := make([]PlayerSnapshot, len(t.players))
	for i, p := range t.players {
		players[i] = p.snapshot()
	}

	currentPlayer := ""
	if id, ok := t.CurrentTurn(); ok {
		_, p, _ := t.getPlayer(id)
		currentPlayer = p.name
	}

	return Snapshot{
		Players:        players,
		Pot:            t.pot,
		CurrentBet:     t.currentBet,
		CommunityCards: t.community.Clone(),
		CurrentPlayer:  currentPlayer,
		Round:          t.round,
		Active:         t.active,
		HandNumber:     t.handNumber,
	}
}
