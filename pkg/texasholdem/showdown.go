package texasholdem

import (
	"context"

	"github.com/sirupsen/logrus"

	"holdem-server/pkg/balance"
	"holdem-server/pkg/deck"
	"holdem-server/pkg/poker"
)

// Reason explains how a hand ended
type Reason string

// Reason constants
const (
	ReasonFold     Reason = "fold"
	ReasonShowdown Reason = "showdown"
	ReasonAborted  Reason = "aborted"
)

// HandResult is the outcome of a finished hand
type HandResult struct {
	HandNumber int        `json:"handNumber"`
	Reason     Reason     `json:"reason"`
	Pot        int        `json:"pot"`
	Winners    []Winner   `json:"winners"`
	Hands      []Revealed `json:"hands,omitempty"`
}

// Winner is a player who took some or all of the pot
type Winner struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

// Revealed is a hand shown at showdown
type Revealed struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Cards    deck.Hand `json:"cards"`
	Best     deck.Hand `json:"best"`
	Category string    `json:"category"`
}

// showdown compares the hands still in play and pays the best of them
func (t *Table) showdown() error {
	t.round = RoundShowdown

	contenders := make([]*Player, 0, len(t.players))
	ranks := make([]poker.HandRank, 0, len(t.players))
	revealed := make([]Revealed, 0, len(t.players))
	for _, p := range t.players {
		if !p.inHand() || len(p.hand) == 0 {
			continue
		}

		rank := poker.Evaluate(p.hand, t.community)
		contenders = append(contenders, p)
		ranks = append(ranks, rank)
		revealed = append(revealed, Revealed{
			ID:       p.id,
			Name:     p.name,
			Cards:    p.hand.Clone(),
			Best:     rank.Cards,
			Category: rank.Category.String(),
		})
	}

	if len(contenders) == 0 {
		// everybody left, nothing to award
		return t.endHand(ReasonShowdown, nil, nil)
	}

	best := ranks[0]
	for _, rank := range ranks[1:] {
		if poker.Compare(rank, best) > 0 {
			best = rank
		}
	}

	winners := make([]*Player, 0, 1)
	for i, rank := range ranks {
		if poker.Compare(rank, best) == 0 {
			winners = append(winners, contenders[i])
		}
	}

	return t.endHand(ReasonShowdown, winners, revealed)
}

// winByFold pays the whole pot to the last player standing
func (t *Table) winByFold(winner *Player) error {
	return t.endHand(ReasonFold, []*Player{winner}, nil)
}

// endHand splits the pot between the winners, persists the chip counts and
// starts the next hand when the table restarts automatically
func (t *Table) endHand(reason Reason, winners []*Player, revealed []Revealed) error {
	result := &HandResult{
		HandNumber: t.handNumber,
		Reason:     reason,
		Pot:        t.pot,
		Winners:    make([]Winner, 0, len(winners)),
		Hands:      revealed,
	}

	for i, amount := range splitPot(t.pot, len(winners)) {
		w := winners[i]
		w.addChips(amount)
		result.Winners = append(result.Winners, Winner{ID: w.id, Name: w.name, Amount: amount})

		t.logger.WithFields(logrus.Fields{
			"hand":   t.handNumber,
			"player": w.String(),
			"amount": amount,
			"reason": string(reason),
		}).Info("player won")
	}

	updates := make([]balance.Update, 0, len(t.players))
	for _, p := range t.players {
		if p.active {
			updates = append(updates, balance.Update{PlayerID: p.name, Amount: p.chips})
		}
	}

	t.writer.Enqueue(updates...)

	t.lastResult = result
	t.pot = 0
	t.forfeited = 0
	t.currentBet = 0
	t.active = false

	if !t.options.AutoRestart || len(t.players) < 2 {
		return nil
	}

	t.resetHand()
	return t.StartHand(context.Background())
}

// splitPot divides the pot evenly, the odd chips go one each to the first winners
func splitPot(pot, winners int) []int {
	if winners == 0 {
		return nil
	}

	shares := make([]int, winners)
	for i := range shares {
		shares[i] = pot / winners
		if i < pot%winners {
			shares[i]++
		}
	}

	return shares
}
