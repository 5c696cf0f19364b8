package texasholdem

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// PlaceBet puts amount chips from the player into the pot
func (t *Table) PlaceBet(id string, amount int) error {
	p, err := t.playerToAct(id)
	if err != nil {
		return err
	}

	if amount <= 0 {
		return ErrInvalidAmount
	}

	if amount > p.chips {
		return ErrInsufficientChips
	}

	t.bet(p, amount)
	t.logger.WithFields(logrus.Fields{
		"player": p.String(),
		"amount": amount,
		"pot":    t.pot,
		"round":  t.round.String(),
	}).Debug("bet placed")

	return t.advanceTurn()
}

// Call matches the current bet
// If the player owes nothing the call is a check.
func (t *Table) Call(id string) error {
	p, err := t.playerToAct(id)
	if err != nil {
		return err
	}

	owed := t.currentBet - p.currentBet
	if owed <= 0 {
		t.actions++
		t.logger.WithFields(logrus.Fields{
			"player": p.String(),
			"round":  t.round.String(),
		}).Debug("player checked")

		return t.advanceTurn()
	}

	return t.PlaceBet(id, owed)
}

// Raise adds delta chips on top of the player's current bet
func (t *Table) Raise(id string, delta int) error {
	p, err := t.playerToAct(id)
	if err != nil {
		return err
	}

	if delta <= 0 {
		return ErrInvalidAmount
	}

	if p.currentBet+delta > p.chips {
		return ErrInsufficientChips
	}

	return t.PlaceBet(id, delta)
}

// Fold gives up the hand
// If only one player remains they win the pot.
func (t *Table) Fold(id string) error {
	p, err := t.playerToAct(id)
	if err != nil {
		return err
	}

	p.fold()
	t.logger.WithFields(logrus.Fields{
		"player": p.String(),
		"round":  t.round.String(),
	}).Debug("player folded")

	if contenders := t.contenders(); len(contenders) == 1 {
		return t.winByFold(contenders[0])
	}

	return t.advanceTurn()
}

// playerToAct returns the player if it is their turn to act
func (t *Table) playerToAct(id string) (*Player, error) {
	if !t.active {
		return nil, ErrNoHandInProgress
	}

	_, p, err := t.getPlayer(id)
	if err != nil {
		return nil, err
	}

	if current, ok := t.CurrentTurn(); !ok || current != id {
		return nil, ErrNotYourTurn
	}

	return p, nil
}

func (t *Table) bet(p *Player, amount int) {
	p.placeBet(amount)
	t.pot += amount
	if p.currentBet > t.currentBet {
		t.currentBet = p.currentBet
	}

	t.actions++
}

// advanceTurn moves to the next player still in the hand, then completes
// the round once every one of them has acted
func (t *Table) advanceTurn() error {
	contenders := t.contenders()
	if len(contenders) == 0 {
		return nil
	}

	n := len(t.players)
	for i := 1; i <= n; i++ {
		idx := (t.turn + i) % n
		if t.players[idx].inHand() {
			t.turn = idx
			break
		}
	}

	if t.actions >= len(contenders) {
		return t.nextRound()
	}

	return nil
}

// nextRound resets the bets and deals the next street
func (t *Table) nextRound() error {
	t.round++
	t.actions = 0
	t.currentBet = 0
	for _, p := range t.players {
		p.resetBet()
	}

	t.logger.WithFields(logrus.Fields{
		"hand":  t.handNumber,
		"round": t.round.String(),
		"pot":   t.pot,
	}).Info("betting round complete")

	var err error
	switch t.round {
	case RoundFlop:
		err = t.dealFlop()
	case RoundTurn:
		err = t.dealTurn()
	case RoundRiver:
		err = t.dealRiver()
	default:
		return t.showdown()
	}

	if errors.Is(err, ErrAlreadyDealt) {
		return nil
	}

	return err
}
