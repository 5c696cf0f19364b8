package texasholdem

import "github.com/sirupsen/logrus"

// DealFlop reveals the first three community cards
func (t *Table) DealFlop() error {
	if !t.active {
		return ErrNoHandInProgress
	}

	return t.dealFlop()
}

// DealTurn reveals the fourth community card
func (t *Table) DealTurn() error {
	if !t.active {
		return ErrNoHandInProgress
	}

	return t.dealTurn()
}

// DealRiver reveals the fifth community card
func (t *Table) DealRiver() error {
	if !t.active {
		return ErrNoHandInProgress
	}

	return t.dealRiver()
}

// DealNext reveals whichever street comes next
func (t *Table) DealNext() error {
	if !t.active {
		return ErrNoHandInProgress
	}

	switch len(t.community) {
	case 0:
		return t.dealFlop()
	case 3:
		return t.dealTurn()
	case 4:
		return t.dealRiver()
	}

	return ErrAlreadyDealt
}

func (t *Table) dealFlop() error {
	if len(t.community) > 0 {
		return ErrAlreadyDealt
	}

	return t.dealCommunity(3, "flop")
}

func (t *Table) dealTurn() error {
	switch {
	case len(t.community) < 3:
		return ErrDealOutOfOrder
	case len(t.community) > 3:
		return ErrAlreadyDealt
	}

	return t.dealCommunity(1, "turn")
}

func (t *Table) dealRiver() error {
	switch {
	case len(t.community) < 4:
		return ErrDealOutOfOrder
	case len(t.community) > 4:
		return ErrAlreadyDealt
	}

	return t.dealCommunity(1, "river")
}

func (t *Table) dealCommunity(n int, street string) error {
	cards, err := t.draw(n)
	if err != nil {
		return t.abortHand(err)
	}

	t.community = append(t.community, cards...)
	t.logger.WithFields(logrus.Fields{
		"hand":      t.handNumber,
		"community": t.community.String(),
	}).Debug("dealt the " + street)

	return nil
}
