package texasholdem

import (
	"fmt"

	"holdem-server/pkg/deck"
)

// Player is a seat at the table
type Player struct {
	id   string
	name string

	chips      int
	currentBet int
	totalSpend int
	hand       deck.Hand

	folded bool
	active bool

	// seeded is true once the chips have been loaded from the balance store
	seeded bool
}

// PlayerSnapshot is the public view of a player
type PlayerSnapshot struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CurrentBet int    `json:"currentBet"`
	Chips      int    `json:"chips"`
	Folded     bool   `json:"folded"`
	Active     bool   `json:"active"`
}

func newPlayer(id, name string, chips int) *Player {
	return &Player{
		id:    id,
		name:  name,
		chips: chips,
	}
}

// ID returns the player's ID
func (p *Player) ID() string {
	return p.id
}

// Name returns the player's name
func (p *Player) Name() string {
	return p.name
}

// Chips returns the player's current chip count
func (p *Player) Chips() int {
	return p.chips
}

// inHand is true if the player can still act or win this hand
func (p *Player) inHand() bool {
	return p.active && !p.folded
}

// placeBet moves chips in front of the player
// callers validate the amount
func (p *Player) placeBet(amount int) {
	p.chips -= amount
	p.currentBet += amount
	p.totalSpend += amount
}

func (p *Player) fold() {
	p.folded = true
}

func (p *Player) resetBet() {
	p.currentBet = 0
}

func (p *Player) addChips(amount int) {
	p.chips += amount
}

func (p *Player) receiveHand(cards deck.Hand) error {
	if len(cards) != 2 {
		return fmt.Errorf("expected two cards, got %d", len(cards))
	}

	p.hand = cards
	return nil
}

// resetForHand readies the player for a new hand
func (p *Player) resetForHand() {
	p.hand = nil
	p.currentBet = 0
	p.totalSpend = 0
	p.folded = false
	p.active = true
}

// refund returns everything the player put in this hand
func (p *Player) refund() int {
	amount := p.totalSpend
	p.chips += amount
	p.currentBet = 0
	p.totalSpend = 0

	return amount
}

func (p *Player) snapshot() PlayerSnapshot {
	return PlayerSnapshot{
		ID:         p.id,
		Name:       p.name,
		CurrentBet: p.currentBet,
		Chips:      p.chips,
		Folded:     p.folded,
		Active:     p.active,
	}
}

func (p *Player) String() string {
	return fmt.Sprintf("%s (%s)", p.name, p.id)
}
