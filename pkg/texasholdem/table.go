package texasholdem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"holdem-server/internal/rng"
	"holdem-server/pkg/balance"
	"holdem-server/pkg/deck"
)

// MaxSeats is the most players a single deck can serve: two hole cards each plus a full board
const MaxSeats = (deck.Size - 5) / 2

// limits the number of balance lookups in flight when a hand starts
const seedConcurrency = 8

// Options configures the table
type Options struct {
	// DefaultStake is the chip count given to a player with no stored balance
	DefaultStake int

	// AutoRestart starts the next hand as soon as one ends
	AutoRestart bool

	// BalanceTimeout bounds every balance store call, zero means no deadline
	BalanceTimeout time.Duration

	RNG rng.Generator
}

// DefaultOptions returns the default table options
func DefaultOptions() Options {
	return Options{
		DefaultStake:   1000,
		AutoRestart:    true,
		BalanceTimeout: 5 * time.Second,
		RNG:            rng.Crypto{},
	}
}

func validateOptions(opts Options) error {
	if opts.DefaultStake < 0 {
		return errors.New("default stake must be >= 0")
	}

	if opts.BalanceTimeout < 0 {
		return errors.New("balance timeout must be >= 0")
	}

	if opts.RNG == nil {
		return errors.New("a random number generator is required")
	}

	return nil
}

// Table is a single Texas Hold'em table
// A Table is not safe for concurrent use, the caller serializes access.
type Table struct {
	logger  logrus.FieldLogger
	store   balance.Store
	writer  *balance.Writer
	options Options

	deck       *deck.Deck
	players    []*Player
	community  deck.Hand
	pot        int
	currentBet int
	round      Round
	active     bool

	// turn is the index into players of the player who acts next
	turn int

	// actions is the number of actions taken this round
	actions int

	// forfeited is the amount in the pot that belongs to players who left mid-hand
	forfeited int

	handNumber int
	lastResult *HandResult
}

// NewTable returns an empty table
func NewTable(logger logrus.FieldLogger, store balance.Store, opts Options) (*Table, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	if store == nil {
		return nil, errors.New("a balance store is required")
	}

	return &Table{
		logger:    logger,
		store:     store,
		writer:    balance.NewWriter(logger.WithField("component", "balance-writer"), store, opts.BalanceTimeout),
		options:   opts,
		deck:      deck.New(),
		players:   make([]*Player, 0),
		community: make(deck.Hand, 0, 5),
	}, nil
}

// Close waits for pending balance updates to be written
func (t *Table) Close() {
	t.writer.Close()
}

// Join seats a new player
// If a hand is in progress the player sits out until the next one. If the
// table is waiting and has at least two players, a hand is started.
func (t *Table) Join(ctx context.Context, id, name string) (*Player, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	if _, _, err := t.getPlayer(id); err == nil {
		return nil, ErrAlreadySeated
	}

	// balances are stored by name, so a name can only hold one seat
	for _, p := range t.players {
		if p.name == name {
			return nil, ErrNameTaken
		}
	}

	if len(t.players) >= MaxSeats {
		return nil, ErrTableFull
	}

	p := newPlayer(id, name, t.options.DefaultStake)
	t.players = append(t.players, p)

	log := t.logger.WithField("player", p.String())
	if t.active {
		log.Info("player joined as a spectator")
		return p, nil
	}

	log.Info("player joined")
	if len(t.players) < 2 {
		return p, nil
	}

	if err := t.StartHand(ctx); err != nil {
		return p, err
	}

	return p, nil
}

// Leave removes the player from the table
// Chips the player already put in the pot stay there.
func (t *Table) Leave(id string) (*Player, error) {
	idx, p, err := t.getPlayer(id)
	if err != nil {
		return nil, err
	}

	inHand := t.active && p.inHand()
	if t.active && p.active {
		t.forfeited += p.totalSpend
	}

	wasTurn := t.active && idx == t.turn
	t.players = append(t.players[:idx], t.players[idx+1:]...)
	if idx < t.turn || wasTurn {
		t.turn--
	}

	t.logger.WithFields(logrus.Fields{
		"player": p.String(),
		"chips":  p.chips,
	}).Info("player left")

	if p.seeded {
		t.writer.Enqueue(balance.Update{PlayerID: p.name, Amount: p.chips})
	}

	if !t.active {
		if t.turn < 0 {
			t.turn = 0
		}

		return p, nil
	}

	contenders := t.contenders()
	if len(contenders) == 1 {
		return p, t.winByFold(contenders[0])
	}

	if !inHand {
		return p, nil
	}

	if wasTurn {
		return p, t.advanceTurn()
	}

	return p, nil
}

// StartHand seeds chips, shuffles and deals a new hand
func (t *Table) StartHand(ctx context.Context) error {
	if t.active {
		return ErrHandInProgress
	}

	if len(t.players) < 2 {
		return ErrNotEnoughPlayers
	}

	t.seedChips(ctx)
	t.resetHand()

	t.active = true
	t.handNumber++
	t.deck.Shuffle(t.options.RNG)
	deckHash := t.deck.HashCode()

	for _, p := range t.players {
		cards, err := t.draw(2)
		if err != nil {
			return t.abortHand(err)
		}

		if err := p.receiveHand(cards); err != nil {
			return t.abortHand(err)
		}
	}

	t.logger.WithFields(logrus.Fields{
		"hand":    t.handNumber,
		"players": len(t.players),
		"deck":    deckHash,
	}).Info("hand started")

	return nil
}

// Restart abandons the current hand, if any, and starts over
// Chips committed to an abandoned hand are returned to their owners. Chips
// forfeited by players who already left are not returned to anyone.
func (t *Table) Restart(ctx context.Context) error {
	if t.active {
		for _, p := range t.players {
			p.refund()
		}

		t.dropForfeited()

		t.active = false
		t.logger.WithField("hand", t.handNumber).Info("hand abandoned for restart")
	}

	t.resetHand()
	return t.StartHand(ctx)
}

// resetHand clears the hand but keeps every seat
func (t *Table) resetHand() {
	for _, p := range t.players {
		p.resetForHand()
	}

	t.community = make(deck.Hand, 0, 5)
	t.pot = 0
	t.forfeited = 0
	t.currentBet = 0
	t.actions = 0
	t.turn = 0
	t.round = RoundPreFlop
}

// seedChips loads every unseeded player's chips from the balance store
// Seats keep their in-memory stack for later hands.
// Lookups run concurrently and are committed once all of them finish. A
// failed lookup falls back to the default stake.
func (t *Table) seedChips(ctx context.Context) {
	pending := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		if !p.seeded {
			pending = append(pending, p)
		}
	}

	if len(pending) == 0 {
		return
	}

	chips := make([]int, len(pending))

	var g errgroup.Group
	g.SetLimit(seedConcurrency)
	for i, p := range pending {
		g.Go(func() error {
			chips[i] = t.lookupBalance(ctx, p)
			return nil
		})
	}

	_ = g.Wait()

	for i, p := range pending {
		p.chips = chips[i]
		p.seeded = true
	}
}

func (t *Table) lookupBalance(ctx context.Context, p *Player) int {
	if t.options.BalanceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.options.BalanceTimeout)
		defer cancel()
	}

	// a queued write is newer than anything the store has
	if amount, ok := t.writer.Pending(p.name); ok {
		return amount
	}

	amount, err := t.store.GetBalance(ctx, p.name)
	if err != nil {
		if !errors.Is(err, balance.ErrNotFound) {
			t.logger.WithError(err).WithField("player", p.String()).Error("could not load balance, using the default stake")
		}

		return t.options.DefaultStake
	}

	return amount
}

// draw takes n cards from the deck
// nothing is taken if the deck cannot supply all of them
func (t *Table) draw(n int) (deck.Hand, error) {
	if !t.deck.CanDraw(n) {
		return nil, deck.ErrEndOfDeck
	}

	cards := make(deck.Hand, 0, n)
	for i := 0; i < n; i++ {
		card, err := t.deck.Draw()
		if err != nil {
			return nil, err
		}

		cards = append(cards, card)
	}

	return cards, nil
}

// abortHand ends the hand without a winner and refunds every contribution
func (t *Table) abortHand(cause error) error {
	refunded := 0
	for _, p := range t.players {
		refunded += p.refund()
		p.hand = nil
	}

	t.dropForfeited()

	t.lastResult = &HandResult{
		HandNumber: t.handNumber,
		Reason:     ReasonAborted,
		Pot:        t.pot,
		Winners:    []Winner{},
	}

	t.pot = 0
	t.currentBet = 0
	t.active = false

	t.logger.WithError(cause).WithFields(logrus.Fields{
		"hand":     t.handNumber,
		"refunded": refunded,
	}).Error("hand aborted")

	return fmt.Errorf("hand %d aborted: %w: %v", t.handNumber, ErrOutOfCards, cause)
}

// dropForfeited discards the chips left in the pot by players who are gone
func (t *Table) dropForfeited() {
	if t.forfeited > 0 {
		t.logger.WithFields(logrus.Fields{
			"hand":   t.handNumber,
			"amount": t.forfeited,
		}).Warn("forfeited chips are not refunded")
	}

	t.forfeited = 0
}

// getPlayer returns the seat index and player
func (t *Table) getPlayer(id string) (int, *Player, error) {
	for i, p := range t.players {
		if p.id == id {
			return i, p, nil
		}
	}

	return -1, nil, ErrPlayerNotFound
}

// contenders returns the players who can still win the pot, in seat order
func (t *Table) contenders() []*Player {
	players := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		if p.inHand() {
			players = append(players, p)
		}
	}

	return players
}

// IsActive returns true if a hand is in progress
func (t *Table) IsActive() bool {
	return t.active
}

// HandNumber returns the number of hands started at this table
func (t *Table) HandNumber() int {
	return t.handNumber
}

// CurrentTurn returns the ID of the player who acts next
func (t *Table) CurrentTurn() (string, bool) {
	if !t.active || t.turn < 0 || t.turn >= len(t.players) {
		return "", false
	}

	return t.players[t.turn].id, true
}

// Player returns the public view of a seated player
func (t *Table) Player(id string) (PlayerSnapshot, error) {
	_, p, err := t.getPlayer(id)
	if err != nil {
		return PlayerSnapshot{}, err
	}

	return p.snapshot(), nil
}

// HoleCards returns the player's own cards
func (t *Table) HoleCards(id string) (deck.Hand, error) {
	_, p, err := t.getPlayer(id)
	if err != nil {
		return nil, err
	}

	return p.hand.Clone(), nil
}

// LastResult returns the outcome of the most recently finished hand
func (t *Table) LastResult() *HandResult {
	return t.lastResult
}
