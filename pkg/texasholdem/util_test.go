package texasholdem

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"holdem-server/pkg/balance"
	"holdem-server/pkg/deck"
)

// identityGenerator never swaps, so a shuffled deck stays in canonical order
type identityGenerator struct{}

func (identityGenerator) Intn(n int) int {
	return n - 1
}

type failingStore struct {
	balance.Store
}

func (failingStore) GetBalance(context.Context, string) (int, error) {
	return 0, errors.New("connection refused")
}

// slowStore holds every balance update until release is closed
type slowStore struct {
	*balance.MemoryStore
	release chan struct{}
}

func (s slowStore) UpdateBalance(ctx context.Context, playerID string, amount int) (bool, error) {
	<-s.release
	return s.MemoryStore.UpdateBalance(ctx, playerID, amount)
}

func testOptions() Options {
	return Options{
		DefaultStake:   1000,
		AutoRestart:    false,
		BalanceTimeout: time.Second,
		RNG:            identityGenerator{},
	}
}

func newTestTable(t *testing.T, store balance.Store, opts Options) *Table {
	t.Helper()

	tbl, _ := newLoggedTable(t, store, opts)
	return tbl
}

// newLoggedTable returns a table along with a hook that captures its log entries
func newLoggedTable(t *testing.T, store balance.Store, opts Options) (*Table, *test.Hook) {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	tbl, err := NewTable(logger, store, opts)
	require.NoError(t, err)

	return tbl, hook
}

// findEntry returns the first log entry with the message
func findEntry(hook *test.Hook, msg string) *logrus.Entry {
	for _, entry := range hook.AllEntries() {
		if entry.Message == msg {
			return entry
		}
	}

	return nil
}

// newStartedTable seats players in order and returns the table with the first hand dealt
func newStartedTable(t *testing.T, store balance.Store, opts Options, names ...string) *Table {
	t.Helper()

	tbl := newTestTable(t, store, opts)
	for _, name := range names {
		_, err := tbl.Join(context.Background(), name, name)
		require.NoError(t, err)
	}

	require.True(t, tbl.IsActive())
	return tbl
}

// stackDeck makes the next draws come out in the order given
func stackDeck(tbl *Table, cards string) {
	drawOrder := deck.CardsFromString(cards)
	stacked := make([]*deck.Card, len(drawOrder))
	for i, c := range drawOrder {
		stacked[len(drawOrder)-1-i] = c
	}

	tbl.deck.Cards = stacked
}

func setHand(t *testing.T, tbl *Table, id string, cards string) {
	t.Helper()

	_, p, err := tbl.getPlayer(id)
	require.NoError(t, err)
	require.NoError(t, p.receiveHand(deck.CardsFromString(cards)))
}

// potIsConserved checks that every chip committed this hand is in the pot
func potIsConserved(tbl *Table) bool {
	total := tbl.forfeited
	for _, p := range tbl.players {
		total += p.totalSpend
	}

	return total == tbl.pot
}

func chips(t *testing.T, tbl *Table, id string) int {
	t.Helper()

	p, err := tbl.Player(id)
	require.NoError(t, err)
	return p.Chips
}
