package balance

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"holdem-server/pkg/db"
)

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()

	dbh, err := db.Open(db.DriverSQLite3, filepath.Join(t.TempDir(), "balances.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = dbh.Close()
	})

	migrations, err := filepath.Abs("../../sql")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(dbh, db.DriverSQLite3, migrations))

	return NewSQLStore(dbh)
}

func TestSQLStore(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()
	s := newSQLiteStore(t)

	amount, err := s.GetBalance(ctx, "alice")
	a.ErrorIs(err, ErrNotFound)
	a.Equal(0, amount)

	// creates the record
	ok, err := s.UpdateBalance(ctx, "alice", 1100)
	a.NoError(err)
	a.True(ok)

	amount, err = s.GetBalance(ctx, "alice")
	a.NoError(err)
	a.Equal(1100, amount)

	// updates the record
	ok, err = s.UpdateBalance(ctx, "alice", 850)
	a.NoError(err)
	a.True(ok)

	amount, err = s.GetBalance(ctx, "alice")
	a.NoError(err)
	a.Equal(850, amount)

	_, err = s.GetBalance(ctx, "bob")
	a.ErrorIs(err, ErrNotFound)
}
