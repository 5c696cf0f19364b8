package balance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()
	s := NewMemoryStore()

	amount, err := s.GetBalance(ctx, "alice")
	a.ErrorIs(err, ErrNotFound)
	a.Equal(0, amount)

	ok, err := s.UpdateBalance(ctx, "alice", 900)
	a.NoError(err)
	a.True(ok)

	amount, err = s.GetBalance(ctx, "alice")
	a.NoError(err)
	a.Equal(900, amount)
}
