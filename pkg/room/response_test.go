package room

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"holdem-server/pkg/texasholdem"
)

func TestAdditionalData(t *testing.T) {
	a := assert.New(t)
	data := AdditionalData{
		"amount": float64(150),
		"name":   "Alice",
	}

	amount, ok := data.GetInt("amount")
	a.True(ok)
	a.Equal(150, amount)

	_, ok = data.GetInt("name")
	a.False(ok)

	name, ok := data.GetString("name")
	a.True(ok)
	a.Equal("Alice", name)

	_, ok = AdditionalData(nil).GetString("name")
	a.False(ok)
}

func TestOK(t *testing.T) {
	a := assert.New(t)
	a.Equal(&Response{Key: "status", Value: "OK"}, OK())
	a.Equal(&Response{Key: "status", Value: "OK", Context: "abc"}, OK("abc"))
}

func Test_isUserError(t *testing.T) {
	a := assert.New(t)
	a.True(isUserError(texasholdem.ErrNotYourTurn))
	a.True(isUserError(fmt.Errorf("wrapped: %w", texasholdem.ErrInvalidAmount)))
	a.False(isUserError(texasholdem.ErrOutOfCards))
	a.False(isUserError(errors.New("boom")))
}
