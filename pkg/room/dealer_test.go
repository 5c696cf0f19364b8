package room

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdem-server/pkg/deck"
	"holdem-server/pkg/texasholdem"
)

func TestDealer_AddClient(t *testing.T) {
	a := assert.New(t)
	d := newTestDealer(t, Options{Name: "test"})

	c := newTestClient(d)
	c2 := newTestClient(d)
	settle(t, d)

	a.Len(d.Clients(), 2)
	a.NotNil(find(drain(c), "gameState"))

	d.RemoveClient(c)
	settle(t, d)
	a.Equal([]*Client{c2}, d.Clients())
}

func TestDealer_betAndCall(t *testing.T) {
	a := assert.New(t)
	d := newTestDealer(t, Options{})
	clients := make(map[string]*Client)
	join(t, d, clients, "Alice", "Bob")

	alice := drain(clients["Alice"])
	bob := drain(clients["Bob"])
	a.NotNil(find(alice, "gameStarted"))
	a.NotNil(find(bob, "gameStarted"))
	if hand := find(alice, "hand"); a.NotNil(hand) {
		a.Equal("14s,13s", hand.Data.(deck.Hand).String())
	}

	if hand := find(bob, "hand"); a.NotNil(hand) {
		a.Equal("12s,11s", hand.Data.(deck.Hand).String())
	}

	send(clients["Alice"], "placeBet", AdditionalData{"amount": float64(100)})
	send(clients["Bob"], "call", nil)
	snap := settle(t, d)

	a.Equal(200, snap.Pot)
	a.Len(snap.CommunityCards, 3)

	alice = drain(clients["Alice"])
	bob = drain(clients["Bob"])
	a.Equal(OK("placeBet-ctx"), find(alice, "status"))
	a.Equal(OK("call-ctx"), find(bob, "status"))

	if bet := find(bob, "betPlaced"); a.NotNil(bet) {
		a.Equal(playerEvent{ID: clients["Alice"].ID, Name: "Alice", Amount: 100}, bet.Data)
	}

	if called := find(alice, "playerCalled"); a.NotNil(called) {
		a.Equal(playerEvent{ID: clients["Bob"].ID, Name: "Bob", Amount: 100}, called.Data)
	}

	if pot := find(alice, "totalPotUpdated"); a.NotNil(pot) {
		a.Equal(potEvent{Pot: 100}, pot.Data)
	}

	a.NotNil(find(alice, "log"))
}

func TestDealer_rejectedAction(t *testing.T) {
	a := assert.New(t)
	d := newTestDealer(t, Options{})
	clients := make(map[string]*Client)
	join(t, d, clients, "Alice", "Bob")
	drain(clients["Alice"])
	drain(clients["Bob"])

	send(clients["Bob"], "placeBet", AdditionalData{"amount": float64(100)})
	send(clients["Alice"], "placeBet", nil)
	send(clients["Alice"], "shuffle", nil)
	settle(t, d)

	bob := drain(clients["Bob"])
	a.Equal([]*Response{{Key: "error", Value: "it is not your turn", Context: "placeBet-ctx"}}, bob)

	alice := drain(clients["Alice"])
	a.Equal([]*Response{
		{Key: "error", Value: "amount is required", Context: "placeBet-ctx"},
		{Key: "error", Value: "unknown action", Context: "shuffle-ctx"},
	}, alice)
}

func TestDealer_queries(t *testing.T) {
	a := assert.New(t)
	d := newTestDealer(t, Options{})

	c := newTestClient(d)
	send(c, "getBalance", nil)
	settle(t, d)
	a.Equal("player is not seated at the table", find(drain(c), "error").Value)

	send(c, "joinGame", AdditionalData{"name": "  Alice "})
	send(c, "getBalance", nil)
	send(c, "getPlayerName", nil)
	settle(t, d)

	responses := drain(c)
	if res := find(responses, "balanceUpdated"); a.NotNil(res) {
		a.Equal(balanceEvent{Chips: 1000}, res.Data)
		a.Equal("getBalance-ctx", res.Context)
	}

	if res := find(responses, "playerName"); a.NotNil(res) {
		a.Equal("Alice", res.Value)
	}
}

func TestDealer_joinGame_spectator(t *testing.T) {
	a := assert.New(t)
	d := newTestDealer(t, Options{})
	clients := make(map[string]*Client)
	join(t, d, clients, "Alice", "Bob", "Carol")

	carol := drain(clients["Carol"])
	a.NotNil(find(carol, "info"))
	a.Nil(find(carol, "hand"))

	send(clients["Carol"], "joinGame", AdditionalData{"name": "Carol"})
	settle(t, d)
	a.Equal("player is already seated", find(drain(clients["Carol"]), "error").Value)
}

func TestDealer_dealCardsAndRestart(t *testing.T) {
	a := assert.New(t)
	d := newTestDealer(t, Options{})
	clients := make(map[string]*Client)
	join(t, d, clients, "Alice", "Bob")
	drain(clients["Bob"])

	send(clients["Alice"], "dealCards", nil)
	snap := settle(t, d)
	a.Len(snap.CommunityCards, 3)
	if dealt := find(drain(clients["Bob"]), "cardsDealt"); a.NotNil(dealt) {
		a.Equal("10s,9s,8s", dealt.Data.(deck.Hand).String())
	}

	send(clients["Alice"], "restartGame", nil)
	snap = settle(t, d)
	a.Equal(2, snap.HandNumber)
	a.Empty(snap.CommunityCards)

	bob := drain(clients["Bob"])
	a.NotNil(find(bob, "gameRestarted"))
	a.NotNil(find(bob, "gameStarted"))
	a.NotNil(find(bob, "hand"))
}

func TestDealer_disconnect(t *testing.T) {
	a := assert.New(t)
	d := newTestDealer(t, Options{})
	clients := make(map[string]*Client)
	join(t, d, clients, "Alice", "Bob")

	send(clients["Alice"], "placeBet", AdditionalData{"amount": float64(100)})
	settle(t, d)
	drain(clients["Bob"])

	d.RemoveClient(clients["Alice"])
	snap := settle(t, d)
	a.False(snap.Active)
	a.Len(snap.Players, 1)
	a.Equal(1100, snap.Players[0].Chips)

	bob := drain(clients["Bob"])
	a.NotNil(find(bob, "playerLeft"))
	if ended := find(bob, "gameEnded"); a.NotNil(ended) {
		result := ended.Data.(*texasholdem.HandResult)
		a.Equal(texasholdem.ReasonFold, result.Reason)
		a.Equal("Bob", result.Winners[0].Name)
	}
}

func TestDealer_turnTimeout(t *testing.T) {
	a := assert.New(t)
	mockClock := quartz.NewMock(t)
	d := newTestDealer(t, Options{TurnTimeout: 30 * time.Second, Clock: mockClock})
	clients := make(map[string]*Client)
	join(t, d, clients, "Alice", "Bob")
	drain(clients["Bob"])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mockClock.Advance(30 * time.Second).MustWait(ctx)

	snap := settle(t, d)
	require.False(t, snap.Active)
	a.Equal(1000, snap.Players[0].Chips)
	a.Equal(1000, snap.Players[1].Chips)

	bob := drain(clients["Bob"])
	if folded := find(bob, "playerFolded"); a.NotNil(folded) {
		a.Equal(playerEvent{ID: clients["Alice"].ID, Name: "Alice", Reason: "timeout"}, folded.Data)
	}

	a.NotNil(find(bob, "gameEnded"))
}

func TestDealer_turnTimeout_resetByAction(t *testing.T) {
	a := assert.New(t)
	mockClock := quartz.NewMock(t)
	d := newTestDealer(t, Options{TurnTimeout: 30 * time.Second, Clock: mockClock})
	clients := make(map[string]*Client)
	join(t, d, clients, "Alice", "Bob")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mockClock.Advance(20 * time.Second).MustWait(ctx)
	send(clients["Alice"], "call", nil)
	settle(t, d)

	// Alice's timer was stopped, Bob has the full 30 seconds
	mockClock.Advance(20 * time.Second).MustWait(ctx)
	snap := settle(t, d)
	a.True(snap.Active)
	a.Equal("Bob", snap.CurrentPlayer)

	mockClock.Advance(10 * time.Second).MustWait(ctx)
	snap = settle(t, d)
	a.False(snap.Active)
	a.Equal([]texasholdem.Winner{{ID: clients["Alice"].ID, Name: "Alice"}}, d.table.LastResult().Winners)
}

func TestDealer_joinGame_randomName(t *testing.T) {
	a := assert.New(t)
	d := newTestDealer(t, Options{})

	c := newTestClient(d)
	send(c, "joinGame", nil)
	send(c, "getPlayerName", nil)
	settle(t, d)

	responses := drain(c)
	if joined := find(responses, "playerJoined"); a.NotNil(joined) {
		a.Equal(playerEvent{ID: c.ID, Name: "Leaping Panda"}, joined.Data)
	}

	a.Equal("Leaping Panda", find(responses, "playerName").Value)
}

func TestDealer_joinGame_nameTaken(t *testing.T) {
	a := assert.New(t)
	d := newTestDealer(t, Options{})
	clients := make(map[string]*Client)
	join(t, d, clients, "Alice")
	drain(clients["Alice"])

	impostor := newTestClient(d)
	send(impostor, "joinGame", AdditionalData{"name": "Alice"})
	snap := settle(t, d)

	a.Len(snap.Players, 1)
	a.False(snap.Active)
	a.Equal(&Response{Key: "error", Value: "that name is already seated", Context: "joinGame-ctx"}, find(drain(impostor), "error"))
	a.Nil(find(drain(clients["Alice"]), "playerJoined"), "nothing is broadcast for a rejected join")
}

func TestDealer_EndShift_disconnectsClients(t *testing.T) {
	a := assert.New(t)
	d := newTestDealer(t, Options{})

	c := newTestClient(d)
	c2 := newTestClient(d)
	settle(t, d)

	d.EndShift()
	for _, client := range []*Client{c, c2} {
		select {
		case reason := <-client.CloseChan():
			a.Equal("the table is closed", reason)
		default:
			a.Fail("client was not disconnected")
		}
	}

	// later calls are ignored
	c.Disconnect("again")
	select {
	case reason := <-c.CloseChan():
		a.Fail("unexpected second disconnect", reason)
	default:
	}
}
