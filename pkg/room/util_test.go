package room

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"holdem-server/pkg/balance"
	"holdem-server/pkg/texasholdem"
)

type identityGenerator struct{}

func (identityGenerator) Intn(n int) int {
	return n - 1
}

func newTestDealer(t *testing.T, opts Options) *Dealer {
	t.Helper()

	logger, _ := test.NewNullLogger()
	tbl, err := texasholdem.NewTable(logger, balance.NewMemoryStore(), texasholdem.Options{
		DefaultStake:   1000,
		BalanceTimeout: time.Second,
		RNG:            identityGenerator{},
	})
	require.NoError(t, err)

	if opts.RNG == nil {
		opts.RNG = identityGenerator{}
	}

	d := NewDealer(logger, tbl, opts)
	d.StartShift()
	t.Cleanup(d.EndShift)

	return d
}

// settle waits for everything queued on the run loop to finish
func settle(t *testing.T, d *Dealer) texasholdem.Snapshot {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snap, err := d.Snapshot(ctx)
	require.NoError(t, err)
	return snap
}

func newTestClient(d *Dealer) *Client {
	c := NewClient(nil)
	d.AddClient(c)
	return c
}

func send(c *Client, action string, data AdditionalData) {
	c.ReceivedMessage(&PayloadIn{
		Action:         action,
		AdditionalData: data,
		Context:        action + "-ctx",
	})
}

// drain returns every message waiting for the client
func drain(c *Client) []*Response {
	responses := make([]*Response, 0)
	for {
		select {
		case msg := <-c.SendChan():
			responses = append(responses, msg.(*Response))
		default:
			return responses
		}
	}
}

func find(responses []*Response, key string) *Response {
	for _, res := range responses {
		if res.Key == key {
			return res
		}
	}

	return nil
}

// join seats the clients in order, returning once the run loop is idle
func join(t *testing.T, d *Dealer, clients map[string]*Client, names ...string) {
	t.Helper()

	for _, name := range names {
		c := newTestClient(d)
		clients[name] = c
		send(c, "joinGame", AdditionalData{"name": name})
	}

	settle(t, d)
}
