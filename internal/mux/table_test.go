package mux

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type tableResponse struct {
	Players        []map[string]interface{} `json:"players"`
	Pot            int                      `json:"pot"`
	CommunityCards []interface{}            `json:"communityCards"`
	CurrentPlayer  string                   `json:"currentPlayer"`
	Round          struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"round"`
	Active bool `json:"active"`
}

func TestMux_getTable(t *testing.T) {
	a := assert.New(t)
	ts := httptest.NewServer(newTestMux(t, ""))
	defer ts.Close()

	var resp tableResponse
	assertGet(t, ts, "/table", &resp, 200)
	a.Empty(resp.Players)
	a.Equal(0, resp.Pot)
	a.NotNil(resp.CommunityCards)
	a.Equal("pre-flop", resp.Round.Name)
	a.False(resp.Active)

	assertGet(t, ts, "/tables", nil, 404)
}
