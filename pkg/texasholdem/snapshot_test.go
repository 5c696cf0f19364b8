package texasholdem

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"holdem-server/pkg/balance"
	"holdem-server/pkg/snapshot"
)

func TestTable_Snapshot(t *testing.T) {
	tbl := newStartedTable(t, balance.NewMemoryStore(), testOptions(), "a", "b")
	defer tbl.Close()

	assert.NoError(t, tbl.PlaceBet("a", 100))
	snapshot.ValidateSnapshot(t, tbl.Snapshot(), 0)
}

func TestTable_Snapshot_hidesHoleCards(t *testing.T) {
	a := assert.New(t)
	tbl := newStartedTable(t, balance.NewMemoryStore(), testOptions(), "a", "b")
	defer tbl.Close()

	data, err := json.Marshal(tbl.Snapshot())
	a.NoError(err)
	a.NotContains(string(data), `"rank":14`)
	a.Contains(string(data), `"communityCards":[]`)
	a.Contains(string(data), `"currentPlayer":"a"`)
}

func TestRound_MarshalJSON(t *testing.T) {
	a := assert.New(t)
	data, err := json.Marshal(RoundRiver)
	a.NoError(err)
	a.JSONEq(`{"id":3,"name":"river"}`, string(data))
	a.Panics(func() {
		_ = Round(9).String()
	})
}
