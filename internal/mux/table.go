package mux

import (
	"net/http"
)

// getTable returns the public state of the table
func (m *Mux) getTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := m.dealer.Snapshot(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, err)
			return
		}

		writeJSON(w, http.StatusOK, snap)
	}
}
