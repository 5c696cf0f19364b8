package mux

import (
	"net/http"

	gmux "github.com/gorilla/mux"

	"holdem-server/pkg/room"
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	dealer  *room.Dealer
}

// NewMux returns a new HTTP mux for the table run by the dealer
func NewMux(version string, dealer *room.Dealer) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		dealer:  dealer,
	}

	r := this.Router
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	r.Methods(http.MethodGet).Path("/table").Handler(this.getTable())
	r.Methods(http.MethodGet).Path("/table/ws").Handler(this.getTableWS())

	return this
}
