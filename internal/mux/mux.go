package mux

import (
	"net/http"

	"blackjack-server/pkg/room"
	"blackjack-server/pkg/table"

	gmux "github.com/gorilla/mux"
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version  string
	pitBoss  *room.PitBoss
	registry *table.Registry
}

// NewMux returns a new HTTP mux
func NewMux(version string, pitBoss *room.PitBoss) *Mux {
	this := &Mux{
		Router:   gmux.NewRouter(),
		version:  version,
		pitBoss:  pitBoss,
		registry: pitBoss.Registry(),
	}

	r := this.Router
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	r.Methods(http.MethodGet).Path("/table").Handler(this.getTable())
	r.Methods(http.MethodPost).Path("/table").Handler(this.postTable())
	r.Methods(http.MethodGet).Path("/table/{id:[A-Za-z0-9_-]+}/ws").Handler(this.getTableIDWS())

	return this
}
