package mux

import "net/http"

type postTablePayload struct {
	Type       string `json:"type"`
	CustomName string `json:"customName"`
}

// getTable lists the public tables with a free seat
func (m *Mux) getTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, m.registry.List())
	}
}

// postTable registers a table. A custom name makes it private.
func (m *Mux) postTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload postTablePayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		info := m.registry.Create(payload.Type, payload.CustomName)
		writeJSON(w, http.StatusCreated, info)
	}
}
