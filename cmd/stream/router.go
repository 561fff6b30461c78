package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"solana-trade-stream/internal/vybe"
)

// status is the subset of the client exposed on /state.
type status interface {
	State() vybe.State
	Attempts() int64
	AttemptID() string
	Reconnecting() bool
}

type stateResponse struct {
	State        string `json:"state"`
	Attempts     int64  `json:"attempts"`
	AttemptID    string `json:"attempt_id,omitempty"`
	Reconnecting bool   `json:"reconnecting"`
}

func newRouter(client status, metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stateResponse{
			State:        client.State().String(),
			Attempts:     client.Attempts(),
			AttemptID:    client.AttemptID(),
			Reconnecting: client.Reconnecting(),
		})
	})

	return r
}
