// Package health provides readiness tracking and HTTP probe handlers for the
// HTTP transport.
package health

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// Readiness states.
const (
	stateStarting int32 = iota
	stateReady
	stateDraining
)

// Checker tracks server readiness. It is safe for concurrent use.
type Checker struct {
	state atomic.Int32
}

// NewChecker creates a Checker in the starting state.
func NewChecker() *Checker {
	return &Checker{}
}

// SetReady marks the server ready to accept requests.
func (c *Checker) SetReady() {
	c.state.Store(stateReady)
}

// SetDraining marks the server as shutting down.
func (c *Checker) SetDraining() {
	c.state.Store(stateDraining)
}

// IsReady reports whether the server is ready.
func (c *Checker) IsReady() bool {
	return c.state.Load() == stateReady
}

// State returns the current state as a human-readable string.
func (c *Checker) State() string {
	switch c.state.Load() {
	case stateReady:
		return "ready"
	case stateDraining:
		return "draining"
	default:
		return "starting"
	}
}

// Register mounts the probe endpoints on the mux: /healthz always answers
// 200, /readyz answers 200 only in the ready state.
func (c *Checker) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		code := http.StatusOK
		if !c.IsReady() {
			code = http.StatusServiceUnavailable
		}
		writeStatus(w, code, c.State())
	})
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}
