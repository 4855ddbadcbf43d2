// Package httpserver centralizes http.Server construction so every service
// gets the same timeouts.
package httpserver

import (
	"net/http"
	"time"
)

// New builds an http.Server with conservative timeouts for the given handler.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
