package httpserver

import (
	"net/http"
	"time"
)

// New returns the onboarding API server. Header read and idle timeouts are
// fixed here so every deployment gets the same slow-client protection.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
