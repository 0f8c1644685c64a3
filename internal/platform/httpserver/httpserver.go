package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with sane defaults. The engine only uses this
// for the metrics endpoint; there is no application API surface.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
