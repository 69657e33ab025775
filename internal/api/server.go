package api

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

const apiPrefix = "/chat/api/v1"

// Options wires the server's collaborators.
type Options struct {
	Port      string
	Validator Validator
	Logger    zerolog.Logger
	// Metrics is served on /metrics when set.
	Metrics http.Handler
}

// NewServer creates an HTTP server with versioned API routing and auth middleware.
func NewServer(opts Options) *http.Server {
	return &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%s", opts.Port),
		Handler: newHandler(opts),
	}
}

func newHandler(opts Options) http.Handler {
	mux := http.NewServeMux()
	registerRoutes(mux, opts)
	return requestIDMiddleware(loggerMiddleware(opts.Logger)(mux))
}
