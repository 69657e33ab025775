package api

import "net/http"

// registerRoutes sets up all API v1 routes with auth middleware.
func registerRoutes(mux *http.ServeMux, opts Options) {
	v1 := http.NewServeMux()

	v1.HandleFunc("GET /session", handleSession)
	v1.HandleFunc("POST /messages", handleMessage)

	mux.Handle(apiPrefix+"/", authMiddleware(opts.Validator, opts.Logger,
		http.StripPrefix(apiPrefix, v1)))

	// No auth required
	mux.HandleFunc("GET /healthz", handleHealth)
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}
	mux.HandleFunc("GET "+apiPrefix+"/docs", handleDocs)
	mux.HandleFunc("GET "+apiPrefix+"/docs/openapi.yaml", handleOpenAPISpec)
}
