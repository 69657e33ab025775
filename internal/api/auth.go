package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tomasz-mizak/chatguard/internal/access"
)

const (
	keyHeader = "X-Access-Key"
	keyQuery  = "access_key"
)

// Validator checks a request key.
type Validator interface {
	Validate(key string) error
}

// requestKey reads the key from the header, falling back to the query string.
func requestKey(r *http.Request) string {
	if key := r.Header.Get(keyHeader); key != "" {
		return key
	}
	return r.URL.Query().Get(keyQuery)
}

// authMiddleware rejects requests whose access key does not validate.
func authMiddleware(v Validator, logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := v.Validate(requestKey(r))
		if err == nil {
			next.ServeHTTP(w, r)
			return
		}
		writeAccessError(w, r, logger, err)
	})
}

func writeAccessError(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, err error) {
	var e *access.Error
	if !errors.As(err, &e) {
		logger.Error().Err(err).Str("rid", requestID(r.Context())).Msg("access check failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error.")
		return
	}

	switch e.Kind {
	case access.KindAuth:
		logger.Warn().
			Str("rid", requestID(r.Context())).
			Str("code", e.Code).
			Str("remote", r.RemoteAddr).
			Msg("access denied")
		writeError(w, e.Kind.HTTPStatus(), e.Code, e.Message)
	default:
		logger.Error().
			Err(err).
			Str("rid", requestID(r.Context())).
			Msg("access key configuration error")
		writeError(w, e.Kind.HTTPStatus(), "access_key_config", e.Message)
	}
}
