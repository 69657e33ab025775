package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomasz-mizak/chatguard/internal/access"
)

func guardWithKey(t *testing.T, content string) *access.Guard {
	t.Helper()
	path := filepath.Join(t.TempDir(), "access_key.json")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return &access.Guard{PathFunc: func() string { return path }}
}

func protected(t *testing.T, v Validator) http.Handler {
	return authMiddleware(v, zerolog.Nop(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *apiError {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if env.Error == nil {
		t.Fatal("expected error envelope")
	}
	return env.Error
}

func TestAuthMiddleware_ValidHeaderKey(t *testing.T) {
	handler := protected(t, guardWithKey(t, `{"access_key": "s3cr3t"}`))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Access-Key", "s3cr3t")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ValidQueryKey(t *testing.T) {
	handler := protected(t, guardWithKey(t, `{"access_key": "s3cr3t"}`))

	req := httptest.NewRequest("GET", "/test?access_key=s3cr3t", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingKey(t *testing.T) {
	handler := authMiddleware(guardWithKey(t, `{"access_key": "s3cr3t"}`), zerolog.Nop(),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not be called")
		}))

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	apiErr := decodeError(t, rec)
	if apiErr.Code != "missing_access_key" || apiErr.Message != "Missing access key." {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestAuthMiddleware_InvalidKey(t *testing.T) {
	handler := protected(t, guardWithKey(t, `{"access_key": "s3cr3t"}`))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Access-Key", "S3CR3T")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	apiErr := decodeError(t, rec)
	if apiErr.Code != "invalid_access_key" || apiErr.Message != "Invalid access key." {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestAuthMiddleware_ConfigErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		message string
	}{
		{"no file", "", "Access key file not found on the server."},
		{"bad json", `{not json}`, "Invalid access key JSON configuration."},
		{"empty key", `{"access_key": ""}`, "Access key missing in configuration."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := protected(t, guardWithKey(t, tc.content))

			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("X-Access-Key", "anything")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusInternalServerError {
				t.Errorf("expected 500, got %d", rec.Code)
			}
			apiErr := decodeError(t, rec)
			if apiErr.Code != "access_key_config" || apiErr.Message != tc.message {
				t.Errorf("unexpected error %+v", apiErr)
			}
		})
	}
}

type validatorFunc func(string) error

func (f validatorFunc) Validate(key string) error { return f(key) }

func TestAuthMiddleware_UnknownError(t *testing.T) {
	handler := protected(t, validatorFunc(func(string) error { return errors.New("boom") }))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Access-Key", "k")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Message == "boom" {
		t.Error("internal error text should not leak")
	}
}

func TestRequestKeyPrefersHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/test?access_key=from-query", nil)
	req.Header.Set("X-Access-Key", "from-header")
	if got := requestKey(req); got != "from-header" {
		t.Errorf("requestKey = %q, want from-header", got)
	}
}
