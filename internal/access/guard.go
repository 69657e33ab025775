// Package access checks request keys against a single shared secret
// stored in a JSON file.
package access

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// PathEnv overrides the location of the key file.
	PathEnv = "CHAT_ACCESS_KEY_PATH"
	// DefaultPath is relative to the working directory.
	DefaultPath = "access_key.json"
)

// ResolvePath returns the key file location from the environment, or DefaultPath.
func ResolvePath() string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return DefaultPath
}

// Observer receives load and validation outcomes. Implementations must be
// safe for concurrent use.
type Observer interface {
	ObserveLoad(err error, elapsed time.Duration)
	ObserveValidation(err error)
}

// Guard holds the cached secret. The zero value resolves the path with
// ResolvePath on every load attempt.
type Guard struct {
	// PathFunc overrides ResolvePath.
	PathFunc func() string
	Observer Observer

	secret atomic.Pointer[string]
	group  singleflight.Group
}

// Default is the process-wide guard.
var Default = &Guard{}

// Validate checks key against the Default guard.
func Validate(key string) error { return Default.Validate(key) }

// Secret loads the secret through the Default guard.
func Secret() (string, error) { return Default.Secret() }

// Path returns the file the guard reads.
func (g *Guard) Path() string {
	if g.PathFunc != nil {
		return g.PathFunc()
	}
	return ResolvePath()
}

// Loaded reports whether the secret has been cached.
func (g *Guard) Loaded() bool {
	return g.secret.Load() != nil
}

// Secret returns the cached secret, loading it on first use. Failed loads
// are not remembered; the next call reads the file again. Concurrent
// callers during a load share that load's result.
func (g *Guard) Secret() (string, error) {
	if s := g.secret.Load(); s != nil {
		return *s, nil
	}

	v, err, _ := g.group.Do("secret", func() (any, error) {
		if s := g.secret.Load(); s != nil {
			return *s, nil
		}
		start := time.Now()
		s, err := readSecret(g.Path())
		if g.Observer != nil {
			g.Observer.ObserveLoad(err, time.Since(start))
		}
		if err != nil {
			return "", err
		}
		g.secret.Store(&s)
		return s, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Validate returns nil when key equals the configured secret. The comparison
// is exact and case-sensitive.
func (g *Guard) Validate(key string) error {
	err := g.validate(key)
	if g.Observer != nil {
		g.Observer.ObserveValidation(err)
	}
	return err
}

func (g *Guard) validate(key string) error {
	if key == "" {
		return ErrMissingKey
	}
	secret, err := g.Secret()
	if err != nil {
		return err
	}
	if key != secret {
		return ErrInvalidKey
	}
	return nil
}

type keyFile struct {
	AccessKey any `json:"access_key"`
}

func readSecret(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", wrap(ErrKeyFileNotFound, err)
		}
		return "", wrap(ErrKeyFileUnreadable, err)
	}

	var f keyFile
	if err := json.Unmarshal(data, &f); err != nil {
		return "", wrap(ErrInvalidConfig, err)
	}

	key, ok := f.AccessKey.(string)
	if !ok || key == "" {
		return "", ErrKeyNotConfigured
	}
	return key, nil
}
