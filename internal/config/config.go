package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

const DefaultPath = "/etc/chatguard/config"

// PathEnv overrides DefaultPath.
const PathEnv = "CHATGUARD_CONFIG"

// Defaults apply when a key is absent or empty.
var Defaults = map[string]string{
	"API_PORT":   "8100",
	"LOG_LEVEL":  "info",
	"LOG_PRETTY": "false",
}

// ValidKeys is the set of recognized configuration keys.
var ValidKeys = map[string]bool{
	"API_PORT":   true,
	"LOG_LEVEL":  true,
	"LOG_PRETTY": true,
}

// Entry represents a single line in the config file.
type Entry struct {
	Raw   string // original line (for comments/blanks)
	Key   string // empty for non-KV lines
	Value string
}

// Config holds the parsed configuration file content.
type Config struct {
	Entries []Entry
	path    string
}

// Path returns the settings file location, honoring PathEnv.
func Path() string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return DefaultPath
}

// Load parses the config file at the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open config: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		entry := Entry{Raw: line}

		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			if idx := strings.Index(trimmed, "="); idx > 0 {
				entry.Key = strings.TrimSpace(trimmed[:idx])
				val := strings.TrimSpace(trimmed[idx+1:])
				entry.Value = strings.Trim(val, "\"")
			}
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	return &Config{Entries: entries, path: path}, nil
}

// LoadOrEmpty is Load, except a missing file yields an empty Config that
// will be created on Save.
func LoadOrEmpty(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{path: path}, nil
	}
	return cfg, err
}

// Get returns the value for a key, or empty string if not found.
func (c *Config) Get(key string) string {
	for _, e := range c.Entries {
		if e.Key == key {
			return e.Value
		}
	}
	return ""
}

// GetOrDefault returns the value for key, falling back to Defaults.
func (c *Config) GetOrDefault(key string) string {
	if v := c.Get(key); v != "" {
		return v
	}
	return Defaults[key]
}

// Port returns API_PORT.
func (c *Config) Port() string {
	return c.GetOrDefault("API_PORT")
}

// LogLevel returns LOG_LEVEL.
func (c *Config) LogLevel() string {
	return c.GetOrDefault("LOG_LEVEL")
}

// LogPretty reports whether logs should go to a console writer.
func (c *Config) LogPretty() bool {
	v, err := strconv.ParseBool(c.GetOrDefault("LOG_PRETTY"))
	return err == nil && v
}

// Set updates or appends a key-value pair.
func (c *Config) Set(key, value string) {
	for i, e := range c.Entries {
		if e.Key == key {
			c.Entries[i].Value = value
			c.Entries[i].Raw = fmt.Sprintf("%s=\"%s\"", key, value)
			return
		}
	}
	c.Entries = append(c.Entries, Entry{
		Raw:   fmt.Sprintf("%s=\"%s\"", key, value),
		Key:   key,
		Value: value,
	})
}

// KeyValues returns all key-value pairs in order.
func (c *Config) KeyValues() []Entry {
	var kvs []Entry
	for _, e := range c.Entries {
		if e.Key != "" {
			kvs = append(kvs, e)
		}
	}
	return kvs
}

// Validate checks a key/value pair before it is written.
func Validate(key, value string) error {
	if !ValidKeys[key] {
		return fmt.Errorf("unknown config key: %s (valid: API_PORT, LOG_LEVEL, LOG_PRETTY)", key)
	}
	switch key {
	case "API_PORT":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 65535 {
			return fmt.Errorf("invalid API_PORT %q: must be 1-65535", value)
		}
	case "LOG_PRETTY":
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("invalid LOG_PRETTY %q: must be true or false", value)
		}
	case "LOG_LEVEL":
		switch value {
		case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
		default:
			return fmt.Errorf("invalid LOG_LEVEL %q", value)
		}
	}
	return nil
}

// Save writes the config back to disk, preserving comments and blank lines.
func (c *Config) Save() error {
	return c.SaveTo(c.path)
}

// SaveTo writes the config to the specified path.
// Falls back to sudo tee if direct write fails with permission denied.
func (c *Config) SaveTo(path string) error {
	content := c.render()

	f, err := os.Create(path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return c.saveWithSudo(path, content)
		}
		return fmt.Errorf("cannot write config: %w", err)
	}
	defer f.Close()

	_, err = f.WriteString(content)
	return err
}

func (c *Config) render() string {
	var b strings.Builder
	for _, e := range c.Entries {
		fmt.Fprintln(&b, e.Raw)
	}
	return b.String()
}

func (c *Config) saveWithSudo(path, content string) error {
	cmd := exec.Command("sudo", "tee", path)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = nil
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("cannot write config with sudo: %w", err)
	}
	return nil
}
