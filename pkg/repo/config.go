package repo

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/renameio"
	"github.com/odvcencio/plumb/pkg/object"
)

// ConfigFileName is the repository-local config file inside .git/.
const ConfigFileName = "plumb.toml"

// Config stores settings read from a TOML file:
//
//	[user]
//	name = "Ada Lovelace"
//	email = "ada@example.com"
//	timezone = "+0000"
type Config struct {
	User UserConfig `toml:"user"`
}

// UserConfig is the identity recorded on commits.
type UserConfig struct {
	Name     string `toml:"name"`
	Email    string `toml:"email"`
	Timezone string `toml:"timezone"`
}

// ConfigPath returns the path of the repository-local config file.
func (r *Repo) ConfigPath() string {
	return filepath.Join(r.GitDir, ConfigFileName)
}

// ReadConfig reads .git/plumb.toml. Missing config returns an empty config.
func (r *Repo) ReadConfig() (*Config, error) {
	return LoadConfig(r.ConfigPath())
}

// LoadConfig parses the TOML config at path. A missing file yields an
// empty config; unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("read config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// WriteConfig atomically writes .git/plumb.toml.
func (r *Repo) WriteConfig(cfg *Config) error {
	if cfg == nil {
		cfg = &Config{}
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := renameio.WriteFile(r.ConfigPath(), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Identity returns the configured identity with empty fields taken from
// fallback.
func (c *Config) Identity(fallback object.Identity) object.Identity {
	id := fallback
	if c == nil {
		return id
	}
	if v := strings.TrimSpace(c.User.Name); v != "" {
		id.Name = v
	}
	if v := strings.TrimSpace(c.User.Email); v != "" {
		id.Email = v
	}
	if v := strings.TrimSpace(c.User.Timezone); v != "" {
		id.Timezone = v
	}
	return id
}
