package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for oag, stored in ~/.oagunth/config.yaml.
type Config struct {
	// Backend selects the time-sheet backend: "http" or "fixture".
	Backend string        `yaml:"backend"`
	HTTP    HTTPConfig    `yaml:"http"`
	Fixture FixtureConfig `yaml:"fixture"`
	Log     LogConfig     `yaml:"log"`
}

// HTTPConfig holds the settings of the HTTP backend.
type HTTPConfig struct {
	// BaseURL is the server root; endpoints live under {BaseURL}/api.
	BaseURL string `yaml:"base_url"`
	// User is the account whose monthly tracking is read and written.
	User string `yaml:"user"`
	// Token is a static bearer token. It takes precedence over TokenFile.
	Token string `yaml:"token"`
	// TokenFile stores the OAuth2 token obtained by `oag login`.
	TokenFile string        `yaml:"token_file"`
	Timeout   time.Duration `yaml:"timeout"`
	OAuth     OAuthConfig   `yaml:"oauth"`
}

// OAuthConfig enables the OAuth2 device code flow for `oag login`. All
// fields are optional when a static token is used.
type OAuthConfig struct {
	ClientID      string   `yaml:"client_id"`
	DeviceAuthURL string   `yaml:"device_auth_url"`
	TokenURL      string   `yaml:"token_url"`
	Scopes        []string `yaml:"scopes"`
}

// FixtureConfig holds the settings of the fixture backend.
type FixtureConfig struct {
	// Dir holds activities.json and monthly_calendar.json. Empty means the
	// embedded sample data, kept in memory only.
	Dir string `yaml:"dir"`
}

type LogConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
}

const (
	BackendHTTP    = "http"
	BackendFixture = "fixture"

	DefaultBaseURL = "https://localhost:8080"
	DefaultTimeout = 30 * time.Second
)

// BaseDir returns the root configuration directory (~/.oagunth).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".oagunth"), nil
}

// DefaultPath returns the config file path, honouring OAGUNTH_CONFIG_PATH.
func DefaultPath() (string, error) {
	if p := os.Getenv("OAGUNTH_CONFIG_PATH"); p != "" {
		return p, nil
	}
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Default returns a Config pre-filled with the built-in defaults.
func Default() Config {
	cfg := Config{
		Backend: BackendHTTP,
		HTTP: HTTPConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Log: LogConfig{Mode: "dev", Level: "info"},
	}
	if base, err := BaseDir(); err == nil {
		cfg.HTTP.TokenFile = filepath.Join(base, "auth", "token.json")
	}
	return cfg
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# oag configuration - ~/.oagunth/config.yaml
#
# All settings are optional. Environment variables (OAGUNTH_*) and a .env
# file in the working directory override the values below.

# Backend: "http" talks to the time-sheet server, "fixture" uses sample data.
backend: http

http:
  # Server root; endpoints live under <base_url>/api.
  base_url: https://localhost:8080
  # Account whose monthly tracking is read and written.
  user: ""
  # Static bearer token. Leave empty to use the token stored by "oag login".
  token: ""
  # Request timeout, e.g. 30s or 1m.
  timeout: 30s
  # OAuth2 device code flow used by "oag login".
  oauth:
    client_id: ""
    device_auth_url: ""
    token_url: ""
    # scopes: [offline_access]

fixture:
  # Directory holding activities.json and monthly_calendar.json.
  # Empty: built-in sample data, changes are kept in memory only.
  dir: ""

log:
  # dev (console) or prod (JSON). Logs go to stderr.
  mode: dev
  level: info
`

// Load reads the config at path (DefaultPath when empty), creating it with
// annotated defaults on first run, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	fillDefaults(&cfg)
	return cfg, nil
}

// applyEnv overrides cfg from OAGUNTH_* environment variables.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("OAGUNTH_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("OAGUNTH_BASE_URL"); v != "" {
		cfg.HTTP.BaseURL = v
	}
	if v := os.Getenv("OAGUNTH_USER"); v != "" {
		cfg.HTTP.User = v
	}
	if v := os.Getenv("OAGUNTH_TOKEN"); v != "" {
		cfg.HTTP.Token = v
	}
	if v := os.Getenv("OAGUNTH_TOKEN_FILE"); v != "" {
		cfg.HTTP.TokenFile = v
	}
	if v := os.Getenv("OAGUNTH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid OAGUNTH_TIMEOUT: %w", err)
		}
		cfg.HTTP.Timeout = d
	}
	if v := os.Getenv("OAGUNTH_FIXTURE_DIR"); v != "" {
		cfg.Fixture.Dir = v
	}
	if v := os.Getenv("OAGUNTH_LOG_MODE"); v != "" {
		cfg.Log.Mode = v
	}
	if v := os.Getenv("OAGUNTH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// fillDefaults restores defaults for fields a partial file left empty.
func fillDefaults(cfg *Config) {
	def := Default()
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if cfg.Backend == "" {
		cfg.Backend = def.Backend
	}
	if cfg.HTTP.BaseURL == "" {
		cfg.HTTP.BaseURL = def.HTTP.BaseURL
	}
	cfg.HTTP.BaseURL = strings.TrimRight(cfg.HTTP.BaseURL, "/")
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = def.HTTP.Timeout
	}
	if cfg.HTTP.TokenFile == "" {
		cfg.HTTP.TokenFile = def.HTTP.TokenFile
	}
	if cfg.Log.Mode == "" {
		cfg.Log.Mode = def.Log.Mode
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []string

	switch c.Backend {
	case BackendHTTP:
		if u, err := url.Parse(c.HTTP.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("invalid base URL '%s': must be an absolute URL", c.HTTP.BaseURL))
		}
		if strings.TrimSpace(c.HTTP.User) == "" {
			errs = append(errs, "user cannot be empty when using the http backend (set http.user or OAGUNTH_USER)")
		}
		if c.HTTP.Timeout < 0 {
			errs = append(errs, fmt.Sprintf("invalid timeout %s: must not be negative", c.HTTP.Timeout))
		}
		if o := c.HTTP.OAuth; (o.ClientID == "") != (o.TokenURL == "") {
			errs = append(errs, "oauth client_id and token_url must be set together")
		}
	case BackendFixture:
		if c.Fixture.Dir != "" {
			if info, err := os.Stat(c.Fixture.Dir); err == nil && !info.IsDir() {
				errs = append(errs, fmt.Sprintf("fixture dir '%s' is not a directory", c.Fixture.Dir))
			}
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid backend '%s': must be one of [%s %s]", c.Backend, BackendHTTP, BackendFixture))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
