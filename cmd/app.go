package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/oagunth/oagunth-cli/internal/config"
	"github.com/oagunth/oagunth-cli/internal/fixture"
	"github.com/oagunth/oagunth-cli/internal/logger"
	"github.com/oagunth/oagunth-cli/internal/oagunth"
	"github.com/oagunth/oagunth-cli/internal/timecalc"
	"github.com/oagunth/oagunth-cli/internal/tracking"
)

// app is the per-invocation wiring shared by the commands.
type app struct {
	cfg     config.Config
	log     *logger.Logger
	backend tracking.Backend
}

// newApp loads .env, the config file and the flag overrides, then opens the
// configured backend.
func newApp(cmd *cobra.Command) (*app, error) {
	_ = loadDotEnv()

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	backend, err := openBackend(cmd.Context(), cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	log.Debug("command started", "command", cmd.Name(), "backend", cfg.Backend)
	return &app{cfg: cfg, log: log, backend: backend}, nil
}

// loadDotEnv loads .env from the working directory, when present.
func loadDotEnv() error {
	return godotenv.Load()
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if backendName != "" {
		cfg.Backend = backendName
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openBackend builds the tracking.Backend selected by cfg.Backend.
func openBackend(ctx context.Context, cfg config.Config, log *logger.Logger) (tracking.Backend, error) {
	switch cfg.Backend {
	case config.BackendFixture:
		c, err := fixture.New(cfg.Fixture.Dir, log)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.BackendHTTP:
		c, err := oagunth.NewClient(ctx, oagunth.Options{
			BaseURL:   cfg.HTTP.BaseURL,
			User:      cfg.HTTP.User,
			Token:     cfg.HTTP.Token,
			TokenFile: cfg.HTTP.TokenFile,
			OAuth:     oauthOf(cfg),
			Timeout:   cfg.HTTP.Timeout,
			Logger:    log,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

func oauthOf(cfg config.Config) oagunth.OAuth {
	return oagunth.OAuth{
		ClientID:      cfg.HTTP.OAuth.ClientID,
		DeviceAuthURL: cfg.HTTP.OAuth.DeviceAuthURL,
		TokenURL:      cfg.HTTP.OAuth.TokenURL,
		Scopes:        cfg.HTTP.OAuth.Scopes,
	}
}

// loadMonth fetches and assembles the current month.
func (a *app) loadMonth(ctx context.Context) (*tracking.Month, error) {
	m, err := tracking.Load(ctx, a.backend)
	if err != nil {
		a.log.Warn("loading month failed", "error", err)
		return nil, err
	}
	return m, nil
}

// selectWeek returns the week numbered number (in year when non-zero). When
// number is zero it returns the week the backend flags as current, falling
// back to the week containing today.
func selectWeek(m *tracking.Month, year, number int) (*tracking.Week, error) {
	if number == 0 {
		if w := m.Current(); w != nil {
			return w, nil
		}
		if w := m.WeekOf(timecalc.Today(time.Now(), time.Local)); w != nil {
			return w, nil
		}
		return nil, fmt.Errorf("the current week is not part of this month; pass --week")
	}
	var w *tracking.Week
	if year != 0 {
		w = m.Week(year, number)
	} else {
		w = m.WeekNumbered(number)
	}
	if w == nil {
		return nil, fmt.Errorf("week %d is not part of the current month", number)
	}
	return w, nil
}
