package main

import (
	"os"
	"path/filepath"

	"github.com/alexisbeaulieu97/strato/internal/api"
	"github.com/alexisbeaulieu97/strato/internal/config"
	"github.com/alexisbeaulieu97/strato/internal/engine"
	"github.com/alexisbeaulieu97/strato/internal/logger"
	"github.com/alexisbeaulieu97/strato/internal/resolver"
	"github.com/alexisbeaulieu97/strato/internal/session"
)

// AppContext bundles the long-lived services created once per invocation.
type AppContext struct {
	Config  *config.Config
	Log     *logger.Logger
	Client  *api.Client
	Engine  *engine.Engine
	Session *session.Store
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "strato.yaml"
	}
	return filepath.Join(home, ".config", "strato", "strato.yaml")
}

// newAppContext loads configuration and wires the client, resolver, session
// store and engine. The returned context must be closed to clear session
// state.
func newAppContext(flags *rootFlags) (*AppContext, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if flags.verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, Pretty: !flags.jsonOut})
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Tenant, cfg.API.Token, cfg.API.Timeout())
	store := session.NewStore()
	eng := engine.New(resolver.New(client), client, store, log, engine.Settings{
		PollInterval:      cfg.Poll.Interval(),
		PollMaxAttempts:   cfg.Poll.MaxAttempts,
		CredentialCeiling: cfg.Quota.CredentialCeiling,
	})

	return &AppContext{
		Config:  cfg,
		Log:     log,
		Client:  client,
		Engine:  eng,
		Session: store,
	}, nil
}

// Close releases session-scoped state.
func (a *AppContext) Close() {
	a.Session.Clear()
}

// regionOrDefault picks the flag region over the configured default.
func (a *AppContext) regionOrDefault(flag string) string {
	if flag != "" {
		return flag
	}
	return a.Config.Defaults.Region
}
