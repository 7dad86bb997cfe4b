package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"talkpad/internal/bus"
	"talkpad/internal/config"
	"talkpad/internal/logging"
	"talkpad/internal/notifications"
	"talkpad/internal/persistence"
	"talkpad/internal/vault"
)

// Runtime aggregates the process-level pieces of the settings core and owns
// their teardown order.
type Runtime struct {
	mu sync.RWMutex

	Ctx    context.Context
	cancel context.CancelFunc

	Paths  Paths
	Config config.AppConfig

	LogManager *logging.Manager
	Bus        *bus.PubSubBus
	DB         *sql.DB

	SettingsRepo *persistence.SettingsRepo
	Vault        *vault.SQLiteVault

	Menu          *MenuController
	Notifications *NotificationService
}

// Initialize brings the settings core up. The prompt and host collaborators
// belong to the rendering layer and are injected from outside.
func Initialize(parent context.Context, prompt ChallengePrompt, host ScreenHost) (*Runtime, error) {
	paths, err := ResolvePaths()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(paths.ConfigFile)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(parent)
	rt := &Runtime{
		Ctx:    ctx,
		cancel: cancel,
		Paths:  paths,
		Config: cfg,
	}

	logMgr := logging.NewManager()
	if err := logMgr.Configure(cfg.Logging, paths.LogFile); err != nil {
		_ = logMgr.Close()
		cancel()

		return nil, fmt.Errorf("configure logging: %w", err)
	}
	rt.LogManager = logMgr
	slog.Info("starting talkpad settings core")

	db, err := persistence.Open(ctx, paths.DBFile)
	if err != nil {
		_ = rt.Close()

		return nil, err
	}
	rt.DB = db

	rt.SettingsRepo = persistence.NewSettingsRepo(db, logMgr.Logger("persistence"))
	rt.Vault = vault.NewSQLiteVault(db, logMgr.Logger("vault"))

	rt.Bus = bus.New(logMgr.Logger("bus"))

	rt.Menu = NewMenuController(
		rt.SettingsRepo,
		rt.Vault,
		prompt,
		host,
		rt.Bus,
		logMgr.Logger("menu"),
	)

	sender := notifications.NewBeeepSender(Name, logMgr.Logger("notifications"))
	rt.Notifications = NewNotificationService(rt.Bus, rt.CurrentConfig, sender, logMgr.Logger("notifications"))
	rt.Notifications.Start(ctx)

	return rt, nil
}

func (r *Runtime) CurrentConfig() config.AppConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.Config
}

// SaveConfig persists and applies an updated app config.
func (r *Runtime) SaveConfig(cfg config.AppConfig) error {
	cfg.FillMissingDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	if err := config.Save(r.Paths.ConfigFile, cfg); err != nil {
		r.mu.Unlock()

		return err
	}
	r.Config = cfg
	r.mu.Unlock()

	return r.LogManager.Configure(cfg.Logging, r.Paths.LogFile)
}

// RememberOpenedDomain stores the last opened settings screen for the next
// launch. Failures are logged, never surfaced.
func (r *Runtime) RememberOpenedDomain(d string) {
	r.mu.Lock()
	if r.Config.UI.LastOpenedDomain == d {
		r.mu.Unlock()

		return
	}
	cfg := r.Config
	cfg.UI.LastOpenedDomain = d
	if err := config.Save(r.Paths.ConfigFile, cfg); err != nil {
		r.mu.Unlock()
		slog.Warn("save last opened domain", "error", err)

		return
	}
	r.Config = cfg
	r.mu.Unlock()
}

func (r *Runtime) Close() error {
	if r.cancel != nil {
		r.cancel()
	}
	if r.Bus != nil {
		r.Bus.Close()
	}
	if r.DB != nil {
		_ = r.DB.Close()
	}
	if r.LogManager != nil {
		_ = r.LogManager.Close()
	}

	return nil
}
