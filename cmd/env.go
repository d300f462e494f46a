package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/primemath/internal/cache"
	"github.com/abhisek/primemath/internal/config"
	"github.com/abhisek/primemath/internal/curriculum"
	"github.com/abhisek/primemath/internal/llm"
	"github.com/abhisek/primemath/internal/logger"
	"github.com/abhisek/primemath/internal/store"
	"github.com/abhisek/primemath/internal/tutor"
)

// env holds the resources a command runs against.
type env struct {
	cfg      *config.Config
	log      *zap.Logger
	store    *store.Store
	cache    *cache.Cache
	sessions store.SessionRepo
}

type envOptions struct {
	// quiet discards logs, for the full-screen TUI.
	quiet bool
}

// openEnv loads configuration, applies flag overrides and opens storage.
func openEnv(cmd *cobra.Command, opts envOptions) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := logger.Nop()
	if !opts.quiet {
		log, err = logger.New(logger.Config{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Output: cmd.ErrOrStderr(),
		})
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	e := &env{cfg: cfg, log: log}
	if err := e.openStore(ctx); err != nil {
		return nil, err
	}
	e.sessions = e.store.SessionRepo()

	if cfg.Cache.URL != "" {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		e.cache = c
		e.sessions = cache.NewSessionRepo(e.sessions, c.Client, cfg.Cache.TTL, log)
	}
	return e, nil
}

func (e *env) openStore(ctx context.Context) error {
	if e.cfg.Database.URL != "" {
		s, err := store.OpenPostgres(ctx, e.cfg.Database.URL, e.cfg.Database.MaxConns, e.cfg.Database.MinConns)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		e.store = s
		return nil
	}

	dbPath, err := resolveDBPath(e.cfg)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	e.store = s
	return nil
}

// applyFlags lets command-line flags override environment settings.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if u, _ := cmd.Flags().GetString("database-url"); u != "" {
		cfg.Database.URL = u
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		if store.IsPostgresURL(p) {
			cfg.Database.URL = p
		} else {
			cfg.Database.Path = p
		}
	}
	if u, _ := cmd.Flags().GetString("cache-url"); u != "" {
		cfg.Cache.URL = u
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.Log.Level = l
	}
}

// tutor builds the LLM provider and the tutor service. Model calls are
// recorded in the event log.
func (e *env) tutor(ctx context.Context) (*tutor.Service, error) {
	if err := e.cfg.LLM.Validate(); err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}
	provider, err := llm.NewProvider(ctx, e.cfg.LLM, e.store.EventRepo(), e.log)
	if err != nil {
		return nil, err
	}
	return tutor.NewService(provider, e.sessions,
		tutor.WithGrade(curriculum.Grade(e.cfg.Grade)),
		tutor.WithLogger(e.log),
	), nil
}

// callContext bounds a single command's model calls by the configured
// LLM timeout.
func (e *env) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if e.cfg.LLM.Timeout > 0 {
		return context.WithTimeout(parent, e.cfg.LLM.Timeout)
	}
	return context.WithCancel(parent)
}

// healthCheck reports whether storage and the optional cache are reachable.
func (e *env) healthCheck(ctx context.Context) error {
	err := e.store.HealthCheck(ctx)
	if e.cache != nil {
		err = errors.Join(err, e.cache.HealthCheck(ctx))
	}
	return err
}

func (e *env) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
	if e.store != nil {
		e.store.Close()
	}
	_ = e.log.Sync()
}
