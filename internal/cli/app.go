package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/sched/internal/auth"
	"github.com/sandeepkv93/sched/internal/config"
	"github.com/sandeepkv93/sched/internal/llm"
	"github.com/sandeepkv93/sched/internal/logging"
	"github.com/sandeepkv93/sched/internal/onboarding"
	"github.com/sandeepkv93/sched/internal/planner"
	"github.com/sandeepkv93/sched/internal/remote"
	"github.com/sandeepkv93/sched/internal/storage"
	"go.uber.org/zap"
)

var ErrNotLoggedIn = errors.New("not logged in")

// app holds the collaborators shared by every subcommand. Close releases
// them in reverse order of acquisition.
type app struct {
	cfg      config.Config
	log      *zap.Logger
	repo     *storage.SQLiteRepository
	gate     *onboarding.Gate
	identity planner.Identity
	closers  []func() error
}

func openApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := logging.New(logging.Options{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: logger, closers: []func() error{closeLog}}

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.repo = repo
	a.closers = append(a.closers, repo.Close)

	flags, err := onboarding.NewFileStore(cfg.StateFile)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	gate, err := onboarding.NewGate(ctx, flags, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.gate = gate

	if strings.TrimSpace(cfg.UserID) != "" {
		a.identity = auth.StaticIdentity{UserID: cfg.UserID}
	} else {
		a.identity = auth.NewTokenIdentity(cfg.SessionFile, cfg.JWTSecret, logger)
	}
	logger.Info("app opened",
		zap.String("db", cfg.DBPath),
		zap.String("generator", cfg.Generator),
		zap.Bool("alarms", cfg.Alarms),
	)
	return a, nil
}

// plannerDeps builds the planner collaborators. The remote client always
// stores augmentations and feedback; the generator follows the config.
func (a *app) plannerDeps() (planner.Deps, error) {
	client, err := remote.New(a.cfg.APIBaseURL, remote.WithTimeout(a.cfg.RequestTimeout))
	if err != nil {
		return planner.Deps{}, err
	}
	deps := planner.Deps{
		Identity:      a.identity,
		Generator:     client,
		Augmentations: client,
		Feedback:      client,
		Logger:        a.log,
	}
	if a.cfg.Generator == config.GeneratorLLM {
		gen, err := llm.New(llm.Options{
			APIKey:  a.cfg.OpenAI.APIKey,
			Model:   a.cfg.OpenAI.Model,
			BaseURL: a.cfg.OpenAI.BaseURL,
		})
		if err != nil {
			return planner.Deps{}, err
		}
		deps.Generator = gen
	}
	return deps, nil
}

func (a *app) currentUserID(ctx context.Context) (string, error) {
	user, err := a.identity.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if user == nil || strings.TrimSpace(user.ID) == "" {
		return "", ErrNotLoggedIn
	}
	return user.ID, nil
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
