package app

import (
	"fmt"
	"os"

	"gitcms/internal/cms"
	"gitcms/internal/config"
	"gitcms/internal/container"
	"gitcms/internal/git"
	"gitcms/internal/jsonfs"
	"gitcms/internal/model"
	"gitcms/internal/paths"
)

// Version is the engine's own semantic version. Projects persist the
// version they were written with; opening one written by an older engine
// triggers an upgrade, one written by a newer engine is refused.
const Version = "0.1.0"

// App is the application layer between the CLI and the engine. It
// constructs all dependencies from config and releases them on Close.
type App struct {
	cfg       *config.Config
	engine    *cms.Engine
	gitClient *git.Client
	logFile   *os.File
}

// NewApp creates a fully wired App from the given config. The caller must
// call Close when done.
func NewApp(cfg *config.Config) (*App, error) {
	resolver := paths.NewResolver(cfg.WorkDir)

	for _, dir := range []string{resolver.Projects(), resolver.Logs(), resolver.Tmp()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating working directory: %w", err)
		}
	}

	logger, logFile, err := newLogger(cfg.LogDir, cfg.LogLevel, resolver)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	adapter := &slogAdapter{l: logger}

	gitClient := git.NewClient(git.Options{
		Bin: cfg.Git.Bin,
		Signature: git.Signature{
			Name:  cfg.Signature.Name,
			Email: cfg.Signature.Email,
		},
		Timeout: cfg.GitTimeout(),
		Logger:  adapter,
	})

	containerClient := container.NewClient(container.Options{
		Bin:     cfg.Container.Bin,
		Timeout: cfg.ContainerTimeout(),
		Logger:  adapter,
	})

	engine := cms.NewEngine(cms.Options{
		Git:         gitClient,
		Store:       jsonfs.NewStore(cfg.JSONIndent),
		Paths:       resolver,
		Container:   containerClient,
		Logger:      adapter,
		CoreVersion: Version,
		DefaultLocale: model.Locale{
			ID:   cfg.Locale.ID,
			Name: cfg.Locale.Name,
		},
	})

	return &App{
		cfg:       cfg,
		engine:    engine,
		gitClient: gitClient,
		logFile:   logFile,
	}, nil
}

// Engine exposes the wired entity services.
func (a *App) Engine() *cms.Engine { return a.engine }

// Config exposes the active configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Close stops the git command queue and releases the log file.
func (a *App) Close() error {
	a.gitClient.Close()
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}
