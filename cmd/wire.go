package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	authadapter "github.com/hvacdesk/hv/internal/adapters/auth"
	"github.com/hvacdesk/hv/internal/adapters/backend"
	"github.com/hvacdesk/hv/internal/adapters/i18n"
	deskrender "github.com/hvacdesk/hv/internal/adapters/render/desk"
	tomlrepo "github.com/hvacdesk/hv/internal/adapters/repo/toml"
	chainstore "github.com/hvacdesk/hv/internal/adapters/secrets/chain"
	filestore "github.com/hvacdesk/hv/internal/adapters/secrets/file"
	"github.com/hvacdesk/hv/internal/application"
	"github.com/hvacdesk/hv/internal/config"
	"github.com/hvacdesk/hv/internal/domain"
	"github.com/hvacdesk/hv/internal/logging"
	"github.com/hvacdesk/hv/internal/ports"
	"github.com/hvacdesk/hv/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	cfg      config.Config
	logger   *slog.Logger
	logFile  io.Closer
	backend  *backend.Client
	sessions *application.SessionManager
	guard    *application.RouteGuard
	desk     *application.DeskService
	language *application.LanguageService
	catalog  *i18n.Catalog
	render   func(deskrender.Content, deskrender.Options) (string, error)
}

func wireApp() (*app, error) {
	v := viper.New()
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, logFile, err := logging.Setup(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("wire logging: %w", err)
	}

	tokens, err := newTokenStore(cfg.Token)
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("wire token store: %w", err)
	}

	client, err := backend.NewClient(backend.Config{
		BaseURL:       cfg.Backend.BaseURL,
		Timeout:       cfg.Backend.Timeout,
		RetryAttempts: cfg.Backend.RetryAttempts,
		RetryDelay:    cfg.Backend.RetryDelay,
		RateLimit:     cfg.Backend.RateLimit,
		RateBurst:     cfg.Backend.RateBurst,
		UserAgent:     "hv/" + version.Version,
	}, tokens, backend.WithLogger(logger))
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("wire backend client: %w", err)
	}

	prefs, err := tomlrepo.NewRepository(v)
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("wire preferences repository: %w", err)
	}

	catalog := i18n.NewCatalog()
	sessions := application.NewSessionManager(client, tokens, ports.SystemClock{},
		application.WithTokenInspector(authadapter.NewTokenInspector()),
		application.WithLogger(logger),
	)
	guard := application.NewRouteGuard(sessions, domain.DefaultRouteTable())

	return &app{
		cfg:      cfg,
		logger:   logger,
		logFile:  logFile,
		backend:  client,
		sessions: sessions,
		guard:    guard,
		desk:     application.NewDeskService(sessions, guard, client, logger),
		language: application.NewLanguageService(catalog, prefs, logger),
		catalog:  catalog,
		render:   deskrender.Render,
	}, nil
}

func newTokenStore(cfg config.TokenConfig) (ports.SecretStore, error) {
	switch cfg.Store {
	case config.TokenStoreFile:
		return filestore.NewStore(cfg.SecretsDir), nil
	default:
		return chainstore.NewPassFirstWithFileFallback(cfg.SecretsDir)
	}
}

// Close releases the log file. It is safe on a nil app and when called twice.
func (a *app) Close() error {
	if a == nil || a.logFile == nil {
		return nil
	}
	logFile := a.logFile
	a.logFile = nil
	return logFile.Close()
}

// session restores the persisted session before a command reads it.
func (a *app) session(ctx context.Context) domain.Session {
	return a.sessions.Hydrate(ctx)
}

func (a *app) print(cmd *cobra.Command, content deskrender.Content) error {
	output, err := a.render(content, deskrender.Options{Catalog: a.catalog, Language: a.language.Current()})
	if err != nil {
		return fmt.Errorf("render output: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
	return err
}

func printJSON(cmd *cobra.Command, value any) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json output: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
	return err
}
