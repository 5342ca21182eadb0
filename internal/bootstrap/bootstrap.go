package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	datastoreout "irctrack/internal/modules/datastore/adapter/out"
	datastorein "irctrack/internal/modules/datastore/port/in"
	datastoreport "irctrack/internal/modules/datastore/port/out"
	datastoreservice "irctrack/internal/modules/datastore/service"
	datastoreusecase "irctrack/internal/modules/datastore/usecase"
	trackinginadapter "irctrack/internal/modules/tracking/adapter/in"
	trackingoutadapter "irctrack/internal/modules/tracking/adapter/out"
	"irctrack/internal/modules/tracking/domain"
	trackingservice "irctrack/internal/modules/tracking/service"
	trackingusecase "irctrack/internal/modules/tracking/usecase"
	"irctrack/internal/platform/clock"
	"irctrack/internal/platform/config"
	"irctrack/internal/platform/id"
	"irctrack/internal/platform/logging"
	"irctrack/internal/platform/metrics"
	"irctrack/internal/ui/dashboard"
)

type App struct {
	Config      config.Config
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Store       datastorein.Usecase
	TrackingCLI trackinginadapter.CLIHandler

	// Credentials is nil for the sqlite backend.
	Credentials *datastoreout.CredentialChain
}

func New(cfg config.Config) (*App, error) {
	logger := logging.New(os.Stderr, cfg.LogLevel)
	m := metrics.New()
	clk := clock.SystemClock{}

	remote, chain, err := newRemoteStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	cache, err := datastoreservice.NewCacheService(remote, clk, cfg.CacheTTL, cfg.CacheSize, logger, m)
	if err != nil {
		return nil, fmt.Errorf("new cache: %w", err)
	}
	store := datastoreusecase.NewInteractor(cache)

	projector, err := trackingoutadapter.NewSQLiteReportProjector(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new report projector: %w", err)
	}
	trackingSvc := trackingservice.NewTrackingService(trackingservice.Deps{
		Clock:      clk,
		RequestIDs: id.Prefixed{Prefix: id.RequestPrefix},
		SessionIDs: id.Prefixed{Prefix: id.SessionPrefix},
		Requests: trackingoutadapter.NewRequestTable(store, trackingoutadapter.TableLocation{
			Name:  cfg.Tables.Requests,
			Range: cfg.Tables.RequestsRange,
		}),
		Sessions: trackingoutadapter.NewSessionTable(store, trackingoutadapter.TableLocation{
			Name:  cfg.Tables.Sessions,
			Range: cfg.Tables.SessionsRange,
		}, domain.SessionSchema(cfg.SessionSchema)),
		Refresher: trackingoutadapter.NewCacheRefresher(store),
		Projector: projector,
		Logger:    logger,
		Metrics:   m,
	})

	return &App{
		Config:      cfg,
		Logger:      logger,
		Metrics:     m,
		Store:       store,
		TrackingCLI: trackinginadapter.NewCLIHandler(trackingusecase.NewInteractor(trackingSvc)),
		Credentials: chain,
	}, nil
}

func newRemoteStore(cfg config.Config, logger *slog.Logger) (datastoreport.RemoteStore, *datastoreout.CredentialChain, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := datastoreout.NewSQLiteStore(cfg.TablesPath)
		if err != nil {
			return nil, nil, fmt.Errorf("new sqlite store: %w", err)
		}
		return store, nil, nil
	default:
		creds := cfg.CredentialPaths()
		chain := datastoreout.NewCredentialChain(logger,
			datastoreout.ServiceAccountFile{Path: creds.ServiceAccount},
			datastoreout.StoredToken{Path: creds.Token, ClientSecret: creds.ClientSecret},
			datastoreout.InteractiveConsent{
				ClientSecret: creds.ClientSecret,
				TokenPath:    creds.Token,
				Prompt:       os.Stderr,
				Input:        os.Stdin,
			},
		)
		return datastoreout.NewSheetsStore(cfg.SpreadsheetID, datastoreout.ChainServiceFactory(chain)), chain, nil
	}
}

// Identity describes who the app talks to the spreadsheet as: the service
// account e-mail when one is configured, otherwise the credential source that
// resolved.
func (a *App) Identity(ctx context.Context) (string, error) {
	if a.Credentials == nil {
		return "local sqlite", nil
	}
	if email, err := datastoreout.ServiceAccountEmail(a.Config.CredentialPaths().ServiceAccount); err == nil {
		return email, nil
	}
	_, source, err := a.Credentials.Resolve(ctx)
	if err != nil {
		return "", err
	}
	return source, nil
}

func RunDashboard(app *App) error {
	model := dashboard.New(app.TrackingCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
