// Package app initializes and runs the main application service.
// It configures logging, the record store, the session manager, the
// listing service, and routing, and handles graceful shutdown.
package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avillagran/propiedadesplus/internal/catalog"
	"github.com/avillagran/propiedadesplus/internal/config"
	"github.com/avillagran/propiedadesplus/internal/listing"
	"github.com/avillagran/propiedadesplus/internal/logger"
	"github.com/avillagran/propiedadesplus/internal/recordstore"
	"github.com/avillagran/propiedadesplus/internal/router"
	"github.com/avillagran/propiedadesplus/internal/session"
)

// App encapsulates the configuration, HTTP handler and record store
// needed to run the listing service.
type App struct {
	cfg         *config.Config
	store       recordstore.Store
	httpHandler http.Handler
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - opening the record store and seeding the catalog on first run
// - setting up the session manager and listing service
// - setting up the router and middleware
func New() (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New()
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app.store, err = openStore(app.cfg)
	if err != nil {
		return nil, err
	}

	err = seedCatalog(context.Background(), app.store)
	if err != nil {
		return nil, err
	}

	sessionSigningSecretKey, err := base64.URLEncoding.DecodeString(app.cfg.SessionSecretKey)
	if err != nil {
		return nil, err
	}

	sessions := session.New(
		app.store,
		sessionSigningSecretKey,
		session.WithLatency(app.cfg.SimulatedLatency),
		session.WithTokenTTL(app.cfg.SessionTokenTTL),
	)

	app.httpHandler = router.New(sessions, listing.New(app.store))

	return app, nil
}

// Run starts the HTTP server with graceful shutdown support.
// It listens for system signals and cleans up resources upon termination.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Closing the record store and exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return a.store.Close()

	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

func openStore(cfg *config.Config) (recordstore.Store, error) {
	if cfg.DBFileName == "" {
		return recordstore.NewMemory(), nil
	}

	return recordstore.NewFile(cfg.DBFileName)
}

// seedCatalog fills the catalog namespace with the demo listings when it
// is empty, so a fresh store starts with a browsable catalog.
func seedCatalog(ctx context.Context, store recordstore.Store) error {
	existing, err := recordstore.List[map[string]any](ctx, store, catalog.Namespace)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	return store.Put(ctx, catalog.Namespace, catalog.Seed())
}
