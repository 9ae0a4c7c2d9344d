// Command garagedesk runs the workshop-management backend: the
// tenant-scoped data store, subscription billing engine, and payment
// verification workflow behind a small HTTP/WebSocket API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/garagedesk/garagedesk/internal/api"
	"github.com/garagedesk/garagedesk/internal/auth"
	"github.com/garagedesk/garagedesk/internal/config"
	"github.com/garagedesk/garagedesk/internal/kvstore"
	"github.com/garagedesk/garagedesk/internal/logging"
	"github.com/garagedesk/garagedesk/internal/payments"
	"github.com/garagedesk/garagedesk/internal/store"
	"github.com/garagedesk/garagedesk/internal/websocket"
)

// Version information (set at build time with -ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "garagedesk",
	Short:   "GarageDesk workshop management backend",
	Version: Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("GarageDesk %s\n", Version)
		if BuildTime != "unknown" {
			fmt.Printf("Built: %s\n", BuildTime)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServer() error {
	cfg := config.Load()
	logging.Init(logging.Config{
		Format:    cfg.LogFormat,
		Level:     cfg.LogLevel,
		Component: "garagedesk",
	})

	kv, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	stores := store.NewManager(kv)
	global := store.NewGlobal(kv)
	users := auth.NewDirectory(kv)
	workflow := payments.NewWorkflow(stores, global, users)

	hub := websocket.NewHub()
	stores.Subscribe(func(ev store.ChangeEvent) {
		hub.Broadcast("collectionChanged", ev)
	})
	global.Subscribe(func(ev store.ChangeEvent) {
		hub.Broadcast("collectionChanged", ev)
	})

	router := api.NewRouter(api.Deps{
		KV:       kv,
		Stores:   stores,
		Global:   global,
		Users:    users,
		Payments: workflow,
		Hub:      hub,
	})

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.Listen).Str("backend", cfg.Backend).Msg("GarageDesk listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		hub.Run()
		return nil
	})

	// The file backend can be rewritten by a second process; reload
	// collections that change underneath us. SQLite serializes writers
	// itself, so no watcher is needed there.
	if cfg.Backend == config.BackendFile {
		watcher, err := config.NewDataWatcher(cfg.DataDir, stores.ReloadCollection)
		if err != nil {
			log.Warn().Err(err).Msg("Data watcher unavailable")
		} else {
			g.Go(func() error {
				watcher.Start()
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				watcher.Stop()
				return nil
			})
		}
	}

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("Shutting down")
		hub.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(cfg config.Config) (kvstore.Store, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return kvstore.NewFileStore(cfg.DataDir)
	default:
		return kvstore.NewSQLiteStore(cfg.DataDir)
	}
}
