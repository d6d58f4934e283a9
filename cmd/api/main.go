package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/feral-file/royalty-ledger/internal/adapter"
	"github.com/feral-file/royalty-ledger/internal/api/server"
	"github.com/feral-file/royalty-ledger/internal/config"
	"github.com/feral-file/royalty-ledger/internal/ledger"
	"github.com/feral-file/royalty-ledger/internal/logger"
	"github.com/feral-file/royalty-ledger/internal/messaging"
	"github.com/feral-file/royalty-ledger/internal/providers/jetstream"
	"github.com/feral-file/royalty-ledger/internal/registry"
	"github.com/feral-file/royalty-ledger/internal/store"
	"github.com/feral-file/royalty-ledger/internal/vault"

	"go.uber.org/zap"
)

func main() {
	var configFile string
	var envPath string
	flag.StringVar(&configFile, "config", "", "path to config file")
	flag.StringVar(&envPath, "env", "", "path to env directory")
	flag.Parse()

	config.ChdirRepoRoot()

	cfg, err := config.LoadAPIConfig(configFile, envPath)
	if err != nil {
		panic(err)
	}

	// Initialize logger
	if err := logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags: map[string]string{
			"service": "royalty-ledger-api",
		},
	}); err != nil {
		panic(err)
	}
	defer logger.Flush(2 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := &adapter.RealClock{}

	// Ownership vault seeded from the genesis balance file
	genesis, err := registry.LoadGenesis(cfg.GenesisPath)
	if err != nil {
		logger.Fatal("failed to load genesis balances", zap.Error(err))
	}
	accounts := vault.NewMemoryVault(genesis)

	engineOpts := []ledger.Option{}

	// Durable projection is optional; without a database the ledger is
	// in-memory only.
	var ledgerStore store.Store
	if cfg.Database.Host != "" {
		db, err := connectDB(ctx, &cfg.Database, cfg.Debug)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := store.ConfigureConnectionPool(db,
			cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns,
			cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
			logger.Fatal("failed to configure connection pool", zap.Error(err))
		}

		ledgerStore = store.NewPGStore(db)
		if err := ledgerStore.Migrate(ctx); err != nil {
			logger.Fatal("failed to migrate database", zap.Error(err))
		}
		engineOpts = append(engineOpts, ledger.WithArchive(ledgerStore))
	} else {
		logger.Warn("no database configured, running without persistence")
	}

	// Event publishing is optional as well
	var dispatcher messaging.Dispatcher
	if cfg.NATS.URL != "" {
		publisher, err := jetstream.NewPublisher(jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, &adapter.RealNatsJetStream{}, &adapter.RealJSON{})
		if err != nil {
			logger.Fatal("failed to connect to NATS", zap.Error(err))
		}
		dispatcher = messaging.NewAsyncDispatcher(publisher, cfg.NATS.PublishTimeout)
		engineOpts = append(engineOpts, ledger.WithDispatcher(dispatcher))
	} else {
		logger.Warn("no NATS URL configured, running without event publishing")
	}

	engine := ledger.NewEngine(accounts, clock, engineOpts...)

	if ledgerStore != nil {
		if err := engine.Restore(ctx); err != nil {
			logger.Fatal("failed to restore ledger state", zap.Error(err))
		}
	}

	srv := server.New(server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}, engine)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(err, zap.String("message", "server shutdown error"))
	}

	// Drain pending events before exit
	if dispatcher != nil {
		dispatcher.Close()
	}

	logger.Info("shutdown complete")
}

// connectDB opens the database connection with exponential backoff, so the
// service tolerates the database coming up after it does.
func connectDB(ctx context.Context, cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if debug {
		logLevel = gormlogger.Info
	}

	var db *gorm.DB
	operation := func() error {
		var err error
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(logLevel),
		})
		if err != nil {
			logger.Warn("database not ready, retrying", zap.Error(err))
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 60 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return db, nil
}
