package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vctt94/holdemtable/pkg/config"
	"github.com/vctt94/holdemtable/pkg/httpapi"
	"github.com/vctt94/holdemtable/pkg/lobby"
	"github.com/vctt94/holdemtable/pkg/logging"
	"github.com/vctt94/holdemtable/pkg/poker"
	"github.com/vctt94/holdemtable/pkg/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pokersrv: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		datadir    = flag.String("datadir", "", "Directory holding pokersrv.yaml, logs and the database")
		listen     = flag.String("listen", "", "Address to listen on")
		dbDriver   = flag.String("db", "", "Storage backend: sqlite or redis")
		dbPath     = flag.String("dbpath", "", "Path to the SQLite database file")
		redisAddr  = flag.String("redisaddr", "", "Redis address")
		debugLevel = flag.String("debuglevel", "", "Logging level: trace, debug, info, warn, error")
	)
	flag.Parse()

	overrides := make(map[string]interface{})
	for key, val := range map[string]*string{
		"listen":     listen,
		"db.driver":  dbDriver,
		"db.path":    dbPath,
		"redis.addr": redisAddr,
		"debuglevel": debugLevel,
	} {
		if *val != "" {
			overrides[key] = *val
		}
	}

	cfg, err := config.Load(*datadir, overrides)
	if err != nil {
		return err
	}

	logBackend, err := logging.NewLogBackend(logging.LogConfig{
		LogFile:     cfg.LogFile(),
		DebugLevel:  cfg.DebugLevel,
		MaxLogFiles: cfg.MaxLogFiles,
	})
	if err != nil {
		return err
	}
	defer logBackend.Close()

	log := logBackend.Logger(logging.SubsystemMain)
	poker.UseLogger(logBackend.Logger(logging.SubsystemPoker))
	store.UseLogger(logBackend.Logger(logging.SubsystemStore))
	lobby.UseLogger(logBackend.Logger(logging.SubsystemLobby))
	httpapi.UseLogger(logBackend.Logger(logging.SubsystemHTTP))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db store.Database
	switch cfg.DB.Driver {
	case "redis":
		db, err = store.NewRedisDB(ctx, store.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	default:
		db, err = store.NewSQLiteDB(cfg.DB.Path)
	}
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.DB.Driver, err)
	}
	defer db.Close()

	svc := lobby.NewService(db, lobby.Config{
		Table: poker.TableConfig{
			SmallBlind: cfg.Table.SmallBlind,
			BigBlind:   cfg.Table.BigBlind,
		},
		StartingChips: cfg.Table.StartingChips,
		TurnTimeout:   cfg.Timing.TurnTimeout,
		AutoDealDelay: cfg.Timing.AutoDealDelay,
		ListWindow:    cfg.Timing.ListWindow,
		IdleExpiry:    cfg.Timing.IdleExpiry,
		MaxRetries:    3,
	})

	go func() {
		if err := svc.RunSweeper(ctx, cfg.Timing.SweepInterval); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorf("sweeper stopped: %v", err)
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           httpapi.NewServer(svc).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infof("listening on %s (%s store)", cfg.Listen, cfg.DB.Driver)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Infof("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
