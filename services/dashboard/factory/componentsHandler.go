package factory

import (
	"context"
	"sync"
	"time"

	"github.com/SalvatoreBevilacqua/monitoring-app/commonGo"
	"github.com/SalvatoreBevilacqua/monitoring-app/services/dashboard/api"
	"github.com/SalvatoreBevilacqua/monitoring-app/services/dashboard/config"
	"github.com/SalvatoreBevilacqua/monitoring-app/storage"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("factory")

type componentsHandler struct {
	store            api.Storage
	server           Server
	statsLogInterval time.Duration
	mutCancel        sync.Mutex
	cancel           func()
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(cfg config.Config) (*componentsHandler, error) {
	target, err := storage.ParseTarget(cfg.Connection, cfg.DatabaseName)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLStorage(target)
	if err != nil {
		return nil, err
	}

	serverArgs := api.ArgsWebServer{
		ListenAddress:  cfg.ListenAddress,
		StaticDir:      cfg.StaticDir,
		Debug:          cfg.Debug,
		Storage:        store,
		GeneralHandler: api.CORSMiddleware,
	}

	server, err := api.NewServer(serverArgs)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &componentsHandler{
		store:            store,
		server:           server,
		statsLogInterval: time.Duration(cfg.StatsLogIntervalInSeconds) * time.Second,
	}, nil
}

// GetStore returns the storage component
func (ch *componentsHandler) GetStore() api.Storage {
	return ch.store
}

// GetServer returns the server component
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// Start starts the inner components
func (ch *componentsHandler) Start() error {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		return nil
	}

	err := ch.server.Start()
	if err != nil {
		return err
	}

	var ctx context.Context
	ctx, ch.cancel = context.WithCancel(context.Background())
	if ch.statsLogInterval > 0 {
		commonGo.CronJobStarter(ctx, ch.logStats, ch.statsLogInterval)
	}

	return nil
}

func (ch *componentsHandler) logStats(ctx context.Context) {
	stats, err := ch.store.Stats(ctx)
	if err != nil {
		log.Warn("store stats unavailable", "error", err)
		return
	}

	log.Info("store stats",
		"metrics", stats.MetricsCount,
		"notifications", stats.NotificationsCount,
		"store uptime", time.Duration(stats.UptimeSeconds)*time.Second,
	)
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	ch.mutCancel.Lock()
	if ch.cancel != nil {
		ch.cancel()
		ch.cancel = nil
	}
	ch.mutCancel.Unlock()

	err := ch.server.Close()
	if err != nil {
		log.Warn("error closing the server", "error", err)
	}
}
