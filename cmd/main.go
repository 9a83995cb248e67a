package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"
	"github.com/resumodo/jobmatch/internal/clients/matcher"
	"github.com/resumodo/jobmatch/internal/config"
	"github.com/resumodo/jobmatch/internal/logger"
	"github.com/resumodo/jobmatch/internal/metrics"
	"github.com/resumodo/jobmatch/internal/services"
	"github.com/resumodo/jobmatch/internal/store"
	log "github.com/sirupsen/logrus"
)

// Development harness: boots the persistence core the way an embedding UI
// would, exposes the prometheus endpoint and waits for a signal. All
// business operations live in internal/services; this binary owns none.
func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.Metrics.Address)

	db, err := store.OpenDB(cfg.Store.ConnectionString)
	if err != nil {
		log.Fatalf("can't open store: %v", err)
	}
	defer db.Close()

	st := store.New(store.NewCachedKV(db))
	bus := EventBus.New()

	matcherClient := matcher.NewClient(cfg.Matcher.WebhookURL)
	if cfg.Matcher.MaxRequestsPerSecond > 0 {
		matcherClient.SetRateLimit(cfg.Matcher.MaxRequestsPerSecond)
	}

	resumes := services.NewResumes(st)
	batches := services.NewBatches(st, bus)
	services.NewApplications(st, bus)
	services.NewUploads(matcherClient, resumes, batches)

	stats, err := services.NewStatsCollector(st, bus)
	if err != nil {
		log.Fatalf("can't create stats collector: %v", err)
	}
	defer stats.Stop()

	log.Info("jobmatch store ready")

	<-ctx.Done()
	log.Info("Shutting down...")
}
