package services

import (
	"context"

	"github.com/asaskevich/EventBus"
	"github.com/resumodo/jobmatch/internal/events"
	"github.com/resumodo/jobmatch/internal/logger"
	"github.com/resumodo/jobmatch/internal/metrics"
	"github.com/resumodo/jobmatch/internal/store"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// StatsCollector keeps the stored-state gauges current: periodically via
// cron and immediately after batch/application writes via the event bus.
type StatsCollector struct {
	store *store.Store
	cron  *cron.Cron
}

func NewStatsCollector(store *store.Store, bus EventBus.Bus) (*StatsCollector, error) {

	sc := &StatsCollector{store: store, cron: cron.New()}

	if err := bus.Subscribe(events.BatchSavedTopic, sc.onBatchSaved); err != nil {
		return nil, err
	}
	if err := bus.Subscribe(events.BatchDeletedTopic, sc.onBatchDeleted); err != nil {
		return nil, err
	}
	if err := bus.Subscribe(events.ApplicationRecordedTopic, sc.onApplicationRecorded); err != nil {
		return nil, err
	}

	if _, err := sc.cron.AddFunc("@every 1m", sc.refresh); err != nil {
		return nil, err
	}

	sc.cron.Start()
	sc.refresh()
	return sc, nil
}

func (sc *StatsCollector) Stop() {
	sc.cron.Stop()
}

func (sc *StatsCollector) onBatchSaved(event events.BatchSaved) {
	metrics.BatchesSavedCounter.Inc()
	sc.refresh()
}

func (sc *StatsCollector) onBatchDeleted(event events.BatchDeleted) {
	sc.refresh()
}

func (sc *StatsCollector) onApplicationRecorded(event events.ApplicationRecorded) {
	metrics.ApplicationsRecordedCounter.Inc()
	sc.refresh()
}

func (sc *StatsCollector) refresh() {
	ctx := context.Background()

	resumes, err := sc.store.Resumes(ctx)
	if err != nil {
		sc.logRefreshError(err)
		return
	}
	jobsByResume, err := sc.store.JobsByResume(ctx)
	if err != nil {
		sc.logRefreshError(err)
		return
	}
	applied, err := sc.store.AppliedJobs(ctx)
	if err != nil {
		sc.logRefreshError(err)
		return
	}

	totalJobs := 0
	for _, data := range jobsByResume {
		totalJobs += data.JobCount()
	}

	metrics.StoredResumesGauge.Set(float64(len(resumes)))
	metrics.StoredJobsGauge.Set(float64(totalJobs))
	metrics.StoredApplicationsGauge.Set(float64(len(applied)))
}

func (sc *StatsCollector) logRefreshError(err error) {
	log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
		Errorf("failed to refresh stored-state stats: %v", err)
}
