package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmatch_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	MatchRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobmatch_match_request_duration_seconds",
			Help:    "Duration of each call to the external matching service in seconds.",
			Buckets: []float64{1, 5, 15, 30, 60, 120},
		},
	)
	BatchesSavedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobmatch_batches_saved_total",
			Help: "Total number of match batches saved.",
		},
	)
	ApplicationsRecordedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobmatch_applications_recorded_total",
			Help: "Total number of job applications recorded.",
		},
	)
	StoredResumesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobmatch_stored_resumes",
			Help: "Number of resumes currently stored.",
		},
	)
	StoredJobsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobmatch_stored_jobs",
			Help: "Number of matched jobs currently stored across all batches.",
		},
	)
	StoredApplicationsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobmatch_stored_applications",
			Help: "Number of applied jobs currently stored.",
		},
	)
)

func StartMetricsServer(address string) {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(MatchRequestDuration)
	prometheus.MustRegister(BatchesSavedCounter)
	prometheus.MustRegister(ApplicationsRecordedCounter)
	prometheus.MustRegister(StoredResumesGauge)
	prometheus.MustRegister(StoredJobsGauge)
	prometheus.MustRegister(StoredApplicationsGauge)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(address, nil))
	}()
}
