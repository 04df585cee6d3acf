package prometheus

import (
	"sync"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Sync run metrics
	RunsTotal            *prometheus.CounterVec
	RunStageDuration     *prometheus.HistogramVec
	RecordsRejectedTotal *prometheus.CounterVec
	MutationsTotal       *prometheus.CounterVec
	PriceChangesTotal    *prometheus.CounterVec
	NotificationsTotal   *prometheus.CounterVec
	AssetDownloadsTotal  *prometheus.CounterVec
	LastRunTimestamp     prometheus.Gauge

	// Catalog metrics
	ProductsInStockGauge prometheus.Gauge

	initOnce sync.Once
)

// InitMetrics initializes Prometheus metrics with configuration. Only the
// first call registers collectors.
func InitMetrics(config *config.Config) {
	initOnce.Do(func() { register(config.Metrics.Prefix) })
}

func register(prefix string) {
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	DbOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_runs_total",
			Help: "Total number of sync runs by terminal status",
		},
		[]string{"status"},
	)

	RunStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_run_stage_duration_seconds",
			Help:    "Duration of each sync run stage in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"stage"},
	)

	RecordsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_records_rejected_total",
			Help: "Total number of raw records rejected during normalization",
		},
		[]string{"reason"},
	)

	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_mutations_total",
			Help: "Total number of catalog mutations by result",
		},
		[]string{"result"},
	)

	PriceChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_price_changes_total",
			Help: "Total number of price changes detected",
		},
		[]string{"kind"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_notifications_total",
			Help: "Total number of notification deliveries by transport and result",
		},
		[]string{"transport", "result"},
	)

	AssetDownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_asset_downloads_total",
			Help: "Total number of product image downloads by result",
		},
		[]string{"result"},
	)

	LastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_last_run_timestamp_seconds",
			Help: "Unix time the last sync run completed",
		},
	)

	ProductsInStockGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_products_in_stock",
			Help: "Number of catalog products currently in stock",
		},
	)
}

// RecordHTTPRequest records one served HTTP request
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if HttpRequestsTotal == nil {
		return
	}
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// TrackStage returns a function that records the duration of a run stage
func TrackStage(stage string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if RunStageDuration == nil {
			return
		}
		RunStageDuration.WithLabelValues(stage).Observe(time.Since(startTime).Seconds())
	}
}

// RecordRun counts a finished run and stamps its completion time
func RecordRun(status string, completedAt time.Time) {
	if RunsTotal == nil {
		return
	}
	RunsTotal.WithLabelValues(status).Inc()
	LastRunTimestamp.Set(float64(completedAt.Unix()))
}

// RecordRejection counts a rejected raw record
func RecordRejection(reason string) {
	if RecordsRejectedTotal == nil {
		return
	}
	RecordsRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordMutation counts an applied or failed mutation
func RecordMutation(result string) {
	if MutationsTotal == nil {
		return
	}
	MutationsTotal.WithLabelValues(result).Inc()
}

// RecordPriceChanges adds n price changes of the given kind
func RecordPriceChanges(kind string, n int) {
	if PriceChangesTotal == nil {
		return
	}
	PriceChangesTotal.WithLabelValues(kind).Add(float64(n))
}

// RecordNotification counts one notification delivery attempt
func RecordNotification(transport string, err error) {
	if NotificationsTotal == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	NotificationsTotal.WithLabelValues(transport, result).Inc()
}

// RecordAssetDownload counts one image download attempt
func RecordAssetDownload(result string) {
	if AssetDownloadsTotal == nil {
		return
	}
	AssetDownloadsTotal.WithLabelValues(result).Inc()
}

// UpdateProductsInStock updates the in-stock gauge
func UpdateProductsInStock(count int) {
	if ProductsInStockGauge == nil {
		return
	}
	ProductsInStockGauge.Set(float64(count))
}
