package prometheus

import (
	"storefront-service/pkg/config"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors stay nil until InitMetrics runs; every Record helper is a no-op before that.
var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Storage metrics
	StoreOperationDuration *prometheus.HistogramVec
	StoreCorruptRecords    *prometheus.CounterVec

	// Cart metrics
	CartOperationsCounter *prometheus.CounterVec

	// Checkout metrics
	CheckoutCounter    prometheus.Counter
	CheckoutUnitsTotal prometheus.Counter

	// Product metrics
	ProductOperationsCounter *prometheus.CounterVec
	ProductInventoryGauge    *prometheus.GaugeVec

	// Authentication metrics
	AuthAttemptsCounter *prometheus.CounterVec
	AuthErrorsCounter   *prometheus.CounterVec
)

// InitMetrics registers the collectors on the default registry with configuration
func InitMetrics(cfg *config.Config) {
	InitMetricsWith(prometheus.DefaultRegisterer, cfg.Metrics.Prefix)
}

// InitMetricsWith registers the collectors on reg under prefix
func InitMetricsWith(reg prometheus.Registerer, prefix string) {
	factory := promauto.With(reg)

	HttpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	StoreOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_store_operation_duration_seconds",
			Help:    "Duration of key-value store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "key"},
	)

	StoreCorruptRecords = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_store_corrupt_records_total",
			Help: "Total number of unparsable records replaced by their default value",
		},
		[]string{"key"},
	)

	CartOperationsCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_cart_operations_total",
			Help: "Total number of cart operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	CheckoutCounter = factory.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_checkouts_total",
			Help: "Total number of completed checkouts",
		},
	)

	CheckoutUnitsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_checkout_units_total",
			Help: "Total number of units sold through checkout",
		},
	)

	ProductOperationsCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_product_operations_total",
			Help: "Total number of product operations",
		},
		[]string{"operation"},
	)

	ProductInventoryGauge = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_product_inventory",
			Help: "Current inventory level for products",
		},
		[]string{"product_id"},
	)

	AuthAttemptsCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"operation"},
	)

	AuthErrorsCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors by reason",
		},
		[]string{"reason"},
	)
}

// RecordHTTPRequest records count and duration of one HTTP request
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if HttpRequestsTotal == nil {
		return
	}
	statusStr := strconv.Itoa(status)
	HttpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	HttpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())
}

// TrackStoreOperation returns a function that records the duration of a store operation
func TrackStoreOperation(operation, key string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if StoreOperationDuration == nil {
			return
		}
		StoreOperationDuration.WithLabelValues(operation, key).Observe(time.Since(startTime).Seconds())
	}
}

// RecordCorruptRecord counts a record that failed to decode
func RecordCorruptRecord(key string) {
	if StoreCorruptRecords != nil {
		StoreCorruptRecords.WithLabelValues(key).Inc()
	}
}

// RecordCartOperation increments the counter for cart operations
func RecordCartOperation(operation, outcome string) {
	if CartOperationsCounter != nil {
		CartOperationsCounter.WithLabelValues(operation, outcome).Inc()
	}
}

// RecordCheckout counts one checkout and the units it sold
func RecordCheckout(units int) {
	if CheckoutCounter == nil {
		return
	}
	CheckoutCounter.Inc()
	CheckoutUnitsTotal.Add(float64(units))
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	if ProductOperationsCounter != nil {
		ProductOperationsCounter.WithLabelValues(operation).Inc()
	}
}

// UpdateProductInventory updates the gauge for product inventory
func UpdateProductInventory(productID int, stock int) {
	if ProductInventoryGauge != nil {
		ProductInventoryGauge.WithLabelValues(strconv.Itoa(productID)).Set(float64(stock))
	}
}

// RemoveProductInventory drops the inventory series of a deleted product
func RemoveProductInventory(productID int) {
	if ProductInventoryGauge != nil {
		ProductInventoryGauge.DeleteLabelValues(strconv.Itoa(productID))
	}
}

// RecordAuthAttempt increments the counter for login/register attempts
func RecordAuthAttempt(operation string) {
	if AuthAttemptsCounter != nil {
		AuthAttemptsCounter.WithLabelValues(operation).Inc()
	}
}

// RecordAuthError increments the authentication error counter
func RecordAuthError(reason string) {
	if AuthErrorsCounter != nil {
		AuthErrorsCounter.WithLabelValues(reason).Inc()
	}
}
