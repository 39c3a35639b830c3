package server

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civiclens",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route, and status.",
	}, []string{"method", "route", "status"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "civiclens",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	datasetEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "civiclens",
		Name:      "dataset_entries",
		Help:      "Entries in the loaded dataset.",
	})

	datasetLoads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "civiclens",
		Name:      "dataset_loads_total",
		Help:      "Successful dataset loads, including watch reloads.",
	})

	classifyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civiclens",
		Name:      "classify_total",
		Help:      "Ad-hoc classify requests by winning phase.",
	}, []string{"phase"})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, datasetEntries, datasetLoads, classifyTotal)
}

// metricsMiddleware records request count and latency per route. The route
// template keeps the cardinality bounded no matter what clients request.
func metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			} else {
				status = 500
			}
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request().Method
		requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}
