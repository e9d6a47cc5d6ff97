// Package metrics exposes prometheus collectors for RPC calls and sweep items.
package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github/chapool/go-sweeper/internal/sweep/model"
)

const namespace = "sweeper"

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Service owns a private registry so that tests and multiple servers never collide.
type Service struct {
	Registry *prometheus.Registry

	rpcCalls     *prometheus.CounterVec
	rpcDuration  *prometheus.HistogramVec
	items        *prometheus.CounterVec
	itemDuration prometheus.Histogram
	inFlight     prometheus.Gauge
}

func New() (*Service, error) {
	registry := prometheus.NewRegistry()

	s := &Service{
		Registry: registry,
		rpcCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_calls_total",
			Help:      "JSON-RPC attempts per method, endpoint and outcome.",
		}, []string{"method", "endpoint", "outcome"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_call_duration_seconds",
			Help:      "Duration of single JSON-RPC attempts.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_total",
			Help:      "Finished plan items per status and error kind.",
		}, []string{"status", "kind"}),
		itemDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transfer_duration_seconds",
			Help:      "Time from start to final state of a plan item.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10), //nolint:mnd
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transfers_in_flight",
			Help:      "Plan items currently being processed.",
		}),
	}

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		s.rpcCalls,
		s.rpcDuration,
		s.items,
		s.itemDuration,
		s.inFlight,
	} {
		if err := registry.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register metrics collector")
		}
	}

	return s, nil
}

// ObserveRPCCall records one endpoint attempt.
func (s *Service) ObserveRPCCall(method, endpoint string, err error, duration time.Duration) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeError
	}

	s.rpcCalls.WithLabelValues(method, endpoint, outcome).Inc()
	s.rpcDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// ItemStarted marks a plan item as in flight.
func (s *Service) ItemStarted() {
	s.inFlight.Inc()
}

// ItemFinished records the final state of a started plan item.
func (s *Service) ItemFinished(res model.TransactionResult, duration time.Duration) {
	s.inFlight.Dec()
	s.items.WithLabelValues(string(res.Status), res.ErrorKind.String()).Inc()
	s.itemDuration.Observe(duration.Seconds())
}

// ItemSkipped records a plan item that failed without being started.
func (s *Service) ItemSkipped(res model.TransactionResult) {
	s.items.WithLabelValues(string(res.Status), res.ErrorKind.String()).Inc()
}
