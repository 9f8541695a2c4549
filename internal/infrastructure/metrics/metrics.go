package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"edusync/internal/domain/sync"
)

const namespace = "edusync"

// Recorder счетчик результатов удаленных операций репозиториев
type Recorder struct {
	remoteOps *prometheus.CounterVec
}

var _ sync.Recorder = (*Recorder)(nil)

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		remoteOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "remote_operations_total",
			Help:      "Remote store operations by collection, operation and outcome.",
		}, []string{"collection", "op", "outcome"}),
	}
	reg.MustRegister(r.remoteOps)
	return r
}

func (r *Recorder) ObserveRemote(collection, op string, outcome sync.Outcome) {
	r.remoteOps.WithLabelValues(collection, op, outcome.String()).Inc()
}

// RemoteCount одна серия счетчика удаленных операций
type RemoteCount struct {
	Collection string  `json:"collection"`
	Op         string  `json:"op"`
	Outcome    string  `json:"outcome"`
	Count      float64 `json:"count"`
}

const remoteOpsName = namespace + "_repository_remote_operations_total"

// RemoteCounts читает из реестра счетчики удаленных операций,
// отсортированные по коллекции, операции и результату
func RemoteCounts(g prometheus.Gatherer) ([]RemoteCount, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	out := make([]RemoteCount, 0)
	for _, mf := range families {
		if mf.GetName() != remoteOpsName {
			continue
		}
		for _, m := range mf.GetMetric() {
			rc := RemoteCount{Count: m.GetCounter().GetValue()}
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "collection":
					rc.Collection = lp.GetValue()
				case "op":
					rc.Op = lp.GetValue()
				case "outcome":
					rc.Outcome = lp.GetValue()
				}
			}
			out = append(out, rc)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Collection != b.Collection {
			return a.Collection < b.Collection
		}
		if a.Op != b.Op {
			return a.Op < b.Op
		}
		return a.Outcome < b.Outcome
	})
	return out, nil
}

// HTTP метрики запросов сервера документов
type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTP(reg prometheus.Registerer) *HTTP {
	h := &HTTP{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	reg.MustRegister(h.requests, h.duration)
	return h
}

func (h *HTTP) Observe(method string, status int, elapsed time.Duration) {
	h.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	h.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// NewRegistry реестр с метриками процесса и рантайма Go
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
