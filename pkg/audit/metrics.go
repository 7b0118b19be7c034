package audit

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	clog "github.com/vilterp/audit/pkg/log"
	pp "github.com/vilterp/audit/pkg/prettyprint"
)

// Metrics counts checks run through wrapped checkers.
type Metrics struct {
	registry *prometheus.Registry

	// Log every failure with the checker name as a tag.
	LogFailures bool

	checks   *prometheus.CounterVec
	failures *prometheus.CounterVec
	latency  prometheus.Summary
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audit_checks_total",
				Help: "number of checks run, by checker",
			},
			[]string{"checker"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audit_failures_total",
				Help: "number of failed checks, by checker and failure kind",
			},
			[]string{"checker", "kind"},
		),
		latency: prometheus.NewSummary(prometheus.SummaryOpts{
			Name: "audit_check_latency_seconds",
			Help: "time spent in wrapped checkers",
		}),
	}
	m.registry.MustRegister(m.checks, m.failures, m.latency)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Wrap returns a checker that runs c and records the outcome under name.
func (m *Metrics) Wrap(name string, c Checker) Checker {
	return m.WrapContext(context.Background(), name, c)
}

// WrapContext is Wrap with failure logs tagged from ctx as well.
func (m *Metrics) WrapContext(ctx context.Context, name string, c Checker) Checker {
	return &instrumented{
		name:    name,
		inner:   c,
		metrics: m,
		ctx:     clog.With(ctx, clog.CheckerKey, name),
	}
}

type instrumented struct {
	name    string
	inner   Checker
	metrics *Metrics
	ctx     context.Context
}

var _ Checker = &instrumented{}
var _ clog.Loggable = &instrumented{}

func (i *instrumented) Ctx() context.Context {
	return i.ctx
}

func (i *instrumented) Check(v interface{}) error {
	start := time.Now()
	err := i.inner.Check(v)
	i.metrics.latency.Observe(time.Since(start).Seconds())
	i.metrics.checks.WithLabelValues(i.name).Inc()
	if err != nil {
		i.metrics.failures.WithLabelValues(i.name, KindOf(err)).Inc()
		if i.metrics.LogFailures {
			clog.Printf(i, "check %s failed: %s", i.inner.Format(), err)
		}
	}
	return err
}

func (i *instrumented) Format() pp.Doc {
	return i.inner.Format()
}
