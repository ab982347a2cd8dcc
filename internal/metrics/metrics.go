package metrics

import (
	"errors"
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/shirry/webserver/pkg/scheduler"
)

const defaultNamespace = "webserver"

// Observer exports dispatcher job events as Prometheus metrics.
type Observer struct {
	reg prom.Registerer

	submitted *prom.CounterVec
	completed *prom.CounterVec
	panicked  *prom.CounterVec
	rejected  *prom.CounterVec
	duration  *prom.HistogramVec
}

var _ scheduler.Observer = (*Observer)(nil)

// NewObserver creates and registers the job collectors. A nil registerer
// means the default one.
func NewObserver(namespace string, reg prom.Registerer) (*Observer, error) {
	if namespace == "" {
		namespace = defaultNamespace
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}

	submitted := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_submitted_total",
		Help:      "Total number of jobs accepted by the dispatcher.",
	}, []string{"dispatcher"})
	completed := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_completed_total",
		Help:      "Total number of jobs that finished, including panicked ones.",
	}, []string{"dispatcher"})
	panicked := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_panicked_total",
		Help:      "Total number of jobs that panicked.",
	}, []string{"dispatcher"})
	rejected := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_rejected_total",
		Help:      "Total number of submissions refused after shutdown.",
	}, []string{"dispatcher"})
	duration := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "job_duration_seconds",
		Help:      "Job execution duration in seconds.",
		Buckets:   prom.DefBuckets,
	}, []string{"dispatcher"})

	var err error
	if submitted, err = registerCollector(reg, submitted); err != nil {
		return nil, err
	}
	if completed, err = registerCollector(reg, completed); err != nil {
		return nil, err
	}
	if panicked, err = registerCollector(reg, panicked); err != nil {
		return nil, err
	}
	if rejected, err = registerCollector(reg, rejected); err != nil {
		return nil, err
	}
	if duration, err = registerCollector(reg, duration); err != nil {
		return nil, err
	}

	return &Observer{
		reg:       reg,
		submitted: submitted,
		completed: completed,
		panicked:  panicked,
		rejected:  rejected,
		duration:  duration,
	}, nil
}

func (o *Observer) JobSubmitted(dispatcher string) {
	o.submitted.WithLabelValues(normalizeLabel(dispatcher)).Inc()
}

func (o *Observer) JobRejected(dispatcher string) {
	o.rejected.WithLabelValues(normalizeLabel(dispatcher)).Inc()
}

func (o *Observer) JobStarted(string) {}

func (o *Observer) JobFinished(dispatcher string, elapsed time.Duration, err error) {
	label := normalizeLabel(dispatcher)
	o.completed.WithLabelValues(label).Inc()
	o.duration.WithLabelValues(label).Observe(elapsed.Seconds())
	if err != nil {
		o.panicked.WithLabelValues(label).Inc()
	}
}

// Watch exports the queued and active gauges of a running dispatcher. The
// values are read from Stats at scrape time.
func (o *Observer) Watch(namespace string, d scheduler.Observable) error {
	if namespace == "" {
		namespace = defaultNamespace
	}
	labels := prom.Labels{"dispatcher": normalizeLabel(d.Name())}

	queued := prom.NewGaugeFunc(prom.GaugeOpts{
		Namespace:   namespace,
		Name:        "jobs_queued",
		Help:        "Jobs waiting in the dispatcher queue.",
		ConstLabels: labels,
	}, func() float64 { return float64(d.Stats().Queued) })
	active := prom.NewGaugeFunc(prom.GaugeOpts{
		Namespace:   namespace,
		Name:        "jobs_active",
		Help:        "Jobs currently executing.",
		ConstLabels: labels,
	}, func() float64 { return float64(d.Stats().Active) })

	if err := o.reg.Register(queued); err != nil {
		return fmt.Errorf("failed to register queued gauge: %w", err)
	}
	if err := o.reg.Register(active); err != nil {
		return fmt.Errorf("failed to register active gauge: %w", err)
	}
	return nil
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
