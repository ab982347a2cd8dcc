package scheduler

type options struct {
	name          string
	queueCapacity int
	observer      Observer
}

type Option func(*options)

// WithName sets the dispatcher name used in logs and metrics labels.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithQueueCapacity bounds the thread pool channel. Submit blocks while the
// channel is full. Zero keeps it unbounded. Ignored by the task supervisor.
func WithQueueCapacity(capacity int) Option {
	return func(o *options) {
		if capacity < 0 {
			capacity = 0
		}
		o.queueCapacity = capacity
	}
}

func WithObserver(observer Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

func newOptions(defaultName string, opts ...Option) options {
	o := options{
		name:     defaultName,
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
