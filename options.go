package ward

import (
	"time"

	"go.uber.org/zap"
)

type Option func(*containerConfig)

// ResolveHook, ProvideHook, StartHook and StopHook are the observer
// signatures a caller registers with WithResolveObserver/
// WithProvideObserver/WithStartObserver/WithStopObserver to feed
// resolve/provide/start/stop events into a metrics backend.
type (
	ResolveHook func(key string, duration time.Duration, err error)
	ProvideHook func(key string)
	StartHook   func(key string, duration time.Duration, err error)
	StopHook    func(key string, duration time.Duration, err error)
)

func WithLogger(logger *zap.Logger) Option {
	return func(cfg *containerConfig) {
		cfg.logger = logger
	}
}

// WithParallel starts independent services concurrently within each
// dependency-order level instead of one at a time.
func WithParallel() Option {
	return func(cfg *containerConfig) {
		cfg.parallel = true
	}
}

// WithShutdownTimeout bounds Stop(); the deadline is checked between
// service shutdowns and passed to each OnStop hook's context.
func WithShutdownTimeout(d time.Duration) Option {
	return func(cfg *containerConfig) {
		cfg.shutdownTimeout = d
	}
}

func WithResolveObserver(hook ResolveHook) Option {
	return func(cfg *containerConfig) {
		cfg.onResolve = append(cfg.onResolve, hook)
	}
}

func WithProvideObserver(hook ProvideHook) Option {
	return func(cfg *containerConfig) {
		cfg.onProvide = append(cfg.onProvide, hook)
	}
}

func WithStartObserver(hook StartHook) Option {
	return func(cfg *containerConfig) {
		cfg.onStart = append(cfg.onStart, hook)
	}
}

func WithStopObserver(hook StopHook) Option {
	return func(cfg *containerConfig) {
		cfg.onStop = append(cfg.onStop, hook)
	}
}
