package ward

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ashbourne/ward/internal/container"
)

type Container struct {
	internal *container.Container
	config   *containerConfig
}

type containerConfig struct {
	logger          *zap.Logger
	parallel        bool
	shutdownTimeout time.Duration

	onResolve []ResolveHook
	onProvide []ProvideHook
	onStart   []StartHook
	onStop    []StopHook
}

// New creates an empty container. Register services with Provide/Bind/
// ProvideFunc before calling Start or Run.
func New(opts ...Option) *Container {
	cfg := &containerConfig{}

	for _, opt := range opts {
		opt(cfg)
	}

	internal := container.New(
		&container.Config{
			Logger:          cfg.logger,
			Parallel:        cfg.parallel,
			ShutdownTimeout: cfg.shutdownTimeout,
			OnResolve:       toInternalResolveHooks(cfg.onResolve),
			OnProvide:       toInternalProvideHooks(cfg.onProvide),
			OnStart:         toInternalStartHooks(cfg.onStart),
			OnStop:          toInternalStopHooks(cfg.onStop),
		},
	)

	return &Container{
		internal: internal,
		config:   cfg,
	}
}

func toInternalResolveHooks(hooks []ResolveHook) []container.ResolveHook {
	out := make([]container.ResolveHook, len(hooks))
	for i, h := range hooks {
		out[i] = container.ResolveHook(h)
	}
	return out
}

func toInternalProvideHooks(hooks []ProvideHook) []container.ProvideHook {
	out := make([]container.ProvideHook, len(hooks))
	for i, h := range hooks {
		out[i] = container.ProvideHook(h)
	}
	return out
}

func toInternalStartHooks(hooks []StartHook) []container.StartHook {
	out := make([]container.StartHook, len(hooks))
	for i, h := range hooks {
		out[i] = container.StartHook(h)
	}
	return out
}

func toInternalStopHooks(hooks []StopHook) []container.StopHook {
	out := make([]container.StopHook, len(hooks))
	for i, h := range hooks {
		out[i] = container.StopHook(h)
	}
	return out
}

// Internal exposes the underlying registry/resolver, for test helpers
// (wardtest) that need to mutate registrations directly.
func (c *Container) Internal() *container.Container {
	return c.internal
}

func (c *Container) Validate() error {
	if err := c.internal.Validate(); err != nil {
		return errValidationFailed(err)
	}
	return nil
}

func (c *Container) Size() int {
	return c.internal.Size()
}

func (c *Container) Keys() []string {
	return c.internal.Keys()
}

// CreateScope opens a top-level child scope of the container (§4.E).
// Scoped services resolved through it are cached for the scope's
// lifetime and disposed, in reverse build order, when Close is called.
func (c *Container) CreateScope() *Scope {
	return &Scope{internal: c.internal.CreateScope(), root: c}
}

func (c *Container) Start(ctx context.Context) error {
	if err := c.internal.Start(ctx); err != nil {
		return errStartupFailed("container", err)
	}
	return nil
}

func (c *Container) Stop(ctx context.Context) error {
	if c.config.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.shutdownTimeout)
		defer cancel()
	}

	if err := c.internal.Stop(ctx); err != nil {
		return errShutdownFailed("container", err)
	}
	return nil
}

func (c *Container) Run(ctx context.Context) error {
	if err := c.Start(ctx); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case <-quit:
	}

	signal.Stop(quit)
	close(quit)

	return c.Stop(context.Background())
}

func errValidationFailed(cause error) *Error {
	return newError(ErrCodeValidationFailed, "container validation failed", cause)
}
