// Package ward is a generics-based dependency injection container for Go
// services: a typed registry, a resolver that builds a dependency's
// transitive closure in declared order, and a lifecycle the container
// drives through Start/Stop.
//
// Services are registered once with their dependency list fixed at
// registration time — the resolver never probes constructors or
// rediscovers a dependency graph at resolve time. Singletons, scoped
// instances, and pooled instances are distinguished by lifecycle kind;
// named bindings, interface binding, decorators, struct-tag
// autowiring, and a test-mode mock overlay sit on top of that core.
//
// # Quick Start
//
// Create a container and register providers:
//
//	c := ward.New()
//
//	ward.Provide(c, func(ctx context.Context, r ward.Resolver) (*Config, error) {
//	    return &Config{Port: 8080}, nil
//	})
//
//	ward.Provide(c, func(ctx context.Context, r ward.Resolver) (*Server, error) {
//	    cfg := ward.MustInvoke[*Config](c)
//	    return &Server{config: cfg}, nil
//	})
//
//	c.Run(ctx)
//
// # Providers
//
// Providers are functions that create instances of a type. They receive a context
// and a Resolver for accessing other dependencies:
//
//	ward.Provide[T](c, provider)           // Register a provider
//	ward.ProvideValue[T](c, value)         // Register an existing value
//	ward.ProvideNamed[T](c, "name", prov)  // Register a named provider
//
// # Auto-Wiring
//
// Skip hand-written Provider closures when a constructor's parameter
// types already say what it needs.
//
// ProvideFunc resolves a constructor's parameters positionally:
//
//	func NewUserService(db *Database, log *Logger) *UserService {
//	    return &UserService{db: db, log: log}
//	}
//	ward.ProvideFunc[*UserService](c, NewUserService)
//
// ProvideStruct reads the same information off struct tags instead,
// and wires each tagged field through the container's ordinary
// property-injection path:
//
//	type UserService struct {
//	    DB     *Database `ward:""`           // inject by type
//	    Log    *Logger   `ward:"appLogger"`  // inject by name
//	    Cache  *Cache    `ward:",optional"`  // optional dependency
//	}
//	ward.ProvideStruct[*UserService](c)
//
// Or invoke directly without registering:
//
//	svc, err := ward.InvokeStruct[*UserService](c)
//
// # Resolution
//
// Resolve dependencies using the Invoke functions:
//
//	svc, err := ward.Invoke[*Service](c)   // Returns value and error
//	svc := ward.MustInvoke[*Service](c)    // Panics on error
//
// # Optional Dependencies
//
// Use Optional for dependencies that may or may not be registered:
//
//	opt := ward.InvokeOptional[*Cache](c)
//	if opt.Present() {
//	    cache := opt.Value()
//	}
//
//	// Or use OrElse for default values
//	cache := ward.InvokeOptional[*Cache](c).OrElse(defaultCache)
//
//	// OrElseFunc for lazy defaults
//	cache := ward.InvokeOptional[*Cache](c).OrElseFunc(func() *Cache {
//	    return NewDefaultCache()
//	})
//
// # Lifecycle
//
// Services can participate in the container's lifecycle:
//
//	ward.Provide(c, NewServer,
//	    ward.WithOnStart(func(ctx context.Context) error {
//	        return server.Listen()
//	    }),
//	    ward.WithOnStop(func(ctx context.Context) error {
//	        return server.Shutdown(ctx)
//	    }),
//	)
//
//	c.Start(ctx)  // Starts all services in dependency order
//	c.Stop(ctx)   // Stops all services in reverse order
//	c.Run(ctx)    // Start + wait for signal + Stop
//
// # Lazy Providers
//
// Defer instantiation until first use:
//
//	ward.Provide(c, NewExpensiveService, ward.WithLazy())
//
// Lazy services are not instantiated during Start(). They are created on first
// Invoke(), and their OnStart hooks run at that time if the container is running.
//
// # Parallel Startup
//
// Start independent services concurrently for faster boot times:
//
//	c := ward.New(ward.WithParallel())
//
// Services at the same dependency level start in parallel. Services still
// wait for their dependencies before starting.
//
// # Shutdown Timeout
//
// Configure a deadline for graceful shutdown:
//
//	c := ward.New(ward.WithShutdownTimeout(30 * time.Second))
//
// The timeout applies to Stop() and is checked between service shutdowns.
// Individual OnStop hooks receive the timeout context.
//
// # Debug Visualization
//
// Print the dependency graph for debugging:
//
//	c.PrintGraph()           // ASCII to stdout
//	c.PrintGraphDOT()        // Graphviz DOT to stdout
//	output := c.SprintGraph()
//	info := c.Graph()        // Structured GraphInfo
//
// # Modules
//
// Group related providers so they can be applied to a container as a
// unit:
//
//	var ConfigModule = ward.NewModule("config")
//	ward.ModuleProvideValue(ConfigModule, &Config{Port: 8080})
//
//	var HTTPModule = ward.NewModule("http")
//	ward.ModuleProvide(HTTPModule, NewServer)
//	ward.ModuleProvide(HTTPModule, NewRouter)
//
//	c.Apply(ConfigModule, HTTPModule)
//
// Modules can include other modules:
//
//	var AppModule = ward.NewModule("app").
//	    Include(ConfigModule).
//	    Include(HTTPModule)
//
// # Interface Binding
//
// Bind interfaces to concrete implementations:
//
//	ward.Bind[UserRepository, *PostgresUserRepo](c)
//	ward.BindNamed[Cache, *RedisCache](c, "session")
//
// Or within modules:
//
//	ward.ModuleBind[UserRepository, *PostgresUserRepo](module)
//
// # Decorators
//
// Wrap services with cross-cutting concerns:
//
//	ward.Decorate(c, func(ctx context.Context, r ward.Resolver, log *Logger) (*Logger, error) {
//	    return log.Named("app"), nil
//	})
//
// Decorators are applied in order and can be chained:
//
//	ward.Decorate(c, addMetrics)
//	ward.Decorate(c, addTracing)
//
// # Scopes
//
// Control instance lifetime with scopes:
//
//	ward.Provide(c, NewService, ward.WithScope(ward.Transient))
//	ward.Provide(c, NewService, ward.WithScope(ward.Scoped))
//	ward.Provide(c, NewService, ward.WithPoolSize(10))
//
// Available scopes: Singleton (default), Transient, Scoped, Pooled. Scoped
// services are cached per-Scope, created with Container.CreateScope.
//
// # Health Checks
//
// Services can implement health check interfaces:
//
//	type Database struct{}
//	func (d *Database) HealthCheck(ctx context.Context) error { return d.Ping(ctx) }
//	func (d *Database) ReadinessCheck(ctx context.Context) error { return d.Ready(ctx) }
//
// Check health status:
//
//	err := c.Live(ctx)           // Fails if any HealthChecker returns error
//	err := c.Ready(ctx)          // Fails if any ReadinessChecker returns error
//	reports := c.Health(ctx)     // Get detailed health reports with latency
//
// # Metrics Observers
//
// Hook resolve/provide/start/stop events into whatever metrics backend
// the host service already uses:
//
//	c := ward.New(
//	    ward.WithResolveObserver(func(key string, d time.Duration, err error) {
//	        metrics.RecordResolve(key, d, err)
//	    }),
//	    ward.WithProvideObserver(func(key string) {
//	        metrics.RecordProvide(key)
//	    }),
//	    ward.WithStartObserver(func(key string, d time.Duration, err error) {
//	        metrics.RecordStart(key, d, err)
//	    }),
//	    ward.WithStopObserver(func(key string, d time.Duration, err error) {
//	        metrics.RecordStop(key, d, err)
//	    }),
//	)
package ward
