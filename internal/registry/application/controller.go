package application

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/domainmesh/internal/cachemanager"
	"github.com/zjrosen/domainmesh/internal/domain/registry"
	"github.com/zjrosen/domainmesh/internal/log"
	"github.com/zjrosen/domainmesh/internal/pubsub"
	"github.com/zjrosen/domainmesh/internal/tracing"
)

// Controller translates user-level Services into store calls and answers the
// connected-domains query. It owns no registry state of its own.
type Controller struct {
	store     registry.Store
	tracer    trace.Tracer
	broker    *pubsub.Broker[ChangeEvent]
	cache     cachemanager.CacheManager[string, []string]
	cacheTTL  time.Duration
	connected *cachemanager.ReadThroughCache[string, []string, Service]
}

// Option configures a Controller.
type Option func(*Controller)

// WithCache memoises ConnectedDomains results in cache for ttl. Every write
// flushes the cache.
func WithCache(cache cachemanager.CacheManager[string, []string], ttl time.Duration) Option {
	return func(c *Controller) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Controller) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithBroker sets the broker change events are published on.
func WithBroker(broker *pubsub.Broker[ChangeEvent]) Option {
	return func(c *Controller) {
		if broker != nil {
			c.broker = broker
		}
	}
}

// NewController creates a controller over store.
func NewController(store registry.Store, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		tracer: noop.NewTracerProvider().Tracer("noop"),
		broker: pubsub.NewBroker[ChangeEvent](),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.connected = cachemanager.NewReadThroughCache[string, []string, Service](
		c.cache,
		c.computeConnectedDomains,
		c.cache == nil,
	)
	return c
}

// AddService registers svc and then adds its domains in list order. If the
// name is taken the registry error is returned unchanged and no domains are
// added.
func (c *Controller) AddService(ctx context.Context, svc Service) error {
	ctx, span := tracing.Start(ctx, c.tracer, tracing.SpanAddService,
		attribute.String(tracing.AttrService, svc.Name()),
		attribute.Int(tracing.AttrDomainCount, len(svc.domains)),
	)
	defer span.End()

	if err := c.store.AddService(registry.NewService(svc.Name())); err != nil {
		log.Warn(log.CatRegistry, "Service rejected", "service", svc.Name(), "error", err)
		tracing.RecordError(span, err)
		return err
	}

	for _, d := range svc.domains {
		c.store.AddDomain(svc.Name(), registry.NewDomain(d))
	}

	c.invalidate(ctx)
	c.broker.Publish(pubsub.CreatedEvent, ChangeEvent{
		Kind:    ServiceAdded,
		Service: svc.Name(),
		Domains: svc.Domains(),
	})
	log.Debug(log.CatRegistry, "Service added", "service", svc.Name(), "domains", len(svc.domains))
	return nil
}

// LinkServices links from and to. Neither service has to exist yet.
func (c *Controller) LinkServices(ctx context.Context, from, to Service) {
	ctx, span := tracing.Start(ctx, c.tracer, tracing.SpanLinkServices,
		attribute.String(tracing.AttrLinkFrom, from.Name()),
		attribute.String(tracing.AttrLinkTo, to.Name()),
	)
	defer span.End()

	c.store.AddLink(from.Name(), to.Name())

	c.invalidate(ctx)
	c.broker.Publish(pubsub.CreatedEvent, ChangeEvent{
		Kind:    LinkAdded,
		Service: from.Name(),
		Target:  to.Name(),
	})
	log.Debug(log.CatRegistry, "Services linked", "from", from.Name(), "to", to.Name())
}

// ConnectedDomains returns svc's own domains followed by the domains of each
// linked service, in link order. Repeats are kept.
//
// Panics if svc is linked to a service that was never registered.
func (c *Controller) ConnectedDomains(ctx context.Context, svc Service) []string {
	ctx, span := tracing.Start(ctx, c.tracer, tracing.SpanConnectedDomains,
		attribute.String(tracing.AttrService, svc.Name()),
	)
	defer span.End()

	// computeConnectedDomains never fails
	domains, _ := c.connected.Get(ctx, svc.Name(), svc, c.cacheTTL)
	span.SetAttributes(attribute.Int(tracing.AttrDomainCount, len(domains)))

	result := make([]string, len(domains))
	copy(result, domains)
	return result
}

func (c *Controller) computeConnectedDomains(ctx context.Context, svc Service) ([]string, error) {
	result := domainKeys(c.store.ServiceDomains(svc.Name()))
	for _, linked := range c.store.Links(svc.Name()) {
		result = append(result, domainKeys(c.store.ServiceDomains(linked.Name()))...)
	}
	return result, nil
}

// Links returns the names of the services linked to name, in link order.
func (c *Controller) Links(ctx context.Context, name string) []string {
	_, span := tracing.Start(ctx, c.tracer, tracing.SpanLinks,
		attribute.String(tracing.AttrService, name),
	)
	defer span.End()

	return serviceNames(c.store.Links(name))
}

// ServicesWithDomain returns the names of the services owning domain, in
// association order.
func (c *Controller) ServicesWithDomain(ctx context.Context, domain string) []string {
	_, span := tracing.Start(ctx, c.tracer, tracing.SpanDomainOwners,
		attribute.String(tracing.AttrDomain, domain),
	)
	defer span.End()

	owners := serviceNames(c.store.ServicesWithDomain(registry.NewDomain(domain)))
	span.SetAttributes(attribute.Int(tracing.AttrServiceCount, len(owners)))
	return owners
}

// HasService reports whether name is registered.
func (c *Controller) HasService(name string) bool {
	return c.store.HasService(name)
}

// Services returns every registered service with the domains it owns, in
// registration order.
func (c *Controller) Services() []Service {
	services := c.store.Services()
	result := make([]Service, 0, len(services))
	for _, s := range services {
		result = append(result, NewService(s.Name(), domainKeys(c.store.ServiceDomains(s.Name()))...))
	}
	return result
}

// Domains returns every distinct domain key in first-seen order.
func (c *Controller) Domains() []string {
	return domainKeys(c.store.Domains())
}

// Subscribe returns a channel of change events, closed when ctx is done.
func (c *Controller) Subscribe(ctx context.Context) <-chan pubsub.Event[ChangeEvent] {
	return c.broker.Subscribe(ctx)
}

// Close releases subscribers.
func (c *Controller) Close() {
	c.broker.Close()
}

func (c *Controller) invalidate(ctx context.Context) {
	if err := c.connected.Invalidate(ctx); err != nil {
		log.ErrorErr(log.CatCache, "Failed to flush connected-domain cache", err)
	}
}

func domainKeys(domains []registry.Domain) []string {
	result := make([]string, len(domains))
	for i, d := range domains {
		result[i] = d.Key()
	}
	return result
}

func serviceNames(services []registry.Service) []string {
	result := make([]string, len(services))
	for i, s := range services {
		result[i] = s.Name()
	}
	return result
}
