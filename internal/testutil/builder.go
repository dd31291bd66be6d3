// Package testutil provides fixtures and shared tests for registry stores.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/domainmesh/internal/domain/registry"
)

// serviceData holds a service and the domains to associate with it.
type serviceData struct {
	name    string
	domains []string
}

// linkData holds a link to be added.
type linkData struct {
	from string
	to   string
}

// Builder accumulates registry facts and writes them to a store in order:
// services (with their domains), then links.
type Builder struct {
	t        testing.TB
	store    registry.Store
	services []serviceData
	links    []linkData
}

// NewBuilder creates a builder writing into store.
func NewBuilder(t testing.TB, store registry.Store) *Builder {
	t.Helper()
	return &Builder{t: t, store: store}
}

// WithService adds a service owning domains, in order.
func (b *Builder) WithService(name string, domains ...string) *Builder {
	b.services = append(b.services, serviceData{name: name, domains: domains})
	return b
}

// WithLink adds a link between two services.
func (b *Builder) WithLink(from, to string) *Builder {
	b.links = append(b.links, linkData{from: from, to: to})
	return b
}

// Build writes everything to the store, failing the test on a duplicate service.
func (b *Builder) Build() registry.Store {
	b.t.Helper()
	for _, svc := range b.services {
		require.NoError(b.t, b.store.AddService(registry.NewService(svc.name)), "add service %s", svc.name)
		for _, d := range svc.domains {
			b.store.AddDomain(svc.name, registry.NewDomain(d))
		}
	}
	for _, l := range b.links {
		b.store.AddLink(l.from, l.to)
	}
	return b.store
}

// DomainKeys flattens domains to their keys.
func DomainKeys(domains []registry.Domain) []string {
	result := make([]string, len(domains))
	for i, d := range domains {
		result[i] = d.Key()
	}
	return result
}

// ServiceNames flattens services to their names.
func ServiceNames(services []registry.Service) []string {
	result := make([]string, len(services))
	for i, s := range services {
		result[i] = s.Name()
	}
	return result
}
