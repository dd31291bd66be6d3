package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/domainmesh/internal/domain/registry"
)

// StoreFactory returns an empty store for one subtest.
type StoreFactory func(t *testing.T) registry.Store

// RunStoreTests checks the behaviour every registry.Store must share:
// duplicate rejection, ordering, link symmetry, deferred validation panics
// and read idempotence.
func RunStoreTests(t *testing.T, newStore StoreFactory) {
	t.Run("AddServiceThenHasService", func(t *testing.T) {
		store := newStore(t)
		require.False(t, store.HasService("s1"))
		require.NoError(t, store.AddService(registry.NewService("s1")))
		require.True(t, store.HasService("s1"))
	})

	t.Run("DuplicateServiceRejected", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.AddService(registry.NewService("s1")))

		err := store.AddService(registry.NewService("s1"))
		require.ErrorIs(t, err, registry.ErrServiceExists)
		require.EqualError(t, err, "s1 service already exists")
		require.Equal(t, []string{"s1"}, ServiceNames(store.Services()))
	})

	t.Run("ServiceDomainsInInsertionOrder", func(t *testing.T) {
		store := NewBuilder(t, newStore(t)).
			WithService("s1", "b", "a", "b").
			Build()

		require.Equal(t, []string{"b", "a", "b"}, DomainKeys(store.ServiceDomains("s1")))
		require.Equal(t, []string{"b", "a"}, DomainKeys(store.Domains()))
	})

	t.Run("ServiceDomainsEmpty", func(t *testing.T) {
		store := NewBuilder(t, newStore(t)).WithService("s1").Build()

		got := store.ServiceDomains("s1")
		require.NotNil(t, got)
		require.Empty(t, got)
		require.Empty(t, store.ServiceDomains("unknown"))
	})

	t.Run("ServicesWithDomain", func(t *testing.T) {
		store := NewBuilder(t, newStore(t)).WithSharedDomains().Build()

		require.Equal(t, []string{"api", "web", "cdn"},
			ServiceNames(store.ServicesWithDomain(registry.NewDomain("example.com"))))
		require.Equal(t, []string{"web"},
			ServiceNames(store.ServicesWithDomain(registry.NewDomain("www.example.com"))))
		require.Empty(t, store.ServicesWithDomain(registry.NewDomain("never.example.com")))
	})

	t.Run("LinksAreSymmetric", func(t *testing.T) {
		store := NewBuilder(t, newStore(t)).
			WithService("service-1").
			WithService("service-2").
			WithService("service-3").
			WithLink("service-1", "service-3").
			WithLink("service-2", "service-3").
			Build()

		require.Equal(t, []string{"service-3"}, ServiceNames(store.Links("service-1")))
		require.Equal(t, []string{"service-1", "service-2"}, ServiceNames(store.Links("service-3")))
		require.Empty(t, store.Links("unknown"))
	})

	t.Run("LinkToUnregisteredPanics", func(t *testing.T) {
		store := NewBuilder(t, newStore(t)).WithService("s1").WithLink("s1", "ghost").Build()

		require.PanicsWithValue(t, "ghost expected to exist", func() {
			store.Links("s1")
		})
	})

	t.Run("OwnerUnregisteredPanics", func(t *testing.T) {
		store := newStore(t)
		store.AddDomain("ghost", registry.NewDomain("dom1"))

		require.True(t, store.HasDomain("dom1"))
		require.PanicsWithValue(t, "ghost expected to exist", func() {
			store.ServicesWithDomain(registry.NewDomain("dom1"))
		})
	})

	t.Run("ReadsAreIdempotent", func(t *testing.T) {
		store := NewBuilder(t, newStore(t)).WithReferenceScenario().Build()

		for _, name := range []string{"s1", "s2", "s3"} {
			require.Equal(t, store.ServiceDomains(name), store.ServiceDomains(name))
			require.Equal(t, store.Links(name), store.Links(name))
			require.Equal(t, store.HasService(name), store.HasService(name))
		}
		dom := registry.NewDomain("dom3")
		require.Equal(t, store.ServicesWithDomain(dom), store.ServicesWithDomain(dom))
	})

	t.Run("ServicesInRegistrationOrder", func(t *testing.T) {
		store := NewBuilder(t, newStore(t)).WithReferenceScenario().Build()

		require.Equal(t, []string{"s1", "s2", "s3"}, ServiceNames(store.Services()))
		require.Equal(t, []string{"dom1", "dom2", "dom3", "dom4", "dom5"}, DomainKeys(store.Domains()))
	})
}
