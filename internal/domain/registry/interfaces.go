package registry

// Store is the storage-and-query contract shared by the in-memory Repository
// and the SQLite-backed store. Implementations must preserve insertion order
// in every query result and return owned copies.
type Store interface {
	// AddService registers a service. Returns an error wrapping ErrServiceExists
	// if the name is already registered; the store is unchanged in that case.
	AddService(svc Service) error

	// AddDomain records that serviceKey owns d. The service is not required to
	// exist yet; the check is deferred to query time.
	AddDomain(serviceKey string, d Domain)

	// ServiceDomains returns the domains of serviceKey in insertion order,
	// duplicates included. Empty if the service has no associations.
	ServiceDomains(serviceKey string) []Domain

	// AddLink records an undirected link between two services.
	AddLink(from, to string)

	// Links returns every service linked to serviceKey, matching either end,
	// in link order. Panics if a linked key was never registered.
	Links(serviceKey string) []Service

	// ServicesWithDomain returns the owners of d in association order.
	// Panics if an owner was never registered.
	ServicesWithDomain(d Domain) []Service

	// HasService reports whether name is registered.
	HasService(name string) bool

	// HasDomain reports whether key was ever associated with a service.
	HasDomain(key string) bool

	// Services returns all registered services in registration order.
	Services() []Service

	// Domains returns the distinct domain keys in first-seen order.
	Domains() []Domain
}

// Compile-time check that Repository implements Store.
var _ Store = (*Repository)(nil)
