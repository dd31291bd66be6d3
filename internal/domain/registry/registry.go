package registry

import (
	"errors"
	"fmt"
	"sync"
)

// Registry errors
var (
	ErrServiceExists = errors.New("service already exists")
)

// Repository holds services, domains, associations and links in memory.
// Associations and links are flat ordered sequences scanned per query.
type Repository struct {
	mu           sync.RWMutex
	services     map[string]Service
	order        []string        // service names in registration order
	domains      map[string]bool // global domain-key set
	domainOrder  []Domain        // distinct domains in first-seen order
	associations []association
	links        []link
}

// NewRepository creates an empty repository
func NewRepository() *Repository {
	return &Repository{
		services:     make(map[string]Service),
		order:        make([]string, 0),
		domains:      make(map[string]bool),
		domainOrder:  make([]Domain, 0),
		associations: make([]association, 0),
		links:        make([]link, 0),
	}
}

// AddService registers svc. Fails with ErrServiceExists if the name is taken.
func (r *Repository) AddService(svc Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.services[svc.Name()]; ok {
		return fmt.Errorf("%s %w", svc.Name(), ErrServiceExists)
	}

	r.services[svc.Name()] = svc
	r.order = append(r.order, svc.Name())
	return nil
}

// AddDomain records that serviceKey owns d
func (r *Repository) AddDomain(serviceKey string, d Domain) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.domains[d.Key()] {
		r.domains[d.Key()] = true
		r.domainOrder = append(r.domainOrder, d)
	}
	r.associations = append(r.associations, association{service: serviceKey, domain: d})
}

// ServiceDomains returns the domains owned by serviceKey in insertion order
func (r *Repository) ServiceDomains(serviceKey string) []Domain {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Domain, 0)
	for _, a := range r.associations {
		if a.service == serviceKey {
			result = append(result, a.domain)
		}
	}
	return result
}

// AddLink records an undirected link between from and to
func (r *Repository) AddLink(from, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.links = append(r.links, link{from: from, to: to})
}

// Links returns the services linked to serviceKey in link order
func (r *Repository) Links(serviceKey string) []Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Service, 0)
	for _, l := range r.links {
		other, ok := l.other(serviceKey)
		if !ok {
			continue
		}
		result = append(result, r.mustService(other))
	}
	return result
}

// ServicesWithDomain returns every service owning a domain with d's key
func (r *Repository) ServicesWithDomain(d Domain) []Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Service, 0)
	for _, a := range r.associations {
		if a.domain.Key() != d.Key() {
			continue
		}
		result = append(result, r.mustService(a.service))
	}
	return result
}

// HasService reports whether name is registered
func (r *Repository) HasService(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.services[name]
	return ok
}

// HasDomain reports whether key is in the domain-key set
func (r *Repository) HasDomain(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.domains[key]
}

// Services returns all registered services in registration order
func (r *Repository) Services() []Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Service, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.services[name])
	}
	return result
}

// Domains returns the distinct domains in first-seen order
func (r *Repository) Domains() []Domain {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Domain, len(r.domainOrder))
	copy(result, r.domainOrder)
	return result
}

// mustService looks up a registered service. A missing key means a link or
// association was written for a service that was never registered.
// Caller must hold r.mu.
func (r *Repository) mustService(key string) Service {
	svc, ok := r.services[key]
	if !ok {
		panic(fmt.Sprintf("%s expected to exist", key))
	}
	return svc
}
