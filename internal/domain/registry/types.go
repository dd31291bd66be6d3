package registry

// Service is a registered service, identified by its name.
type Service struct {
	name string
}

// NewService creates a service value with the given name
func NewService(name string) Service {
	return Service{name: name}
}

// Name returns the service name (unique key in a store)
func (s Service) Name() string {
	return s.name
}

// Domain is a domain entity. Two domains with the same key are the same domain.
type Domain struct {
	key string
}

// NewDomain creates a domain value with the given key
func NewDomain(key string) Domain {
	return Domain{key: key}
}

// Key returns the domain key
func (d Domain) Key() string {
	return d.key
}

// association records that a service owns a domain
type association struct {
	service string
	domain  Domain
}

// link connects two services; stored directionally, matched from either end
type link struct {
	from string
	to   string
}

// other returns the opposite end of the link for key, if key is one of its ends
func (l link) other(key string) (string, bool) {
	switch key {
	case l.from:
		return l.to, true
	case l.to:
		return l.from, true
	default:
		return "", false
	}
}
