package application

// Service is the user-level description of a service: a name and the domains
// it owns, in order. The domain list is only read when the service is added;
// the store is the source of truth afterwards.
type Service struct {
	name    string
	domains []string
}

// NewService creates a service with no domains
func NewService(name string, domains ...string) Service {
	s := Service{name: name}
	for _, d := range domains {
		s.AddDomain(d)
	}
	return s
}

// Name returns the service name
func (s Service) Name() string {
	return s.name
}

// AddDomain appends a domain to the service's list
func (s *Service) AddDomain(domain string) {
	s.domains = append(s.domains, domain)
}

// Domains returns a copy of the domain list
func (s Service) Domains() []string {
	result := make([]string, len(s.domains))
	copy(result, s.domains)
	return result
}
