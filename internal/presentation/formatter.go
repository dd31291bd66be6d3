package presentation

import (
	"encoding/json"
	"io"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatServices formats a list of services as JSON
func (f *Formatter) FormatServices(services []ServiceDTO) error {
	return f.encode(services)
}

// FormatConnected formats a connected-domains result as JSON
func (f *Formatter) FormatConnected(service string, domains []string) error {
	return f.encode(ConnectedDTO{Service: service, Domains: nonNil(domains)})
}

// FormatOwners formats the owners of a domain as JSON
func (f *Formatter) FormatOwners(domain string, services []string) error {
	return f.encode(OwnersDTO{Domain: domain, Services: nonNil(services)})
}

// FormatLinks formats the links of a service as JSON
func (f *Formatter) FormatLinks(service string, links []string) error {
	return f.encode(LinksDTO{Service: service, Links: nonNil(links)})
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
