package presentation

import (
	"github.com/zjrosen/domainmesh/internal/registry/application"
)

// ServiceDTO represents a service and the domains it owns
type ServiceDTO struct {
	Name    string   `json:"name"`
	Domains []string `json:"domains"` // always present, empty when none
}

// ConnectedDTO is the result of a connected-domains query
type ConnectedDTO struct {
	Service string   `json:"service"`
	Domains []string `json:"domains"`
}

// OwnersDTO lists the services that own a domain
type OwnersDTO struct {
	Domain   string   `json:"domain"`
	Services []string `json:"services"`
}

// LinksDTO lists the services linked to a service
type LinksDTO struct {
	Service string   `json:"service"`
	Links   []string `json:"links"`
}

// FromService converts an application service to a DTO
func FromService(svc application.Service) ServiceDTO {
	return ServiceDTO{
		Name:    svc.Name(),
		Domains: svc.Domains(),
	}
}

// FromServices converts services in order
func FromServices(services []application.Service) []ServiceDTO {
	result := make([]ServiceDTO, len(services))
	for i, s := range services {
		result[i] = FromService(s)
	}
	return result
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
