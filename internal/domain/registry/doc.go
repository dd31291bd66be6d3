// Package registry implements the domain layer for the service/domain registry.
//
// This package follows Domain-Driven Design (DDD) principles:
//   - Contains only pure Go code with standard library imports (no external dependencies)
//   - Defines value types (Service, Domain) and the Store contract
//   - Implements the in-memory Repository
//   - Has no knowledge of infrastructure concerns (file I/O, YAML parsing, databases)
//
// # Core Types
//
// Service is identified by its name. Domain is identified by its key; two
// domains with equal keys are interchangeable for lookups.
//
// # Repository
//
// Repository records three kinds of facts:
//   - services exist (AddService, rejects duplicate names with ErrServiceExists)
//   - services own domains (AddDomain, ordered, duplicates kept)
//   - services are linked (AddLink, undirected for lookup)
//
// Writes never check that the referenced services exist. The check happens at
// query time: Links and ServicesWithDomain panic when they reach a key that was
// never registered, since that can only come from a broken writer.
//
// Store is the interface Repository implements, enabling the SQLite-backed
// store in internal/infrastructure/sqlite to be substituted.
package registry
