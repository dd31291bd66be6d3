package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/zjrosen/domainmesh/internal/domain/registry"
	"github.com/zjrosen/domainmesh/internal/log"
)

// RegistryStore implements registry.Store on SQLite. Row ids carry insertion
// order, so every query orders by id.
//
// Operations without an error return (AddDomain, AddLink and all queries)
// panic if a statement fails: the database is private and in-memory, so a
// failing statement means the store itself is broken.
type RegistryStore struct {
	db *DB
}

// Ensure RegistryStore implements registry.Store.
var _ registry.Store = (*RegistryStore)(nil)

func newRegistryStore(db *DB) *RegistryStore {
	return &RegistryStore{db: db}
}

// AddService inserts a service. Duplicate names fail with registry.ErrServiceExists.
func (s *RegistryStore) AddService(svc registry.Service) error {
	result, err := s.db.conn.Exec(
		`INSERT INTO services (name) VALUES (?) ON CONFLICT(name) DO NOTHING`,
		svc.Name(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert service: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %w", svc.Name(), registry.ErrServiceExists)
	}
	return nil
}

// AddDomain records the association and the domain key.
func (s *RegistryStore) AddDomain(serviceKey string, d registry.Domain) {
	tx, err := s.db.conn.Begin()
	if err != nil {
		fail("begin add domain", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT INTO domains (key) VALUES (?) ON CONFLICT(key) DO NOTHING`, d.Key()); err != nil {
		fail("insert domain", err)
	}
	if _, err := tx.Exec(`INSERT INTO service_domains (service, domain) VALUES (?, ?)`, serviceKey, d.Key()); err != nil {
		fail("insert service domain", err)
	}
	if err := tx.Commit(); err != nil {
		fail("commit add domain", err)
	}
}

// ServiceDomains returns serviceKey's domains in insertion order.
func (s *RegistryStore) ServiceDomains(serviceKey string) []registry.Domain {
	rows, err := s.db.conn.Query(
		`SELECT domain FROM service_domains WHERE service = ? ORDER BY id`,
		serviceKey,
	)
	if err != nil {
		fail("query service domains", err)
	}
	defer rows.Close()

	result := make([]registry.Domain, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			fail("scan service domain", err)
		}
		result = append(result, registry.NewDomain(key))
	}
	if err := rows.Err(); err != nil {
		fail("iterate service domains", err)
	}
	return result
}

// AddLink records a link.
func (s *RegistryStore) AddLink(from, to string) {
	if _, err := s.db.conn.Exec(`INSERT INTO links (from_service, to_service) VALUES (?, ?)`, from, to); err != nil {
		fail("insert link", err)
	}
}

// Links returns the services on the other end of every link touching
// serviceKey, in link order.
func (s *RegistryStore) Links(serviceKey string) []registry.Service {
	rows, err := s.db.conn.Query(
		`SELECT
			CASE WHEN l.from_service = ? THEN l.to_service ELSE l.from_service END AS other,
			s.name
		FROM links l
		LEFT JOIN services s
			ON s.name = CASE WHEN l.from_service = ? THEN l.to_service ELSE l.from_service END
		WHERE l.from_service = ? OR l.to_service = ?
		ORDER BY l.id`,
		serviceKey, serviceKey, serviceKey, serviceKey,
	)
	if err != nil {
		fail("query links", err)
	}
	return collectServices(rows)
}

// ServicesWithDomain returns the owners of d in association order.
func (s *RegistryStore) ServicesWithDomain(d registry.Domain) []registry.Service {
	rows, err := s.db.conn.Query(
		`SELECT sd.service, s.name
		FROM service_domains sd
		LEFT JOIN services s ON s.name = sd.service
		WHERE sd.domain = ?
		ORDER BY sd.id`,
		d.Key(),
	)
	if err != nil {
		fail("query services with domain", err)
	}
	return collectServices(rows)
}

// HasService reports whether name is registered.
func (s *RegistryStore) HasService(name string) bool {
	return s.exists(`SELECT EXISTS(SELECT 1 FROM services WHERE name = ?)`, name)
}

// HasDomain reports whether key has been associated with any service.
func (s *RegistryStore) HasDomain(key string) bool {
	return s.exists(`SELECT EXISTS(SELECT 1 FROM domains WHERE key = ?)`, key)
}

// Services returns all services in registration order.
func (s *RegistryStore) Services() []registry.Service {
	rows, err := s.db.conn.Query(`SELECT name FROM services ORDER BY id`)
	if err != nil {
		fail("query services", err)
	}
	defer rows.Close()

	result := make([]registry.Service, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			fail("scan service", err)
		}
		result = append(result, registry.NewService(name))
	}
	if err := rows.Err(); err != nil {
		fail("iterate services", err)
	}
	return result
}

// Domains returns the distinct domains in first-seen order.
func (s *RegistryStore) Domains() []registry.Domain {
	rows, err := s.db.conn.Query(`SELECT key FROM domains ORDER BY id`)
	if err != nil {
		fail("query domains", err)
	}
	defer rows.Close()

	result := make([]registry.Domain, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			fail("scan domain", err)
		}
		result = append(result, registry.NewDomain(key))
	}
	if err := rows.Err(); err != nil {
		fail("iterate domains", err)
	}
	return result
}

func (s *RegistryStore) exists(query string, arg string) bool {
	var found bool
	if err := s.db.conn.QueryRow(query, arg).Scan(&found); err != nil {
		fail("query exists", err)
	}
	return found
}

// collectServices reads (key, registered name) rows. A NULL name means the key
// was written without ever being registered.
func collectServices(rows *sql.Rows) []registry.Service {
	keys := make([]string, 0)
	registered := make([]bool, 0)
	for rows.Next() {
		var key string
		var name sql.NullString
		if err := rows.Scan(&key, &name); err != nil {
			_ = rows.Close()
			fail("scan service row", err)
		}
		keys = append(keys, key)
		registered = append(registered, name.Valid)
	}
	err := rows.Err()
	_ = rows.Close()
	if err != nil {
		fail("iterate service rows", err)
	}

	result := make([]registry.Service, 0, len(keys))
	for i, key := range keys {
		if !registered[i] {
			panic(fmt.Sprintf("%s expected to exist", key))
		}
		result = append(result, registry.NewService(key))
	}
	return result
}

func fail(op string, err error) {
	log.ErrorErr(log.CatDB, "Registry store statement failed", err, "op", op)
	panic(fmt.Errorf("registry store: %s: %w", op, err))
}
