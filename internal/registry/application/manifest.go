package application

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/domainmesh/internal/log"
	"github.com/zjrosen/domainmesh/internal/tracing"
)

// ErrInvalidManifest is returned when a manifest parses but names an empty
// service or link end.
var ErrInvalidManifest = errors.New("invalid manifest")

// Manifest is the YAML description of a registry: services with their
// domains, then links between services.
type Manifest struct {
	Services []ServiceDef `yaml:"services"`
	Links    []LinkDef    `yaml:"links"`
}

// ServiceDef is one entry under services:
type ServiceDef struct {
	Name    string   `yaml:"name"`
	Domains []string `yaml:"domains"`
}

// LinkDef is one entry under links:
type LinkDef struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// LoadManifest reads and validates the manifest at path within fsys.
func LoadManifest(fsys fs.FS, path string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug(log.CatRegistry, "Manifest loaded", "path", path, "services", len(m.Services), "links", len(m.Links))
	return &m, nil
}

// LoadManifestFile reads a manifest from the local filesystem.
func LoadManifestFile(path string) (*Manifest, error) {
	return LoadManifest(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// Validate checks that every service and link end is named. Duplicate names
// and dangling links are left to the registry.
func (m *Manifest) Validate() error {
	for i, s := range m.Services {
		if s.Name == "" {
			return fmt.Errorf("%w: services[%d]: name is required", ErrInvalidManifest, i)
		}
	}
	for i, l := range m.Links {
		if l.From == "" || l.To == "" {
			return fmt.Errorf("%w: links[%d]: from and to are required", ErrInvalidManifest, i)
		}
	}
	return nil
}

// Apply adds the manifest's services in file order, then its links. A
// duplicate service stops the apply; everything before it stays registered.
func (c *Controller) Apply(ctx context.Context, m *Manifest) error {
	ctx, span := tracing.Start(ctx, c.tracer, tracing.SpanApplyManifest,
		attribute.Int(tracing.AttrServiceCount, len(m.Services)),
	)
	defer span.End()

	for i, def := range m.Services {
		if err := c.AddService(ctx, NewService(def.Name, def.Domains...)); err != nil {
			err = fmt.Errorf("services[%d]: %w", i, err)
			tracing.RecordError(span, err)
			return err
		}
	}

	for _, def := range m.Links {
		c.LinkServices(ctx, NewService(def.From), NewService(def.To))
	}

	log.Info(log.CatRegistry, "Manifest applied", "services", len(m.Services), "links", len(m.Links))
	return nil
}
