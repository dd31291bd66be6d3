package application

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/domainmesh/internal/domain/registry"
)

const referenceManifest = `
services:
  - name: s1
    domains: [dom1, dom2]
  - name: s2
    domains: [dom3, dom4]
  - name: s3
    domains: [dom5]
links:
  - from: s1
    to: s2
`

func TestLoadManifest(t *testing.T) {
	fsys := fstest.MapFS{
		"registry.yaml": &fstest.MapFile{Data: []byte(referenceManifest)},
	}

	m, err := LoadManifest(fsys, "registry.yaml")
	require.NoError(t, err)

	require.Len(t, m.Services, 3)
	require.Equal(t, ServiceDef{Name: "s1", Domains: []string{"dom1", "dom2"}}, m.Services[0])
	require.Equal(t, []LinkDef{{From: "s1", To: "s2"}}, m.Links)
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := LoadManifest(fstest.MapFS{}, "registry.yaml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "read registry.yaml")
}

func TestLoadManifest_BadYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"registry.yaml": &fstest.MapFile{Data: []byte("services: [unclosed")},
	}

	_, err := LoadManifest(fsys, "registry.yaml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse registry.yaml")
}

func TestLoadManifest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unnamed service",
			yaml: "services:\n  - domains: [a]\n",
			want: "services[0]: name is required",
		},
		{
			name: "link without target",
			yaml: "services:\n  - name: s1\nlinks:\n  - from: s1\n",
			want: "links[0]: from and to are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{"m.yaml": &fstest.MapFile{Data: []byte(tt.yaml)}}

			_, err := LoadManifest(fsys, "m.yaml")
			require.ErrorIs(t, err, ErrInvalidManifest)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadManifestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(referenceManifest), 0o600))

	m, err := LoadManifestFile(path)
	require.NoError(t, err)
	require.Len(t, m.Services, 3)
}

func TestController_Apply(t *testing.T) {
	ctx := context.Background()
	m, err := LoadManifest(fstest.MapFS{
		"registry.yaml": &fstest.MapFile{Data: []byte(referenceManifest)},
	}, "registry.yaml")
	require.NoError(t, err)

	c := newController(t)
	require.NoError(t, c.Apply(ctx, m))

	require.Equal(t, []string{"dom1", "dom2", "dom3", "dom4"}, c.ConnectedDomains(ctx, NewService("s1")))
	require.Equal(t, []string{"dom5"}, c.ConnectedDomains(ctx, NewService("s3")))
}

func TestController_Apply_DuplicateStops(t *testing.T) {
	ctx := context.Background()
	m := &Manifest{
		Services: []ServiceDef{
			{Name: "s1", Domains: []string{"a"}},
			{Name: "s1", Domains: []string{"b"}},
			{Name: "s2"},
		},
		Links: []LinkDef{{From: "s1", To: "s2"}},
	}

	c := newController(t)
	err := c.Apply(ctx, m)

	require.ErrorIs(t, err, registry.ErrServiceExists)
	require.EqualError(t, err, "services[1]: s1 service already exists")
	require.True(t, c.HasService("s1"))
	require.False(t, c.HasService("s2"))
	require.Empty(t, c.Links(ctx, "s1"))
}

func TestController_Apply_DanglingLinkDeferred(t *testing.T) {
	ctx := context.Background()
	m := &Manifest{
		Services: []ServiceDef{{Name: "s1", Domains: []string{"a"}}},
		Links:    []LinkDef{{From: "s1", To: "ghost"}},
	}

	c := newController(t)
	require.NoError(t, c.Apply(ctx, m))

	require.PanicsWithValue(t, "ghost expected to exist", func() {
		c.ConnectedDomains(ctx, NewService("s1"))
	})
}
