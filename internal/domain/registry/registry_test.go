package registry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func keys(domains []Domain) []string {
	result := make([]string, len(domains))
	for i, d := range domains {
		result[i] = d.Key()
	}
	return result
}

func names(services []Service) []string {
	result := make([]string, len(services))
	for i, s := range services {
		result[i] = s.Name()
	}
	return result
}

func TestNewRepository(t *testing.T) {
	repo := NewRepository()
	require.NotNil(t, repo)
	require.Empty(t, repo.Services())
	require.Empty(t, repo.Domains())
}

func TestRepository_AddService(t *testing.T) {
	repo := NewRepository()

	require.False(t, repo.HasService("service-1"))
	require.NoError(t, repo.AddService(NewService("service-1")))
	require.True(t, repo.HasService("service-1"))
}

func TestRepository_AddService_Duplicate(t *testing.T) {
	repo := NewRepository()
	require.NoError(t, repo.AddService(NewService("service-1")))

	err := repo.AddService(NewService("service-1"))

	require.ErrorIs(t, err, ErrServiceExists)
	require.EqualError(t, err, "service-1 service already exists")
	require.Equal(t, []string{"service-1"}, names(repo.Services()))
}

func TestRepository_ServiceDomains(t *testing.T) {
	repo := NewRepository()
	require.NoError(t, repo.AddService(NewService("service-1")))
	require.NoError(t, repo.AddService(NewService("service-2")))

	repo.AddDomain("service-1", NewDomain("a"))
	repo.AddDomain("service-1", NewDomain("b"))
	repo.AddDomain("service-2", NewDomain("b"))
	repo.AddDomain("service-2", NewDomain("c"))

	require.Equal(t, []string{"a", "b"}, keys(repo.ServiceDomains("service-1")))
	require.Equal(t, []string{"b", "c"}, keys(repo.ServiceDomains("service-2")))
}

func TestRepository_ServiceDomains_KeepsDuplicates(t *testing.T) {
	repo := NewRepository()
	require.NoError(t, repo.AddService(NewService("service-1")))

	repo.AddDomain("service-1", NewDomain("a"))
	repo.AddDomain("service-1", NewDomain("a"))

	require.Equal(t, []string{"a", "a"}, keys(repo.ServiceDomains("service-1")))
	require.Equal(t, []string{"a"}, keys(repo.Domains()))
}

func TestRepository_ServiceDomains_Empty(t *testing.T) {
	repo := NewRepository()
	require.NoError(t, repo.AddService(NewService("service-1")))

	got := repo.ServiceDomains("service-1")
	require.NotNil(t, got)
	require.Empty(t, got)

	// Unknown service is indistinguishable from one without domains
	require.Empty(t, repo.ServiceDomains("nope"))
}

func TestRepository_ServicesWithDomain(t *testing.T) {
	repo := NewRepository()
	require.NoError(t, repo.AddService(NewService("service-1")))
	require.NoError(t, repo.AddService(NewService("service-2")))
	repo.AddDomain("service-1", NewDomain("a"))
	repo.AddDomain("service-1", NewDomain("b"))
	repo.AddDomain("service-2", NewDomain("b"))
	repo.AddDomain("service-2", NewDomain("c"))

	require.Equal(t, []string{"service-1", "service-2"}, names(repo.ServicesWithDomain(NewDomain("b"))))
	require.Equal(t, []string{"service-1"}, names(repo.ServicesWithDomain(NewDomain("a"))))
	require.Equal(t, []string{"service-2"}, names(repo.ServicesWithDomain(NewDomain("c"))))
	require.Empty(t, repo.ServicesWithDomain(NewDomain("z")))
}

func TestRepository_ServicesWithDomain_UnregisteredPanics(t *testing.T) {
	repo := NewRepository()
	repo.AddDomain("ghost", NewDomain("a"))

	require.PanicsWithValue(t, "ghost expected to exist", func() {
		repo.ServicesWithDomain(NewDomain("a"))
	})
}

func TestRepository_Links(t *testing.T) {
	repo := NewRepository()
	for _, name := range []string{"service-1", "service-2", "service-3"} {
		require.NoError(t, repo.AddService(NewService(name)))
	}

	repo.AddLink("service-1", "service-3")
	repo.AddLink("service-2", "service-3")

	require.Equal(t, []string{"service-3"}, names(repo.Links("service-1")))
	require.Equal(t, []string{"service-3"}, names(repo.Links("service-2")))
	require.Equal(t, []string{"service-1", "service-2"}, names(repo.Links("service-3")))
}

func TestRepository_Links_UnregisteredPanics(t *testing.T) {
	repo := NewRepository()
	require.NoError(t, repo.AddService(NewService("service-1")))
	repo.AddLink("service-1", "ghost")

	require.PanicsWithValue(t, "ghost expected to exist", func() {
		repo.Links("service-1")
	})
}

func TestRepository_Links_NoneIsEmpty(t *testing.T) {
	repo := NewRepository()
	require.NoError(t, repo.AddService(NewService("service-1")))

	got := repo.Links("service-1")
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestRepository_HasDomain(t *testing.T) {
	repo := NewRepository()
	require.False(t, repo.HasDomain("a"))

	repo.AddDomain("service-1", NewDomain("a"))

	require.True(t, repo.HasDomain("a"))
	require.False(t, repo.HasDomain("b"))
}

func TestRepository_ResultsAreCopies(t *testing.T) {
	repo := NewRepository()
	repo.AddDomain("service-1", NewDomain("a"))

	got := repo.Domains()
	got[0] = NewDomain("mutated")

	require.Equal(t, []string{"a"}, keys(repo.Domains()))
}

// TestRepository_Properties checks the ordering, symmetry and idempotence
// guarantees against randomly generated write sequences.
func TestRepository_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		repo := NewRepository()

		numServices := rapid.IntRange(1, 6).Draw(rt, "numServices")
		serviceNames := make([]string, numServices)
		for i := range serviceNames {
			serviceNames[i] = fmt.Sprintf("svc-%d", i)
			require.NoError(rt, repo.AddService(NewService(serviceNames[i])))
		}

		pickService := rapid.SampledFrom(serviceNames)
		pickDomain := rapid.SampledFrom([]string{"a", "b", "c", "d"})

		expectedDomains := make(map[string][]string)
		numAssoc := rapid.IntRange(0, 20).Draw(rt, "numAssoc")
		for i := 0; i < numAssoc; i++ {
			svc := pickService.Draw(rt, "assocService")
			dom := pickDomain.Draw(rt, "assocDomain")
			repo.AddDomain(svc, NewDomain(dom))
			expectedDomains[svc] = append(expectedDomains[svc], dom)
		}

		type pair struct{ from, to string }
		var links []pair
		numLinks := rapid.IntRange(0, 10).Draw(rt, "numLinks")
		for i := 0; i < numLinks; i++ {
			p := pair{pickService.Draw(rt, "from"), pickService.Draw(rt, "to")}
			repo.AddLink(p.from, p.to)
			links = append(links, p)
		}

		for _, name := range serviceNames {
			// Insertion order, duplicates included
			want := expectedDomains[name]
			if want == nil {
				want = []string{}
			}
			require.Equal(rt, want, keys(repo.ServiceDomains(name)))

			// Symmetry: every link is visible from both ends
			linked := names(repo.Links(name))
			for _, p := range links {
				if p.from == name {
					require.Contains(rt, linked, p.to)
				}
				if p.to == name {
					require.Contains(rt, linked, p.from)
				}
			}

			// Idempotence of reads
			require.Equal(rt, keys(repo.ServiceDomains(name)), keys(repo.ServiceDomains(name)))
			require.Equal(rt, linked, names(repo.Links(name)))
		}

		for _, dom := range []string{"a", "b", "c", "d"} {
			owners := names(repo.ServicesWithDomain(NewDomain(dom)))
			require.Equal(rt, owners, names(repo.ServicesWithDomain(NewDomain(dom))))
			for _, owner := range owners {
				require.Contains(rt, expectedDomains[owner], dom)
			}
		}
	})
}
