package application

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestService_AddDomain(t *testing.T) {
	s := NewService("s1")
	s.AddDomain("dom1")
	s.AddDomain("dom2")

	require.Equal(t, "s1", s.Name())
	require.Equal(t, []string{"dom1", "dom2"}, s.Domains())
}

func TestService_DomainsIsCopy(t *testing.T) {
	s := NewService("s1", "dom1")

	got := s.Domains()
	got[0] = "mutated"

	require.Equal(t, []string{"dom1"}, s.Domains())
}

func TestService_NoDomains(t *testing.T) {
	s := NewService("s1")

	require.NotNil(t, s.Domains())
	require.Empty(t, s.Domains())
}
