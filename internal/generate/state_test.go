package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateEnvOverwriteKeepsPosition(t *testing.T) {
	s := newState()
	s.SetEnv(EnvVar{Name: "A", Value: "1"})
	s.SetEnv(EnvVar{Name: "B", Value: "2"})
	s.SetEnv(EnvVar{Name: "A", Value: "3", Publish: true})

	vars := s.EnvVars()
	require.Len(t, vars, 2)
	assert.Equal(t, "A", vars[0].Name)
	assert.Equal(t, "3", vars[0].Value)
	assert.True(t, vars[0].Publish)
	assert.Equal(t, "B", vars[1].Name)
}

func TestStateEnvValues(t *testing.T) {
	s := newState()
	s.SetEnv(EnvVar{Name: "A", Value: "1"})
	s.SetEnv(EnvVar{Name: "B"})
	assert.Equal(t, map[string]string{"A": "1", "B": ""}, s.EnvValues())
}

func TestStatesAreIndependent(t *testing.T) {
	a, b := newState(), newState()
	a.SetEnv(EnvVar{Name: "A", Value: "1"})
	a.Ports = append(a.Ports, ExposedPort{Port: "80", Protocol: "TCP"})

	assert.Empty(t, b.EnvVars())
	assert.Empty(t, b.Ports)
}
