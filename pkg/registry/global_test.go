package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/go-singleton/pkg/registry"
)

func TestDefault(t *testing.T) {
	reg := registry.Default()
	require.NotNil(t, reg)
	assert.Same(t, reg, registry.Default(), "Default is process-wide")

	t.Cleanup(reg.ResetAllForTest)

	_, err := registry.RegisterValue(reg, &Config{Env: "global"})
	require.NoError(t, err)

	got, err := registry.Lookup[*Config](registry.Default()).Instance()
	require.NoError(t, err)
	assert.Equal(t, "global", got.Env)
}

func TestDefaultResetIsolation(t *testing.T) {
	reg := registry.Default()
	t.Cleanup(reg.ResetAllForTest)

	registry.MustRegisterValue(reg, &Widget{ID: 9})
	require.True(t, registry.Has[*Widget](reg))

	reg.ResetAllForTest()

	assert.False(t, registry.Has[*Widget](reg))
	assert.Equal(t, registry.KindUnknown, registry.Lookup[*Widget](reg).Kind())
}
