package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneralConfigLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("SWAGGER_ENABLED", "")

	gc := &GeneralConfig{}
	require.NoError(t, gc.Load())

	assert.Equal(t, "8080", gc.HTTPPort)
	assert.Equal(t, DevEnv, gc.Env)
	assert.True(t, gc.SwaggerEnabled)
}

func TestGeneralConfigSwaggerToggle(t *testing.T) {
	t.Setenv("SWAGGER_ENABLED", "false")

	gc := &GeneralConfig{}
	require.NoError(t, gc.Load())
	assert.False(t, gc.SwaggerEnabled)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList("a,b"))
	assert.Equal(t, []string{"a", "b"}, splitList(" a , ,b,"))
}
