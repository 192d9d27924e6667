package plasticity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("PLASTICITY_API_URL", "")
	t.Setenv("PLASTICITY_API_KEY", "token")
	t.Setenv("PLASTICITY_TIMEOUT", "")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultURL, cfg.URL)
	assert.Equal(t, "token", cfg.Token)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("PLASTICITY_API_URL", "http://localhost:9000")
	t.Setenv("PLASTICITY_TIMEOUT", "2s")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/", cfg.URL)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestConfigFromEnv_BadTimeout(t *testing.T) {
	t.Setenv("PLASTICITY_TIMEOUT", "soon")

	_, err := ConfigFromEnv()
	assert.Error(t, err)
}
