package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setEnvs is a helper that sets multiple env vars for the test's lifetime.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

func TestLoad_Development_AcceptsDefaultSecret(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":      "development",
		"GATEWAY_PROVIDER": "mock",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, defaultDeploymentSecret, cfg.DeploymentSecret)
}

func TestLoad_Production_RejectsDefaultSecret(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":      "production",
		"GATEWAY_PROVIDER": "mock",
	})

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DEPLOYMENT_SECRET must be explicitly set")
}

func TestLoad_Production_RejectsShortSecret(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":       "production",
		"GATEWAY_PROVIDER":  "mock",
		"DEPLOYMENT_SECRET": "short-but-not-default",
	})

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DEPLOYMENT_SECRET must be at least 32 characters")
}

func TestLoad_Production_AcceptsStrongSecret(t *testing.T) {
	strongSecret := "this-is-a-very-secure-secret-key-for-production-use-1234"
	setEnvs(t, map[string]string{
		"ENVIRONMENT":       "production",
		"GATEWAY_PROVIDER":  "mock",
		"DEPLOYMENT_SECRET": strongSecret,
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, strongSecret, cfg.DeploymentSecret)
}

func TestLoad_RazorpayRequiresCredentials(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":      "development",
		"GATEWAY_PROVIDER": "razorpay",
	})

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "GATEWAY_KEY_ID and GATEWAY_KEY_SECRET are required")
}

func TestLoad_RazorpayWithCredentials(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":        "development",
		"GATEWAY_PROVIDER":   "razorpay",
		"GATEWAY_KEY_ID":     "rzp_test_abc",
		"GATEWAY_KEY_SECRET": "secretvalue",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "rzp_test_abc", cfg.GatewayKeyID)
	// The adapter appends /v1/... itself; a default carrying the version
	// prefix would compose to /v1/v1/orders against the live API.
	assert.Equal(t, "https://api.razorpay.com", cfg.GatewayBaseURL)
}

func TestLoad_Defaults(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":      "development",
		"GATEWAY_PROVIDER": "mock",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 5, cfg.LoginRPS)
	assert.Equal(t, 60, cfg.ArtistCacheTTLSecs)
	assert.True(t, cfg.RedisEnabled)
}
