package main

import (
	"testing"

	"github.com/couchcryptid/canopix-alert-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_SourceFlagOverridesEnv(t *testing.T) {
	t.Setenv("SOURCE", "not-a-source")

	cfg, err := loadConfig("Static")
	require.NoError(t, err)
	assert.Equal(t, config.SourceStatic, cfg.Source)
}

func TestLoadConfig_EnvWithoutFlag(t *testing.T) {
	t.Setenv("SOURCE", "fusion")

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.SourceFusion, cfg.Source)
}

func TestLoadConfig_InvalidEnv(t *testing.T) {
	t.Setenv("SOURCE", "not-a-source")

	_, err := loadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SOURCE")
}
