package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullEnv() map[string]string {
	return map[string]string{
		EnvEndpoint:           "http://localhost:8090/v1",
		EnvProjectID:          "vidora-dev",
		EnvPlatform:           "dev.vidora.app",
		EnvDatabaseID:         "main",
		EnvUsersCollectionID:  "users",
		EnvVideosCollectionID: "videos",
		EnvStorageBucketID:    "media",
	}
}

func TestFromEnv_Complete(t *testing.T) {
	env := fullEnv()

	cfg, err := FromEnv(func(k string) string { return env[k] })

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8090/v1", cfg.Endpoint)
	assert.Equal(t, "videos", cfg.VideosCollectionID)
	assert.Equal(t, "media", cfg.StorageBucketID)
}

func TestFromEnv_TrimsWhitespace(t *testing.T) {
	env := fullEnv()
	env[EnvProjectID] = "  vidora-dev \n"

	cfg, err := FromEnv(func(k string) string { return env[k] })

	require.NoError(t, err)
	assert.Equal(t, "vidora-dev", cfg.ProjectID)
}

func TestFromEnv_ReportsEveryMissingVariable(t *testing.T) {
	env := fullEnv()
	delete(env, EnvEndpoint)
	env[EnvStorageBucketID] = "   "

	cfg, err := FromEnv(func(k string) string { return env[k] })

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), EnvEndpoint)
	assert.Contains(t, err.Error(), EnvStorageBucketID)
}
