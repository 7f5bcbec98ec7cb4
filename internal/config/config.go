// Package config loads the client environment. Every variable here is
// required; a missing one is a startup failure, never a silent default.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvEndpoint           = "VIDORA_API_URL"
	EnvProjectID          = "VIDORA_PROJECT_ID"
	EnvPlatform           = "VIDORA_PLATFORM"
	EnvDatabaseID         = "VIDORA_DATABASE_ID"
	EnvUsersCollectionID  = "VIDORA_USERS_COLLECTION_ID"
	EnvVideosCollectionID = "VIDORA_VIDEOS_COLLECTION_ID"
	EnvStorageBucketID    = "VIDORA_STORAGE_BUCKET_ID"
)

type Config struct {
	Endpoint           string
	ProjectID          string
	Platform           string
	DatabaseID         string
	UsersCollectionID  string
	VideosCollectionID string
	StorageBucketID    string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

func FromEnv(get func(string) string) (*Config, error) {
	cfg := &Config{
		Endpoint:           strings.TrimSpace(get(EnvEndpoint)),
		ProjectID:          strings.TrimSpace(get(EnvProjectID)),
		Platform:           strings.TrimSpace(get(EnvPlatform)),
		DatabaseID:         strings.TrimSpace(get(EnvDatabaseID)),
		UsersCollectionID:  strings.TrimSpace(get(EnvUsersCollectionID)),
		VideosCollectionID: strings.TrimSpace(get(EnvVideosCollectionID)),
		StorageBucketID:    strings.TrimSpace(get(EnvStorageBucketID)),
	}

	var missing []string
	for _, v := range []struct {
		name, value string
	}{
		{EnvEndpoint, cfg.Endpoint},
		{EnvProjectID, cfg.ProjectID},
		{EnvPlatform, cfg.Platform},
		{EnvDatabaseID, cfg.DatabaseID},
		{EnvUsersCollectionID, cfg.UsersCollectionID},
		{EnvVideosCollectionID, cfg.VideosCollectionID},
		{EnvStorageBucketID, cfg.StorageBucketID},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}
