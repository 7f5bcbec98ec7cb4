// Command vidora is a headless client: it binds the feed resources
// against a running backend and prints what a UI would render. Useful
// for poking at a devstore instance without the app.
package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidora/vidora/internal/config"
	"github.com/vidora/vidora/internal/notify"
	"github.com/vidora/vidora/internal/posts/models"
	"github.com/vidora/vidora/internal/posts/service"
	"github.com/vidora/vidora/internal/resource"
	"github.com/vidora/vidora/internal/store/rest"
)

func run(ctx context.Context, logger zerolog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := rest.New(rest.Config{
		Endpoint:   cfg.Endpoint,
		ProjectID:  cfg.ProjectID,
		Platform:   cfg.Platform,
		DatabaseID: cfg.DatabaseID,
		BucketID:   cfg.StorageBucketID,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("build api client: %w", err)
	}

	svc := service.New(client, cfg.UsersCollectionID, cfg.VideosCollectionID, logger)
	notifier := notify.NewLog(logger)

	feed := resource.New(ctx, svc.AllPosts, resource.Options{
		Notifier: notifier,
		Logger:   logger,
	})
	defer feed.Close()

	latest := resource.New(ctx, svc.LatestPosts, resource.Options{
		Notifier: notifier,
		Logger:   logger,
	})
	defer latest.Close()

	feed.Wait()
	latest.Wait()

	logPosts(logger, "feed", feed.Snapshot())
	logPosts(logger, "latest", latest.Snapshot())
	return nil
}

func logPosts(logger zerolog.Logger, name string, snap resource.Snapshot[[]models.VideoPost]) {
	if snap.Err != nil {
		logger.Error().Err(snap.Err).Str("resource", name).Msg("fetch failed")
		return
	}
	logger.Info().Str("resource", name).Int("count", len(snap.Data)).Msg("fetched")
	for _, post := range snap.Data {
		logger.Info().
			Str("resource", name).
			Str("id", post.ID.String()).
			Str("title", post.Title).
			Str("video", post.SourceURL).
			Msg("post")
	}
}
