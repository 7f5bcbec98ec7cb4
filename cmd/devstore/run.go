// Command devstore runs the local development backend: the same wire
// protocol the client speaks, backed by postgres documents, disk blobs
// and an outbox relay to Kafka.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidora/vidora/internal/config"
	"github.com/vidora/vidora/internal/devstore/httpapi"
	"github.com/vidora/vidora/internal/kafka"
	"github.com/vidora/vidora/internal/outbox"
	"github.com/vidora/vidora/internal/storage/disk"
	"github.com/vidora/vidora/internal/storage/postgres"
	"github.com/vidora/vidora/internal/store/memory"
)

const (
	defaultAddr       = ":8090"
	defaultDataDir    = "./data"
	defaultKafkaTopic = "vidora.posts"
)

func run(ctx context.Context, logger zerolog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return fmt.Errorf("DATABASE_URL is empty")
	}

	addr := os.Getenv("VIDORA_DEVSTORE_ADDR")
	if addr == "" {
		addr = defaultAddr
	}
	dataDir := os.Getenv("VIDORA_DATA_DIR")
	if dataDir == "" {
		dataDir = defaultDataDir
	}

	db, err := postgres.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()

	outboxRepo := postgres.NewOutboxRepo(db)
	documents := postgres.NewDocumentRepo(db, cfg.VideosCollectionID, outboxRepo)

	fileBaseURL := cfg.Endpoint + "/storage/buckets/" + cfg.StorageBucketID + "/files"
	blobs, err := disk.New(dataDir, fileBaseURL, logger)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}

	// Accounts are ephemeral in the dev backend. Documents and blobs are
	// the durable parts a dev loop cares about.
	accounts := memory.New()

	h, err := httpapi.New(httpapi.Config{
		Accounts:   accounts,
		Documents:  documents,
		Files:      blobs,
		Blobs:      blobs,
		DatabaseID: cfg.DatabaseID,
		BucketID:   cfg.StorageBucketID,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("build http api: %w", err)
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		topic := os.Getenv("KAFKA_TOPIC")
		if topic == "" {
			topic = defaultKafkaTopic
		}
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers: strings.Split(brokers, ","),
			Topic:   topic,
			Logger:  logger,
		})
		if err != nil {
			return fmt.Errorf("build kafka producer: %w", err)
		}
		defer producer.Close()

		publisher, err := outbox.NewPublisher(outbox.PublisherConfig{
			OutboxRepo: outboxRepo,
			Producer:   producer,
			Interval:   2 * time.Second,
			BatchSize:  50,
			Logger:     logger,
		})
		if err != nil {
			return fmt.Errorf("build outbox publisher: %w", err)
		}
		go func() { _ = publisher.Start(ctx) }()
	} else {
		logger.Info().Msg("KAFKA_BROKERS not set, outbox publishing disabled")
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen and serve: %w", err)
	}
}
