package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"blogd/internal/auth"
	"blogd/internal/blobstore"
	"blogd/internal/config"
	"blogd/internal/server"
	"blogd/internal/store"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the blogd API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}
			if cfg.JWTSecret == "" {
				return fmt.Errorf("jwt secret is required (set BLOGD_JWT_SECRET or jwt_secret)")
			}

			logger := slog.Default().With("component", "server")

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}

			logger.Info("opening database", "path", cfg.DBPath)
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			blobs, err := openBlobStore(cmd, cfg)
			if err != nil {
				return err
			}

			tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)
			if err != nil {
				return err
			}

			srv := server.New(addr, st, blobs, tokens, logger)
			srv.ConfigureUploadOptions(server.UploadOptions{
				MaxUploadBytes:     cfg.Uploads.MaxUploadBytes,
				MultipartMaxMemory: cfg.Uploads.MultipartMaxMemory,
			})
			return srv.ListenAndServe()
		},
	}
}

func openBlobStore(cmd *cobra.Command, cfg *config.Config) (blobstore.Store, error) {
	switch cfg.Blobs.Backend {
	case config.BlobBackendS3:
		return blobstore.NewS3(cmd.Context(), blobstore.S3Config{
			Bucket:          cfg.Blobs.S3Bucket,
			Region:          cfg.Blobs.S3Region,
			Endpoint:        cfg.Blobs.S3Endpoint,
			AccessKeyID:     cfg.Blobs.S3AccessKeyID,
			AccessKeySecret: cfg.Blobs.S3AccessKeySecret,
		})
	case config.BlobBackendLocal:
		return blobstore.NewLocal(cfg.Blobs.LocalRoot)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Blobs.Backend)
	}
}
