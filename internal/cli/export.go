package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/pageza/recipes-api/backend/config"
	"github.com/pageza/recipes-api/backend/internal/export"
	"github.com/pageza/recipes-api/backend/internal/service"
	"github.com/pageza/recipes-api/backend/internal/storage/backend"
)

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write a JSON snapshot of every recipe to S3",
		Description: `Uploads all recipes to S3_BUCKET_NAME under EXPORT_PREFIX and prints a
presigned download URL for the snapshot.`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "url-ttl",
				Value: 15 * time.Minute,
				Usage: "lifetime of the presigned download URL",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			s3cfg, err := config.NewS3Config(ctx, cfg)
			if err != nil {
				return err
			}

			store, err := backend.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			commentService := service.NewCommentService(store.Comments, cfg.DefaultCommentAuthor)
			recipeService := service.NewRecipeService(store.Recipes, store.Comments, commentService)

			key, err := export.NewExporter(recipeService, s3cfg.Client, s3cfg.BucketName, cfg.ExportPrefix).Export(ctx)
			if err != nil {
				return err
			}

			url, err := s3cfg.GeneratePresignedURL(ctx, key, cmd.Duration("url-ttl"))
			if err != nil {
				return fmt.Errorf("snapshot %s uploaded but presigning failed: %w", key, err)
			}
			fmt.Fprintf(cmd.Root().Writer, "s3://%s/%s\n%s\n", s3cfg.BucketName, key, url)
			return nil
		},
	}
}
