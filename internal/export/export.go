// Package export writes snapshots of the recipe collection to object storage.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/recipes-api/backend/internal/model"
)

// ObjectPutter is the subset of *s3.Client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// RecipeLister lists every stored recipe.
type RecipeLister interface {
	ListRecipes(ctx context.Context) ([]*model.Recipe, error)
}

// Snapshot is the document written for each export.
type Snapshot struct {
	ExportedAt time.Time       `json:"exported_at"`
	Count      int             `json:"count"`
	Recipes    []*model.Recipe `json:"recipes"`
}

// Exporter uploads recipe snapshots to a bucket.
type Exporter struct {
	recipes RecipeLister
	client  ObjectPutter
	bucket  string
	prefix  string
	now     func() time.Time
}

// NewExporter creates an Exporter writing under prefix in bucket.
func NewExporter(recipes RecipeLister, client ObjectPutter, bucket, prefix string) *Exporter {
	return &Exporter{
		recipes: recipes,
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Export uploads a snapshot of every recipe and returns its object key.
func (e *Exporter) Export(ctx context.Context) (string, error) {
	recipes, err := e.recipes.ListRecipes(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list recipes: %w", err)
	}
	if recipes == nil {
		recipes = []*model.Recipe{}
	}

	snapshot := Snapshot{
		ExportedAt: e.now(),
		Count:      len(recipes),
		Recipes:    recipes,
	}
	body, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := path.Join(e.prefix, fmt.Sprintf("recipes-%s.json", snapshot.ExportedAt.Format("20060102T150405Z")))
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}

	slog.Info("exported recipes", "bucket", e.bucket, "key", key, "count", snapshot.Count)
	return key, nil
}
