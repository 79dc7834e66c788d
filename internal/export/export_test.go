package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipes-api/backend/internal/mocks"
	"github.com/pageza/recipes-api/backend/internal/model"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestExport(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	svc.On("ListRecipes", mock.Anything).Return([]*model.Recipe{
		{ID: "r1", Title: "Soup", Ingredients: model.JSONBStringArray{"water"}},
	}, nil)

	putter := &fakePutter{}
	exporter := NewExporter(svc, putter, "recipes-bucket", "exports/recipes")
	exporter.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }

	key, err := exporter.Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "exports/recipes/recipes-20240301T123000Z.json", key)
	assert.Equal(t, "recipes-bucket", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "application/json", aws.ToString(putter.input.ContentType))

	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(putter.body, &snapshot))
	assert.Equal(t, 1, snapshot.Count)
	assert.Equal(t, "Soup", snapshot.Recipes[0].Title)
	svc.AssertExpectations(t)
}

func TestExportUploadFailure(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	svc.On("ListRecipes", mock.Anything).Return(nil, nil)

	exporter := NewExporter(svc, &fakePutter{err: errors.New("access denied")}, "b", "p")
	_, err := exporter.Export(context.Background())

	assert.ErrorContains(t, err, "failed to upload snapshot")
}

func TestExportListFailure(t *testing.T) {
	svc := new(mocks.MockRecipeService)
	svc.On("ListRecipes", mock.Anything).Return(nil, errors.New("store down"))

	exporter := NewExporter(svc, &fakePutter{}, "b", "p")
	_, err := exporter.Export(context.Background())

	assert.ErrorContains(t, err, "failed to list recipes")
}
