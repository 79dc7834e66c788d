package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipes-api/backend/config"
	"github.com/pageza/recipes-api/backend/internal/storage/backend"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSeedFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		errMsg  string
	}{
		{
			name:    "valid",
			content: `[{"title":"Soup","description":"Hot","ingredients":["water"],"tags":["dinner"]}]`,
			want:    1,
		},
		{
			name:    "missing ingredients",
			content: `[{"title":"Soup","description":"Hot"}]`,
			errMsg:  "is invalid",
		},
		{
			name:    "blank title",
			content: `[{"title":"  ","description":"Hot","ingredients":["water"]}]`,
			errMsg:  "is invalid",
		},
		{
			name:    "not an array",
			content: `{"title":"Soup"}`,
			errMsg:  "failed to parse seed file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipes, err := loadSeedFile(writeFile(t, "seed.json", tt.content))
			if tt.errMsg != "" {
				assert.ErrorContains(t, err, tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Len(t, recipes, tt.want)
		})
	}
}

func TestSampleRecipesAreValid(t *testing.T) {
	path := writeFile(t, "samples.json", mustJSON(t, sampleRecipes))
	recipes, err := loadSeedFile(path)
	require.NoError(t, err)
	assert.Len(t, recipes, len(sampleRecipes))
}

func TestSeedCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "recipes.db")
	t.Setenv("ENV", "test")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", dbPath)

	seedFile := writeFile(t, "seed.json", `[
		{"title":"Soup","description":"Hot","ingredients":["water","salt"]},
		{"title":"Salad","description":"Cold","ingredients":["lettuce"],"tags":["vegan"]}
	]`)

	var out bytes.Buffer
	app := NewApp()
	app.Writer = &out
	require.NoError(t, app.Run(context.Background(), []string{name, "seed", "--file", seedFile}))
	assert.Contains(t, out.String(), "seeded 2 recipe(s)")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	store, err := backend.Open(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close(context.Background())

	all, err := store.Recipes.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMigrateRejectsNonPostgres(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "")

	app := NewApp()
	app.Writer = &bytes.Buffer{}
	err := app.Run(context.Background(), []string{name, "migrate"})
	assert.ErrorContains(t, err, "applies to the postgres backend")
}

func TestExportRequiresBucket(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("S3_BUCKET_NAME", "")

	app := NewApp()
	app.Writer = &bytes.Buffer{}
	err := app.Run(context.Background(), []string{name, "export"})
	assert.ErrorContains(t, err, "S3_BUCKET_NAME is required")
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
