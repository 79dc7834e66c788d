// Package storagetest holds the behaviour every storage backend must share.
// Backend packages run it against their own store.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipes-api/backend/internal/model"
	"github.com/pageza/recipes-api/backend/internal/storage"
)

// Factory returns empty repositories for one subtest.
type Factory func(t *testing.T) (storage.RecipeRepository, storage.CommentRepository)

// MissingID is an identifier no backend will have assigned.
const MissingID = "000000000000000000000000"

// Run exercises recipes and comments through the repository interfaces.
func Run(t *testing.T, newRepos Factory) {
	t.Run("CreateAndFind", func(t *testing.T) { testCreateAndFind(t, newRepos) })
	t.Run("FindByIDMissing", func(t *testing.T) { testFindByIDMissing(t, newRepos) })
	t.Run("UpdateKeepsComments", func(t *testing.T) { testUpdateKeepsComments(t, newRepos) })
	t.Run("UpdateMissing", func(t *testing.T) { testUpdateMissing(t, newRepos) })
	t.Run("DeleteIsIdempotent", func(t *testing.T) { testDelete(t, newRepos) })
	t.Run("Membership", func(t *testing.T) { testMembership(t, newRepos) })
	t.Run("FindPage", func(t *testing.T) { testFindPage(t, newRepos) })
	t.Run("AppendComment", func(t *testing.T) { testAppendComment(t, newRepos) })
	t.Run("ConcurrentAppend", func(t *testing.T) { testConcurrentAppend(t, newRepos) })
	t.Run("CommentsByIDs", func(t *testing.T) { testCommentsByIDs(t, newRepos) })
}

func create(t *testing.T, recipes storage.RecipeRepository, title string, ingredients, tags []string) *model.Recipe {
	t.Helper()
	r := &model.Recipe{
		Title:       title,
		Description: title + " description",
		Ingredients: ingredients,
		Tags:        tags,
	}
	require.NoError(t, recipes.Create(context.Background(), r))
	require.NotEmpty(t, r.ID)
	return r
}

func ids(recipes []*model.Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.ID)
	}
	sort.Strings(out)
	return out
}

func sorted(values ...string) []string {
	sort.Strings(values)
	return values
}

func testCreateAndFind(t *testing.T, newRepos Factory) {
	recipes, _ := newRepos(t)
	ctx := context.Background()

	created := create(t, recipes, "Bread", []string{"flour", "water"}, nil)

	got, err := recipes.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bread", got.Title)
	assert.Equal(t, "Bread description", got.Description)
	assert.Equal(t, model.JSONBStringArray{"flour", "water"}, got.Ingredients)
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
	assert.NotNil(t, got.Comments)
	assert.False(t, got.CreatedAt.IsZero())

	all, err := recipes.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testFindByIDMissing(t *testing.T, newRepos Factory) {
	recipes, _ := newRepos(t)

	for _, id := range []string{MissingID, "not-a-valid-id"} {
		_, err := recipes.FindByID(context.Background(), id)
		assert.True(t, errors.Is(err, storage.ErrNotFound), "id %q: %v", id, err)
	}
}

func testUpdateKeepsComments(t *testing.T, newRepos Factory) {
	recipes, comments := newRepos(t)
	ctx := context.Background()

	created := create(t, recipes, "Soup", []string{"water"}, []string{"dinner"})
	comment := &model.Comment{Author: "a", Text: "b"}
	require.NoError(t, comments.Create(ctx, comment))
	_, err := recipes.AppendComment(ctx, created.ID, comment.ID)
	require.NoError(t, err)

	// a stale copy must not wipe the appended comment
	created.Title = "Stew"
	created.Comments = nil
	updated, err := recipes.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Stew", updated.Title)
	assert.Equal(t, model.JSONBStringArray{comment.ID}, updated.Comments)
}

func testUpdateMissing(t *testing.T, newRepos Factory) {
	recipes, _ := newRepos(t)

	_, err := recipes.Update(context.Background(), &model.Recipe{ID: MissingID, Title: "x", Description: "y"})
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func testDelete(t *testing.T, newRepos Factory) {
	recipes, _ := newRepos(t)
	ctx := context.Background()

	created := create(t, recipes, "Cake", []string{"sugar"}, nil)
	require.NoError(t, recipes.DeleteByID(ctx, created.ID))
	require.NoError(t, recipes.DeleteByID(ctx, created.ID))
	require.NoError(t, recipes.DeleteByID(ctx, "not-a-valid-id"))

	_, err := recipes.FindByID(ctx, created.ID)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func testMembership(t *testing.T, newRepos Factory) {
	recipes, _ := newRepos(t)
	ctx := context.Background()

	pasta := create(t, recipes, "Pasta", []string{"egg", "flour"}, []string{"x", "italian"})
	salad := create(t, recipes, "Salad", []string{"lettuce"}, []string{"vegan", "x"})
	steak := create(t, recipes, "Steak", []string{"beef", "salt"}, []string{"grill"})

	found, err := recipes.FindByTagsIn(ctx, []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, sorted(pasta.ID, salad.ID), ids(found))

	found, err = recipes.FindByTagsIn(ctx, []string{"grill", "italian"})
	require.NoError(t, err)
	assert.Equal(t, sorted(pasta.ID, steak.ID), ids(found))

	found, err = recipes.FindByTagsIn(ctx, []string{"nothing"})
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = recipes.FindByIngredientsIn(ctx, []string{"salt", "egg"})
	require.NoError(t, err)
	assert.Equal(t, sorted(pasta.ID, steak.ID), ids(found))
}

func testFindPage(t *testing.T, newRepos Factory) {
	recipes, _ := newRepos(t)
	ctx := context.Background()

	for _, title := range []string{"Eclair", "Bagel", "Donut", "Apple pie", "Crepe"} {
		create(t, recipes, title, []string{"sugar"}, nil)
	}

	page, err := recipes.FindPage(ctx, model.PageRequest{Page: 0, Size: 2, SortBy: "title"})
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "Apple pie", page.Content[0].Title)
	assert.Equal(t, "Bagel", page.Content[1].Title)
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.NumberOfElements)
	assert.True(t, page.HasNext)

	page, err = recipes.FindPage(ctx, model.PageRequest{Page: 2, Size: 2, SortBy: "title"})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Eclair", page.Content[0].Title)
	assert.False(t, page.HasNext)

	page, err = recipes.FindPage(ctx, model.PageRequest{Page: 5, Size: 2, SortBy: "id"})
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(5), page.TotalElements)

	// pages sorted by id cover every recipe exactly once
	seen := map[string]bool{}
	for p := 0; p < 3; p++ {
		page, err := recipes.FindPage(ctx, model.PageRequest{Page: p, Size: 2, SortBy: "id"})
		require.NoError(t, err)
		for _, r := range page.Content {
			assert.False(t, seen[r.ID], "recipe %s listed twice", r.ID)
			seen[r.ID] = true
		}
	}
	assert.Len(t, seen, 5)
}

func testAppendComment(t *testing.T, newRepos Factory) {
	recipes, comments := newRepos(t)
	ctx := context.Background()

	created := create(t, recipes, "Pancakes", []string{"flour"}, nil)
	first := &model.Comment{Author: "anonymous", Text: "nice"}
	require.NoError(t, comments.Create(ctx, first))

	updated, err := recipes.AppendComment(ctx, created.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JSONBStringArray{first.ID}, updated.Comments)
	assert.Equal(t, "Pancakes", updated.Title)

	_, err = recipes.AppendComment(ctx, MissingID, first.ID)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func testConcurrentAppend(t *testing.T, newRepos Factory) {
	recipes, comments := newRepos(t)
	ctx := context.Background()

	created := create(t, recipes, "Chili", []string{"beans"}, nil)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := &model.Comment{Author: "anonymous", Text: fmt.Sprintf("comment %d", i)}
			if err := comments.Create(ctx, c); err != nil {
				errs <- err
				return
			}
			if _, err := recipes.AppendComment(ctx, created.ID, c.ID); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := recipes.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Comments, n)
}

func testCommentsByIDs(t *testing.T, newRepos Factory) {
	_, comments := newRepos(t)
	ctx := context.Background()

	a := &model.Comment{Author: "a", Text: "first"}
	b := &model.Comment{Author: "b", Text: "second"}
	require.NoError(t, comments.Create(ctx, a))
	require.NoError(t, comments.Create(ctx, b))
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	found, err := comments.FindByIDs(ctx, []string{b.ID, MissingID, a.ID})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "second", found[0].Text)
	assert.Equal(t, "first", found[1].Text)
}
