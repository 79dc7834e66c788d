package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipes-api/backend/internal/model"
	"github.com/pageza/recipes-api/backend/internal/storage/gormstore"
	"github.com/pageza/recipes-api/backend/internal/testhelpers"
)

const testAuthor = "anonymous"

func setupRecipeService(t *testing.T) *RecipeService {
	db := testhelpers.SetupSQLiteDB(t)
	recipes := gormstore.NewRecipeRepository(db)
	comments := gormstore.NewCommentRepository(db)
	return NewRecipeService(recipes, comments, NewCommentService(comments, testAuthor))
}

func newRecipe(title string, tags ...string) *model.Recipe {
	return &model.Recipe{
		Title:       title,
		Description: title + " description",
		Ingredients: model.JSONBStringArray{"flour", "water"},
		Tags:        tags,
	}
}

func strPtr(s string) *string { return &s }

func TestCreateRecipe(t *testing.T) {
	svc := setupRecipeService(t)
	ctx := context.Background()

	created, err := svc.CreateRecipe(ctx, newRecipe("Bread"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotNil(t, created.Tags)
	assert.NotNil(t, created.Comments)
	assert.Empty(t, created.Comments)

	got, found, err := svc.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Bread", got.Title)
	assert.Equal(t, "Bread description", got.Description)
	assert.Equal(t, model.JSONBStringArray{"flour", "water"}, got.Ingredients)
	assert.Empty(t, got.Tags)
}

func TestGetRecipeMissing(t *testing.T) {
	svc := setupRecipeService(t)

	got, found, err := svc.GetRecipe(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestListRecipes(t *testing.T) {
	svc := setupRecipeService(t)
	ctx := context.Background()

	for _, title := range []string{"A", "B", "C"} {
		_, err := svc.CreateRecipe(ctx, newRecipe(title))
		require.NoError(t, err)
	}

	all, err := svc.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateRecipeTitleOnly(t *testing.T) {
	svc := setupRecipeService(t)
	ctx := context.Background()

	created, err := svc.CreateRecipe(ctx, newRecipe("Soup", "dinner"))
	require.NoError(t, err)
	withComment, err := svc.AddComment(ctx, created.ID, &model.Comment{Text: "tasty"})
	require.NoError(t, err)

	updated, err := svc.UpdateRecipe(ctx, created.ID, model.RecipePatch{Title: strPtr("Tomato Soup")})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Tomato Soup", updated.Title)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Ingredients, updated.Ingredients)
	assert.Equal(t, model.JSONBStringArray{"dinner"}, updated.Tags)
	assert.Equal(t, withComment.Comments, updated.Comments)
}

func TestUpdateRecipeAllFields(t *testing.T) {
	svc := setupRecipeService(t)
	ctx := context.Background()

	created, err := svc.CreateRecipe(ctx, newRecipe("Soup", "dinner"))
	require.NoError(t, err)

	updated, err := svc.UpdateRecipe(ctx, created.ID, model.RecipePatch{
		Title:       strPtr("Stew"),
		Description: strPtr("Slow cooked"),
		Ingredients: []string{"beef"},
		Tags:        []string{},
	})
	require.NoError(t, err)
	assert.Equal(t, "Stew", updated.Title)
	assert.Equal(t, "Slow cooked", updated.Description)
	assert.Equal(t, model.JSONBStringArray{"beef"}, updated.Ingredients)
	assert.Empty(t, updated.Tags)
}

func TestUpdateRecipeNotFound(t *testing.T) {
	svc := setupRecipeService(t)

	_, err := svc.UpdateRecipe(context.Background(), "missing", model.RecipePatch{Title: strPtr("x")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "recipe with id: missing was not found", nf.Error())
}

func TestDeleteRecipe(t *testing.T) {
	svc := setupRecipeService(t)
	ctx := context.Background()

	created, err := svc.CreateRecipe(ctx, newRecipe("Cake"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRecipe(ctx, created.ID))
	_, found, err := svc.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, found)

	// deleting again is a no-op
	assert.NoError(t, svc.DeleteRecipe(ctx, created.ID))
	assert.NoError(t, svc.DeleteRecipe(ctx, "never-existed"))
}

func TestFindRecipesByTags(t *testing.T) {
	svc := setupRecipeService(t)
	ctx := context.Background()

	pasta, err := svc.CreateRecipe(ctx, newRecipe("Pasta", "x", "italian"))
	require.NoError(t, err)
	salad, err := svc.CreateRecipe(ctx, newRecipe("Salad", "vegan", "x"))
	require.NoError(t, err)
	_, err = svc.CreateRecipe(ctx, newRecipe("Steak", "grill"))
	require.NoError(t, err)

	found, err := svc.FindRecipesByTags(ctx, []string{"x"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{pasta.ID, salad.ID}, recipeIDs(found))

	found, err = svc.FindRecipesByTags(ctx, []string{"grill", "vegan"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = svc.FindRecipesByTags(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFindRecipesByIngredients(t *testing.T) {
	svc := setupRecipeService(t)
	ctx := context.Background()

	eggs := newRecipe("Omelette")
	eggs.Ingredients = model.JSONBStringArray{"egg", "butter"}
	omelette, err := svc.CreateRecipe(ctx, eggs)
	require.NoError(t, err)
	_, err = svc.CreateRecipe(ctx, newRecipe("Bread"))
	require.NoError(t, err)

	found, err := svc.FindRecipesByIngredients(ctx, []string{"egg"})
	require.NoError(t, err)
	assert.Equal(t, []string{omelette.ID}, recipeIDs(found))

	found, err = svc.FindRecipesByIngredients(ctx, []string{"saffron"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestListRecipesPage(t *testing.T) {
	svc := setupRecipeService(t)
	ctx := context.Background()

	for _, title := range []string{"Eclair", "Bagel", "Donut", "Apple pie", "Crepe"} {
		_, err := svc.CreateRecipe(ctx, newRecipe(title))
		require.NoError(t, err)
	}

	page, err := svc.ListRecipesPage(ctx, model.PageRequest{Page: 0, Size: 2, SortBy: "title"})
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "Apple pie", page.Content[0].Title)
	assert.Equal(t, "Bagel", page.Content[1].Title)
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)

	last, err := svc.ListRecipesPage(ctx, model.PageRequest{Page: 2, Size: 2, SortBy: "title"})
	require.NoError(t, err)
	require.Len(t, last.Content, 1)
	assert.Equal(t, "Eclair", last.Content[0].Title)
	assert.False(t, last.HasNext)
}

func TestListRecipesPageInvalid(t *testing.T) {
	svc := setupRecipeService(t)

	_, err := svc.ListRecipesPage(context.Background(), model.PageRequest{Page: 0, Size: 10, SortBy: "password"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	for _, title := range []string{"A", "B", "C"} {
		_, err := svc.CreateRecipe(context.Background(), newRecipe(title))
		require.NoError(t, err)
	}
	page, err := svc.ListRecipesPage(context.Background(), model.PageRequest{Page: math.MaxInt/4 + 1, Size: 4, SortBy: "title"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Nil(t, page)
}

func TestAddComment(t *testing.T) {
	svc := setupRecipeService(t)
	ctx := context.Background()

	created, err := svc.CreateRecipe(ctx, newRecipe("Pancakes"))
	require.NoError(t, err)

	first, err := svc.AddComment(ctx, created.ID, &model.Comment{Text: "nice"})
	require.NoError(t, err)
	require.Len(t, first.Comments, 1)

	second, err := svc.AddComment(ctx, created.ID, &model.Comment{Text: "great", Author: "Ana"})
	require.NoError(t, err)
	require.Len(t, second.Comments, 2)
	assert.Equal(t, first.Comments[0], second.Comments[0])

	comments, err := svc.GetComments(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "nice", comments[0].Text)
	assert.Equal(t, testAuthor, comments[0].Author)
	assert.False(t, comments[0].CreatedAt.IsZero())
	assert.Equal(t, "Ana", comments[1].Author)
}

func TestAddCommentRecipeNotFound(t *testing.T) {
	svc := setupRecipeService(t)

	_, err := svc.AddComment(context.Background(), "missing", &model.Comment{Text: "nice"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetCommentsRecipeNotFound(t *testing.T) {
	svc := setupRecipeService(t)

	_, err := svc.GetComments(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetCommentsEmpty(t *testing.T) {
	svc := setupRecipeService(t)
	ctx := context.Background()

	created, err := svc.CreateRecipe(ctx, newRecipe("Toast"))
	require.NoError(t, err)

	comments, err := svc.GetComments(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func recipeIDs(recipes []*model.Recipe) []string {
	ids := make([]string, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	return ids
}
