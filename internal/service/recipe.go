package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/recipes-api/backend/internal/model"
	"github.com/pageza/recipes-api/backend/internal/storage"
)

// RecipeService handles recipe operations
type RecipeService struct {
	recipes  storage.RecipeRepository
	comments storage.CommentRepository
	comment  ICommentService
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(recipes storage.RecipeRepository, comments storage.CommentRepository, commentService ICommentService) *RecipeService {
	return &RecipeService{
		recipes:  recipes,
		comments: comments,
		comment:  commentService,
	}
}

// CreateRecipe creates a new recipe
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error) {
	recipe.ID = ""
	recipe.Comments = nil
	recipe.Normalize()
	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, nil
}

// ListRecipes returns every recipe in store order
func (s *RecipeService) ListRecipes(ctx context.Context) ([]*model.Recipe, error) {
	recipes, err := s.recipes.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*model.Recipe, bool, error) {
	recipe, err := s.recipes.FindByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get recipe: %w", err)
	}
	return recipe, true, nil
}

// UpdateRecipe overwrites the fields set in patch and returns the merged recipe
func (s *RecipeService) UpdateRecipe(ctx context.Context, id string, patch model.RecipePatch) (*model.Recipe, error) {
	existing, found, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, recipeNotFound(id)
	}

	patch.Apply(existing)
	existing.Normalize()

	updated, err := s.recipes.Update(ctx, existing)
	if errors.Is(err, storage.ErrNotFound) {
		// deleted between the lookup and the write
		return nil, recipeNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return updated, nil
}

// DeleteRecipe deletes a recipe. Deleting a missing recipe is not an error.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id string) error {
	if err := s.recipes.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

// FindRecipesByTags returns the recipes carrying at least one of tags
func (s *RecipeService) FindRecipesByTags(ctx context.Context, tags []string) ([]*model.Recipe, error) {
	if len(tags) == 0 {
		return []*model.Recipe{}, nil
	}
	recipes, err := s.recipes.FindByTagsIn(ctx, tags)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes by tags: %w", err)
	}
	return recipes, nil
}

// FindRecipesByIngredients returns the recipes using at least one of ingredients
func (s *RecipeService) FindRecipesByIngredients(ctx context.Context, ingredients []string) ([]*model.Recipe, error) {
	if len(ingredients) == 0 {
		return []*model.Recipe{}, nil
	}
	recipes, err := s.recipes.FindByIngredientsIn(ctx, ingredients)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes by ingredients: %w", err)
	}
	return recipes, nil
}

// ListRecipesPage returns one page of recipes sorted ascending by req.SortBy
func (s *RecipeService) ListRecipesPage(ctx context.Context, req model.PageRequest) (*model.Page, error) {
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}
	page, err := s.recipes.FindPage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe page: %w", err)
	}
	return page, nil
}

// AddComment saves comment and appends its reference to the recipe
func (s *RecipeService) AddComment(ctx context.Context, recipeID string, comment *model.Comment) (*model.Recipe, error) {
	if _, found, err := s.GetRecipe(ctx, recipeID); err != nil {
		return nil, err
	} else if !found {
		return nil, recipeNotFound(recipeID)
	}

	saved, err := s.comment.SaveComment(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	recipe, err := s.recipes.AppendComment(ctx, recipeID, saved.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, recipeNotFound(recipeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to attach comment: %w", err)
	}
	return recipe, nil
}

// GetComments resolves the comment references of a recipe in reference order
func (s *RecipeService) GetComments(ctx context.Context, recipeID string) ([]*model.Comment, error) {
	recipe, found, err := s.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, recipeNotFound(recipeID)
	}
	if len(recipe.Comments) == 0 {
		return []*model.Comment{}, nil
	}

	comments, err := s.comments.FindByIDs(ctx, recipe.Comments)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	return comments, nil
}
