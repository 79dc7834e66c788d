package service

import (
	"context"

	"github.com/pageza/recipes-api/backend/internal/model"
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error)
	ListRecipes(ctx context.Context) ([]*model.Recipe, error)
	// GetRecipe reports found=false, not an error, when the recipe does not exist.
	GetRecipe(ctx context.Context, id string) (recipe *model.Recipe, found bool, err error)
	UpdateRecipe(ctx context.Context, id string, patch model.RecipePatch) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
	FindRecipesByTags(ctx context.Context, tags []string) ([]*model.Recipe, error)
	FindRecipesByIngredients(ctx context.Context, ingredients []string) ([]*model.Recipe, error)
	ListRecipesPage(ctx context.Context, req model.PageRequest) (*model.Page, error)
	AddComment(ctx context.Context, recipeID string, comment *model.Comment) (*model.Recipe, error)
	GetComments(ctx context.Context, recipeID string) ([]*model.Comment, error)
}

// ICommentService defines the interface for comment operations
type ICommentService interface {
	SaveComment(ctx context.Context, comment *model.Comment) (*model.Comment, error)
}
