// Package storage defines the entity accessors the service layer persists through.
// Implementations live in mongostore (the document store) and gormstore
// (Postgres or SQLite).
package storage

import (
	"context"
	"errors"

	"github.com/pageza/recipes-api/backend/internal/model"
)

// ErrNotFound is returned when no record matches the requested identifier.
var ErrNotFound = errors.New("record not found")

// RecipeRepository persists recipes.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *model.Recipe) error
	FindAll(ctx context.Context) ([]*model.Recipe, error)
	FindByID(ctx context.Context, id string) (*model.Recipe, error)
	// Update writes title, description, ingredients and tags and returns the stored recipe.
	Update(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error)
	// DeleteByID is a no-op when the recipe does not exist.
	DeleteByID(ctx context.Context, id string) error
	FindByTagsIn(ctx context.Context, tags []string) ([]*model.Recipe, error)
	FindByIngredientsIn(ctx context.Context, ingredients []string) ([]*model.Recipe, error)
	FindPage(ctx context.Context, req model.PageRequest) (*model.Page, error)
	// AppendComment atomically adds a comment reference and returns the stored recipe.
	AppendComment(ctx context.Context, recipeID, commentID string) (*model.Recipe, error)
}

// CommentRepository persists comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	// FindByIDs returns the comments in the order of ids, skipping unknown ids.
	FindByIDs(ctx context.Context, ids []string) ([]*model.Comment, error)
}

// OrderByIDs reorders comments to follow ids and drops ids with no match.
func OrderByIDs(comments []*model.Comment, ids []string) []*model.Comment {
	byID := make(map[string]*model.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}
	ordered := make([]*model.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered
}
