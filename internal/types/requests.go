package types

import (
	"github.com/pageza/recipes-api/backend/internal/model"
)

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title       string   `json:"title" binding:"required,notblank"`
	Description string   `json:"description" binding:"required,notblank"`
	Ingredients []string `json:"ingredients" binding:"required,min=1,dive,notblank"`
	Tags        []string `json:"tags"`
}

// ToModel builds the recipe to store. The identifier and comments are left to the store.
func (r CreateRecipeRequest) ToModel() *model.Recipe {
	return &model.Recipe{
		Title:       r.Title,
		Description: r.Description,
		Ingredients: model.JSONBStringArray(r.Ingredients),
		Tags:        model.JSONBStringArray(r.Tags),
	}
}

// UpdateRecipeRequest represents the request body for a partial recipe update.
// Omitted or null fields keep their stored value.
type UpdateRecipeRequest struct {
	Title       *string  `json:"title" binding:"omitempty,notblank"`
	Description *string  `json:"description" binding:"omitempty,notblank"`
	Ingredients []string `json:"ingredients" binding:"omitempty,min=1,dive,notblank"`
	Tags        []string `json:"tags"`
}

// ToPatch converts the request into a model.RecipePatch
func (r UpdateRecipeRequest) ToPatch() model.RecipePatch {
	return model.RecipePatch{
		Title:       r.Title,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Tags:        r.Tags,
	}
}

// AddCommentRequest represents the request body for commenting on a recipe
type AddCommentRequest struct {
	Author string `json:"author" binding:"max=100"`
	Text   string `json:"text" binding:"required,notblank"`
}

// ToModel builds the comment to store. A blank author is resolved by the comment service.
func (r AddCommentRequest) ToModel() *model.Comment {
	return &model.Comment{
		Author: r.Author,
		Text:   r.Text,
	}
}

// ListRecipesQuery holds the paging parameters of the recipe listing
type ListRecipesQuery struct {
	Page   int    `form:"page,default=0" binding:"min=0"`
	Size   int    `form:"size,default=10" binding:"min=1,max=100"`
	SortBy string `form:"sortBy,default=id"`
}

// ToPageRequest converts the query into a model.PageRequest
func (q ListRecipesQuery) ToPageRequest() model.PageRequest {
	return model.PageRequest{
		Page:   q.Page,
		Size:   q.Size,
		SortBy: q.SortBy,
	}
}
