// Package gormstore implements the storage repositories on gorm, backed by Postgres
// in production and SQLite in tests and local runs.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipes-api/backend/internal/model"
	"github.com/pageza/recipes-api/backend/internal/storage"
)

// RecipeRepository stores recipes in a relational table with JSON array columns.
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new RecipeRepository
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

func (r *RecipeRepository) FindAll(ctx context.Context) ([]*model.Recipe, error) {
	var recipes []*model.Recipe
	if err := r.db.WithContext(ctx).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

func (r *RecipeRepository) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}

func (r *RecipeRepository) Update(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error) {
	recipe.Normalize()
	result := r.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
		"title":       recipe.Title,
		"description": recipe.Description,
		"ingredients": recipe.Ingredients,
		"tags":        recipe.Tags,
		"updated_at":  time.Now().UTC(),
	})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, storage.ErrNotFound
	}
	return r.FindByID(ctx, recipe.ID)
}

func (r *RecipeRepository) DeleteByID(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&model.Recipe{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

func (r *RecipeRepository) FindByTagsIn(ctx context.Context, tags []string) ([]*model.Recipe, error) {
	return r.findByMembership(ctx, "tags", tags)
}

func (r *RecipeRepository) FindByIngredientsIn(ctx context.Context, ingredients []string) ([]*model.Recipe, error) {
	return r.findByMembership(ctx, "ingredients", ingredients)
}

// findByMembership returns recipes whose JSON array column shares at least one value
// with values. column is always one of our own column names.
func (r *RecipeRepository) findByMembership(ctx context.Context, column string, values []string) ([]*model.Recipe, error) {
	recipes := []*model.Recipe{}
	if len(values) == 0 {
		return recipes, nil
	}

	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Where(fmt.Sprintf("jsonb_exists_any(recipes.%s, ?)", column), pq.Array(values))
	} else {
		query = query.Where(fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(recipes.%s) WHERE json_each.value IN ?)", column), values)
	}

	if err := query.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to search recipes by %s: %w", column, err)
	}
	return recipes, nil
}

func (r *RecipeRepository) FindPage(ctx context.Context, req model.PageRequest) (*model.Page, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Recipe{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	columns := []clause.OrderByColumn{{Column: clause.Column{Name: req.SortField()}}}
	if req.SortField() != "id" {
		columns = append(columns, clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}

	var recipes []*model.Recipe
	err := r.db.WithContext(ctx).
		Order(clause.OrderBy{Columns: columns}).
		Offset(req.Offset()).
		Limit(req.Size).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe page: %w", err)
	}
	return model.NewPage(recipes, req, total), nil
}

// AppendComment locks the recipe row for the duration of the append on Postgres.
// SQLite serializes writers on its own.
func (r *RecipeRepository) AppendComment(ctx context.Context, recipeID, commentID string) (*model.Recipe, error) {
	var recipe model.Recipe
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		recipe.Comments = append(recipe.Comments, commentID)
		recipe.UpdatedAt = time.Now().UTC()
		return tx.Model(&model.Recipe{}).Where("id = ?", recipeID).Updates(map[string]interface{}{
			"comments":   recipe.Comments,
			"updated_at": recipe.UpdatedAt,
		}).Error
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to append comment: %w", err)
	}
	return &recipe, nil
}
