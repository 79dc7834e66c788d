package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pageza/recipes-api/backend/internal/model"
	"github.com/pageza/recipes-api/backend/internal/storage"
)

// RecipeRepository stores recipes in the recipes collection.
type RecipeRepository struct {
	coll *mongo.Collection
}

// NewRecipeRepository creates a new RecipeRepository
func NewRecipeRepository(db *mongo.Database) *RecipeRepository {
	return &RecipeRepository{coll: db.Collection(RecipesCollection)}
}

// EnsureIndexes creates the multikey indexes used by the membership queries.
func (r *RecipeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "ingredients", Value: 1}}},
		{Keys: bson.D{{Key: "title", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create recipe indexes: %w", err)
	}
	return nil
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	recipe.Normalize()
	recipe.CreatedAt = now()
	recipe.UpdatedAt = recipe.CreatedAt

	doc, err := toRecipeDocument(recipe)
	if err != nil {
		return fmt.Errorf("invalid recipe document: %w", err)
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		recipe.ID = oid.Hex()
	}
	return nil
}

func (r *RecipeRepository) FindAll(ctx context.Context) ([]*model.Recipe, error) {
	return r.find(ctx, bson.D{})
}

func (r *RecipeRepository) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	var doc recipeDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return doc.toModel(), nil
}

func (r *RecipeRepository) Update(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(recipe.ID)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	update := bson.M{"$set": bson.M{
		"title":       recipe.Title,
		"description": recipe.Description,
		"ingredients": nonNil(recipe.Ingredients),
		"tags":        nonNil(recipe.Tags),
		"updated_at":  now(),
	}}
	return r.findOneAndUpdate(ctx, oid, update)
}

func (r *RecipeRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

func (r *RecipeRepository) FindByTagsIn(ctx context.Context, tags []string) ([]*model.Recipe, error) {
	if len(tags) == 0 {
		return []*model.Recipe{}, nil
	}
	return r.find(ctx, bson.M{"tags": bson.M{"$in": tags}})
}

func (r *RecipeRepository) FindByIngredientsIn(ctx context.Context, ingredients []string) ([]*model.Recipe, error) {
	if len(ingredients) == 0 {
		return []*model.Recipe{}, nil
	}
	return r.find(ctx, bson.M{"ingredients": bson.M{"$in": ingredients}})
}

func (r *RecipeRepository) FindPage(ctx context.Context, req model.PageRequest) (*model.Page, error) {
	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	sort := bson.D{{Key: fieldName(req.SortField()), Value: 1}}
	if req.SortField() != "id" {
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	}
	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(req.Offset())).
		SetLimit(int64(req.Size))

	recipes, err := r.find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	return model.NewPage(recipes, req, total), nil
}

// AppendComment pushes the reference in a single atomic document update.
func (r *RecipeRepository) AppendComment(ctx context.Context, recipeID, commentID string) (*model.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(recipeID)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, fmt.Errorf("invalid comment id %q: %w", commentID, err)
	}
	update := bson.M{
		"$push": bson.M{"comments": cid},
		"$set":  bson.M{"updated_at": now()},
	}
	return r.findOneAndUpdate(ctx, oid, update)
}

func (r *RecipeRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update interface{}) (*model.Recipe, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc recipeDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return doc.toModel(), nil
}

func (r *RecipeRepository) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]*model.Recipe, error) {
	cursor, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	var docs []recipeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}
	recipes := make([]*model.Recipe, 0, len(docs))
	for i := range docs {
		recipes = append(recipes, docs[i].toModel())
	}
	return recipes, nil
}
