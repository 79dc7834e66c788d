// Package mongostore implements the storage repositories on MongoDB. Recipes and
// comments live in two collections linked by ObjectID reference.
package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pageza/recipes-api/backend/internal/model"
)

const (
	RecipesCollection  = "recipes"
	CommentsCollection = "comments"
)

type recipeDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Title       string               `bson:"title"`
	Description string               `bson:"description"`
	Ingredients []string             `bson:"ingredients"`
	Tags        []string             `bson:"tags"`
	Comments    []primitive.ObjectID `bson:"comments"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

type commentDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Author    string             `bson:"author"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"created_at"`
}

// fieldName maps a model field onto its document field.
func fieldName(field string) string {
	if field == "id" {
		return "_id"
	}
	return field
}

func toRecipeDocument(r *model.Recipe) (*recipeDocument, error) {
	comments, err := toObjectIDs(r.Comments)
	if err != nil {
		return nil, err
	}
	doc := &recipeDocument{
		Title:       r.Title,
		Description: r.Description,
		Ingredients: nonNil(r.Ingredients),
		Tags:        nonNil(r.Tags),
		Comments:    comments,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.ID != "" {
		id, err := primitive.ObjectIDFromHex(r.ID)
		if err != nil {
			return nil, err
		}
		doc.ID = id
	}
	return doc, nil
}

func (d *recipeDocument) toModel() *model.Recipe {
	comments := make(model.JSONBStringArray, 0, len(d.Comments))
	for _, id := range d.Comments {
		comments = append(comments, id.Hex())
	}
	return &model.Recipe{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Ingredients: model.JSONBStringArray(nonNil(d.Ingredients)),
		Tags:        model.JSONBStringArray(nonNil(d.Tags)),
		Comments:    comments,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (d *commentDocument) toModel() *model.Comment {
	return &model.Comment{
		ID:        d.ID.Hex(),
		Author:    d.Author,
		Text:      d.Text,
		CreatedAt: d.CreatedAt,
	}
}

func toObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, err
		}
		out = append(out, oid)
	}
	return out, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// now returns the current time at the millisecond precision MongoDB stores.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
