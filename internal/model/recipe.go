package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface.
// The array is written as JSON text so SQLite's json_each can read it back.
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for JSONBStringArray", value)
	}

	return json.Unmarshal(bytes, a)
}

// MarshalJSON never emits null, an absent list is an empty list.
func (a JSONBStringArray) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

// Recipe is a dish with its ingredients, tags and references to comments.
type Recipe struct {
	ID          string           `gorm:"type:varchar(36);primarykey" json:"id"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Description string           `gorm:"type:text;not null" json:"description"`
	Ingredients JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Tags        JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	Comments    JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"comments"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// BeforeCreate assigns the identifier for relational backends.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.Normalize()
	return nil
}

// Normalize replaces nil lists with empty ones.
func (r *Recipe) Normalize() {
	if r.Ingredients == nil {
		r.Ingredients = JSONBStringArray{}
	}
	if r.Tags == nil {
		r.Tags = JSONBStringArray{}
	}
	if r.Comments == nil {
		r.Comments = JSONBStringArray{}
	}
}

// RecipePatch carries the fields of a partial update. A nil field is left untouched.
type RecipePatch struct {
	Title       *string
	Description *string
	Ingredients []string
	Tags        []string
}

// Apply overwrites every field that is set in the patch. Comments are never touched.
func (p RecipePatch) Apply(r *Recipe) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Ingredients != nil {
		r.Ingredients = JSONBStringArray(p.Ingredients)
	}
	if p.Tags != nil {
		r.Tags = JSONBStringArray(p.Tags)
	}
}
