package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipes-api/backend/internal/model"
)

func TestSetupSQLiteDB(t *testing.T) {
	db := SetupSQLiteDB(t)
	require.NotNil(t, db)

	recipe := &model.Recipe{Title: "Toast", Description: "Crispy", Ingredients: model.JSONBStringArray{"bread"}}
	require.NoError(t, db.Create(recipe).Error)
	assert.NotEmpty(t, recipe.ID)

	comment := &model.Comment{Author: "anonymous", Text: "nice"}
	require.NoError(t, db.Create(comment).Error)
	assert.NotEmpty(t, comment.ID)

	var count int64
	require.NoError(t, db.Model(&model.Recipe{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSetupSQLiteDBIsolated(t *testing.T) {
	var count int64
	require.NoError(t, SetupSQLiteDB(t).Model(&model.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}
