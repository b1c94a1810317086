package service

import (
	"testing"

	"selfvault/file-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreate(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategories(db)

	seedUser(t, db, "alice")

	category, err := categories.Create("alice", "docs", "")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCategoryColor, category.Color)

	_, err = categories.Create("alice", "", "#fff")
	assert.ErrorIs(t, err, ErrValidation)

	// Names are unique per owner, not globally
	_, err = categories.Create("alice", "docs", "#fff")
	assert.ErrorIs(t, err, ErrValidation)

	seedUser(t, db, "bob")
	_, err = categories.Create("bob", "docs", "#fff")
	assert.NoError(t, err)
}

func TestCategoryListWithCounts(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategories(db)

	seedUser(t, db, "alice")

	docs, err := categories.Create("alice", "docs", "")
	require.NoError(t, err)
	_, err = categories.Create("alice", "empty", "")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		file := seedFile(t, db, "alice", seedOpts{})
		require.NoError(t, db.Model(file).Update("category_id", docs.ID).Error)
	}

	listed, err := categories.List("alice")
	require.NoError(t, err)
	require.Len(t, listed, 2)

	// Alphabetical order
	assert.Equal(t, "docs", listed[0].Name)
	assert.Equal(t, int64(2), listed[0].FileCount)
	assert.Equal(t, "empty", listed[1].Name)
	assert.Zero(t, listed[1].FileCount)
}

func TestCategoryUpdate(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategories(db)

	seedUser(t, db, "alice")
	seedUser(t, db, "bob")

	category, err := categories.Create("alice", "docs", "")
	require.NoError(t, err)

	_, err = categories.Update(category.ID, "bob", strptr("stolen"), nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = categories.Update(category.ID, "alice", strptr(""), nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = categories.Update(category.ID, "alice", strptr("papers"), strptr("#000"))
	require.NoError(t, err)

	var stored model.Category
	require.NoError(t, db.First(&stored, "id = ?", category.ID).Error)
	assert.Equal(t, "papers", stored.Name)
	assert.Equal(t, "#000", stored.Color)
}

func TestCategoryDeleteOrphansFiles(t *testing.T) {
	db := newTestDB(t)
	categories := NewCategories(db)

	seedUser(t, db, "alice")

	category, err := categories.Create("alice", "docs", "")
	require.NoError(t, err)

	file := seedFile(t, db, "alice", seedOpts{})
	require.NoError(t, db.Model(file).Update("category_id", category.ID).Error)

	require.NoError(t, categories.Delete(category.ID, "alice"))

	// The file survives without a category
	var stored model.File
	require.NoError(t, db.First(&stored, "id = ?", file.ID).Error)
	assert.Nil(t, stored.CategoryID)

	var n int64
	require.NoError(t, db.Model(model.Category{}).Where("id = ?", category.ID).Count(&n).Error)
	assert.Zero(t, n)
}
