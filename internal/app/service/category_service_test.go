package service

import (
	"testing"

	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/app/repository"
	"github.com/shopzone/shopzone-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCategoryServiceTest(t *testing.T) (CategoryService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return NewCategoryService(repository.NewCategoryRepository(testDB)), testDB
}

func TestCategoryService_CreateAndGet(t *testing.T) {
	categoryService, _ := setupCategoryServiceTest(t)

	created, err := categoryService.Create(&model.Category{Name: "Electronics", DisplayOrder: 1})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := categoryService.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Electronics", got.Name)
}

func TestCategoryService_List_OrderedByDisplayOrder(t *testing.T) {
	categoryService, _ := setupCategoryServiceTest(t)

	_, err := categoryService.Create(&model.Category{Name: "Zeta", DisplayOrder: 2})
	require.NoError(t, err)
	_, err = categoryService.Create(&model.Category{Name: "Alpha", DisplayOrder: 1})
	require.NoError(t, err)

	categories, err := categoryService.List()
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Alpha", categories[0].Name)
	assert.Equal(t, "Zeta", categories[1].Name)
}

func TestCategoryService_Update_NotFound(t *testing.T) {
	categoryService, _ := setupCategoryServiceTest(t)

	updated, err := categoryService.Update(99999, &model.Category{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.Nil(t, updated)
}

func TestCategoryService_Delete_Empty(t *testing.T) {
	categoryService, _ := setupCategoryServiceTest(t)

	created, err := categoryService.Create(&model.Category{Name: "Transient"})
	require.NoError(t, err)

	require.NoError(t, categoryService.Delete(created.ID))

	_, err = categoryService.Get(created.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_Delete_BlockedByProducts(t *testing.T) {
	categoryService, testDB := setupCategoryServiceTest(t)

	created, err := categoryService.Create(&model.Category{Name: "Stocked"})
	require.NoError(t, err)

	testDB.Create(&model.Product{Name: "Item", Price: 1, CategoryID: &created.ID})

	err = categoryService.Delete(created.ID)
	assert.ErrorIs(t, err, ErrCategoryHasProducts)

	// Category survives
	_, err = categoryService.Get(created.ID)
	assert.NoError(t, err)
}
