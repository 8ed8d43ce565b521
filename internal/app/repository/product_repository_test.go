package repository

import (
	"testing"

	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductRepoTest(t *testing.T) (ProductRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return NewProductRepository(testDB), testDB
}

func seedCatalog(t *testing.T, testDB *gorm.DB) (electronics, books *model.Category) {
	electronics = &model.Category{Name: "Electronics"}
	books = &model.Category{Name: "Books"}
	require.NoError(t, testDB.Create(electronics).Error)
	require.NoError(t, testDB.Create(books).Error)

	products := []model.Product{
		{Name: "Keyboard", Price: 49.90, StockQuantity: 10, IsAvailable: true, CategoryID: &electronics.ID},
		{Name: "Mouse", Price: 19.90, StockQuantity: 0, IsAvailable: true, CategoryID: &electronics.ID},
		{Name: "Monitor", Price: 199.00, StockQuantity: 3, IsAvailable: false, CategoryID: &electronics.ID},
		{Name: "Go Novel", Price: 9.90, StockQuantity: 7, IsAvailable: true, CategoryID: &books.ID},
	}
	require.NoError(t, testDB.Create(&products).Error)
	return electronics, books
}

func TestProductRepository_FindWithFilter_All(t *testing.T) {
	repo, testDB := setupProductRepoTest(t)
	seedCatalog(t, testDB)

	products, total, err := repo.FindWithFilter(ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, products, 4)
}

func TestProductRepository_FindWithFilter_Category(t *testing.T) {
	repo, testDB := setupProductRepoTest(t)
	_, books := seedCatalog(t, testDB)

	products, total, err := repo.FindWithFilter(ProductFilter{CategoryID: &books.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Go Novel", products[0].Name)
	require.NotNil(t, products[0].Category)
	assert.Equal(t, "Books", products[0].Category.Name)
}

func TestProductRepository_FindWithFilter_Search(t *testing.T) {
	repo, testDB := setupProductRepoTest(t)
	seedCatalog(t, testDB)

	products, total, err := repo.FindWithFilter(ProductFilter{Search: "mo"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	names := []string{products[0].Name, products[1].Name}
	assert.Contains(t, names, "Mouse")
	assert.Contains(t, names, "Monitor")
}

func TestProductRepository_FindWithFilter_AvailableOnly(t *testing.T) {
	repo, testDB := setupProductRepoTest(t)
	seedCatalog(t, testDB)

	// excludes the out-of-stock Mouse and the hidden Monitor
	products, total, err := repo.FindWithFilter(ProductFilter{AvailableOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, p := range products {
		assert.True(t, p.IsAvailable)
		assert.Greater(t, p.StockQuantity, 0)
	}
}

func TestProductRepository_Create_KeepsExplicitUnavailable(t *testing.T) {
	repo, testDB := setupProductRepoTest(t)

	product := &model.Product{Name: "Draft Listing", Price: 5.00, StockQuantity: 2, IsAvailable: false}
	require.NoError(t, repo.Create(product))

	var stored model.Product
	require.NoError(t, testDB.First(&stored, product.ID).Error)
	assert.False(t, stored.IsAvailable)
}

func TestProductRepository_FindWithFilter_PriceRange(t *testing.T) {
	repo, testDB := setupProductRepoTest(t)
	seedCatalog(t, testDB)

	min := 15.0
	max := 60.0
	products, total, err := repo.FindWithFilter(ProductFilter{MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, p := range products {
		assert.GreaterOrEqual(t, p.Price, min)
		assert.LessOrEqual(t, p.Price, max)
	}
}

func TestProductRepository_FindWithFilter_SortByPrice(t *testing.T) {
	repo, testDB := setupProductRepoTest(t)
	seedCatalog(t, testDB)

	products, _, err := repo.FindWithFilter(ProductFilter{
		SortBy:        ProductSortPrice,
		SortAscending: true,
	})
	require.NoError(t, err)
	require.Len(t, products, 4)
	for i := 1; i < len(products); i++ {
		assert.GreaterOrEqual(t, products[i].Price, products[i-1].Price)
	}
}

func TestProductRepository_FindWithFilter_Pagination(t *testing.T) {
	repo, testDB := setupProductRepoTest(t)
	seedCatalog(t, testDB)

	page1, total, err := repo.FindWithFilter(ProductFilter{
		SortBy:        ProductSortName,
		SortAscending: true,
		Limit:         3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, page1, 3)

	page2, total, err := repo.FindWithFilter(ProductFilter{
		SortBy:        ProductSortName,
		SortAscending: true,
		Limit:         3,
		Offset:        3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, page2, 1)
	assert.NotEqual(t, page1[0].ID, page2[0].ID)
}

func TestProductRepository_FindByID_NotFound(t *testing.T) {
	repo, _ := setupProductRepoTest(t)

	product, err := repo.FindByID(99999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, product)
}
