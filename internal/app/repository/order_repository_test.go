package repository

import (
	"testing"
	"time"

	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderRepoTest(t *testing.T) (OrderRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return NewOrderRepository(testDB), testDB
}

type orderFixture struct {
	user    *model.User
	product *model.Product
	address *model.Address
}

func seedOrderFixture(t *testing.T, testDB *gorm.DB, email string) orderFixture {
	user := &model.User{
		Username:     email[:len(email)-len("@example.com")],
		Email:        email,
		PasswordHash: "hash",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{
		Name:          "Lamp",
		Price:         12.0,
		StockQuantity: 50,
		IsAvailable:   true,
	}
	require.NoError(t, testDB.Create(product).Error)

	address := &model.Address{
		UserID:       user.ID,
		Name:         "home",
		AddressLine1: "1 Main St",
		City:         "Springfield",
		PostalCode:   "12345",
		Country:      "US",
	}
	require.NoError(t, testDB.Create(address).Error)

	return orderFixture{user: user, product: product, address: address}
}

func (f orderFixture) placeOrder(t *testing.T, testDB *gorm.DB, quantity int, status model.OrderStatus) *model.Order {
	order := &model.Order{
		UserID:      f.user.ID,
		AddressID:   f.address.ID,
		TotalAmount: f.product.Price * float64(quantity),
		Status:      status,
		Items: []model.OrderItem{
			{ProductID: f.product.ID, Quantity: quantity, Price: f.product.Price},
		},
	}
	require.NoError(t, testDB.Create(order).Error)
	return order
}

func TestOrderRepository_FindByID_PreloadsRelations(t *testing.T) {
	repo, testDB := setupOrderRepoTest(t)
	fixture := seedOrderFixture(t, testDB, "buyer@example.com")
	order := fixture.placeOrder(t, testDB, 2, model.OrderStatusPending)

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Lamp", found.Items[0].Product.Name)
	assert.Equal(t, "1 Main St", found.Address.AddressLine1)
}

func TestOrderRepository_FindByUserID_NewestFirst(t *testing.T) {
	repo, testDB := setupOrderRepoTest(t)
	fixture := seedOrderFixture(t, testDB, "buyer@example.com")

	first := fixture.placeOrder(t, testDB, 1, model.OrderStatusPending)
	second := fixture.placeOrder(t, testDB, 2, model.OrderStatusPending)

	// Force distinct timestamps
	testDB.Model(&model.Order{}).Where("id = ?", first.ID).
		Update("created_at", time.Now().Add(-time.Hour))

	orders, err := repo.FindByUserID(fixture.user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
}

func TestOrderRepository_FindWithFilter_ByStatusAndUser(t *testing.T) {
	repo, testDB := setupOrderRepoTest(t)
	alice := seedOrderFixture(t, testDB, "alice@example.com")
	bob := seedOrderFixture(t, testDB, "bob@example.com")

	alice.placeOrder(t, testDB, 1, model.OrderStatusPending)
	alice.placeOrder(t, testDB, 1, model.OrderStatusCompleted)
	bob.placeOrder(t, testDB, 1, model.OrderStatusCompleted)

	completed := model.OrderStatusCompleted
	orders, total, err := repo.FindWithFilter(OrderFilter{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, orders, 2)

	orders, total, err = repo.FindWithFilter(OrderFilter{UserID: &alice.user.ID, Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, alice.user.ID, orders[0].UserID)
	assert.Equal(t, "alice@example.com", orders[0].User.Email)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	repo, testDB := setupOrderRepoTest(t)
	fixture := seedOrderFixture(t, testDB, "buyer@example.com")
	order := fixture.placeOrder(t, testDB, 1, model.OrderStatusPending)

	require.NoError(t, repo.UpdateStatus(order.ID, model.OrderStatusDelivering))

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivering, found.Status)
}

func TestOrderRepository_DailyPurchases_ExcludesCancelled(t *testing.T) {
	repo, testDB := setupOrderRepoTest(t)
	fixture := seedOrderFixture(t, testDB, "buyer@example.com")

	fixture.placeOrder(t, testDB, 1, model.OrderStatusCompleted)
	fixture.placeOrder(t, testDB, 2, model.OrderStatusPending)
	fixture.placeOrder(t, testDB, 5, model.OrderStatusCancelled)

	purchases, err := repo.DailyPurchases(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, int64(2), purchases[0].OrderCount)
	assert.InDelta(t, 36.0, purchases[0].TotalAmount, 0.001)
}

func TestOrderRepository_TopProducts(t *testing.T) {
	repo, testDB := setupOrderRepoTest(t)
	fixture := seedOrderFixture(t, testDB, "buyer@example.com")

	other := &model.Product{Name: "Chair", Price: 30, StockQuantity: 10, IsAvailable: true}
	require.NoError(t, testDB.Create(other).Error)

	fixture.placeOrder(t, testDB, 4, model.OrderStatusCompleted)
	order := &model.Order{
		UserID:      fixture.user.ID,
		AddressID:   fixture.address.ID,
		TotalAmount: 30,
		Status:      model.OrderStatusCompleted,
		Items: []model.OrderItem{
			{ProductID: other.ID, Quantity: 1, Price: 30},
		},
	}
	require.NoError(t, testDB.Create(order).Error)

	top, err := repo.TopProducts(10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Lamp", top[0].Name)
	assert.Equal(t, int64(4), top[0].QuantitySold)
	assert.InDelta(t, 48.0, top[0].Revenue, 0.001)
}

func TestOrderRepository_TopCustomers(t *testing.T) {
	repo, testDB := setupOrderRepoTest(t)
	alice := seedOrderFixture(t, testDB, "alice@example.com")
	bob := seedOrderFixture(t, testDB, "bob@example.com")

	alice.placeOrder(t, testDB, 1, model.OrderStatusCompleted)
	bob.placeOrder(t, testDB, 3, model.OrderStatusCompleted)
	bob.placeOrder(t, testDB, 2, model.OrderStatusCompleted)

	top, err := repo.TopCustomers(10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "bob@example.com", top[0].Email)
	assert.Equal(t, int64(2), top[0].OrderCount)
	assert.InDelta(t, 60.0, top[0].TotalSpent, 0.001)
}
