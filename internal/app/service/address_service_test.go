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

func setupAddressServiceTest(t *testing.T) (AddressService, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	addressService := NewAddressService(repository.NewAddressRepository(testDB))

	user := &model.User{
		Username:     "addruser",
		Email:        "addr@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	testDB.Create(user)

	return addressService, testDB, user
}

func newTestAddress(name string) *model.Address {
	return &model.Address{
		Name:         name,
		AddressLine1: name + " street 1",
		City:         "Springfield",
		PostalCode:   "12345",
		Country:      "US",
	}
}

func TestAddressService_Create_FirstBecomesDefault(t *testing.T) {
	addressService, _, user := setupAddressServiceTest(t)

	created, err := addressService.Create(user.ID, newTestAddress("home"))
	require.NoError(t, err)
	assert.True(t, created.IsDefault)
}

func TestAddressService_Create_SecondStaysNonDefault(t *testing.T) {
	addressService, _, user := setupAddressServiceTest(t)

	_, err := addressService.Create(user.ID, newTestAddress("home"))
	require.NoError(t, err)

	second, err := addressService.Create(user.ID, newTestAddress("work"))
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
}

func TestAddressService_Create_ExplicitDefaultDisplacesOld(t *testing.T) {
	addressService, testDB, user := setupAddressServiceTest(t)

	first, err := addressService.Create(user.ID, newTestAddress("home"))
	require.NoError(t, err)

	work := newTestAddress("work")
	work.IsDefault = true
	second, err := addressService.Create(user.ID, work)
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	var reloaded model.Address
	testDB.First(&reloaded, first.ID)
	assert.False(t, reloaded.IsDefault)

	var defaults int64
	testDB.Model(&model.Address{}).Where("user_id = ? AND is_default = ?", user.ID, true).Count(&defaults)
	assert.Equal(t, int64(1), defaults)
}

func TestAddressService_SetDefault(t *testing.T) {
	addressService, testDB, user := setupAddressServiceTest(t)

	first, err := addressService.Create(user.ID, newTestAddress("home"))
	require.NoError(t, err)
	second, err := addressService.Create(user.ID, newTestAddress("work"))
	require.NoError(t, err)

	updated, err := addressService.SetDefault(user.ID, second.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)

	var reloaded model.Address
	testDB.First(&reloaded, first.ID)
	assert.False(t, reloaded.IsDefault)
}

func TestAddressService_Delete_PromotesRemaining(t *testing.T) {
	addressService, _, user := setupAddressServiceTest(t)

	first, err := addressService.Create(user.ID, newTestAddress("home"))
	require.NoError(t, err)
	second, err := addressService.Create(user.ID, newTestAddress("work"))
	require.NoError(t, err)

	require.NoError(t, addressService.Delete(user.ID, first.ID))

	remaining, err := addressService.Get(user.ID, second.ID)
	require.NoError(t, err)
	assert.True(t, remaining.IsDefault)
}

func TestAddressService_OwnershipEnforced(t *testing.T) {
	addressService, testDB, user := setupAddressServiceTest(t)

	created, err := addressService.Create(user.ID, newTestAddress("home"))
	require.NoError(t, err)

	other := &model.User{
		Username:     "other",
		Email:        "other@example.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	testDB.Create(other)

	_, err = addressService.Get(other.ID, created.ID)
	assert.ErrorIs(t, err, ErrAddressNotFound)

	err = addressService.Delete(other.ID, created.ID)
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestAddressService_List_DefaultFirst(t *testing.T) {
	addressService, _, user := setupAddressServiceTest(t)

	_, err := addressService.Create(user.ID, newTestAddress("home"))
	require.NoError(t, err)
	second, err := addressService.Create(user.ID, newTestAddress("work"))
	require.NoError(t, err)
	_, err = addressService.SetDefault(user.ID, second.ID)
	require.NoError(t, err)

	addresses, err := addressService.List(user.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, second.ID, addresses[0].ID)
	assert.True(t, addresses[0].IsDefault)
}
