package service

import (
	"errors"

	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/app/repository"
	"github.com/shopzone/shopzone-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrAddressNotFound = errors.New("address not found")

type AddressService interface {
	Create(userID uint, address *model.Address) (*model.Address, error)
	List(userID uint) ([]model.Address, error)
	Get(userID, addressID uint) (*model.Address, error)
	Update(userID, addressID uint, updated *model.Address) (*model.Address, error)
	Delete(userID, addressID uint) error
	SetDefault(userID, addressID uint) (*model.Address, error)
}

type addressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressService{addressRepo: addressRepo}
}

// Create stores a new address. The user's first address becomes the
// default automatically; an explicit IsDefault displaces the old one.
func (s *addressService) Create(userID uint, address *model.Address) (*model.Address, error) {
	logger.Info("Creating address", map[string]interface{}{
		"user_id": userID,
		"name":    address.Name,
	})

	count, err := s.addressRepo.CountByUserID(userID)
	if err != nil {
		return nil, err
	}

	address.UserID = userID
	if count == 0 {
		address.IsDefault = true
	}

	makeDefault := address.IsDefault && count > 0
	if makeDefault {
		// SetDefault flips the flags after insert, keep the insert clean.
		address.IsDefault = false
	}

	if err := s.addressRepo.Create(address); err != nil {
		logger.Error("Failed to create address", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if makeDefault {
		if err := s.addressRepo.SetDefault(userID, address.ID); err != nil {
			return nil, err
		}
		address.IsDefault = true
	}

	logger.Info("Address created", map[string]interface{}{
		"user_id":    userID,
		"address_id": address.ID,
		"is_default": address.IsDefault,
	})
	return address, nil
}

func (s *addressService) List(userID uint) ([]model.Address, error) {
	return s.addressRepo.FindByUserID(userID)
}

// Get enforces ownership: a user can only read their own addresses.
func (s *addressService) Get(userID, addressID uint) (*model.Address, error) {
	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	if address.UserID != userID {
		logger.Warn("Address access denied", map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
			"owner_id":   address.UserID,
		})
		return nil, ErrAddressNotFound
	}
	return address, nil
}

func (s *addressService) Update(userID, addressID uint, updated *model.Address) (*model.Address, error) {
	address, err := s.Get(userID, addressID)
	if err != nil {
		return nil, err
	}

	address.Name = updated.Name
	address.AddressLine1 = updated.AddressLine1
	address.AddressLine2 = updated.AddressLine2
	address.City = updated.City
	address.State = updated.State
	address.PostalCode = updated.PostalCode
	address.Country = updated.Country
	address.Phone = updated.Phone

	if err := s.addressRepo.Update(address); err != nil {
		logger.Error("Failed to update address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return nil, err
	}

	logger.Info("Address updated", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return address, nil
}

func (s *addressService) Delete(userID, addressID uint) error {
	address, err := s.Get(userID, addressID)
	if err != nil {
		return err
	}

	if err := s.addressRepo.Delete(address.ID); err != nil {
		logger.Error("Failed to delete address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return err
	}

	// Promote the newest remaining address when the default goes away.
	if address.IsDefault {
		remaining, err := s.addressRepo.FindByUserID(userID)
		if err != nil {
			return err
		}
		if len(remaining) > 0 {
			if err := s.addressRepo.SetDefault(userID, remaining[0].ID); err != nil {
				return err
			}
		}
	}

	logger.Info("Address deleted", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return nil
}

func (s *addressService) SetDefault(userID, addressID uint) (*model.Address, error) {
	if _, err := s.Get(userID, addressID); err != nil {
		return nil, err
	}

	if err := s.addressRepo.SetDefault(userID, addressID); err != nil {
		return nil, err
	}

	logger.Info("Default address changed", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return s.addressRepo.FindByID(addressID)
}
