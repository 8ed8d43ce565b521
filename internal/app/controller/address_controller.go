package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/app/service"
	apierrors "github.com/shopzone/shopzone-backend/internal/errors"
	"github.com/shopzone/shopzone-backend/internal/middleware"
)

type AddressController struct {
	addressService service.AddressService
}

func NewAddressController(addressService service.AddressService) *AddressController {
	return &AddressController{
		addressService: addressService,
	}
}

type AddressRequest struct {
	Name         string `json:"name" binding:"required"`
	AddressLine1 string `json:"address_line1" binding:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code" binding:"required"`
	Country      string `json:"country" binding:"required"`
	Phone        string `json:"phone"`
	IsDefault    bool   `json:"is_default"`
}

func (req *AddressRequest) toModel() *model.Address {
	return &model.Address{
		Name:         req.Name,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		Phone:        req.Phone,
		IsDefault:    req.IsDefault,
	}
}

// List returns the caller's address book
// GET /api/addresses
func (ctrl *AddressController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "authentication required")
		return
	}

	addresses, err := ctrl.addressService.List(userID)
	if err != nil {
		log.Error("Failed to list addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		apierrors.InternalError(c, "failed to fetch addresses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"addresses": addresses,
		"count":     len(addresses),
	})
}

// Create adds an address
// POST /api/addresses
func (ctrl *AddressController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "authentication required")
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid address request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "invalid address data")
		return
	}

	address, err := ctrl.addressService.Create(userID, req.toModel())
	if err != nil {
		log.Error("Failed to create address", err, map[string]interface{}{
			"user_id": userID,
		})
		apierrors.ParseAndRespond(c, err, "create address")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"address": address,
	})
}

// Get returns one address
// GET /api/addresses/:id
func (ctrl *AddressController) Get(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "authentication required")
		return
	}

	addressID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "invalid address ID")
		return
	}

	address, err := ctrl.addressService.Get(userID, addressID)
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			apierrors.NotFound(c, apierrors.AddressNotFound, "address not found")
			return
		}
		apierrors.InternalError(c, "failed to fetch address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": address,
	})
}

// Update replaces an address's fields
// PUT /api/addresses/:id
func (ctrl *AddressController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "authentication required")
		return
	}

	addressID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "invalid address ID")
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "invalid address data")
		return
	}

	address, err := ctrl.addressService.Update(userID, addressID, req.toModel())
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			apierrors.NotFound(c, apierrors.AddressNotFound, "address not found")
			return
		}
		log.Error("Failed to update address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		apierrors.ParseAndRespond(c, err, "update address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": address,
	})
}

// Delete removes an address
// DELETE /api/addresses/:id
func (ctrl *AddressController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "authentication required")
		return
	}

	addressID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "invalid address ID")
		return
	}

	if err := ctrl.addressService.Delete(userID, addressID); err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			apierrors.NotFound(c, apierrors.AddressNotFound, "address not found")
			return
		}
		log.Error("Failed to delete address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		apierrors.ParseAndRespond(c, err, "delete address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "address deleted",
	})
}

// SetDefault marks an address as the default
// PUT /api/addresses/:id/default
func (ctrl *AddressController) SetDefault(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "authentication required")
		return
	}

	addressID, ok := parseIDParam(c, "id")
	if !ok {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "invalid address ID")
		return
	}

	address, err := ctrl.addressService.SetDefault(userID, addressID)
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			apierrors.NotFound(c, apierrors.AddressNotFound, "address not found")
			return
		}
		log.Error("Failed to set default address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		apierrors.ParseAndRespond(c, err, "update address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": address,
	})
}
