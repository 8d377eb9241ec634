package public

import (
	"errors"
	"strconv"

	"github.com/sabzihub/backend/internal/http/response"
	"github.com/sabzihub/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest is the address payload.
type AddressRequest struct {
	Label     string `json:"label"`
	Line1     string `json:"line1" binding:"required"`
	Line2     string `json:"line2"`
	City      string `json:"city" binding:"required"`
	Pincode   string `json:"pincode" binding:"required"`
	IsDefault bool   `json:"is_default"`
}

func (r AddressRequest) toInput() service.AddressInput {
	return service.AddressInput{
		Label:     r.Label,
		Line1:     r.Line1,
		Line2:     r.Line2,
		City:      r.City,
		Pincode:   r.Pincode,
		IsDefault: r.IsDefault,
	}
}

// ListAddresses lists the user's delivery addresses.
func (h *Handler) ListAddresses(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addresses, err := h.AddressService.List(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "address fetch failed", err)
		return
	}
	response.Success(c, addresses)
}

// CreateAddress adds a delivery address.
func (h *Handler) CreateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	address, err := h.AddressService.Create(uid, req.toInput())
	if err != nil {
		respondError(c, response.CodeInternal, "address create failed", err)
		return
	}
	response.Success(c, address)
}

// UpdateAddress edits a delivery address.
func (h *Handler) UpdateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || addressID == 0 {
		respondError(c, response.CodeBadRequest, "address id invalid", nil)
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	address, err := h.AddressService.Update(uint(addressID), uid, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			respondError(c, response.CodeNotFound, "address not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "address update failed", err)
		return
	}
	response.Success(c, address)
}

// DeleteAddress removes a delivery address. Orders keep their snapshot.
func (h *Handler) DeleteAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || addressID == 0 {
		respondError(c, response.CodeBadRequest, "address id invalid", nil)
		return
	}
	if err := h.AddressService.Delete(uint(addressID), uid); err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			respondError(c, response.CodeNotFound, "address not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "address delete failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
