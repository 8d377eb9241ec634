package public

import (
	"errors"
	"strconv"

	"github.com/sabzihub/backend/internal/http/response"
	"github.com/sabzihub/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// GetWishlist lists the user's saved products.
func (h *Handler) GetWishlist(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	items, err := h.WishlistService.List(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "wishlist fetch failed", err)
		return
	}
	response.Success(c, items)
}

// AddWishlistRequest saves a product.
type AddWishlistRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// AddWishlistItem saves a product to the wishlist.
func (h *Handler) AddWishlistItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	item, err := h.WishlistService.Add(uid, req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeBadRequest, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "wishlist update failed", err)
		return
	}
	response.Success(c, item)
}

// RemoveWishlistItem removes a product from the wishlist.
func (h *Handler) RemoveWishlistItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "product id invalid", nil)
		return
	}
	if err := h.WishlistService.Remove(uid, uint(productID)); err != nil {
		respondError(c, response.CodeInternal, "wishlist update failed", err)
		return
	}
	response.Success(c, gin.H{"removed": true})
}
