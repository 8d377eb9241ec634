package public

import (
	"errors"
	"strconv"

	"github.com/sabzihub/backend/internal/http/response"
	"github.com/sabzihub/backend/internal/service"

	"github.com/gin-gonic/gin"
)

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrTierNotFound, code: response.CodeBadRequest, msg: "pack size not found"},
	{target: service.ErrProductUnavailable, code: response.CodeBadRequest, msg: "product is not available"},
	{target: service.ErrStockInsufficient, code: response.CodeBadRequest, msg: "insufficient stock"},
	{target: service.ErrQuantityInvalid, code: response.CodeBadRequest, msg: "quantity invalid"},
}

// GetCart returns the user's cart with the live subtotal.
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.GetCart(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "cart fetch failed", err)
		return
	}
	response.Success(c, cart)
}

// CartItemRequest adds or updates one cart line.
type CartItemRequest struct {
	TierID   uint `json:"tier_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

// AddCartItem adds a pack size to the cart, merging an existing line.
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	item, err := h.CartService.AddItem(uid, req.TierID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart update failed")
		return
	}
	response.Success(c, item)
}

// SetCartQuantityRequest sets the quantity for one line; zero removes it.
type SetCartQuantityRequest struct {
	TierID   uint `json:"tier_id" binding:"required"`
	Quantity int  `json:"quantity"`
}

// SetCartQuantity overwrites a cart line's quantity.
func (h *Handler) SetCartQuantity(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req SetCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.CartService.SetQuantity(uid, req.TierID, req.Quantity); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart update failed")
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// RemoveCartItem deletes one cart line.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || itemID == 0 {
		respondError(c, response.CodeBadRequest, "cart item id invalid", nil)
		return
	}
	if err := h.CartService.RemoveItem(uid, uint(itemID)); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			respondError(c, response.CodeNotFound, "cart item not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "cart update failed", err)
		return
	}
	response.Success(c, gin.H{"removed": true})
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(uid); err != nil {
		respondError(c, response.CodeInternal, "cart update failed", err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}
