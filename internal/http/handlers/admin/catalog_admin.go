package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/sabzihub/backend/internal/http/response"
	"github.com/sabzihub/backend/internal/models"
	"github.com/sabzihub/backend/internal/repository"
	"github.com/sabzihub/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest is the admin category payload.
type CategoryRequest struct {
	Slug      string `json:"slug" binding:"required"`
	Name      string `json:"name" binding:"required"`
	ImageURL  string `json:"image_url"`
	SortOrder int    `json:"sort_order"`
	IsActive  bool   `json:"is_active"`
}

func (r CategoryRequest) toInput() service.CategoryInput {
	return service.CategoryInput{
		Slug:      r.Slug,
		Name:      r.Name,
		ImageURL:  r.ImageURL,
		SortOrder: r.SortOrder,
		IsActive:  r.IsActive,
	}
}

// GetAdminCategories lists all categories, inactive included.
func (h *Handler) GetAdminCategories(c *gin.Context) {
	categories, err := h.CatalogService.ListCategories(false)
	if err != nil {
		respondError(c, response.CodeInternal, "category fetch failed", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory adds a category.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	category, err := h.CatalogService.CreateCategory(req.toInput())
	if err != nil {
		respondError(c, response.CodeInternal, "category create failed", err)
		return
	}
	response.Success(c, category)
}

// UpdateCategory edits a category.
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "category id invalid", nil)
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	category, err := h.CatalogService.UpdateCategory(uint(id), req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, response.CodeNotFound, "category not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "category update failed", err)
		return
	}
	response.Success(c, category)
}

// DeleteCategory removes a category.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "category id invalid", nil)
		return
	}
	if err := h.CatalogService.DeleteCategory(uint(id)); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, response.CodeNotFound, "category not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "category delete failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ProductRequest is the admin product payload.
type ProductRequest struct {
	CategoryID  uint     `json:"category_id" binding:"required"`
	Slug        string   `json:"slug" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Tags        []string `json:"tags"`
	IsActive    bool     `json:"is_active"`
	SortOrder   int      `json:"sort_order"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		CategoryID:  r.CategoryID,
		Slug:        r.Slug,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Tags:        r.Tags,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}
}

// GetAdminProducts lists products with back-office filters.
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)

	products, total, err := h.CatalogService.ListProducts(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		CategoryID: uint(categoryID),
		Search:     strings.TrimSpace(c.Query("search")),
		Tag:        strings.TrimSpace(c.Query("tag")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}
	response.SuccessWithPage(c, products, response.BuildPagination(page, pageSize, total))
}

// GetAdminProduct returns one product with its pack sizes.
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "product id invalid", nil)
		return
	}
	product, err := h.CatalogService.GetProduct(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}
	response.Success(c, product)
}

// CreateProduct adds a product.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	product, err := h.CatalogService.CreateProduct(req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, response.CodeBadRequest, "category not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "product create failed", err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct edits a product.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "product id invalid", nil)
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	product, err := h.CatalogService.UpdateProduct(uint(id), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "product not found", nil)
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, response.CodeBadRequest, "category not found", nil)
		default:
			respondError(c, response.CodeInternal, "product update failed", err)
		}
		return
	}
	response.Success(c, product)
}

// DeleteProduct removes a product.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "product id invalid", nil)
		return
	}
	if err := h.CatalogService.DeleteProduct(uint(id)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "product delete failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// TierRequest is the pack size payload.
type TierRequest struct {
	Label     string       `json:"label" binding:"required"`
	UnitPrice models.Money `json:"unit_price" binding:"required"`
	MRP       models.Money `json:"mrp"`
	Stock     int          `json:"stock"`
	IsActive  bool         `json:"is_active"`
	SortOrder int          `json:"sort_order"`
}

func (r TierRequest) toInput() service.TierInput {
	return service.TierInput{
		Label:     r.Label,
		UnitPrice: r.UnitPrice,
		MRP:       r.MRP,
		Stock:     r.Stock,
		IsActive:  r.IsActive,
		SortOrder: r.SortOrder,
	}
}

// CreateTier adds a pack size to a product.
func (h *Handler) CreateTier(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "product id invalid", nil)
		return
	}
	var req TierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	tier, err := h.CatalogService.CreateTier(uint(productID), req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "tier create failed", err)
		return
	}
	response.Success(c, tier)
}

// UpdateTier edits a pack size.
func (h *Handler) UpdateTier(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "tier id invalid", nil)
		return
	}
	var req TierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	tier, err := h.CatalogService.UpdateTier(uint(id), req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrTierNotFound) {
			respondError(c, response.CodeNotFound, "tier not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "tier update failed", err)
		return
	}
	response.Success(c, tier)
}

// DeleteTier removes a pack size.
func (h *Handler) DeleteTier(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "tier id invalid", nil)
		return
	}
	if err := h.CatalogService.DeleteTier(uint(id)); err != nil {
		if errors.Is(err, service.ErrTierNotFound) {
			respondError(c, response.CodeNotFound, "tier not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "tier delete failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
