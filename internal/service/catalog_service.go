package service

import (
	"strings"

	"github.com/sabzihub/backend/internal/logger"
	"github.com/sabzihub/backend/internal/models"
	"github.com/sabzihub/backend/internal/repository"
)

// CatalogService owns categories, products and price tiers.
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// NewCatalogService creates a catalog service.
func NewCatalogService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// ListCategories lists categories; the storefront sees active ones only.
func (s *CatalogService) ListCategories(onlyActive bool) ([]models.Category, error) {
	return s.categoryRepo.List(onlyActive)
}

// ListProducts queries the catalog.
func (s *CatalogService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// GetProduct fetches one product for the storefront.
func (s *CatalogService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetProductBySlug fetches one product by slug for the storefront.
func (s *CatalogService) GetProductBySlug(slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// CategoryInput is the admin category payload.
type CategoryInput struct {
	Slug      string
	Name      string
	ImageURL  string
	SortOrder int
	IsActive  bool
}

// CreateCategory inserts a category.
func (s *CatalogService) CreateCategory(input CategoryInput) (*models.Category, error) {
	category := &models.Category{
		Slug:      strings.TrimSpace(input.Slug),
		Name:      strings.TrimSpace(input.Name),
		ImageURL:  input.ImageURL,
		SortOrder: input.SortOrder,
		IsActive:  input.IsActive,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	logger.Infow("category_created", "category_id", category.ID, "slug", category.Slug)
	return category, nil
}

// UpdateCategory saves admin edits to a category.
func (s *CatalogService) UpdateCategory(id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	category.Slug = strings.TrimSpace(input.Slug)
	category.Name = strings.TrimSpace(input.Name)
	category.ImageURL = input.ImageURL
	category.SortOrder = input.SortOrder
	category.IsActive = input.IsActive
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category.
func (s *CatalogService) DeleteCategory(id uint) error {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	return s.categoryRepo.Delete(id)
}

// ProductInput is the admin product payload.
type ProductInput struct {
	CategoryID  uint
	Slug        string
	Name        string
	Description string
	ImageURL    string
	Tags        []string
	IsActive    bool
	SortOrder   int
}

// CreateProduct inserts a product.
func (s *CatalogService) CreateProduct(input ProductInput) (*models.Product, error) {
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	product := &models.Product{
		CategoryID:  input.CategoryID,
		Slug:        strings.TrimSpace(input.Slug),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Tags:        models.StringArray(input.Tags),
		IsActive:    input.IsActive,
		SortOrder:   input.SortOrder,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	logger.Infow("product_created", "product_id", product.ID, "slug", product.Slug)
	return product, nil
}

// UpdateProduct saves admin edits to a product.
func (s *CatalogService) UpdateProduct(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if input.CategoryID != product.CategoryID {
		category, err := s.categoryRepo.GetByID(input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
	}
	product.CategoryID = input.CategoryID
	product.Slug = strings.TrimSpace(input.Slug)
	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.ImageURL = input.ImageURL
	product.Tags = models.StringArray(input.Tags)
	product.IsActive = input.IsActive
	product.SortOrder = input.SortOrder
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product.
func (s *CatalogService) DeleteProduct(id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.productRepo.Delete(id)
}

// TierInput is the admin price tier payload.
type TierInput struct {
	Label     string
	UnitPrice models.Money
	MRP       models.Money
	Stock     int
	IsActive  bool
	SortOrder int
}

// CreateTier adds a pack size to a product.
func (s *CatalogService) CreateTier(productID uint, input TierInput) (*models.PriceTier, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	tier := &models.PriceTier{
		ProductID: productID,
		Label:     strings.TrimSpace(input.Label),
		UnitPrice: input.UnitPrice,
		MRP:       input.MRP,
		Stock:     input.Stock,
		IsActive:  input.IsActive,
		SortOrder: input.SortOrder,
	}
	if err := s.productRepo.CreateTier(tier); err != nil {
		return nil, err
	}
	return tier, nil
}

// UpdateTier saves admin edits to a price tier.
func (s *CatalogService) UpdateTier(id uint, input TierInput) (*models.PriceTier, error) {
	tier, err := s.productRepo.GetTierByID(id)
	if err != nil {
		return nil, err
	}
	if tier == nil {
		return nil, ErrTierNotFound
	}
	tier.Label = strings.TrimSpace(input.Label)
	tier.UnitPrice = input.UnitPrice
	tier.MRP = input.MRP
	tier.Stock = input.Stock
	tier.IsActive = input.IsActive
	tier.SortOrder = input.SortOrder
	if err := s.productRepo.UpdateTier(tier); err != nil {
		return nil, err
	}
	return tier, nil
}

// DeleteTier removes a price tier.
func (s *CatalogService) DeleteTier(id uint) error {
	tier, err := s.productRepo.GetTierByID(id)
	if err != nil {
		return err
	}
	if tier == nil {
		return ErrTierNotFound
	}
	return s.productRepo.DeleteTier(id)
}
