package repository

import (
	"errors"

	"github.com/sabzihub/backend/internal/models"

	"gorm.io/gorm"
)

// ProductRepository is the catalog data access interface.
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	GetTierByID(id uint) (*models.PriceTier, error)
	GetTiersByIDs(ids []uint) ([]models.PriceTier, error)
	CreateTier(tier *models.PriceTier) error
	UpdateTier(tier *models.PriceTier) error
	DeleteTier(id uint) error
	ReserveTierStock(tierID uint, quantity int) (int64, error)
	ReleaseTierStock(tierID uint, quantity int) (int64, error)
	WithTx(tx *gorm.DB) *GormProductRepository
}

// GormProductRepository is the GORM implementation.
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a product repository.
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// List queries products with filters.
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product
	query := r.db.Model(&models.Product{})

	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Preload("Tiers", "is_active = ?", true).Preload("Category").
		Order("sort_order desc, id desc").
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID fetches a product with its tiers.
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Tiers").Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetBySlug fetches a product by slug.
func (r *GormProductRepository) GetBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Tiers").Preload("Category").
		Where("slug = ?", slug).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Create inserts a product.
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update saves a product.
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete soft-deletes a product.
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// GetTierByID fetches a price tier.
func (r *GormProductRepository) GetTierByID(id uint) (*models.PriceTier, error) {
	var tier models.PriceTier
	if err := r.db.First(&tier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tier, nil
}

// GetTiersByIDs fetches a batch of tiers.
func (r *GormProductRepository) GetTiersByIDs(ids []uint) ([]models.PriceTier, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tiers []models.PriceTier
	if err := r.db.Where("id IN ?", ids).Find(&tiers).Error; err != nil {
		return nil, err
	}
	return tiers, nil
}

// CreateTier inserts a price tier.
func (r *GormProductRepository) CreateTier(tier *models.PriceTier) error {
	return r.db.Create(tier).Error
}

// UpdateTier saves a price tier.
func (r *GormProductRepository) UpdateTier(tier *models.PriceTier) error {
	return r.db.Save(tier).Error
}

// DeleteTier soft-deletes a price tier.
func (r *GormProductRepository) DeleteTier(id uint) error {
	return r.db.Delete(&models.PriceTier{}, id).Error
}

// ReserveTierStock decrements tier stock, guarded so it never goes
// negative. Zero rows affected means insufficient stock.
func (r *GormProductRepository) ReserveTierStock(tierID uint, quantity int) (int64, error) {
	if quantity <= 0 {
		return 0, nil
	}
	result := r.db.Model(&models.PriceTier{}).
		Where("id = ? AND stock >= ?", tierID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ReleaseTierStock returns reserved stock after a cancellation or expiry.
func (r *GormProductRepository) ReleaseTierStock(tierID uint, quantity int) (int64, error) {
	if quantity <= 0 {
		return 0, nil
	}
	result := r.db.Model(&models.PriceTier{}).
		Where("id = ?", tierID).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
