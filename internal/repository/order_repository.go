package repository

import (
	"errors"
	"time"

	"github.com/sabzihub/backend/internal/constants"
	"github.com/sabzihub/backend/internal/models"

	"gorm.io/gorm"
)

// OrderRepository is the order data access interface.
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByIDAndUser(id uint, userID uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	GetByOrderNoAndUser(orderNo string, userID uint) (*models.Order, error)
	GetByGatewayOrderID(gatewayOrderID string) (*models.Order, error)
	GetItemByIDAndUser(itemID uint, userID uint) (*models.OrderItem, *models.Order, error)
	ListByUser(filter OrderListFilter) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	ListOverduePending(cutoff time.Time, limit int) ([]models.Order, error)
	UpdateStatusVersioned(id uint, version int64, status models.OrderStatus, updates map[string]interface{}) (int64, error)
	AppendStatusEvent(event *models.OrderStatusEvent) error
	AppendAttempt(attempt *models.PaymentAttempt) error
	HasSuccessfulAttempt(orderID uint) (bool, error)
	MarkItemReviewed(itemID uint) error
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository is the GORM implementation.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create persists the order with its item snapshots.
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormOrderRepository) getOne(where string, args ...interface{}) (*models.Order, error) {
	var order models.Order
	query := r.db.Preload("Items").Preload("StatusEvents").Preload("Attempts")
	if err := query.Where(where, args...).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByID fetches an order by primary key.
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	return r.getOne("id = ?", id)
}

// GetByIDAndUser fetches an order owned by the given user.
func (r *GormOrderRepository) GetByIDAndUser(id uint, userID uint) (*models.Order, error) {
	return r.getOne("id = ? AND user_id = ?", id, userID)
}

// GetByOrderNo fetches an order by order number.
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	return r.getOne("order_no = ?", orderNo)
}

// GetByOrderNoAndUser fetches an order by number scoped to its owner.
func (r *GormOrderRepository) GetByOrderNoAndUser(orderNo string, userID uint) (*models.Order, error) {
	return r.getOne("order_no = ? AND user_id = ?", orderNo, userID)
}

// GetByGatewayOrderID fetches the order a gateway notification refers to.
func (r *GormOrderRepository) GetByGatewayOrderID(gatewayOrderID string) (*models.Order, error) {
	if gatewayOrderID == "" {
		return nil, nil
	}
	return r.getOne("gateway_order_id = ?", gatewayOrderID)
}

// GetItemByIDAndUser fetches an order item together with its order,
// checking the order belongs to the user.
func (r *GormOrderRepository) GetItemByIDAndUser(itemID uint, userID uint) (*models.OrderItem, *models.Order, error) {
	var item models.OrderItem
	if err := r.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	var order models.Order
	if err := r.db.Where("id = ? AND user_id = ?", item.OrderID, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return &item, &order, nil
}

// ListByUser lists a user's orders.
func (r *GormOrderRepository) ListByUser(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{}).Where("user_id = ?", filter.UserID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no LIKE ?", "%"+filter.OrderNo+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Preload("Items").Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListAdmin lists orders for the back office.
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Preload("Items").Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListOverduePending lists gateway orders whose payment window has
// passed: still pending, or failed and never retried. Both hold a stock
// reservation until they are cancelled.
func (r *GormOrderRepository) ListOverduePending(cutoff time.Time, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var orders []models.Order
	if err := r.db.
		Where("status IN ? AND payment_expires_at IS NOT NULL AND payment_expires_at <= ?",
			[]models.OrderStatus{models.StatusPaymentPending, models.StatusPaymentFailed}, cutoff).
		Order("id asc").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatusVersioned applies a status change guarded by the optimistic
// version column. Returns the number of rows updated; zero means a
// concurrent writer got there first.
func (r *GormOrderRepository) UpdateStatusVersioned(id uint, version int64, status models.OrderStatus, updates map[string]interface{}) (int64, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	updates["version"] = gorm.Expr("version + 1")
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// AppendStatusEvent inserts one history row.
func (r *GormOrderRepository) AppendStatusEvent(event *models.OrderStatusEvent) error {
	return r.db.Create(event).Error
}

// AppendAttempt inserts one payment attempt row.
func (r *GormOrderRepository) AppendAttempt(attempt *models.PaymentAttempt) error {
	return r.db.Create(attempt).Error
}

// HasSuccessfulAttempt reports whether any attempt on the order succeeded.
func (r *GormOrderRepository) HasSuccessfulAttempt(orderID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.PaymentAttempt{}).
		Where("order_id = ? AND outcome = ?", orderID, constants.AttemptOutcomeSuccess).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkItemReviewed flips the reviewed flag on an order item.
func (r *GormOrderRepository) MarkItemReviewed(itemID uint) error {
	return r.db.Model(&models.OrderItem{}).
		Where("id = ?", itemID).
		Update("is_reviewed", true).Error
}
