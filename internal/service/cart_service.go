package service

import (
	"github.com/sabzihub/backend/internal/models"
	"github.com/sabzihub/backend/internal/repository"

	"github.com/shopspring/decimal"
)

// CartService manages the per-user cart.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// CartSummary is the cart with its running subtotal.
type CartSummary struct {
	Items    []models.CartItem `json:"items"`
	Subtotal models.Money      `json:"subtotal"`
}

// GetCart returns the user's cart with the subtotal computed from the
// current tier prices.
func (s *CartService) GetCart(userID uint) (*CartSummary, error) {
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	subtotal := decimal.Zero
	for i := range items {
		if items[i].Tier == nil {
			continue
		}
		subtotal = subtotal.Add(items[i].Tier.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(items[i].Quantity))))
	}
	return &CartSummary{
		Items:    items,
		Subtotal: models.NewMoneyFromDecimal(subtotal),
	}, nil
}

// AddItem puts quantity units of a tier into the cart, merging with an
// existing line for the same tier.
func (s *CartService) AddItem(userID, tierID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrQuantityInvalid
	}
	tier, err := s.productRepo.GetTierByID(tierID)
	if err != nil {
		return nil, err
	}
	if tier == nil || !tier.IsActive {
		return nil, ErrTierNotFound
	}
	product, err := s.productRepo.GetByID(tier.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductUnavailable
	}
	if tier.Stock < quantity {
		return nil, ErrStockInsufficient
	}

	existing, err := s.cartRepo.Get(userID, tierID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		merged := existing.Quantity + quantity
		if tier.Stock < merged {
			return nil, ErrStockInsufficient
		}
		if err := s.cartRepo.UpdateQuantity(existing.ID, merged); err != nil {
			return nil, err
		}
		existing.Quantity = merged
		return existing, nil
	}

	item := &models.CartItem{
		UserID:    userID,
		ProductID: tier.ProductID,
		TierID:    tierID,
		Quantity:  quantity,
	}
	if err := s.cartRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// SetQuantity pins a cart line to an exact quantity; zero removes it.
func (s *CartService) SetQuantity(userID, tierID uint, quantity int) error {
	if quantity < 0 {
		return ErrQuantityInvalid
	}
	existing, err := s.cartRepo.Get(userID, tierID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCartItemNotFound
	}
	if quantity == 0 {
		return s.cartRepo.Delete(existing.ID, userID)
	}
	tier, err := s.productRepo.GetTierByID(tierID)
	if err != nil {
		return err
	}
	if tier == nil || !tier.IsActive {
		return ErrTierNotFound
	}
	if tier.Stock < quantity {
		return ErrStockInsufficient
	}
	return s.cartRepo.UpdateQuantity(existing.ID, quantity)
}

// RemoveItem deletes one cart line.
func (s *CartService) RemoveItem(userID, itemID uint) error {
	return s.cartRepo.Delete(itemID, userID)
}

// Clear empties the cart.
func (s *CartService) Clear(userID uint) error {
	return s.cartRepo.Clear(userID)
}
