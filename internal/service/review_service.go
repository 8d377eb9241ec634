package service

import (
	"strings"

	"github.com/sabzihub/backend/internal/models"
	"github.com/sabzihub/backend/internal/repository"

	"gorm.io/gorm"
)

// ReviewService manages product reviews. A review requires a delivered
// order item, and each item can be reviewed once.
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	orderRepo  repository.OrderRepository
}

// NewReviewService creates a review service.
func NewReviewService(reviewRepo repository.ReviewRepository, orderRepo repository.OrderRepository) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
	}
}

// Create leaves a review against a delivered order item.
func (s *ReviewService) Create(userID, orderItemID uint, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrRatingInvalid
	}
	item, order, err := s.orderRepo.GetItemByIDAndUser(orderItemID, userID)
	if err != nil {
		return nil, err
	}
	if item == nil || order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != models.StatusDelivered {
		return nil, ErrReviewNotAllowed
	}
	if item.IsReviewed {
		return nil, ErrAlreadyReviewed
	}
	existing, err := s.reviewRepo.GetByOrderItem(orderItemID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyReviewed
	}

	review := &models.Review{
		UserID:      userID,
		ProductID:   item.ProductID,
		OrderItemID: orderItemID,
		Rating:      rating,
		Comment:     strings.TrimSpace(comment),
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.WithTx(tx).Create(review); err != nil {
			return err
		}
		return s.orderRepo.WithTx(tx).MarkItemReviewed(orderItemID)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// ListByProduct lists reviews for a product page.
func (s *ReviewService) ListByProduct(productID uint, page, pageSize int) ([]models.Review, int64, error) {
	return s.reviewRepo.ListByProduct(productID, page, pageSize)
}
