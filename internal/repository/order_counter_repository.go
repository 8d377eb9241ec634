package repository

import (
	"errors"

	"github.com/sabzihub/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderCounterRepository hands out the per-day order number sequence.
type OrderCounterRepository interface {
	NextSeq(dateKey string) (int64, error)
	WithTx(tx *gorm.DB) *GormOrderCounterRepository
}

// GormOrderCounterRepository is the GORM implementation.
type GormOrderCounterRepository struct {
	db *gorm.DB
}

// NewOrderCounterRepository creates a counter repository.
func NewOrderCounterRepository(db *gorm.DB) *GormOrderCounterRepository {
	return &GormOrderCounterRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormOrderCounterRepository) WithTx(tx *gorm.DB) *GormOrderCounterRepository {
	if tx == nil {
		return r
	}
	return &GormOrderCounterRepository{db: tx}
}

// NextSeq bumps and returns the sequence for the given day. The upsert
// increments in a single statement, so two concurrent checkouts can
// never read the same value.
func (r *GormOrderCounterRepository) NextSeq(dateKey string) (int64, error) {
	if dateKey == "" {
		return 0, errors.New("empty date key")
	}
	counter := models.OrderCounter{DateKey: dateKey, Seq: 1}
	if err := r.db.Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "date_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"seq": gorm.Expr("seq + 1")}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "seq"}}},
	).Create(&counter).Error; err != nil {
		return 0, err
	}
	return counter.Seq, nil
}
