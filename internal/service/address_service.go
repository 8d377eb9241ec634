package service

import (
	"strings"

	"github.com/sabzihub/backend/internal/models"
	"github.com/sabzihub/backend/internal/repository"

	"gorm.io/gorm"
)

// AddressService manages delivery addresses.
type AddressService struct {
	addressRepo repository.AddressRepository
}

// NewAddressService creates an address service.
func NewAddressService(addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// AddressInput is the address payload.
type AddressInput struct {
	Label     string
	Line1     string
	Line2     string
	City      string
	Pincode   string
	IsDefault bool
}

// List returns the user's addresses, default first.
func (s *AddressService) List(userID uint) ([]models.Address, error) {
	return s.addressRepo.ListByUser(userID)
}

// Get fetches one address owned by the user.
func (s *AddressService) Get(id, userID uint) (*models.Address, error) {
	address, err := s.addressRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	return address, nil
}

// Create adds an address. Marking it default clears the old default.
func (s *AddressService) Create(userID uint, input AddressInput) (*models.Address, error) {
	address := &models.Address{
		UserID:    userID,
		Label:     strings.TrimSpace(input.Label),
		Line1:     strings.TrimSpace(input.Line1),
		Line2:     strings.TrimSpace(input.Line2),
		City:      strings.TrimSpace(input.City),
		Pincode:   strings.TrimSpace(input.Pincode),
		IsDefault: input.IsDefault,
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if input.IsDefault {
			if err := repo.ClearDefault(userID); err != nil {
				return err
			}
		}
		return repo.Create(address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Update saves edits to an address owned by the user.
func (s *AddressService) Update(id, userID uint, input AddressInput) (*models.Address, error) {
	address, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}
	address.Label = strings.TrimSpace(input.Label)
	address.Line1 = strings.TrimSpace(input.Line1)
	address.Line2 = strings.TrimSpace(input.Line2)
	address.City = strings.TrimSpace(input.City)
	address.Pincode = strings.TrimSpace(input.Pincode)
	address.IsDefault = input.IsDefault

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		if input.IsDefault {
			if err := repo.ClearDefault(userID); err != nil {
				return err
			}
		}
		return repo.Update(address)
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Delete removes an address owned by the user. Past orders keep their
// own snapshot.
func (s *AddressService) Delete(id, userID uint) error {
	address, err := s.Get(id, userID)
	if err != nil {
		return err
	}
	return s.addressRepo.Delete(address.ID, userID)
}
