package services

import (
	"context"
	"strings"

	"github.com/agrolink/quote-service/internal/models"
	"github.com/agrolink/quote-service/internal/repository"
)

// AddressService реализует операции над адресной книгой пользователя.
type AddressService struct {
	Repo repository.AddressRepository
}

// NewAddressService создает новый экземпляр AddressService.
func NewAddressService(repo repository.AddressRepository) *AddressService {
	return &AddressService{Repo: repo}
}

// FetchAddresses получает адреса пользователя, адрес по умолчанию первым.
func (s *AddressService) FetchAddresses(ctx context.Context, owner models.UserProfile) ([]models.Address, error) {
	if owner.ID == "" {
		return nil, models.NewValidationError("missing user identity")
	}
	return s.Repo.GetUserAddresses(ctx, owner.ID)
}

// AddAddress добавляет новый адрес пользователя.
func (s *AddressService) AddAddress(ctx context.Context, owner models.UserProfile, input models.AddressInput) (*models.Address, error) {
	if owner.ID == "" {
		return nil, models.NewValidationError("missing user identity")
	}
	if strings.TrimSpace(input.Street) == "" ||
		strings.TrimSpace(input.City) == "" ||
		strings.TrimSpace(input.State) == "" ||
		strings.TrimSpace(input.PostalCode) == "" {
		return nil, models.NewValidationError("missing required address fields")
	}
	return s.Repo.CreateAddress(ctx, owner.ID, input)
}

// DeleteAddress удаляет адрес пользователя. Если удален основной адрес,
// пользователь остается без адреса по умолчанию - это допустимое состояние.
func (s *AddressService) DeleteAddress(ctx context.Context, owner models.UserProfile, addressId string) error {
	if owner.ID == "" {
		return models.NewValidationError("missing user identity")
	}
	if addressId == "" {
		return models.NewValidationError("missing required parameter: addressId")
	}
	return s.Repo.DeleteAddress(ctx, owner.ID, addressId)
}

// SetDefaultAddress делает адрес основным для пользователя.
func (s *AddressService) SetDefaultAddress(ctx context.Context, owner models.UserProfile, addressId string) (*models.Address, error) {
	if owner.ID == "" {
		return nil, models.NewValidationError("missing user identity")
	}
	if addressId == "" {
		return nil, models.NewValidationError("missing required parameter: addressId")
	}
	return s.Repo.SetDefaultAddress(ctx, owner.ID, addressId)
}
