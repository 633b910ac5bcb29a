package services

import (
	"context"
	"strings"

	"github.com/agrolink/quote-service/internal/models"
	"github.com/agrolink/quote-service/internal/repository"
)

// PromotionService реализует операции над промоакциями поставщиков.
type PromotionService struct {
	Repo repository.PromotionRepository
}

// NewPromotionService создает новый экземпляр PromotionService.
func NewPromotionService(repo repository.PromotionRepository) *PromotionService {
	return &PromotionService{Repo: repo}
}

// FetchPromotions получает список промоакций, новые первыми.
func (s *PromotionService) FetchPromotions(ctx context.Context, limit, offset int) ([]models.Promotion, error) {
	return s.Repo.GetPromotions(ctx, limit, offset)
}

// GetSupplierPromotions получает промоакции поставщика.
func (s *PromotionService) GetSupplierPromotions(ctx context.Context, supplier models.UserProfile) ([]models.Promotion, error) {
	if supplier.ID == "" {
		return nil, models.NewValidationError("missing supplier identity")
	}
	return s.Repo.GetSupplierPromotions(ctx, supplier.ID)
}

// AddPromotion создает новую промоакцию поставщика.
func (s *PromotionService) AddPromotion(ctx context.Context, supplier models.UserProfile, input models.PromotionInput) (*models.Promotion, error) {
	if supplier.ID == "" {
		return nil, models.NewValidationError("missing supplier identity")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, models.NewValidationError("title is required")
	}
	if input.OriginalPrice < 0 || input.PromoPrice < 0 {
		return nil, models.NewValidationError("prices must be non-negative numbers")
	}
	if input.PromoPrice > input.OriginalPrice {
		return nil, models.NewValidationError("promo price must not exceed the original price")
	}
	if strings.TrimSpace(input.StartDate) == "" || strings.TrimSpace(input.EndDate) == "" {
		return nil, models.NewValidationError("start and end dates are required")
	}
	return s.Repo.CreatePromotion(ctx, supplier, input)
}

// TogglePromotionStatus переключает признак активности промоакции.
func (s *PromotionService) TogglePromotionStatus(ctx context.Context, promotionId string) (*models.Promotion, error) {
	if promotionId == "" {
		return nil, models.NewValidationError("missing required parameter: promotionId")
	}
	return s.Repo.TogglePromotionStatus(ctx, promotionId)
}

// DeletePromotion безвозвратно удаляет промоакцию поставщика.
func (s *PromotionService) DeletePromotion(ctx context.Context, supplier models.UserProfile, promotionId string) error {
	if supplier.ID == "" {
		return models.NewValidationError("missing supplier identity")
	}
	if promotionId == "" {
		return models.NewValidationError("missing required parameter: promotionId")
	}
	return s.Repo.DeletePromotion(ctx, supplier.ID, promotionId)
}
