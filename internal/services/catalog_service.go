package services

import (
	"context"

	"github.com/agrolink/quote-service/internal/models"
	"github.com/agrolink/quote-service/internal/repository"
)

// CatalogService отдает справочный каталог товаров.
type CatalogService struct {
	Repo repository.ProductRepository
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo repository.ProductRepository) *CatalogService {
	return &CatalogService{Repo: repo}
}

// FetchProducts получает каталог товаров.
func (s *CatalogService) FetchProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.GetProducts(ctx)
}
