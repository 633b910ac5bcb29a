package repository

import (
	"context"
	"fmt"

	"github.com/agrolink/quote-service/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductRepository - интерфейс для чтения каталога товаров.
type ProductRepository interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
}

// PostgresProductRepository - реализация ProductRepository для базы данных.
type PostgresProductRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresProductRepository создает новый экземпляр PostgresProductRepository.
func NewPostgresProductRepository(db *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{DB: db}
}

// GetProducts возвращает каталог товаров.
func (r *PostgresProductRepository) GetProducts(ctx context.Context) ([]models.Product, error) {
	query := `SELECT id, name, category, unit FROM products ORDER BY name`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to query products: %v", err))
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var product models.Product
		if err := rows.Scan(&product.ID, &product.Name, &product.Category, &product.Unit); err != nil {
			return nil, models.NewBackendError(fmt.Sprintf("failed to scan product: %v", err))
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewBackendError(err.Error())
	}
	return products, nil
}
