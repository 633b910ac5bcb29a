package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/agrolink/quote-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PromotionRepository - интерфейс для работы с промоакциями.
type PromotionRepository interface {
	GetPromotions(ctx context.Context, limit, offset int) ([]models.Promotion, error)
	GetSupplierPromotions(ctx context.Context, supplierId string) ([]models.Promotion, error)
	CreatePromotion(ctx context.Context, supplier models.UserProfile, input models.PromotionInput) (*models.Promotion, error)
	TogglePromotionStatus(ctx context.Context, promotionId string) (*models.Promotion, error)
	DeletePromotion(ctx context.Context, supplierId, promotionId string) error
}

// PostgresPromotionRepository - реализация PromotionRepository для базы данных.
type PostgresPromotionRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresPromotionRepository создает новый экземпляр PostgresPromotionRepository.
func NewPostgresPromotionRepository(db *pgxpool.Pool) *PostgresPromotionRepository {
	return &PostgresPromotionRepository{DB: db}
}

const promotionColumns = `id, supplier_id, supplier_name, title, description, image_url, original_price, promo_price, start_date, end_date, is_active, created_at`

// GetPromotions возвращает список промоакций, новые первыми.
func (r *PostgresPromotionRepository) GetPromotions(ctx context.Context, limit, offset int) ([]models.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.queryPromotions(ctx, query, limit, offset)
}

// GetSupplierPromotions возвращает промоакции поставщика, новые первыми.
func (r *PostgresPromotionRepository) GetSupplierPromotions(ctx context.Context, supplierId string) ([]models.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE supplier_id = $1 ORDER BY created_at DESC`
	return r.queryPromotions(ctx, query, supplierId)
}

// CreatePromotion создает новую промоакцию.
func (r *PostgresPromotionRepository) CreatePromotion(ctx context.Context, supplier models.UserProfile, input models.PromotionInput) (*models.Promotion, error) {
	newPromotion := models.Promotion{
		ID:            uuid.New().String(),
		SupplierID:    supplier.ID,
		SupplierName:  supplier.DisplayName(),
		Title:         input.Title,
		Description:   input.Description,
		Image:         input.Image,
		OriginalPrice: input.OriginalPrice,
		PromoPrice:    input.PromoPrice,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		IsActive:      input.IsActive,
		CreatedAt:     time.Now().UTC(),
	}
	insertQuery := `INSERT INTO promotions (id, supplier_id, supplier_name, title, description, image_url, original_price, promo_price, start_date, end_date, is_active, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		newPromotion.ID,
		newPromotion.SupplierID,
		newPromotion.SupplierName,
		newPromotion.Title,
		newPromotion.Description,
		newPromotion.Image,
		newPromotion.OriginalPrice,
		newPromotion.PromoPrice,
		newPromotion.StartDate,
		newPromotion.EndDate,
		newPromotion.IsActive,
		newPromotion.CreatedAt)
	if err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to insert promotion: %v", err))
	}
	return &newPromotion, nil
}

// TogglePromotionStatus переключает признак активности промоакции.
func (r *PostgresPromotionRepository) TogglePromotionStatus(ctx context.Context, promotionId string) (*models.Promotion, error) {
	updateQuery := `UPDATE promotions SET is_active = NOT is_active WHERE id = $1 RETURNING ` + promotionColumns
	row := r.DB.QueryRow(ctx, updateQuery, promotionId)

	promotion, err := scanPromotion(row)
	if err != nil {
		return nil, translateDBError(err, "promotion not found")
	}
	return promotion, nil
}

// DeletePromotion безвозвратно удаляет промоакцию поставщика.
func (r *PostgresPromotionRepository) DeletePromotion(ctx context.Context, supplierId, promotionId string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM promotions WHERE id = $1 AND supplier_id = $2`, promotionId, supplierId)
	if err != nil {
		return models.NewBackendError(fmt.Sprintf("failed to delete promotion: %v", err))
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFoundError("promotion not found")
	}
	return nil
}

// queryPromotions выполняет запрос списка промоакций.
func (r *PostgresPromotionRepository) queryPromotions(ctx context.Context, query string, args ...interface{}) ([]models.Promotion, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to query promotions: %v", err))
	}
	defer rows.Close()

	var promotions []models.Promotion
	for rows.Next() {
		promotion, err := scanPromotion(rows)
		if err != nil {
			return nil, models.NewBackendError(fmt.Sprintf("failed to scan promotion: %v", err))
		}
		promotions = append(promotions, *promotion)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewBackendError(err.Error())
	}
	return promotions, nil
}

// scanPromotion читает строку промоакции; пустой снимок имени заменяется заглушкой.
func scanPromotion(row interface{ Scan(dest ...interface{}) error }) (*models.Promotion, error) {
	var promotion models.Promotion
	err := row.Scan(
		&promotion.ID,
		&promotion.SupplierID,
		&promotion.SupplierName,
		&promotion.Title,
		&promotion.Description,
		&promotion.Image,
		&promotion.OriginalPrice,
		&promotion.PromoPrice,
		&promotion.StartDate,
		&promotion.EndDate,
		&promotion.IsActive,
		&promotion.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if promotion.SupplierName == "" {
		promotion.SupplierName = defaultSupplierName
	}
	return &promotion, nil
}
