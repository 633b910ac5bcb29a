package repository

import (
	"context"

	"github.com/agrolink/quote-service/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// ProfileRepository - интерфейс для чтения профилей пользователей.
// Профили создает провайдер идентификации; сервис котировок их не изменяет.
type ProfileRepository interface {
	GetProfileByID(ctx context.Context, userId string) (*models.UserProfile, error)
}

// PostgresProfileRepository - реализация ProfileRepository для базы данных.
type PostgresProfileRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresProfileRepository создает новый экземпляр PostgresProfileRepository.
func NewPostgresProfileRepository(db *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{DB: db}
}

// GetProfileByID возвращает профиль пользователя по его идентификатору.
func (r *PostgresProfileRepository) GetProfileByID(ctx context.Context, userId string) (*models.UserProfile, error) {
	var profile models.UserProfile
	query := `SELECT id, email, full_name, role, company_name, document, phone, address, branch, categories
	          FROM profiles WHERE id = $1`
	err := r.DB.QueryRow(ctx, query, userId).Scan(
		&profile.ID,
		&profile.Email,
		&profile.FullName,
		&profile.Role,
		&profile.CompanyName,
		&profile.Document,
		&profile.Phone,
		&profile.Address,
		&profile.Branch,
		pq.Array(&profile.Categories),
	)
	if err != nil {
		return nil, translateDBError(err, "user does not exist")
	}
	return &profile, nil
}
