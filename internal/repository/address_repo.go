package repository

import (
	"context"
	"fmt"

	"github.com/agrolink/quote-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AddressRepository - интерфейс для работы с адресами пользователей.
type AddressRepository interface {
	GetUserAddresses(ctx context.Context, userId string) ([]models.Address, error)
	CreateAddress(ctx context.Context, userId string, input models.AddressInput) (*models.Address, error)
	DeleteAddress(ctx context.Context, userId, addressId string) error
	SetDefaultAddress(ctx context.Context, userId, addressId string) (*models.Address, error)
}

// PostgresAddressRepository - реализация AddressRepository для базы данных.
type PostgresAddressRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresAddressRepository создает новый экземпляр PostgresAddressRepository.
func NewPostgresAddressRepository(db *pgxpool.Pool) *PostgresAddressRepository {
	return &PostgresAddressRepository{DB: db}
}

const addressColumns = `id, user_id, label, street, district, city, state, postal_code, is_default`

// GetUserAddresses возвращает адреса пользователя, адрес по умолчанию первым.
func (r *PostgresAddressRepository) GetUserAddresses(ctx context.Context, userId string) ([]models.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, label`
	rows, err := r.DB.Query(ctx, query, userId)
	if err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to query addresses: %v", err))
	}
	defer rows.Close()

	var addresses []models.Address
	for rows.Next() {
		var address models.Address
		if err := rows.Scan(
			&address.ID,
			&address.UserID,
			&address.Label,
			&address.Street,
			&address.District,
			&address.City,
			&address.State,
			&address.PostalCode,
			&address.IsDefault); err != nil {
			return nil, models.NewBackendError(fmt.Sprintf("failed to scan address: %v", err))
		}
		addresses = append(addresses, address)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewBackendError(err.Error())
	}
	return addresses, nil
}

// CreateAddress добавляет новый адрес. Если адрес помечен основным, признак
// по умолчанию сначала снимается с остальных адресов пользователя в той же транзакции.
func (r *PostgresAddressRepository) CreateAddress(ctx context.Context, userId string, input models.AddressInput) (*models.Address, error) {
	newAddress := models.Address{
		ID:         uuid.New().String(),
		UserID:     userId,
		Label:      input.Label,
		Street:     input.Street,
		District:   input.District,
		City:       input.City,
		State:      input.State,
		PostalCode: input.PostalCode,
		IsDefault:  input.IsDefault,
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to begin transaction: %v", err))
	}
	defer tx.Rollback(ctx)

	if input.IsDefault {
		if _, err = tx.Exec(ctx, `UPDATE addresses SET is_default = FALSE WHERE user_id = $1`, userId); err != nil {
			return nil, models.NewBackendError(fmt.Sprintf("failed to clear default address: %v", err))
		}
	}

	insertQuery := `INSERT INTO addresses (id, user_id, label, street, district, city, state, postal_code, is_default)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = tx.Exec(
		ctx,
		insertQuery,
		newAddress.ID,
		newAddress.UserID,
		newAddress.Label,
		newAddress.Street,
		newAddress.District,
		newAddress.City,
		newAddress.State,
		newAddress.PostalCode,
		newAddress.IsDefault)
	if err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to insert address: %v", err))
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to commit transaction: %v", err))
	}
	return &newAddress, nil
}

// DeleteAddress удаляет адрес пользователя. Другой адрес основным не назначается.
func (r *PostgresAddressRepository) DeleteAddress(ctx context.Context, userId, addressId string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, addressId, userId)
	if err != nil {
		return models.NewBackendError(fmt.Sprintf("failed to delete address: %v", err))
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFoundError("address not found")
	}
	return nil
}

// SetDefaultAddress делает адрес основным: признак снимается со всех адресов
// пользователя и выставляется ровно на одном, в одной транзакции.
func (r *PostgresAddressRepository) SetDefaultAddress(ctx context.Context, userId, addressId string) (*models.Address, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to begin transaction: %v", err))
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM addresses WHERE id = $1 AND user_id = $2)`, addressId, userId).Scan(&exists)
	if err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to check address existence: %v", err))
	}
	if !exists {
		return nil, models.NewNotFoundError("address not found")
	}

	if _, err = tx.Exec(ctx, `UPDATE addresses SET is_default = FALSE WHERE user_id = $1`, userId); err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to clear default address: %v", err))
	}

	var updatedAddress models.Address
	updateQuery := `UPDATE addresses SET is_default = TRUE WHERE id = $1 RETURNING ` + addressColumns
	err = tx.QueryRow(ctx, updateQuery, addressId).Scan(
		&updatedAddress.ID,
		&updatedAddress.UserID,
		&updatedAddress.Label,
		&updatedAddress.Street,
		&updatedAddress.District,
		&updatedAddress.City,
		&updatedAddress.State,
		&updatedAddress.PostalCode,
		&updatedAddress.IsDefault,
	)
	if err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to set default address: %v", err))
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to commit transaction: %v", err))
	}
	return &updatedAddress, nil
}
