package repository

import (
	"errors"

	"github.com/agrolink/quote-service/internal/models"

	"github.com/jackc/pgx/v5"
)

// translateDBError приводит ошибку хранилища к доменной категории.
// Отсутствие строки превращается в NotFoundError, остальное - в BackendError.
func translateDBError(err error, notFoundMessage string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewNotFoundError(notFoundMessage)
	}
	return models.NewBackendError(err.Error())
}
