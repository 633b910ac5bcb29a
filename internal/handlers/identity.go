package handlers

import (
	"context"
	"net/http"

	"github.com/agrolink/quote-service/internal/models"
	"github.com/agrolink/quote-service/internal/repository"
)

// resolveProfile определяет вызывающего пользователя по заголовку X-User-Id.
// Подлинность идентификатора гарантирует внешний провайдер; здесь профиль
// только читается, чтобы проставить снимки имени в создаваемые записи.
func resolveProfile(ctx context.Context, profiles repository.ProfileRepository, r *http.Request) (*models.UserProfile, error) {
	userId := r.Header.Get("X-User-Id")
	if userId == "" {
		return nil, models.NewValidationError("missing required header: X-User-Id")
	}

	profile, err := profiles.GetProfileByID(ctx, userId)
	if err != nil {
		if models.IsKind(err, models.NotFoundError) {
			return nil, models.NewErrorResponse(http.StatusUnauthorized, models.NotFoundError, "user does not exist")
		}
		return nil, err
	}
	return profile, nil
}
