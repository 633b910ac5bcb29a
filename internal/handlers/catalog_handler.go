package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/agrolink/quote-service/internal/models"
	"github.com/agrolink/quote-service/internal/services"
	"github.com/agrolink/quote-service/internal/utils"
)

// CatalogHandler - структура для обработки HTTP-запросов по каталогу товаров.
type CatalogHandler struct {
	Service *services.CatalogService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewCatalogHandler создает новый экземпляр CatalogHandler.
func NewCatalogHandler(service *services.CatalogService, logger *log.Logger, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GetProducts обрабатывает запросы для получения каталога товаров.
func (h *CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	products, err := h.Service.FetchProducts(ctx)
	if err != nil {
		h.Logger.Println(err)
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Kind, errorResponse.Message)
			return
		}
		utils.SendErrorResponse(w, http.StatusInternalServerError, models.BackendError, "failed to fetch products")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(products); err != nil {
		h.Logger.Println(err)
	}
}
