package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/agrolink/quote-service/internal/models"
	"github.com/agrolink/quote-service/internal/repository"
	"github.com/agrolink/quote-service/internal/services"
	"github.com/agrolink/quote-service/internal/utils"
)

// PromotionHandler - структура для обработки HTTP-запросов по промоакциям.
type PromotionHandler struct {
	Service  *services.PromotionService
	Profiles repository.ProfileRepository
	Logger   *log.Logger
	Timeout  time.Duration
}

// NewPromotionHandler создает новый экземпляр PromotionHandler.
func NewPromotionHandler(service *services.PromotionService, profiles repository.ProfileRepository, logger *log.Logger, timeout time.Duration) *PromotionHandler {
	return &PromotionHandler{
		Service:  service,
		Profiles: profiles,
		Logger:   logger,
		Timeout:  timeout,
	}
}

// GetPromotions обрабатывает запросы для получения списка промоакций.
func (h *PromotionHandler) GetPromotions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limit, offset, err := utils.ParseLimitOffset(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, err.Error())
		return
	}

	promotions, err := h.Service.FetchPromotions(ctx, limit, offset)
	if err != nil {
		h.sendError(w, err, "failed to fetch promotions")
		return
	}

	h.sendJSON(w, promotions)
}

// GetSupplierPromotions обрабатывает запросы для получения промоакций поставщика.
func (h *PromotionHandler) GetSupplierPromotions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	supplier, err := resolveProfile(ctx, h.Profiles, r)
	if err != nil {
		h.sendError(w, err, "failed to resolve user")
		return
	}

	promotions, err := h.Service.GetSupplierPromotions(ctx, *supplier)
	if err != nil {
		h.sendError(w, err, "failed to fetch supplier promotions")
		return
	}

	h.sendJSON(w, promotions)
}

// AddPromotion обрабатывает запросы для создания промоакции.
func (h *PromotionHandler) AddPromotion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	supplier, err := resolveProfile(ctx, h.Profiles, r)
	if err != nil {
		h.sendError(w, err, "failed to resolve user")
		return
	}

	var input models.PromotionInput
	if err = json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid request body")
		return
	}

	promotion, err := h.Service.AddPromotion(ctx, *supplier, input)
	if err != nil {
		h.sendError(w, err, "failed to add promotion")
		return
	}

	h.sendJSON(w, promotion)
}

// TogglePromotionStatus обрабатывает запросы для переключения активности промоакции.
func (h *PromotionHandler) TogglePromotionStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	promotionId := r.PathValue("promotionId")

	promotion, err := h.Service.TogglePromotionStatus(ctx, promotionId)
	if err != nil {
		h.sendError(w, err, "failed to toggle promotion status")
		return
	}

	h.sendJSON(w, promotion)
}

// DeletePromotion обрабатывает запросы для удаления промоакции.
func (h *PromotionHandler) DeletePromotion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid method, only DELETE is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	supplier, err := resolveProfile(ctx, h.Profiles, r)
	if err != nil {
		h.sendError(w, err, "failed to resolve user")
		return
	}

	promotionId := r.PathValue("promotionId")

	if err = h.Service.DeletePromotion(ctx, *supplier, promotionId); err != nil {
		h.sendError(w, err, "failed to delete promotion")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// sendError логирует ошибку и отправляет ее клиенту с подходящим статусом.
func (h *PromotionHandler) sendError(w http.ResponseWriter, err error, fallbackMessage string) {
	h.Logger.Println(err)
	if errorResponse, ok := err.(*models.ErrorResponse); ok {
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Kind, errorResponse.Message)
		return
	}
	utils.SendErrorResponse(w, http.StatusInternalServerError, models.BackendError, fallbackMessage)
}

// sendJSON отправляет успешный ответ в формате JSON.
func (h *PromotionHandler) sendJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Println(err)
	}
}
