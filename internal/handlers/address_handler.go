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

// AddressHandler - структура для обработки HTTP-запросов по адресам.
type AddressHandler struct {
	Service  *services.AddressService
	Profiles repository.ProfileRepository
	Logger   *log.Logger
	Timeout  time.Duration
}

// NewAddressHandler создает новый экземпляр AddressHandler.
func NewAddressHandler(service *services.AddressService, profiles repository.ProfileRepository, logger *log.Logger, timeout time.Duration) *AddressHandler {
	return &AddressHandler{
		Service:  service,
		Profiles: profiles,
		Logger:   logger,
		Timeout:  timeout,
	}
}

// GetAddresses обрабатывает запросы для получения адресов пользователя.
func (h *AddressHandler) GetAddresses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	owner, err := resolveProfile(ctx, h.Profiles, r)
	if err != nil {
		h.sendError(w, err, "failed to resolve user")
		return
	}

	addresses, err := h.Service.FetchAddresses(ctx, *owner)
	if err != nil {
		h.sendError(w, err, "failed to fetch addresses")
		return
	}

	h.sendJSON(w, addresses)
}

// AddAddress обрабатывает запросы для добавления адреса.
func (h *AddressHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	owner, err := resolveProfile(ctx, h.Profiles, r)
	if err != nil {
		h.sendError(w, err, "failed to resolve user")
		return
	}

	var input models.AddressInput
	if err = json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid request body")
		return
	}

	address, err := h.Service.AddAddress(ctx, *owner, input)
	if err != nil {
		h.sendError(w, err, "failed to add address")
		return
	}

	h.sendJSON(w, address)
}

// DeleteAddress обрабатывает запросы для удаления адреса.
func (h *AddressHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid method, only DELETE is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	owner, err := resolveProfile(ctx, h.Profiles, r)
	if err != nil {
		h.sendError(w, err, "failed to resolve user")
		return
	}

	addressId := r.PathValue("addressId")

	if err = h.Service.DeleteAddress(ctx, *owner, addressId); err != nil {
		h.sendError(w, err, "failed to delete address")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetDefaultAddress обрабатывает запросы для назначения основного адреса.
func (h *AddressHandler) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	owner, err := resolveProfile(ctx, h.Profiles, r)
	if err != nil {
		h.sendError(w, err, "failed to resolve user")
		return
	}

	addressId := r.PathValue("addressId")

	address, err := h.Service.SetDefaultAddress(ctx, *owner, addressId)
	if err != nil {
		h.sendError(w, err, "failed to set default address")
		return
	}

	h.sendJSON(w, address)
}

// sendError логирует ошибку и отправляет ее клиенту с подходящим статусом.
func (h *AddressHandler) sendError(w http.ResponseWriter, err error, fallbackMessage string) {
	h.Logger.Println(err)
	if errorResponse, ok := err.(*models.ErrorResponse); ok {
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Kind, errorResponse.Message)
		return
	}
	utils.SendErrorResponse(w, http.StatusInternalServerError, models.BackendError, fallbackMessage)
}

// sendJSON отправляет успешный ответ в формате JSON.
func (h *AddressHandler) sendJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Println(err)
	}
}
