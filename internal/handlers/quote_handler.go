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

// QuoteHandler - структура для обработки HTTP-запросов по котировкам.
type QuoteHandler struct {
	Service  *services.QuoteService
	Profiles repository.ProfileRepository
	Logger   *log.Logger
	Timeout  time.Duration
}

// NewQuoteHandler создает новый экземпляр QuoteHandler.
func NewQuoteHandler(service *services.QuoteService, profiles repository.ProfileRepository, logger *log.Logger, timeout time.Duration) *QuoteHandler {
	return &QuoteHandler{
		Service:  service,
		Profiles: profiles,
		Logger:   logger,
		Timeout:  timeout,
	}
}

// GetQuotes обрабатывает запросы для получения списка котировок.
func (h *QuoteHandler) GetQuotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")
	categories := r.URL.Query()["category"]

	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, err.Error())
		return
	}

	quotes, err := h.Service.FetchQuotes(ctx, limit, offset, categories)
	if err != nil {
		h.sendError(w, err, "failed to fetch quotes")
		return
	}

	h.sendJSON(w, quotes)
}

// CreateQuote обрабатывает запросы для создания котировки.
func (h *QuoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	buyer, err := resolveProfile(ctx, h.Profiles, r)
	if err != nil {
		h.sendError(w, err, "failed to resolve user")
		return
	}

	var input models.QuoteRequestInput
	if err = json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid request body")
		return
	}

	quote, err := h.Service.CreateQuote(ctx, *buyer, input)
	if err != nil {
		h.sendError(w, err, "failed to create quote")
		return
	}

	h.sendJSON(w, quote)
}

// GetUserQuotes обрабатывает запросы для получения котировок покупателя.
func (h *QuoteHandler) GetUserQuotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	buyer, err := resolveProfile(ctx, h.Profiles, r)
	if err != nil {
		h.sendError(w, err, "failed to resolve user")
		return
	}

	limit, offset, err := utils.ParseLimitOffset(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, err.Error())
		return
	}

	quotes, err := h.Service.GetUserQuotes(ctx, *buyer, limit, offset)
	if err != nil {
		h.sendError(w, err, "failed to fetch user quotes")
		return
	}

	h.sendJSON(w, quotes)
}

// GetQuote обрабатывает запросы для получения котировки с ее предложениями.
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	quoteId := r.PathValue("quoteId")

	quote, err := h.Service.GetQuote(ctx, quoteId)
	if err != nil {
		h.sendError(w, err, "failed to fetch quote")
		return
	}

	h.sendJSON(w, quote)
}

// SubmitProposal обрабатывает запросы для подачи предложения по котировке.
func (h *QuoteHandler) SubmitProposal(w http.ResponseWriter, r *http.Request) {
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

	quoteId := r.PathValue("quoteId")

	var input models.ProposalInput
	if err = json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid request body")
		return
	}

	proposal, err := h.Service.SubmitProposal(ctx, *supplier, quoteId, input)
	if err != nil {
		h.sendError(w, err, "failed to submit proposal")
		return
	}

	h.sendJSON(w, proposal)
}

// AcceptProposal обрабатывает запросы для принятия предложения покупателем.
func (h *QuoteHandler) AcceptProposal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	buyer, err := resolveProfile(ctx, h.Profiles, r)
	if err != nil {
		h.sendError(w, err, "failed to resolve user")
		return
	}

	quoteId := r.PathValue("quoteId")
	proposalId := r.PathValue("proposalId")

	quote, err := h.Service.AcceptProposal(ctx, *buyer, quoteId, proposalId)
	if err != nil {
		h.sendError(w, err, "failed to accept proposal")
		return
	}

	h.sendJSON(w, quote)
}

// FinalizeOrder обрабатывает запросы для завершения заказа.
func (h *QuoteHandler) FinalizeOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	buyer, err := resolveProfile(ctx, h.Profiles, r)
	if err != nil {
		h.sendError(w, err, "failed to resolve user")
		return
	}

	quoteId := r.PathValue("quoteId")

	quote, err := h.Service.FinalizeOrder(ctx, *buyer, quoteId)
	if err != nil {
		h.sendError(w, err, "failed to finalize order")
		return
	}

	h.sendJSON(w, quote)
}

// GetSupplierOrders обрабатывает запросы для получения заказов поставщика.
func (h *QuoteHandler) GetSupplierOrders(w http.ResponseWriter, r *http.Request) {
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

	limit, offset, err := utils.ParseLimitOffset(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, models.ValidationError, err.Error())
		return
	}

	orders, err := h.Service.GetSupplierOrders(ctx, *supplier, limit, offset)
	if err != nil {
		h.sendError(w, err, "failed to fetch supplier orders")
		return
	}

	h.sendJSON(w, orders)
}

// sendError логирует ошибку и отправляет ее клиенту с подходящим статусом.
func (h *QuoteHandler) sendError(w http.ResponseWriter, err error, fallbackMessage string) {
	h.Logger.Println(err)
	if errorResponse, ok := err.(*models.ErrorResponse); ok {
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Kind, errorResponse.Message)
		return
	}
	utils.SendErrorResponse(w, http.StatusInternalServerError, models.BackendError, fallbackMessage)
}

// sendJSON отправляет успешный ответ в формате JSON.
func (h *QuoteHandler) sendJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Println(err)
	}
}
