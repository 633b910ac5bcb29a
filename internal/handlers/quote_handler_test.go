package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agrolink/quote-service/internal/handlers"
	"github.com/agrolink/quote-service/internal/models"
	"github.com/agrolink/quote-service/internal/repository"
	"github.com/agrolink/quote-service/internal/router"
	"github.com/agrolink/quote-service/internal/services"
)

const (
	buyerId    = "buyer-1"
	supplierId = "supplier-1"
)

func newTestRouter() http.Handler {
	store := repository.NewMemoryStore()
	store.SeedProfiles(
		models.UserProfile{ID: buyerId, FullName: "João da Silva", Role: models.Buyer},
		models.UserProfile{ID: supplierId, FullName: "Maria Souza", Role: models.Supplier, CompanyName: "AgroSul Insumos"},
	)

	logger := log.New(io.Discard, "", 0)
	timeout := 2 * time.Second

	quoteHandler := handlers.NewQuoteHandler(services.NewQuoteService(store), store, logger, timeout)
	addressHandler := handlers.NewAddressHandler(services.NewAddressService(store), store, logger, timeout)
	promotionHandler := handlers.NewPromotionHandler(services.NewPromotionService(store), store, logger, timeout)
	catalogHandler := handlers.NewCatalogHandler(services.NewCatalogService(store), logger, timeout)

	return router.InitRoutes(quoteHandler, addressHandler, promotionHandler, catalogHandler)
}

func doRequest(t *testing.T, mux http.Handler, method, path, userId string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if userId != "" {
		request.Header.Set("X-User-Id", userId)
	}

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.NewDecoder(recorder.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

func TestPing(t *testing.T) {
	t.Parallel()

	mux := newTestRouter()
	recorder := doRequest(t, mux, http.MethodGet, "/api/ping", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
}

func TestCreateQuoteRequiresIdentity(t *testing.T) {
	t.Parallel()

	mux := newTestRouter()
	input := models.QuoteRequestInput{
		Product:      models.Product{Name: "Semente de Soja Intacta", Category: "Sementes", Unit: "kg"},
		Quantity:     500,
		DeliveryType: models.Pickup,
	}

	recorder := doRequest(t, mux, http.MethodPost, "/api/quotes/new", "", input)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 without identity header, got %d", recorder.Code)
	}

	recorder = doRequest(t, mux, http.MethodPost, "/api/quotes/new", "ghost-user", input)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for unknown user, got %d", recorder.Code)
	}
}

func TestCreateQuoteRejectsWrongMethod(t *testing.T) {
	t.Parallel()

	mux := newTestRouter()
	recorder := doRequest(t, mux, http.MethodGet, "/api/quotes/new", buyerId, nil)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for wrong method, got %d", recorder.Code)
	}
}

func TestQuoteLifecycleOverHTTP(t *testing.T) {
	t.Parallel()

	mux := newTestRouter()

	recorder := doRequest(t, mux, http.MethodPost, "/api/quotes/new", buyerId, models.QuoteRequestInput{
		Product:      models.Product{ID: "1", Name: "Semente de Soja Intacta", Category: "Sementes", Unit: "kg"},
		Quantity:     500,
		DeliveryType: models.Delivery,
		Radius:       50,
		Address:      "Rodovia BR-163, km 12",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("create quote: expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var quote models.QuoteRequest
	decodeBody(t, recorder, &quote)

	recorder = doRequest(t, mux, http.MethodPost, "/api/quotes/"+quote.ID+"/proposals/new", supplierId, models.ProposalInput{
		Price:        25000,
		DeliveryDate: "2026-09-15",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("submit proposal: expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var proposal models.Proposal
	decodeBody(t, recorder, &proposal)
	if proposal.SupplierName != "AgroSul Insumos" {
		t.Fatalf("expected company name snapshot, got %q", proposal.SupplierName)
	}

	recorder = doRequest(t, mux, http.MethodPost, "/api/quotes/"+quote.ID+"/proposals/"+proposal.ID+"/accept", buyerId, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("accept proposal: expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var updated models.QuoteRequest
	decodeBody(t, recorder, &updated)
	if updated.Status != models.ClosedQuote {
		t.Fatalf("expected status %q, got %q", models.ClosedQuote, updated.Status)
	}

	recorder = doRequest(t, mux, http.MethodPost, "/api/quotes/"+quote.ID+"/finalize", buyerId, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("finalize order: expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	decodeBody(t, recorder, &updated)
	if updated.Status != models.CompletedQuote {
		t.Fatalf("expected status %q, got %q", models.CompletedQuote, updated.Status)
	}

	// Повторное завершение возвращает конфликт.
	recorder = doRequest(t, mux, http.MethodPost, "/api/quotes/"+quote.ID+"/finalize", buyerId, nil)
	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", recorder.Code)
	}
}

func TestGetQuoteNotFound(t *testing.T) {
	t.Parallel()

	mux := newTestRouter()
	recorder := doRequest(t, mux, http.MethodGet, "/api/quotes/missing-quote", "", nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", recorder.Code)
	}

	var errorResponse models.ErrorResponse
	decodeBody(t, recorder, &errorResponse)
	if errorResponse.Kind != models.NotFoundError {
		t.Fatalf("expected kind %q, got %q", models.NotFoundError, errorResponse.Kind)
	}
}

func TestAddressRoutes(t *testing.T) {
	t.Parallel()

	mux := newTestRouter()

	recorder := doRequest(t, mux, http.MethodPost, "/api/addresses/new", buyerId, models.AddressInput{
		Street:     "Rodovia BR-163, km 12",
		City:       "Sorriso",
		State:      "MT",
		PostalCode: "78890-000",
		IsDefault:  true,
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("add address: expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var address models.Address
	decodeBody(t, recorder, &address)

	recorder = doRequest(t, mux, http.MethodDelete, "/api/addresses/"+address.ID, buyerId, nil)
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("delete address: expected status 204, got %d", recorder.Code)
	}

	recorder = doRequest(t, mux, http.MethodDelete, "/api/addresses/"+address.ID, buyerId, nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for a deleted address, got %d", recorder.Code)
	}
}

func TestPromotionRoutes(t *testing.T) {
	t.Parallel()

	mux := newTestRouter()

	recorder := doRequest(t, mux, http.MethodPost, "/api/promotions/new", supplierId, models.PromotionInput{
		Title:         "Semente de Soja com 15% de desconto",
		OriginalPrice: 350,
		PromoPrice:    297.5,
		StartDate:     "2026-09-01",
		EndDate:       "2026-09-30",
		IsActive:      true,
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("add promotion: expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var promotion models.Promotion
	decodeBody(t, recorder, &promotion)

	recorder = doRequest(t, mux, http.MethodPut, "/api/promotions/"+promotion.ID+"/toggle", supplierId, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("toggle promotion: expected status 200, got %d", recorder.Code)
	}
	decodeBody(t, recorder, &promotion)
	if promotion.IsActive {
		t.Fatal("expected promotion to become inactive")
	}

	recorder = doRequest(t, mux, http.MethodDelete, "/api/promotions/"+promotion.ID, supplierId, nil)
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("delete promotion: expected status 204, got %d", recorder.Code)
	}
}
