package router

import (
	"net/http"

	"github.com/agrolink/quote-service/internal/handlers"
)

func InitRoutes(quoteHandler *handlers.QuoteHandler, addressHandler *handlers.AddressHandler, promotionHandler *handlers.PromotionHandler, catalogHandler *handlers.CatalogHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ping", handlers.PingHandler)

	mux.HandleFunc("/api/quotes", quoteHandler.GetQuotes)
	mux.HandleFunc("/api/quotes/new", quoteHandler.CreateQuote)
	mux.HandleFunc("/api/quotes/my", quoteHandler.GetUserQuotes)
	mux.HandleFunc("/api/quotes/{quoteId}", quoteHandler.GetQuote)
	mux.HandleFunc("/api/quotes/{quoteId}/proposals/new", quoteHandler.SubmitProposal)
	mux.HandleFunc("/api/quotes/{quoteId}/proposals/{proposalId}/accept", quoteHandler.AcceptProposal)
	mux.HandleFunc("/api/quotes/{quoteId}/finalize", quoteHandler.FinalizeOrder)
	mux.HandleFunc("/api/orders/my", quoteHandler.GetSupplierOrders)

	mux.HandleFunc("/api/products", catalogHandler.GetProducts)

	mux.HandleFunc("/api/promotions", promotionHandler.GetPromotions)
	mux.HandleFunc("/api/promotions/new", promotionHandler.AddPromotion)
	mux.HandleFunc("/api/promotions/my", promotionHandler.GetSupplierPromotions)
	mux.HandleFunc("PUT /api/promotions/{promotionId}/toggle", promotionHandler.TogglePromotionStatus)
	mux.HandleFunc("/api/promotions/{promotionId}", promotionHandler.DeletePromotion)

	mux.HandleFunc("/api/addresses", addressHandler.GetAddresses)
	mux.HandleFunc("/api/addresses/new", addressHandler.AddAddress)
	mux.HandleFunc("/api/addresses/{addressId}", addressHandler.DeleteAddress)
	mux.HandleFunc("PUT /api/addresses/{addressId}/default", addressHandler.SetDefaultAddress)

	return mux
}
