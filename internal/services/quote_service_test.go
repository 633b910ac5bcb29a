package services

import (
	"context"
	"testing"

	"github.com/agrolink/quote-service/internal/models"
	"github.com/agrolink/quote-service/internal/repository"
)

var (
	testBuyer = models.UserProfile{
		ID:       "buyer-1",
		Email:    "joao@fazenda.com",
		FullName: "João da Silva",
		Role:     models.Buyer,
	}
	testSupplier = models.UserProfile{
		ID:          "supplier-1",
		Email:       "vendas@agrosul.com",
		FullName:    "Maria Souza",
		Role:        models.Supplier,
		CompanyName: "AgroSul Insumos",
	}
	testSupplierTwo = models.UserProfile{
		ID:          "supplier-2",
		Email:       "contato@campoforte.com",
		FullName:    "Pedro Lima",
		Role:        models.Supplier,
		CompanyName: "CampoForte",
	}
)

func newQuoteService() *QuoteService {
	store := repository.NewMemoryStore()
	store.SeedProfiles(testBuyer, testSupplier, testSupplierTwo)
	return NewQuoteService(store)
}

func validQuoteInput() models.QuoteRequestInput {
	return models.QuoteRequestInput{
		Product: models.Product{
			ID:       "1",
			Name:     "Semente de Soja Intacta",
			Category: "Sementes",
			Unit:     "kg",
		},
		Quantity:     500,
		DeliveryType: models.Delivery,
		Radius:       50,
		Address:      "Rodovia BR-163, km 12",
	}
}

func TestCreateQuote(t *testing.T) {
	t.Parallel()

	service := newQuoteService()
	quote, err := service.CreateQuote(context.Background(), testBuyer, validQuoteInput())
	if err != nil {
		t.Fatalf("CreateQuote returned error: %v", err)
	}

	if quote.ID == "" {
		t.Fatal("expected generated quote id")
	}
	if quote.Status != models.OpenQuote {
		t.Fatalf("expected status %q, got %q", models.OpenQuote, quote.Status)
	}
	if quote.BuyerID != testBuyer.ID {
		t.Fatalf("expected buyer id %q, got %q", testBuyer.ID, quote.BuyerID)
	}
	if quote.BuyerName != testBuyer.FullName {
		t.Fatalf("expected buyer name %q, got %q", testBuyer.FullName, quote.BuyerName)
	}
	if len(quote.Proposals) != 0 {
		t.Fatalf("expected no proposals on a new quote, got %d", len(quote.Proposals))
	}
}

func TestCreateQuoteValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		mutate func(input *models.QuoteRequestInput)
	}{
		{
			name:   "missing product name",
			mutate: func(input *models.QuoteRequestInput) { input.Product.Name = "" },
		},
		{
			name:   "missing product category",
			mutate: func(input *models.QuoteRequestInput) { input.Product.Category = "" },
		},
		{
			name:   "zero quantity",
			mutate: func(input *models.QuoteRequestInput) { input.Quantity = 0 },
		},
		{
			name:   "negative quantity",
			mutate: func(input *models.QuoteRequestInput) { input.Quantity = -10 },
		},
		{
			name:   "unknown delivery type",
			mutate: func(input *models.QuoteRequestInput) { input.DeliveryType = "teleport" },
		},
		{
			name:   "negative radius",
			mutate: func(input *models.QuoteRequestInput) { input.Radius = -1 },
		},
		{
			name:   "delivery without address",
			mutate: func(input *models.QuoteRequestInput) { input.Address = "   " },
		},
	}

	service := newQuoteService()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := validQuoteInput()
			tc.mutate(&input)

			_, err := service.CreateQuote(context.Background(), testBuyer, input)
			if !models.IsKind(err, models.ValidationError) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateQuotePickupDropsAddress(t *testing.T) {
	t.Parallel()

	service := newQuoteService()
	input := validQuoteInput()
	input.DeliveryType = models.Pickup
	input.Address = "Rodovia BR-163, km 12"

	quote, err := service.CreateQuote(context.Background(), testBuyer, input)
	if err != nil {
		t.Fatalf("CreateQuote returned error: %v", err)
	}
	if quote.Address != "" {
		t.Fatalf("expected empty address for pickup, got %q", quote.Address)
	}
}

func TestSubmitProposal(t *testing.T) {
	t.Parallel()

	service := newQuoteService()
	quote, err := service.CreateQuote(context.Background(), testBuyer, validQuoteInput())
	if err != nil {
		t.Fatalf("CreateQuote returned error: %v", err)
	}

	proposal, err := service.SubmitProposal(context.Background(), testSupplier, quote.ID, models.ProposalInput{
		Price:        25000,
		DeliveryDate: "2026-09-15",
		Notes:        "frete incluso",
	})
	if err != nil {
		t.Fatalf("SubmitProposal returned error: %v", err)
	}

	if proposal.Status != models.PendingProposal {
		t.Fatalf("expected status %q, got %q", models.PendingProposal, proposal.Status)
	}
	if proposal.SupplierName != testSupplier.CompanyName {
		t.Fatalf("expected supplier name %q, got %q", testSupplier.CompanyName, proposal.SupplierName)
	}

	updated, err := service.GetQuote(context.Background(), quote.ID)
	if err != nil {
		t.Fatalf("GetQuote returned error: %v", err)
	}
	if len(updated.Proposals) != 1 {
		t.Fatalf("expected 1 proposal, got %d", len(updated.Proposals))
	}
}

func TestSubmitProposalValidation(t *testing.T) {
	t.Parallel()

	service := newQuoteService()
	quote, err := service.CreateQuote(context.Background(), testBuyer, validQuoteInput())
	if err != nil {
		t.Fatalf("CreateQuote returned error: %v", err)
	}

	_, err = service.SubmitProposal(context.Background(), testSupplier, quote.ID, models.ProposalInput{
		Price:        -1,
		DeliveryDate: "2026-09-15",
	})
	if !models.IsKind(err, models.ValidationError) {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}

	_, err = service.SubmitProposal(context.Background(), testSupplier, quote.ID, models.ProposalInput{
		Price: 25000,
	})
	if !models.IsKind(err, models.ValidationError) {
		t.Fatalf("expected validation error for missing delivery date, got %v", err)
	}

	_, err = service.SubmitProposal(context.Background(), testSupplier, "missing-quote", models.ProposalInput{
		Price:        25000,
		DeliveryDate: "2026-09-15",
	})
	if !models.IsKind(err, models.NotFoundError) {
		t.Fatalf("expected not found error for unknown quote, got %v", err)
	}
}

func TestAcceptProposalClosesQuoteAndRejectsSiblings(t *testing.T) {
	t.Parallel()

	service := newQuoteService()
	ctx := context.Background()

	quote, err := service.CreateQuote(ctx, testBuyer, validQuoteInput())
	if err != nil {
		t.Fatalf("CreateQuote returned error: %v", err)
	}

	first, err := service.SubmitProposal(ctx, testSupplier, quote.ID, models.ProposalInput{
		Price:        25000,
		DeliveryDate: "2026-09-15",
	})
	if err != nil {
		t.Fatalf("SubmitProposal returned error: %v", err)
	}
	second, err := service.SubmitProposal(ctx, testSupplierTwo, quote.ID, models.ProposalInput{
		Price:        22000,
		DeliveryDate: "2026-09-20",
	})
	if err != nil {
		t.Fatalf("SubmitProposal returned error: %v", err)
	}

	updated, err := service.AcceptProposal(ctx, testBuyer, quote.ID, second.ID)
	if err != nil {
		t.Fatalf("AcceptProposal returned error: %v", err)
	}

	if updated.Status != models.ClosedQuote {
		t.Fatalf("expected status %q, got %q", models.ClosedQuote, updated.Status)
	}
	for _, proposal := range updated.Proposals {
		switch proposal.ID {
		case second.ID:
			if proposal.Status != models.AcceptedProposal {
				t.Fatalf("expected accepted proposal, got %q", proposal.Status)
			}
		case first.ID:
			if proposal.Status != models.RejectedProposal {
				t.Fatalf("expected rejected proposal, got %q", proposal.Status)
			}
		default:
			t.Fatalf("unexpected proposal %q", proposal.ID)
		}
	}

	// Закрытая котировка новых предложений не принимает.
	_, err = service.SubmitProposal(ctx, testSupplier, quote.ID, models.ProposalInput{
		Price:        20000,
		DeliveryDate: "2026-09-25",
	})
	if !models.IsKind(err, models.InvalidStateError) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
}

func TestAcceptProposalIsIdempotentlyRejected(t *testing.T) {
	t.Parallel()

	service := newQuoteService()
	ctx := context.Background()

	quote, err := service.CreateQuote(ctx, testBuyer, validQuoteInput())
	if err != nil {
		t.Fatalf("CreateQuote returned error: %v", err)
	}
	first, err := service.SubmitProposal(ctx, testSupplier, quote.ID, models.ProposalInput{
		Price:        25000,
		DeliveryDate: "2026-09-15",
	})
	if err != nil {
		t.Fatalf("SubmitProposal returned error: %v", err)
	}
	second, err := service.SubmitProposal(ctx, testSupplierTwo, quote.ID, models.ProposalInput{
		Price:        22000,
		DeliveryDate: "2026-09-20",
	})
	if err != nil {
		t.Fatalf("SubmitProposal returned error: %v", err)
	}

	if _, err = service.AcceptProposal(ctx, testBuyer, quote.ID, second.ID); err != nil {
		t.Fatalf("AcceptProposal returned error: %v", err)
	}

	// Повторное принятие, в том числе другого предложения, запрещено.
	_, err = service.AcceptProposal(ctx, testBuyer, quote.ID, first.ID)
	if !models.IsKind(err, models.InvalidStateError) {
		t.Fatalf("expected invalid state error, got %v", err)
	}

	current, err := service.GetQuote(ctx, quote.ID)
	if err != nil {
		t.Fatalf("GetQuote returned error: %v", err)
	}
	if current.Status != models.ClosedQuote {
		t.Fatalf("quote status changed after rejected accept: %q", current.Status)
	}
	for _, proposal := range current.Proposals {
		if proposal.ID == second.ID && proposal.Status != models.AcceptedProposal {
			t.Fatalf("accepted proposal lost its status: %q", proposal.Status)
		}
	}
}

func TestAcceptProposalForeignBuyer(t *testing.T) {
	t.Parallel()

	service := newQuoteService()
	ctx := context.Background()

	quote, err := service.CreateQuote(ctx, testBuyer, validQuoteInput())
	if err != nil {
		t.Fatalf("CreateQuote returned error: %v", err)
	}
	proposal, err := service.SubmitProposal(ctx, testSupplier, quote.ID, models.ProposalInput{
		Price:        25000,
		DeliveryDate: "2026-09-15",
	})
	if err != nil {
		t.Fatalf("SubmitProposal returned error: %v", err)
	}

	stranger := models.UserProfile{ID: "buyer-2", FullName: "Outro Produtor", Role: models.Buyer}
	_, err = service.AcceptProposal(ctx, stranger, quote.ID, proposal.ID)
	if !models.IsKind(err, models.NotFoundError) {
		t.Fatalf("expected not found error for foreign buyer, got %v", err)
	}
}

func TestFinalizeOrder(t *testing.T) {
	t.Parallel()

	service := newQuoteService()
	ctx := context.Background()

	quote, err := service.CreateQuote(ctx, testBuyer, validQuoteInput())
	if err != nil {
		t.Fatalf("CreateQuote returned error: %v", err)
	}

	// Открытую котировку завершить нельзя.
	_, err = service.FinalizeOrder(ctx, testBuyer, quote.ID)
	if !models.IsKind(err, models.InvalidStateError) {
		t.Fatalf("expected invalid state error, got %v", err)
	}

	proposal, err := service.SubmitProposal(ctx, testSupplier, quote.ID, models.ProposalInput{
		Price:        25000,
		DeliveryDate: "2026-09-15",
	})
	if err != nil {
		t.Fatalf("SubmitProposal returned error: %v", err)
	}
	if _, err = service.AcceptProposal(ctx, testBuyer, quote.ID, proposal.ID); err != nil {
		t.Fatalf("AcceptProposal returned error: %v", err)
	}

	completed, err := service.FinalizeOrder(ctx, testBuyer, quote.ID)
	if err != nil {
		t.Fatalf("FinalizeOrder returned error: %v", err)
	}
	if completed.Status != models.CompletedQuote {
		t.Fatalf("expected status %q, got %q", models.CompletedQuote, completed.Status)
	}

	// Статус completed конечный.
	_, err = service.FinalizeOrder(ctx, testBuyer, quote.ID)
	if !models.IsKind(err, models.InvalidStateError) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
}

func TestGetSupplierOrders(t *testing.T) {
	t.Parallel()

	service := newQuoteService()
	ctx := context.Background()

	quote, err := service.CreateQuote(ctx, testBuyer, validQuoteInput())
	if err != nil {
		t.Fatalf("CreateQuote returned error: %v", err)
	}
	winner, err := service.SubmitProposal(ctx, testSupplier, quote.ID, models.ProposalInput{
		Price:        25000,
		DeliveryDate: "2026-09-15",
	})
	if err != nil {
		t.Fatalf("SubmitProposal returned error: %v", err)
	}
	if _, err = service.SubmitProposal(ctx, testSupplierTwo, quote.ID, models.ProposalInput{
		Price:        22000,
		DeliveryDate: "2026-09-20",
	}); err != nil {
		t.Fatalf("SubmitProposal returned error: %v", err)
	}
	if _, err = service.AcceptProposal(ctx, testBuyer, quote.ID, winner.ID); err != nil {
		t.Fatalf("AcceptProposal returned error: %v", err)
	}

	orders, err := service.GetSupplierOrders(ctx, testSupplier, 20, 0)
	if err != nil {
		t.Fatalf("GetSupplierOrders returned error: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != quote.ID {
		t.Fatalf("expected the won quote in supplier orders, got %v", orders)
	}

	// Отклоненное предложение заказом не становится.
	orders, err = service.GetSupplierOrders(ctx, testSupplierTwo, 20, 0)
	if err != nil {
		t.Fatalf("GetSupplierOrders returned error: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected no orders for rejected supplier, got %d", len(orders))
	}
}

func TestFetchQuotesNewestFirst(t *testing.T) {
	t.Parallel()

	service := newQuoteService()
	ctx := context.Background()

	first, err := service.CreateQuote(ctx, testBuyer, validQuoteInput())
	if err != nil {
		t.Fatalf("CreateQuote returned error: %v", err)
	}
	second, err := service.CreateQuote(ctx, testBuyer, validQuoteInput())
	if err != nil {
		t.Fatalf("CreateQuote returned error: %v", err)
	}

	quotes, err := service.FetchQuotes(ctx, 20, 0, nil)
	if err != nil {
		t.Fatalf("FetchQuotes returned error: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	if quotes[0].ID != second.ID || quotes[1].ID != first.ID {
		t.Fatal("expected newest quote first")
	}
}
