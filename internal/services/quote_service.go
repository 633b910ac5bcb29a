package services

import (
	"context"
	"strings"

	"github.com/agrolink/quote-service/internal/models"
	"github.com/agrolink/quote-service/internal/repository"
	"github.com/agrolink/quote-service/internal/utils"
)

// Допустимые переходы статуса котировки: open -> closed -> completed.
var quoteStatusTransitions = map[models.QuoteStatus][]models.QuoteStatus{
	models.OpenQuote:      {models.ClosedQuote},
	models.ClosedQuote:    {models.CompletedQuote},
	models.CompletedQuote: {},
}

// QuoteService реализует жизненный цикл котировок и предложений.
// Все инварианты переходов проверяются здесь и не зависят от реализации хранилища.
type QuoteService struct {
	Repo repository.QuoteRepository
}

// NewQuoteService создает новый экземпляр QuoteService.
func NewQuoteService(repo repository.QuoteRepository) *QuoteService {
	return &QuoteService{Repo: repo}
}

// FetchQuotes получает список котировок, новые первыми.
func (s *QuoteService) FetchQuotes(ctx context.Context, limit, offset int, categories []string) ([]models.QuoteRequest, error) {
	return s.Repo.GetQuotes(ctx, limit, offset, categories)
}

// GetUserQuotes получает список котировок покупателя.
func (s *QuoteService) GetUserQuotes(ctx context.Context, buyer models.UserProfile, limit, offset int) ([]models.QuoteRequest, error) {
	if buyer.ID == "" {
		return nil, models.NewValidationError("missing buyer identity")
	}
	return s.Repo.GetUserQuotes(ctx, buyer.ID, limit, offset)
}

// GetQuote получает котировку вместе с ее предложениями.
func (s *QuoteService) GetQuote(ctx context.Context, quoteId string) (*models.QuoteRequest, error) {
	if quoteId == "" {
		return nil, models.NewValidationError("missing required parameter: quoteId")
	}
	return s.Repo.GetQuoteByID(ctx, quoteId)
}

// GetSupplierOrders получает котировки, в которых принято предложение поставщика.
func (s *QuoteService) GetSupplierOrders(ctx context.Context, supplier models.UserProfile, limit, offset int) ([]models.QuoteRequest, error) {
	if supplier.ID == "" {
		return nil, models.NewValidationError("missing supplier identity")
	}
	return s.Repo.GetSupplierOrders(ctx, supplier.ID, limit, offset)
}

// CreateQuote создает новую котировку. Идентификация покупателя берется из
// профиля вызывающего, а не из тела запроса.
func (s *QuoteService) CreateQuote(ctx context.Context, buyer models.UserProfile, input models.QuoteRequestInput) (*models.QuoteRequest, error) {
	if buyer.ID == "" {
		return nil, models.NewValidationError("missing buyer identity")
	}
	if input.Product.Name == "" || input.Product.Category == "" || input.Product.Unit == "" {
		return nil, models.NewValidationError("missing required product fields")
	}
	if input.Quantity <= 0 {
		return nil, models.NewValidationError("quantity must be a positive number")
	}
	if input.DeliveryType != models.Delivery && input.DeliveryType != models.Pickup {
		return nil, models.NewValidationError("invalid delivery type. Must be 'delivery' or 'pickup'")
	}
	if input.Radius < 0 {
		return nil, models.NewValidationError("radius must be a non-negative number")
	}
	if input.DeliveryType == models.Delivery && strings.TrimSpace(input.Address) == "" {
		return nil, models.NewValidationError("address is required for delivery")
	}
	if input.DeliveryType == models.Pickup {
		// При самовывозе адрес не хранится.
		input.Address = ""
	}
	return s.Repo.CreateQuote(ctx, buyer, input)
}

// SubmitProposal подает предложение поставщика по открытой котировке.
func (s *QuoteService) SubmitProposal(ctx context.Context, supplier models.UserProfile, quoteId string, input models.ProposalInput) (*models.Proposal, error) {
	if supplier.ID == "" {
		return nil, models.NewValidationError("missing supplier identity")
	}
	if quoteId == "" {
		return nil, models.NewValidationError("missing required parameter: quoteId")
	}
	if input.Price < 0 {
		return nil, models.NewValidationError("price must be a non-negative number")
	}
	if strings.TrimSpace(input.DeliveryDate) == "" {
		return nil, models.NewValidationError("delivery date is required")
	}

	quote, err := s.Repo.GetQuoteByID(ctx, quoteId)
	if err != nil {
		return nil, err
	}
	if quote.Status != models.OpenQuote {
		return nil, models.NewInvalidStateError("quote is not open for proposals")
	}
	return s.Repo.CreateProposal(ctx, supplier, quoteId, input)
}

// AcceptProposal принимает предложение от имени владельца котировки.
// Чужая котировка не раскрывается и для постороннего покупателя не существует.
func (s *QuoteService) AcceptProposal(ctx context.Context, buyer models.UserProfile, quoteId, proposalId string) (*models.QuoteRequest, error) {
	if buyer.ID == "" {
		return nil, models.NewValidationError("missing buyer identity")
	}
	if quoteId == "" || proposalId == "" {
		return nil, models.NewValidationError("missing required parameters: quoteId or proposalId")
	}

	quote, err := s.Repo.GetQuoteByID(ctx, quoteId)
	if err != nil {
		return nil, err
	}
	if quote.BuyerID != buyer.ID {
		return nil, models.NewNotFoundError("quote not found")
	}

	var target *models.Proposal
	for i := range quote.Proposals {
		if quote.Proposals[i].ID == proposalId {
			target = &quote.Proposals[i]
			break
		}
	}
	if target == nil {
		return nil, models.NewNotFoundError("proposal not found")
	}

	if quote.Status != models.OpenQuote {
		return nil, models.NewInvalidStateError("quote is no longer open")
	}
	if target.Status != models.PendingProposal {
		return nil, models.NewInvalidStateError("proposal has already been decided")
	}
	return s.Repo.AcceptProposal(ctx, quoteId, proposalId)
}

// FinalizeOrder завершает заказ по закрытой котировке. Переход конечный.
func (s *QuoteService) FinalizeOrder(ctx context.Context, buyer models.UserProfile, quoteId string) (*models.QuoteRequest, error) {
	if buyer.ID == "" {
		return nil, models.NewValidationError("missing buyer identity")
	}
	if quoteId == "" {
		return nil, models.NewValidationError("missing required parameter: quoteId")
	}

	quote, err := s.Repo.GetQuoteByID(ctx, quoteId)
	if err != nil {
		return nil, err
	}
	if quote.BuyerID != buyer.ID {
		return nil, models.NewNotFoundError("quote not found")
	}

	validTransitions := quoteStatusTransitions[quote.Status]
	if !utils.ContainsQuoteStatus(validTransitions, models.CompletedQuote) {
		return nil, models.NewInvalidStateError("only a closed quote can be completed")
	}
	return s.Repo.UpdateQuoteStatus(ctx, quoteId, models.ClosedQuote, models.CompletedQuote)
}
