package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/agrolink/quote-service/internal/models"

	"github.com/google/uuid"
)

// MemoryStore - реализация всех репозиториев поверх коллекций в памяти.
// Используется для локальной разработки и тестов; состояние живет до перезапуска
// процесса. Все операции выполняются под одним мьютексом, поэтому составные
// переходы (принятие предложения, смена основного адреса) снаружи видны как
// один шаг. Наружу отдаются только копии, изменить состояние хранилища в обход
// его методов нельзя.
type MemoryStore struct {
	mu         sync.Mutex
	quotes     []models.QuoteRequest
	addresses  []models.Address
	promotions []models.Promotion
	products   []models.Product
	profiles   map[string]models.UserProfile
}

// NewMemoryStore создает пустое хранилище с предзаполненным каталогом товаров.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quotes:     []models.QuoteRequest{},
		addresses:  []models.Address{},
		promotions: []models.Promotion{},
		products: []models.Product{
			{ID: "1", Name: "Semente de Soja Intacta", Category: "Sementes", Unit: "kg"},
			{ID: "2", Name: "Adubo NPK 04-14-08", Category: "Fertilizantes", Unit: "ton"},
			{ID: "3", Name: "Glifosato 480", Category: "Defensivos", Unit: "L"},
			{ID: "4", Name: "Milho Híbrido", Category: "Sementes", Unit: "sc"},
		},
		profiles: map[string]models.UserProfile{},
	}
}

// SeedProfiles добавляет профили пользователей в хранилище.
func (s *MemoryStore) SeedProfiles(profiles ...models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, profile := range profiles {
		s.profiles[profile.ID] = profile
	}
}

// SeedQuotes добавляет готовые котировки в хранилище, новые первыми.
func (s *MemoryStore) SeedQuotes(quotes ...models.QuoteRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, quote := range quotes {
		s.quotes = append([]models.QuoteRequest{cloneQuote(quote)}, s.quotes...)
	}
}

// SeedAddresses добавляет готовые адреса в хранилище.
func (s *MemoryStore) SeedAddresses(addresses ...models.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses = append(s.addresses, addresses...)
}

// SeedPromotions добавляет готовые промоакции в хранилище, новые первыми.
func (s *MemoryStore) SeedPromotions(promotions ...models.Promotion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, promotion := range promotions {
		s.promotions = append([]models.Promotion{promotion}, s.promotions...)
	}
}

// GetQuotes возвращает список котировок, новые первыми.
func (s *MemoryStore) GetQuotes(ctx context.Context, limit, offset int, categories []string) ([]models.QuoteRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var quotes []models.QuoteRequest
	for _, quote := range s.quotes {
		if len(categories) > 0 && !containsString(categories, quote.Product.Category) {
			continue
		}
		quotes = append(quotes, cloneQuote(quote))
	}
	return paginateQuotes(quotes, limit, offset), nil
}

// GetUserQuotes возвращает список котировок покупателя, новые первыми.
func (s *MemoryStore) GetUserQuotes(ctx context.Context, buyerId string, limit, offset int) ([]models.QuoteRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var quotes []models.QuoteRequest
	for _, quote := range s.quotes {
		if quote.BuyerID == buyerId {
			quotes = append(quotes, cloneQuote(quote))
		}
	}
	return paginateQuotes(quotes, limit, offset), nil
}

// GetQuoteByID возвращает котировку вместе с ее предложениями.
func (s *MemoryStore) GetQuoteByID(ctx context.Context, quoteId string) (*models.QuoteRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.findQuote(quoteId)
	if index < 0 {
		return nil, models.NewNotFoundError("quote not found")
	}
	quote := cloneQuote(s.quotes[index])
	return &quote, nil
}

// CreateQuote создает новую котировку со статусом open и ставит ее в начало списка.
func (s *MemoryStore) CreateQuote(ctx context.Context, buyer models.UserProfile, input models.QuoteRequestInput) (*models.QuoteRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	newQuote := models.QuoteRequest{
		ID:           uuid.New().String(),
		BuyerID:      buyer.ID,
		BuyerName:    buyer.DisplayName(),
		Product:      input.Product,
		Quantity:     input.Quantity,
		DeliveryType: input.DeliveryType,
		Radius:       input.Radius,
		Address:      input.Address,
		Status:       models.OpenQuote,
		CreatedAt:    time.Now().UTC(),
		Proposals:    []models.Proposal{},
	}
	s.quotes = append([]models.QuoteRequest{cloneQuote(newQuote)}, s.quotes...)
	return &newQuote, nil
}

// CreateProposal добавляет предложение в конец списка предложений котировки.
// Статус котировки перепроверяется под мьютексом: между проверкой снаружи и
// вставкой котировка могла закрыться.
func (s *MemoryStore) CreateProposal(ctx context.Context, supplier models.UserProfile, quoteId string, input models.ProposalInput) (*models.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.findQuote(quoteId)
	if index < 0 {
		return nil, models.NewNotFoundError("quote not found")
	}
	if s.quotes[index].Status != models.OpenQuote {
		return nil, models.NewInvalidStateError("quote is not open for proposals")
	}

	newProposal := models.Proposal{
		ID:           uuid.New().String(),
		QuoteID:      quoteId,
		SupplierID:   supplier.ID,
		SupplierName: supplier.DisplayName(),
		Price:        input.Price,
		DeliveryDate: input.DeliveryDate,
		Notes:        input.Notes,
		Attachment:   input.Attachment,
		Status:       models.PendingProposal,
		CreatedAt:    time.Now().UTC(),
	}
	s.quotes[index].Proposals = append(s.quotes[index].Proposals, newProposal)
	return &newProposal, nil
}

// AcceptProposal принимает предложение: закрывает котировку, помечает выбранное
// предложение принятым, а остальные ожидающие - отклоненными. Предусловия
// перепроверяются по текущему состоянию под мьютексом, изменение применяется
// целиком за одно взятие блокировки.
func (s *MemoryStore) AcceptProposal(ctx context.Context, quoteId, proposalId string) (*models.QuoteRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.findQuote(quoteId)
	if index < 0 {
		return nil, models.NewNotFoundError("quote not found")
	}
	quote := &s.quotes[index]

	proposalIndex := -1
	for i, proposal := range quote.Proposals {
		if proposal.ID == proposalId {
			proposalIndex = i
			break
		}
	}
	if proposalIndex < 0 {
		return nil, models.NewNotFoundError("proposal not found")
	}

	if quote.Status != models.OpenQuote {
		return nil, models.NewInvalidStateError("quote is no longer open")
	}
	if quote.Proposals[proposalIndex].Status != models.PendingProposal {
		return nil, models.NewInvalidStateError("proposal has already been decided")
	}

	quote.Status = models.ClosedQuote
	quote.Proposals[proposalIndex].Status = models.AcceptedProposal
	for i := range quote.Proposals {
		if i != proposalIndex && quote.Proposals[i].Status == models.PendingProposal {
			quote.Proposals[i].Status = models.RejectedProposal
		}
	}

	updatedQuote := cloneQuote(*quote)
	return &updatedQuote, nil
}

// UpdateQuoteStatus переводит котировку из статуса from в статус to.
// Переход выполняется только если котировка все еще в ожидаемом статусе.
func (s *MemoryStore) UpdateQuoteStatus(ctx context.Context, quoteId string, from, to models.QuoteStatus) (*models.QuoteRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.findQuote(quoteId)
	if index < 0 {
		return nil, models.NewNotFoundError("quote not found")
	}
	if s.quotes[index].Status != from {
		return nil, models.NewInvalidStateError(fmt.Sprintf("quote is not in %s status", from))
	}
	s.quotes[index].Status = to

	updatedQuote := cloneQuote(s.quotes[index])
	return &updatedQuote, nil
}

// GetSupplierOrders возвращает котировки, в которых принято предложение поставщика.
func (s *MemoryStore) GetSupplierOrders(ctx context.Context, supplierId string, limit, offset int) ([]models.QuoteRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var quotes []models.QuoteRequest
	for _, quote := range s.quotes {
		for _, proposal := range quote.Proposals {
			if proposal.SupplierID == supplierId && proposal.Status == models.AcceptedProposal {
				quotes = append(quotes, cloneQuote(quote))
				break
			}
		}
	}
	return paginateQuotes(quotes, limit, offset), nil
}

// GetUserAddresses возвращает адреса пользователя, адрес по умолчанию первым.
func (s *MemoryStore) GetUserAddresses(ctx context.Context, userId string) ([]models.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var addresses []models.Address
	for _, address := range s.addresses {
		if address.UserID == userId {
			addresses = append(addresses, address)
		}
	}
	sort.SliceStable(addresses, func(i, j int) bool {
		return addresses[i].IsDefault && !addresses[j].IsDefault
	})
	return addresses, nil
}

// CreateAddress добавляет новый адрес. Если адрес помечен основным, признак
// по умолчанию сначала снимается с остальных адресов пользователя.
func (s *MemoryStore) CreateAddress(ctx context.Context, userId string, input models.AddressInput) (*models.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.IsDefault {
		for i := range s.addresses {
			if s.addresses[i].UserID == userId {
				s.addresses[i].IsDefault = false
			}
		}
	}

	newAddress := models.Address{
		ID:         uuid.New().String(),
		UserID:     userId,
		Label:      input.Label,
		Street:     input.Street,
		District:   input.District,
		City:       input.City,
		State:      input.State,
		PostalCode: input.PostalCode,
		IsDefault:  input.IsDefault,
	}
	s.addresses = append(s.addresses, newAddress)
	return &newAddress, nil
}

// DeleteAddress удаляет адрес пользователя. Другой адрес основным не назначается.
func (s *MemoryStore) DeleteAddress(ctx context.Context, userId, addressId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, address := range s.addresses {
		if address.ID == addressId && address.UserID == userId {
			s.addresses = append(s.addresses[:i], s.addresses[i+1:]...)
			return nil
		}
	}
	return models.NewNotFoundError("address not found")
}

// SetDefaultAddress делает адрес основным: признак снимается со всех адресов
// пользователя и выставляется ровно на одном, за одно взятие блокировки.
func (s *MemoryStore) SetDefaultAddress(ctx context.Context, userId, addressId string) (*models.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	targetIndex := -1
	for i, address := range s.addresses {
		if address.ID == addressId && address.UserID == userId {
			targetIndex = i
			break
		}
	}
	if targetIndex < 0 {
		return nil, models.NewNotFoundError("address not found")
	}

	for i := range s.addresses {
		if s.addresses[i].UserID == userId {
			s.addresses[i].IsDefault = false
		}
	}
	s.addresses[targetIndex].IsDefault = true

	updatedAddress := s.addresses[targetIndex]
	return &updatedAddress, nil
}

// GetPromotions возвращает список промоакций, новые первыми.
func (s *MemoryStore) GetPromotions(ctx context.Context, limit, offset int) ([]models.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	promotions := make([]models.Promotion, len(s.promotions))
	copy(promotions, s.promotions)
	if offset >= len(promotions) {
		return []models.Promotion{}, nil
	}
	promotions = promotions[offset:]
	if limit > 0 && limit < len(promotions) {
		promotions = promotions[:limit]
	}
	return promotions, nil
}

// GetSupplierPromotions возвращает промоакции поставщика, новые первыми.
func (s *MemoryStore) GetSupplierPromotions(ctx context.Context, supplierId string) ([]models.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var promotions []models.Promotion
	for _, promotion := range s.promotions {
		if promotion.SupplierID == supplierId {
			promotions = append(promotions, promotion)
		}
	}
	return promotions, nil
}

// CreatePromotion создает новую промоакцию и ставит ее в начало списка.
func (s *MemoryStore) CreatePromotion(ctx context.Context, supplier models.UserProfile, input models.PromotionInput) (*models.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	newPromotion := models.Promotion{
		ID:            uuid.New().String(),
		SupplierID:    supplier.ID,
		SupplierName:  supplier.DisplayName(),
		Title:         input.Title,
		Description:   input.Description,
		Image:         input.Image,
		OriginalPrice: input.OriginalPrice,
		PromoPrice:    input.PromoPrice,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		IsActive:      input.IsActive,
		CreatedAt:     time.Now().UTC(),
	}
	s.promotions = append([]models.Promotion{newPromotion}, s.promotions...)
	return &newPromotion, nil
}

// TogglePromotionStatus переключает признак активности промоакции.
func (s *MemoryStore) TogglePromotionStatus(ctx context.Context, promotionId string) (*models.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.promotions {
		if s.promotions[i].ID == promotionId {
			s.promotions[i].IsActive = !s.promotions[i].IsActive
			updatedPromotion := s.promotions[i]
			return &updatedPromotion, nil
		}
	}
	return nil, models.NewNotFoundError("promotion not found")
}

// DeletePromotion безвозвратно удаляет промоакцию поставщика.
func (s *MemoryStore) DeletePromotion(ctx context.Context, supplierId, promotionId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, promotion := range s.promotions {
		if promotion.ID == promotionId && promotion.SupplierID == supplierId {
			s.promotions = append(s.promotions[:i], s.promotions[i+1:]...)
			return nil
		}
	}
	return models.NewNotFoundError("promotion not found")
}

// GetProfileByID возвращает профиль пользователя по его идентификатору.
func (s *MemoryStore) GetProfileByID(ctx context.Context, userId string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userId]
	if !ok {
		return nil, models.NewNotFoundError("user does not exist")
	}
	return &profile, nil
}

// GetProducts возвращает каталог товаров.
func (s *MemoryStore) GetProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]models.Product, len(s.products))
	copy(products, s.products)
	return products, nil
}

// findQuote возвращает индекс котировки или -1. Вызывается под мьютексом.
func (s *MemoryStore) findQuote(quoteId string) int {
	for i, quote := range s.quotes {
		if quote.ID == quoteId {
			return i
		}
	}
	return -1
}

// cloneQuote возвращает копию котировки с собственным списком предложений.
func cloneQuote(quote models.QuoteRequest) models.QuoteRequest {
	proposals := make([]models.Proposal, len(quote.Proposals))
	copy(proposals, quote.Proposals)
	quote.Proposals = proposals
	return quote
}

// paginateQuotes применяет limit и offset к списку котировок.
func paginateQuotes(quotes []models.QuoteRequest, limit, offset int) []models.QuoteRequest {
	if offset >= len(quotes) {
		return []models.QuoteRequest{}
	}
	quotes = quotes[offset:]
	if limit > 0 && limit < len(quotes) {
		quotes = quotes[:limit]
	}
	return quotes
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
