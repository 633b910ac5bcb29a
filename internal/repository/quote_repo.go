package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agrolink/quote-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// pgxQuerier - общие методы чтения у пула соединений и транзакции.
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Заглушки для денормализованных имен, когда снимок имени недоступен.
const (
	defaultBuyerName    = "Rural Producer"
	defaultSupplierName = "Partner Supplier"
)

// QuoteRepository - интерфейс для работы с котировками и предложениями.
type QuoteRepository interface {
	GetQuotes(ctx context.Context, limit, offset int, categories []string) ([]models.QuoteRequest, error)
	GetUserQuotes(ctx context.Context, buyerId string, limit, offset int) ([]models.QuoteRequest, error)
	GetQuoteByID(ctx context.Context, quoteId string) (*models.QuoteRequest, error)
	CreateQuote(ctx context.Context, buyer models.UserProfile, input models.QuoteRequestInput) (*models.QuoteRequest, error)
	CreateProposal(ctx context.Context, supplier models.UserProfile, quoteId string, input models.ProposalInput) (*models.Proposal, error)
	AcceptProposal(ctx context.Context, quoteId, proposalId string) (*models.QuoteRequest, error)
	UpdateQuoteStatus(ctx context.Context, quoteId string, from, to models.QuoteStatus) (*models.QuoteRequest, error)
	GetSupplierOrders(ctx context.Context, supplierId string, limit, offset int) ([]models.QuoteRequest, error)
}

// PostgresQuoteRepository - реализация QuoteRepository для базы данных.
type PostgresQuoteRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresQuoteRepository создает новый экземпляр PostgresQuoteRepository.
func NewPostgresQuoteRepository(db *pgxpool.Pool) *PostgresQuoteRepository {
	return &PostgresQuoteRepository{DB: db}
}

const quoteColumns = `id, buyer_id, buyer_name, product_id, product_name, category, unit, quantity, delivery_type, radius, address, status, created_at`

// GetQuotes возвращает список котировок, новые первыми.
func (r *PostgresQuoteRepository) GetQuotes(ctx context.Context, limit, offset int, categories []string) ([]models.QuoteRequest, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes`
	var filters []string
	var args []interface{}
	argIndex := 1

	if len(categories) > 0 {
		filters = append(filters, fmt.Sprintf("category = ANY($%d)", argIndex))
		args = append(args, pq.Array(categories))
		argIndex++
	}

	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	return r.queryQuotes(ctx, query, args...)
}

// GetUserQuotes возвращает список котировок покупателя, новые первыми.
func (r *PostgresQuoteRepository) GetUserQuotes(ctx context.Context, buyerId string, limit, offset int) ([]models.QuoteRequest, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE buyer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryQuotes(ctx, query, buyerId, limit, offset)
}

// GetQuoteByID возвращает котировку вместе с ее предложениями.
func (r *PostgresQuoteRepository) GetQuoteByID(ctx context.Context, quoteId string) (*models.QuoteRequest, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1`
	row := r.DB.QueryRow(ctx, query, quoteId)

	quote, err := scanQuote(row)
	if err != nil {
		return nil, translateDBError(err, "quote not found")
	}

	proposals, err := r.loadProposals(ctx, r.DB, quote.ID)
	if err != nil {
		return nil, err
	}
	quote.Proposals = proposals
	return quote, nil
}

// CreateQuote создает новую котировку со статусом open и пустым списком предложений.
func (r *PostgresQuoteRepository) CreateQuote(ctx context.Context, buyer models.UserProfile, input models.QuoteRequestInput) (*models.QuoteRequest, error) {
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
	insertQuery := `INSERT INTO quotes (id, buyer_id, buyer_name, product_id, product_name, category, unit, quantity, delivery_type, radius, address, status, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		newQuote.ID,
		newQuote.BuyerID,
		newQuote.BuyerName,
		newQuote.Product.ID,
		newQuote.Product.Name,
		newQuote.Product.Category,
		newQuote.Product.Unit,
		newQuote.Quantity,
		newQuote.DeliveryType,
		newQuote.Radius,
		newQuote.Address,
		newQuote.Status,
		newQuote.CreatedAt)
	if err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to insert quote: %v", err))
	}
	return &newQuote, nil
}

// CreateProposal создает новое предложение по котировке со статусом pending.
// Вставка выполняется только если котировка все еще открыта: статус
// перепроверяется в том же операторе, что и запись.
func (r *PostgresQuoteRepository) CreateProposal(ctx context.Context, supplier models.UserProfile, quoteId string, input models.ProposalInput) (*models.Proposal, error) {
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
	insertQuery := `INSERT INTO proposals (id, quote_id, supplier_id, supplier_name, price, delivery_date, notes, attachment_url, status, created_at)
                   SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
                   WHERE EXISTS (SELECT 1 FROM quotes WHERE id = $2 AND status = $11)`
	tag, err := r.DB.Exec(
		ctx,
		insertQuery,
		newProposal.ID,
		newProposal.QuoteID,
		newProposal.SupplierID,
		newProposal.SupplierName,
		newProposal.Price,
		newProposal.DeliveryDate,
		newProposal.Notes,
		newProposal.Attachment,
		newProposal.Status,
		newProposal.CreatedAt,
		models.OpenQuote)
	if err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to insert proposal: %v", err))
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		err = r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM quotes WHERE id = $1)`, quoteId).Scan(&exists)
		if err != nil {
			return nil, models.NewBackendError(fmt.Sprintf("failed to check quote existence: %v", err))
		}
		if !exists {
			return nil, models.NewNotFoundError("quote not found")
		}
		return nil, models.NewInvalidStateError("quote is not open for proposals")
	}
	return &newProposal, nil
}

// AcceptProposal принимает предложение: закрывает котировку, помечает выбранное
// предложение принятым, а остальные ожидающие - отклоненными. Все изменения
// выполняются в одной транзакции, промежуточное состояние снаружи не видно.
func (r *PostgresQuoteRepository) AcceptProposal(ctx context.Context, quoteId, proposalId string) (*models.QuoteRequest, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to begin transaction: %v", err))
	}
	defer tx.Rollback(ctx)

	// Повторная проверка предусловий по свежему снимку перед фиксацией.
	var quoteStatus models.QuoteStatus
	err = tx.QueryRow(ctx, `SELECT status FROM quotes WHERE id = $1 FOR UPDATE`, quoteId).Scan(&quoteStatus)
	if err != nil {
		return nil, translateDBError(err, "quote not found")
	}
	if quoteStatus != models.OpenQuote {
		return nil, models.NewInvalidStateError("quote is no longer open")
	}

	var proposalStatus models.ProposalStatus
	err = tx.QueryRow(ctx, `SELECT status FROM proposals WHERE id = $1 AND quote_id = $2 FOR UPDATE`, proposalId, quoteId).Scan(&proposalStatus)
	if err != nil {
		return nil, translateDBError(err, "proposal not found")
	}
	if proposalStatus != models.PendingProposal {
		return nil, models.NewInvalidStateError("proposal has already been decided")
	}

	if _, err = tx.Exec(ctx, `UPDATE quotes SET status = $1 WHERE id = $2`, models.ClosedQuote, quoteId); err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to close quote: %v", err))
	}
	if _, err = tx.Exec(ctx, `UPDATE proposals SET status = $1 WHERE id = $2`, models.AcceptedProposal, proposalId); err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to accept proposal: %v", err))
	}
	if _, err = tx.Exec(
		ctx,
		`UPDATE proposals SET status = $1 WHERE quote_id = $2 AND id <> $3 AND status = $4`,
		models.RejectedProposal, quoteId, proposalId, models.PendingProposal); err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to reject competing proposals: %v", err))
	}

	// Результат собирается внутри транзакции: после успешной фиксации ответ
	// уже не зависит от дополнительного чтения.
	quote, err := scanQuote(tx.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, quoteId))
	if err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to read updated quote: %v", err))
	}
	proposals, err := r.loadProposals(ctx, tx, quoteId)
	if err != nil {
		return nil, err
	}
	quote.Proposals = proposals

	if err = tx.Commit(ctx); err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to commit transaction: %v", err))
	}
	return quote, nil
}

// UpdateQuoteStatus переводит котировку из статуса from в статус to.
// Переход выполняется только если котировка все еще в ожидаемом статусе.
func (r *PostgresQuoteRepository) UpdateQuoteStatus(ctx context.Context, quoteId string, from, to models.QuoteStatus) (*models.QuoteRequest, error) {
	tag, err := r.DB.Exec(ctx, `UPDATE quotes SET status = $1 WHERE id = $2 AND status = $3`, to, quoteId, from)
	if err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to update quote status: %v", err))
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		err = r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM quotes WHERE id = $1)`, quoteId).Scan(&exists)
		if err != nil {
			return nil, models.NewBackendError(fmt.Sprintf("failed to check quote existence: %v", err))
		}
		if !exists {
			return nil, models.NewNotFoundError("quote not found")
		}
		return nil, models.NewInvalidStateError(fmt.Sprintf("quote is not in %s status", from))
	}
	return r.GetQuoteByID(ctx, quoteId)
}

// GetSupplierOrders возвращает котировки, в которых принято предложение поставщика.
func (r *PostgresQuoteRepository) GetSupplierOrders(ctx context.Context, supplierId string, limit, offset int) ([]models.QuoteRequest, error) {
	query := `
		SELECT q.id, q.buyer_id, q.buyer_name, q.product_id, q.product_name, q.category, q.unit, q.quantity, q.delivery_type, q.radius, q.address, q.status, q.created_at
		FROM quotes q
		JOIN proposals p ON p.quote_id = q.id
		WHERE p.supplier_id = $1 AND p.status = $2
		ORDER BY q.created_at DESC
		LIMIT $3 OFFSET $4`
	return r.queryQuotes(ctx, query, supplierId, models.AcceptedProposal, limit, offset)
}

// queryQuotes выполняет запрос списка котировок и подгружает их предложения.
func (r *PostgresQuoteRepository) queryQuotes(ctx context.Context, query string, args ...interface{}) ([]models.QuoteRequest, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to query quotes: %v", err))
	}
	defer rows.Close()

	var quotes []models.QuoteRequest
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, models.NewBackendError(fmt.Sprintf("failed to scan quote: %v", err))
		}
		quotes = append(quotes, *quote)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewBackendError(err.Error())
	}

	for i := range quotes {
		proposals, err := r.loadProposals(ctx, r.DB, quotes[i].ID)
		if err != nil {
			return nil, err
		}
		quotes[i].Proposals = proposals
	}
	return quotes, nil
}

// loadProposals возвращает предложения котировки в порядке подачи.
// Идентификатор в сортировке разводит предложения с одинаковой отметкой времени.
func (r *PostgresQuoteRepository) loadProposals(ctx context.Context, db pgxQuerier, quoteId string) ([]models.Proposal, error) {
	query := `SELECT id, quote_id, supplier_id, supplier_name, price, delivery_date, notes, attachment_url, status, created_at
	          FROM proposals WHERE quote_id = $1 ORDER BY created_at, id`
	rows, err := db.Query(ctx, query, quoteId)
	if err != nil {
		return nil, models.NewBackendError(fmt.Sprintf("failed to query proposals: %v", err))
	}
	defer rows.Close()

	proposals := []models.Proposal{}
	for rows.Next() {
		var proposal models.Proposal
		if err := rows.Scan(
			&proposal.ID,
			&proposal.QuoteID,
			&proposal.SupplierID,
			&proposal.SupplierName,
			&proposal.Price,
			&proposal.DeliveryDate,
			&proposal.Notes,
			&proposal.Attachment,
			&proposal.Status,
			&proposal.CreatedAt); err != nil {
			return nil, models.NewBackendError(fmt.Sprintf("failed to scan proposal: %v", err))
		}
		if proposal.SupplierName == "" {
			proposal.SupplierName = defaultSupplierName
		}
		proposals = append(proposals, proposal)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewBackendError(err.Error())
	}
	return proposals, nil
}

// scanQuote читает строку котировки; пустой снимок имени заменяется заглушкой.
func scanQuote(row interface{ Scan(dest ...interface{}) error }) (*models.QuoteRequest, error) {
	var quote models.QuoteRequest
	err := row.Scan(
		&quote.ID,
		&quote.BuyerID,
		&quote.BuyerName,
		&quote.Product.ID,
		&quote.Product.Name,
		&quote.Product.Category,
		&quote.Product.Unit,
		&quote.Quantity,
		&quote.DeliveryType,
		&quote.Radius,
		&quote.Address,
		&quote.Status,
		&quote.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if quote.BuyerName == "" {
		quote.BuyerName = defaultBuyerName
	}
	return &quote, nil
}
