package models

import "time"

type (
	QuoteStatus  string // Статус котировки
	DeliveryType string // Способ получения товара
)

const (
	OpenQuote      QuoteStatus = "open"      // Котировка открыта для предложений
	ClosedQuote    QuoteStatus = "closed"    // Предложение принято, котировка закрыта
	CompletedQuote QuoteStatus = "completed" // Заказ завершен

	Delivery DeliveryType = "delivery" // Доставка по адресу покупателя
	Pickup   DeliveryType = "pickup"   // Самовывоз со склада поставщика
)

// QuoteRequest представляет модель котировки (запроса цен).
// Поле Product хранит снимок товара на момент создания, а не ссылку на каталог.
type QuoteRequest struct {
	ID           string       `json:"id"`
	BuyerID      string       `json:"buyerId"`
	BuyerName    string       `json:"buyerName"`
	Product      Product      `json:"product"`
	Quantity     float64      `json:"quantity"`
	DeliveryType DeliveryType `json:"deliveryType"`
	Radius       float64      `json:"radius"`
	Address      string       `json:"address,omitempty"`
	Status       QuoteStatus  `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
	Proposals    []Proposal   `json:"proposals"`
}

// QuoteRequestInput представляет структуру запроса для создания котировки.
type QuoteRequestInput struct {
	Product      Product      `json:"product"`
	Quantity     float64      `json:"quantity"`
	DeliveryType DeliveryType `json:"deliveryType"`
	Radius       float64      `json:"radius"`
	Address      string       `json:"address"`
}
