package models

import "time"

type ProposalStatus string // Статус предложения поставщика

const (
	PendingProposal  ProposalStatus = "pending"  // Предложение ожидает решения покупателя
	AcceptedProposal ProposalStatus = "accepted" // Предложение принято
	RejectedProposal ProposalStatus = "rejected" // Предложение отклонено
)

// Proposal представляет предложение поставщика по котировке.
// Предложение существует только внутри своей котировки и удаляется вместе с ней.
type Proposal struct {
	ID           string         `json:"id"`
	QuoteID      string         `json:"quoteId"`
	SupplierID   string         `json:"supplierId"`
	SupplierName string         `json:"supplierName"`
	Price        float64        `json:"price"`
	DeliveryDate string         `json:"deliveryDate"`
	Notes        string         `json:"notes,omitempty"`
	Attachment   string         `json:"attachment,omitempty"`
	Status       ProposalStatus `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// ProposalInput представляет структуру запроса для создания предложения.
type ProposalInput struct {
	Price        float64 `json:"price"`
	DeliveryDate string  `json:"deliveryDate"`
	Notes        string  `json:"notes"`
	Attachment   string  `json:"attachment"`
}
