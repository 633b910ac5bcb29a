package models

import "time"

// Promotion представляет промоакцию поставщика.
// IsActive управляется поставщиком вручную и не зависит от дат акции.
type Promotion struct {
	ID            string    `json:"id"`
	SupplierID    string    `json:"supplierId"`
	SupplierName  string    `json:"supplierName"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Image         string    `json:"image,omitempty"`
	OriginalPrice float64   `json:"originalPrice"`
	PromoPrice    float64   `json:"promoPrice"`
	StartDate     string    `json:"startDate"`
	EndDate       string    `json:"endDate"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PromotionInput представляет структуру запроса для создания промоакции.
type PromotionInput struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Image         string  `json:"image"`
	OriginalPrice float64 `json:"originalPrice"`
	PromoPrice    float64 `json:"promoPrice"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
	IsActive      bool    `json:"isActive"`
}
