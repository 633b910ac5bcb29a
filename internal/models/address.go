package models

// Address представляет сохраненный адрес пользователя.
// Среди адресов одного пользователя не более одного с IsDefault = true.
type Address struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Label      string `json:"label,omitempty"`
	Street     string `json:"street"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	IsDefault  bool   `json:"isDefault"`
}

// AddressInput представляет структуру запроса для создания адреса.
type AddressInput struct {
	Label      string `json:"label"`
	Street     string `json:"street"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	IsDefault  bool   `json:"isDefault"`
}
