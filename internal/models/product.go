package models

// Product представляет позицию каталога товаров.
// Справочные данные: создаются администратором каталога и не меняются сервисом.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
}
