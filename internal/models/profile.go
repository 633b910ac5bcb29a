package models

type UserRole string // Роль пользователя на площадке

const (
	Buyer       UserRole = "buyer"       // Покупатель (сельхозпроизводитель)
	Supplier    UserRole = "supplier"    // Поставщик ресурсов
	Transporter UserRole = "transporter" // Перевозчик
)

// UserProfile представляет профиль пользователя.
// Сервис котировок только читает профиль для заполнения денормализованных полей;
// регистрация и редактирование профиля выполняются провайдером идентификации.
type UserProfile struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FullName    string   `json:"full_name"`
	Role        UserRole `json:"role"`
	CompanyName string   `json:"company_name,omitempty"`
	Document    string   `json:"document,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Address     string   `json:"address,omitempty"`
	Branch      string   `json:"branch,omitempty"`
	Categories  []string `json:"categories,omitempty"`
}

// DisplayName возвращает имя для денормализованных полей:
// для поставщика это название компании, если оно заполнено.
func (p UserProfile) DisplayName() string {
	if p.Role == Supplier && p.CompanyName != "" {
		return p.CompanyName
	}
	return p.FullName
}
