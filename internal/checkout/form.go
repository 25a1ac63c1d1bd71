package checkout

import (
	"regexp"
	"strings"
	"sync"

	"sdoba/internal/domain"
)

// имена полей формы; под этими же ключами отдаются ошибки валидации
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldAddress = "address"
	FieldComment = "comment"
)

var (
	emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	// единственный принимаемый формат телефона, без вариаций
	phoneRe = regexp.MustCompile(`^\+7 \(\d{3}\) \d{3}-\d{2}-\d{2}$`)
)

// Form состояние формы оформления: контактные поля, свободный текст
// адреса и карта ошибок по полям. Правка поля снимает только его
// собственную ошибку; полная перепроверка происходит на сабмите.
type Form struct {
	mu     sync.Mutex
	values map[string]string
	errors map[string]string
}

func NewForm() *Form {
	return &Form{
		values: make(map[string]string),
		errors: make(map[string]string),
	}
}

// Prefill заполняет контактные поля из профиля авторизованного пользователя
func (f *Form) Prefill(u *domain.User) {
	if u == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[FieldName] = u.Name
	f.values[FieldEmail] = u.Email
	f.values[FieldPhone] = u.Phone
}

// SetField записывает значение и гасит ошибку этого поля (и только его)
func (f *Form) SetField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name] = value
	delete(f.errors, name)
}

// Field текущее значение поля
func (f *Form) Field(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

// Contact собирает контактные данные для заказа
func (f *Form) Contact() domain.ContactInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.ContactInfo{
		Name:  f.values[FieldName],
		Email: f.values[FieldEmail],
		Phone: f.values[FieldPhone],
	}
}

// Validate пересчитывает карту ошибок целиком и отвечает, пуста ли она.
// Свободного текста адреса недостаточно: без выбранной подсказки заказ
// не уходит — это осознанный барьер против негеокодированных доставок.
func (f *Form) Validate(selected *domain.AddressSuggestion) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	errs := make(map[string]string)

	if strings.TrimSpace(f.values[FieldName]) == "" {
		errs[FieldName] = "Введите имя (обязательно)"
	}
	email := strings.TrimSpace(f.values[FieldEmail])
	if email == "" {
		errs[FieldEmail] = "Введите email (обязательно)"
	} else if !emailRe.MatchString(email) {
		errs[FieldEmail] = "Введите корректный email"
	}
	phone := strings.TrimSpace(f.values[FieldPhone])
	if phone == "" {
		errs[FieldPhone] = "Введите телефон (обязательно)"
	} else if !phoneRe.MatchString(phone) {
		errs[FieldPhone] = "Введите корректный номер телефона"
	}
	if strings.TrimSpace(f.values[FieldAddress]) == "" {
		errs[FieldAddress] = "Введите адрес доставки"
	} else if selected == nil {
		errs[FieldAddress] = "Выберите адрес из списка"
	}

	f.errors = errs
	return len(errs) == 0
}

// Errors копия текущей карты ошибок
func (f *Form) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}
