package checkout

import (
	"testing"

	"sdoba/internal/domain"
)

func filledForm() *Form {
	f := NewForm()
	f.SetField(FieldName, "Мария")
	f.SetField(FieldEmail, "maria@example.com")
	f.SetField(FieldPhone, "+7 (999) 123-45-67")
	f.SetField(FieldAddress, "ул. Ленина, 1")
	return f
}

func selected() *domain.AddressSuggestion {
	return &domain.AddressSuggestion{
		Label:       "ул. Ленина, 1",
		Coordinates: domain.Coordinates{Lat: 55.75, Lon: 37.61},
	}
}

func TestValidate_AllGood(t *testing.T) {
	f := filledForm()
	if !f.Validate(selected()) {
		t.Fatalf("expected valid form, errors: %v", f.Errors())
	}
}

func TestValidate_PhoneMask(t *testing.T) {
	cases := []struct {
		phone string
		ok    bool
	}{
		{"+7 (999) 123-45-67", true},
		{"89991234567", false},
		{"+7 999 123-45-67", false},
		{"+7 (999) 123-4567", false},
		{"+8 (999) 123-45-67", false},
		{"", false},
	}
	for _, tc := range cases {
		f := filledForm()
		f.SetField(FieldPhone, tc.phone)
		ok := f.Validate(selected())
		if ok != tc.ok {
			t.Fatalf("phone %q: expected ok=%v, errors: %v", tc.phone, tc.ok, f.Errors())
		}
		if !tc.ok {
			if _, has := f.Errors()[FieldPhone]; !has {
				t.Fatalf("phone %q: expected error on phone field", tc.phone)
			}
		}
	}
}

func TestValidate_Email(t *testing.T) {
	for _, bad := range []string{"", "plain", "a@b", "a b@c.d"} {
		f := filledForm()
		f.SetField(FieldEmail, bad)
		if f.Validate(selected()) {
			t.Fatalf("email %q must be rejected", bad)
		}
	}
}

func TestValidate_AddressNeedsSelection(t *testing.T) {
	f := filledForm()
	// текст набран, но подсказка не выбрана
	if f.Validate(nil) {
		t.Fatalf("typed address without a selected suggestion must not validate")
	}
	if got := f.Errors()[FieldAddress]; got != "Выберите адрес из списка" {
		t.Fatalf("wrong address error: %q", got)
	}

	f.SetField(FieldAddress, "")
	if f.Validate(nil) {
		t.Fatalf("empty address must not validate")
	}
	if got := f.Errors()[FieldAddress]; got != "Введите адрес доставки" {
		t.Fatalf("wrong empty-address error: %q", got)
	}
}

func TestSetField_ClearsOnlyOwnError(t *testing.T) {
	f := NewForm()
	f.Validate(nil) // всё пусто — ошибки на всех обязательных полях
	if len(f.Errors()) != 4 {
		t.Fatalf("expected 4 errors on empty form, got %v", f.Errors())
	}
	f.SetField(FieldName, "Мария")
	errs := f.Errors()
	if _, has := errs[FieldName]; has {
		t.Fatalf("editing a field must clear its error")
	}
	if len(errs) != 3 {
		t.Fatalf("other errors must stay until next validation, got %v", errs)
	}
}

func TestPrefill(t *testing.T) {
	f := NewForm()
	f.Prefill(&domain.User{Name: "Иван", Email: "ivan@example.com", Phone: "+7 (900) 000-00-00"})
	if f.Field(FieldName) != "Иван" || f.Field(FieldEmail) != "ivan@example.com" {
		t.Fatalf("profile prefill lost")
	}
	f.Prefill(nil) // гость — no-op
	if f.Field(FieldName) != "Иван" {
		t.Fatalf("nil prefill must not touch fields")
	}
}
