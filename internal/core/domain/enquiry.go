package domain

import (
	"strings"
	"time"
)

// Enquiry - заявка на обратную связь, опционально привязанная к объекту.
type Enquiry struct {
	ID         int64
	Name       string
	Mobile     string
	Email      string
	Message    string
	PropertyID *int64
	CreatedAt  time.Time
}

// MissingFields возвращает имена пустых обязательных полей в порядке формы.
// Строка из одних пробелов считается пустой.
func (e Enquiry) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", e.Name},
		{"mobile", e.Mobile},
		{"email", e.Email},
		{"message", e.Message},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Validate возвращает *EnquiryValidationError, если заявка неполная.
func (e Enquiry) Validate() error {
	if missing := e.MissingFields(); len(missing) > 0 {
		return &EnquiryValidationError{MissingFields: missing}
	}
	return nil
}
