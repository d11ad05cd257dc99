package handlers

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/clinica/susceptibles/internal/services"
)

// maxMonthLen mirrors the periods.month column width.
const maxMonthLen = 64

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the "year" and "monthvariant" struct tags on
// gin's binding validator. It is safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin binding engine is not validator/v10")
			return
		}
		if err := v.RegisterValidation("year", validYear); err != nil {
			registerErr = err
			return
		}
		registerErr = v.RegisterValidation("monthvariant", validMonthVariant)
	})
	return registerErr
}

// validYear applies the service's year rule: a free-form token of at most
// 16 characters without the recovery-key separator.
func validYear(fl validator.FieldLevel) bool {
	_, err := services.NormalizeYear(fl.Field().String())
	return err == nil
}

// validMonthVariant accepts a non-empty name without the recovery-key
// separator.
func validMonthVariant(fl validator.FieldLevel) bool {
	m := strings.TrimSpace(fl.Field().String())
	return m != "" && utf8.RuneCountInString(m) <= maxMonthLen && !strings.Contains(m, "/")
}

// bindMessage turns a binding error into a short client-facing message.
func bindMessage(err error, fallback string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fallback
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " required"
	case "year":
		return field + " must be at most 16 characters without '/'"
	case "monthvariant":
		return field + " must be a month name"
	case "max":
		return field + " too long"
	}
	return field + " is invalid"
}
