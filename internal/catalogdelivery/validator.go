package catalogdelivery

import (
	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-playground/validator/v10"
)

// ValidServiceKind validates whether the field holds a known service kind.
var ValidServiceKind validator.Func = func(fl validator.FieldLevel) bool {
	if k, ok := fl.Field().Interface().(string); ok {
		return domain.ServiceKind(k).Valid()
	}

	return false
}
