package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/storefront/backend/internal/domain/order"
)

// RegisterValidations installs custom binding validators on gin's
// validator engine. Called once at router setup.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// orderstatus accepts any value ParseOrderStatus can normalize,
	// including lowercase and dashed aliases
	_ = v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
		_, err := order.ParseOrderStatus(fl.Field().String())
		return err == nil
	})
}
