// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"

	money "github.com/Rhymond/go-money"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"wealth/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("iso4217", validateISO4217)
	_ = v.RegisterValidation("account_type", validateAccountType)
	_ = v.RegisterValidation("decimal", validateDecimal)
}

func validateISO4217(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	return len(code) == 3 && code == strings.ToUpper(code) && money.GetCurrency(code) != nil
}

func validateAccountType(fl validator.FieldLevel) bool {
	return models.AccountType(fl.Field().String()).Valid()
}

func validateDecimal(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	return err == nil
}
