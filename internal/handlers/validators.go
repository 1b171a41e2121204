package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
)

// RegisterCustomValidators installs the enum validators used by the request
// binding tags. Call once during startup.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("txntype", func(fl validator.FieldLevel) bool {
		return domain.TransactionType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("txnstatus", func(fl validator.FieldLevel) bool {
		return domain.TransactionStatus(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("projectstatus", func(fl validator.FieldLevel) bool {
		return domain.ProjectStatus(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("userrole", func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).IsValid()
	})
}
