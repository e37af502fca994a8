package api

import (
	"errors"

	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding tags used by request structs:
//
//	hhmm  a strict 24h "HH:MM" clock value
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("api: unexpected binding validator engine")
	}
	return v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return domain.ValidClock(fl.Field().String())
	})
}
