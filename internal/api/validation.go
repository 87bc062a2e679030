package api

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"rasaroots/internal/models"
)

var validatorsOnce sync.Once

// registerValidators adds the dishtag rule to gin's validator.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("dishtag", func(fl validator.FieldLevel) bool {
			_, ok := models.ParseTag(fl.Field().String())
			return ok
		})
	})
}
