package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// memberColorPattern accepts a hex display color like "#1A2B3C".
var memberColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// RegisterCustomValidators installs binding validators used by the DTOs.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("membercolor", func(fl validator.FieldLevel) bool {
			return memberColorPattern.MatchString(fl.Field().String())
		})
	}
}
