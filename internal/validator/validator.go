// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"intabyu/internal/audio"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", validateNotBlank)
		_ = v.RegisterValidation("audio_data_url", validateAudioDataURL)
	}
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateAudioDataURL checks the "data:<type>;base64,<payload>" shape.
// The payload itself is decoded by the handler.
func validateAudioDataURL(fl validator.FieldLevel) bool {
	return audio.LooksLikeDataURL(fl.Field().String())
}
