package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterJSONFieldNames faz o validator reportar o nome JSON do campo (full_name, priceId)
func RegisterJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidationErrors traduz erros de binding em erros por campo
func ValidationErrors(c *gin.Context, err error) []ValidationError {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []ValidationError{{
			Field:   "body",
			Message: T(c, "validation.json"),
			Tag:     "json",
		}}
	}

	result := make([]ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		key := "validation." + fe.Tag()
		params := map[string]any{"Field": fe.Field(), "Param": fe.Param()}

		message := T(c, key, params)
		if message == key {
			message = T(c, "validation.invalid", params)
		}

		result = append(result, ValidationError{
			Field:   fe.Field(),
			Message: message,
			Tag:     fe.Tag(),
		})
	}
	return result
}
