package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"bookshelf/internal/microservices/http-api/service"
)

var tagNamesOnce sync.Once

// useJSONFieldNames makes validator report fields by their json names so the
// 400 body uses the same keys as the request.
func useJSONFieldNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

var fieldMessages = map[string]string{
	"required": "This field is required.",
	"email":    "Enter a valid email address.",
	"datetime": "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.",
}

var fieldMessagesWithParam = map[string]string{
	"gt":  "Ensure this value is greater than %s.",
	"gte": "Ensure this value is greater than or equal to %s.",
	"lte": "Ensure this value is less than or equal to %s.",
}

func translateFieldError(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Tag()]; ok {
		return msg
	}
	if tmpl, ok := fieldMessagesWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Param())
	}

	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "min":
		if isString {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed %s validation.", fe.Tag())
	}
}

// bindingErrors turns a ShouldBind failure into the same field map services
// return for invalid input.
func bindingErrors(err error) *service.ValidationError {
	out := service.NewValidationError()

	var fieldErrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		out.Add(service.NonFieldErrors, "No data provided")
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			out.Add(fe.Field(), translateFieldError(fe))
		}
	case errors.As(err, &typeErr):
		out.Add(typeErr.Field, fmt.Sprintf("Expected a %s.", typeErr.Type))
	case errors.As(err, &syntaxErr):
		out.Add(service.NonFieldErrors, "JSON parse error: "+syntaxErr.Error())
	default:
		out.Add(service.NonFieldErrors, err.Error())
	}
	return out
}

// bindJSON binds the request body into dst or answers 400.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": bindingErrors(err).Fields})
		return false
	}
	return true
}
