package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/siniestros/backend/internal/interfaces/http/dto"
)

// maxAmount is the largest value a NUMERIC(18,2) column holds
var maxAmount = decimal.New(1, 16)

// SetupValidator registers json field names and the custom tags used by the request DTOs:
//
//	monto: a decimal with at most two fractional digits that fits NUMERIC(18,2)
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form", "uri"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	// Decimals are validated through their string form
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	return v.RegisterValidation("monto", validateAmount)
}

func validateAmount(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.Equal(d.Round(2)) && d.Abs().LessThan(maxAmount)
}

// FieldErrors converts validator errors into per-field messages
func FieldErrors(err error) []dto.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]dto.FieldError, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, dto.FieldError{
			Field:   fieldPath(e),
			Message: validationMessage(e),
		})
	}
	return fields
}

// HandleValidationError answers 400 with the invalid fields, or with a generic
// message when the body could not be decoded at all
func HandleValidationError(c *gin.Context, err error) {
	fields := FieldErrors(err)
	message := "Los datos de la solicitud no son válidos"
	if len(fields) == 0 {
		message = "El cuerpo de la solicitud no tiene un formato válido"
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewValidationErrorResponse(message, GetRequestID(c), fields))
}

// fieldPath drops the top-level struct name: "ApplyRequest.lineas[0].nuevo_monto" -> "lineas[0].nuevo_monto"
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Campo obligatorio"
	case "min":
		if e.Kind() == reflect.String {
			return "Debe tener al menos " + e.Param() + " caracteres"
		}
		if e.Kind() == reflect.Slice {
			return "Debe contener al menos " + e.Param() + " elementos"
		}
		return "Debe ser mayor o igual a " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Debe tener como máximo " + e.Param() + " caracteres"
		}
		if e.Kind() == reflect.Slice {
			return "Debe contener como máximo " + e.Param() + " elementos"
		}
		return "Debe ser menor o igual a " + e.Param()
	case "gt":
		return "Debe ser mayor a " + e.Param()
	case "gte":
		return "Debe ser mayor o igual a " + e.Param()
	case "oneof":
		return "Debe ser uno de: " + e.Param()
	case "alphanum":
		return "Solo admite letras y números"
	case "datetime":
		return "Fecha inválida, formato esperado " + e.Param()
	case "monto":
		return "Monto inválido: máximo dos decimales y 16 dígitos enteros"
	default:
		return "Valor inválido"
	}
}
