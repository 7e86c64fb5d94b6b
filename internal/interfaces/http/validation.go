package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/gepub/gepub-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// nomes dos campos como no JSON/query
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query", "form"} {
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
	return v
}

// validateStruct devolve domain.FieldErrors com uma mensagem por regra violada.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := domain.FieldErrors{}
	for _, e := range verrs {
		fe.Add(e.Field(), validationMessage(e))
	}
	return fe
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "campo obrigatório"
	case "email":
		return "e-mail inválido"
	case "uuid":
		return "identificador inválido"
	case "oneof":
		return "use um de: " + e.Param()
	case "len":
		return "deve ter exatamente " + e.Param() + " caracteres"
	case "min":
		if e.Kind() == reflect.String {
			return "mínimo de " + e.Param() + " caracteres"
		}
		return "mínimo " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "máximo de " + e.Param() + " caracteres"
		}
		return "máximo " + e.Param()
	default:
		return "valor inválido"
	}
}

var errInvalidBody = errors.New("corpo inválido")

// bindJSON faz o parse do corpo e valida as tags.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return validateStruct(out)
}

// bindQuery faz o parse da query string e valida as tags.
func bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return domain.NewValidationError("query", "parâmetros inválidos")
	}
	return validateStruct(out)
}
