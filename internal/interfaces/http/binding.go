package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores reportan el nombre del campo tal como llega en JSON o query.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// bindBody parsea el cuerpo JSON y valida las etiquetas validate.
func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewValidationError("", "cuerpo inválido: "+err.Error())
	}
	return validateStruct(out)
}

// bindQuery parsea los parámetros de query y valida.
func bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return domain.NewValidationError("", "parámetros inválidos: "+err.Error())
	}
	return validateStruct(out)
}

func validateStruct(out any) error {
	err := validate.Struct(out)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError("", err.Error())
	}
	fe := verrs[0]
	return domain.NewValidationError(fieldPath(fe), validationMessage(fe))
}

// fieldPath quita el nombre del struct raíz: "CreateItemRequest.items[0].item_id" -> "items[0].item_id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "debe tener al menos " + fe.Param() + " elemento(s)"
		}
		if fe.Kind() == reflect.String {
			return "debe tener al menos " + fe.Param() + " caracteres"
		}
		return "debe ser mayor o igual a " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "no puede superar " + fe.Param() + " caracteres"
		}
		return "debe ser menor o igual a " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "nefield":
		return "debe ser distinto de " + fe.Param()
	default:
		return "no cumple la regla " + fe.Tag()
	}
}
