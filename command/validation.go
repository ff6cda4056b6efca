package command

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/kauatwn/TicketFlow/entity"
)

var validate = newValidator()

var fieldLabels = map[string]string{
	"ticket_id":   "Ticket ID",
	"customer_id": "Customer ID",
	"show_id":     "Show ID",
	"sector":      "Seat sector",
	"row":         "Seat row",
	"number":      "Seat number",
	"price":       "Price",
}

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// validateCommand checks the struct tags of cmd and reports failures as *entity.ValidationError,
// keyed by the json path of the field (e.g. "seats[1].price").
func validateCommand(cmd any) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	v := entity.Validator{}
	for _, fieldErr := range fieldErrs {
		v.Check(false, fieldPath(fieldErr), fieldMessage(fieldErr))
	}

	return v.Err()
}

func fieldPath(fieldErr validator.FieldError) string {
	// drop the command struct name
	_, path, _ := strings.Cut(fieldErr.Namespace(), ".")
	return path
}

func fieldMessage(fieldErr validator.FieldError) string {
	label, ok := fieldLabels[fieldErr.Field()]
	if !ok {
		label = fieldErr.Field()
	}

	switch fieldErr.Tag() {
	case "required":
		if strings.HasPrefix(label, "Seat ") {
			return label + " cannot be empty."
		}
		return label + " is required."
	case "uuid":
		return label + " must be a valid UUID."
	case "gt":
		return label + " must be greater than zero."
	default:
		return label + " is invalid."
	}
}
