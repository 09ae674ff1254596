package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse un campo que no pasó validación.
type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

var shelfLetterRe = regexp.MustCompile(`^[A-Z]$`)

func init() {
	// shelf_letter: una sola letra mayúscula A-Z
	_ = validate.RegisterValidation("shelf_letter", func(fl validator.FieldLevel) bool {
		return shelfLetterRe.MatchString(fl.Field().String())
	})
	// movement_type: ingreso | egreso
	_ = validate.RegisterValidation("movement_type", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "ingreso" || s == "egreso"
	})
}

// ValidateStruct valida los tags `validate` de un struct y devuelve los
// campos fallidos (nil si todo pasa).
func ValidateStruct(data interface{}) []*ErrorResponse {
	var errs []*ErrorResponse
	if err := validate.Struct(data); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			errs = append(errs, &ErrorResponse{
				FailedField: fe.StructNamespace(),
				Tag:         fe.Tag(),
				Value:       fe.Param(),
			})
		}
	}
	return errs
}
