package handlers

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("major_pair", isMajorPair); err != nil {
		panic(err)
	}
	return v
}

func isMajorPair(fl validator.FieldLevel) bool {
	return slices.Contains(models.MajorPairs, fl.Field().String())
}

type ValidationError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Binds the JSON body into req (an empty body leaves req untouched) and
// validates it. A non-nil result is ready to send as a 400 body.
func bindAndValidate(c fiber.Ctx, req any) []ValidationError {
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(req); err != nil {
			return []ValidationError{{Code: "ERR_BODY", Message: err.Error()}}
		}
	}

	if err := validate.StructCtx(c.Context(), req); err != nil {
		return validationErrors(err)
	}
	return nil
}

func validationErrors(err error) []ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Code: "ERR_UNKNOWN", Message: err.Error()}}
	}

	errs := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Code:    "ERR_" + strings.ToUpper(fe.Tag()),
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "major_pair":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.Join(models.MajorPairs, ", "))
	default:
		return fmt.Sprintf("%s failed validation: %s", fe.Field(), fe.Tag())
	}
}
