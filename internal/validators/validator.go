package validators

import (
	"net/http"

	"github.com/anonto42/engagement/backend/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator plugs go-playground/validator into echo's c.Validate.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator with the project's custom tags registered.
func NewValidator() *CustomValidator {
	v := validator.New()
	// only fails for an empty tag name or a nil func
	_ = v.RegisterValidation("reaction_type", validateReactionType)
	return &CustomValidator{validator: v}
}

// Validate validates struct tags and reports failures as 400s.
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func validateReactionType(fl validator.FieldLevel) bool {
	return models.ReactionType(fl.Field().String()).Valid()
}
