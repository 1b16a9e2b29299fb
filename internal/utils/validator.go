// internal/utils/validator.go
package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/smartadega/smartadega-api/internal/apperrors"
	"github.com/smartadega/smartadega-api/internal/models"
)

const minVintage = 1900

// Price and rating are stored as numeric with two decimal places.
const centsTolerance = 1e-6

// WineInput is a coerced wine payload. Nil means the key was absent.
type WineInput struct {
	Name     *string  `json:"name" validate:"omitempty,notblank"`
	Grape    *string  `json:"grape" validate:"omitempty"`
	Region   *string  `json:"region" validate:"omitempty"`
	Year     *int     `json:"year" validate:"omitempty,min=1900,vintage"`
	Price    *float64 `json:"price" validate:"omitempty,min=0,max=99999999.99,cents"`
	Rating   *float64 `json:"rating" validate:"omitempty,min=0,max=5,cents"`
	Quantity *int     `json:"quantity" validate:"omitempty,min=0"`
}

// Changes converts the input into a partial update.
func (in *WineInput) Changes() models.WineChanges {
	return models.WineChanges{
		Name:     in.Name,
		Grape:    in.Grape,
		Region:   in.Region,
		Year:     in.Year,
		Price:    in.Price,
		Rating:   in.Rating,
		Quantity: in.Quantity,
	}
}

// Field order used when reporting errors.
var wineFields = []string{"name", "grape", "region", "year", "price", "rating", "quantity"}

type WineValidator struct {
	validate *validator.Validate
	mode     models.ValidationMode
	now      func() time.Time
}

func NewWineValidator(mode models.ValidationMode, now func() time.Time) *WineValidator {
	if now == nil {
		now = time.Now
	}
	if !mode.Valid() {
		mode = models.ValidationModeRelaxed
	}

	v := &WineValidator{
		validate: validator.New(),
		mode:     mode,
		now:      now,
	}
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	v.validate.RegisterValidation("notblank", validateNotBlank)
	v.validate.RegisterValidation("vintage", v.validateVintage)
	v.validate.RegisterValidation("cents", validateCents)
	return v
}

func (v *WineValidator) Mode() models.ValidationMode {
	return v.mode
}

// MaxVintage is the newest accepted year, evaluated on every call so a
// running process follows the calendar.
func (v *WineValidator) MaxVintage() int {
	return v.now().Year() + 1
}

// ValidateCreate checks a full wine payload. Every violation is reported.
func (v *WineValidator) ValidateCreate(payload map[string]interface{}) (*WineInput, error) {
	input, errs := coerceWineInput(payload)

	required := []string{"name", "year", "quantity"}
	if v.mode == models.ValidationModeStrict {
		required = wineFields
	}
	for _, field := range required {
		if _, failed := errs[field]; failed {
			continue
		}
		if !input.has(field) {
			errs[field] = apperrors.FieldError{Field: field, Tag: "required", Message: field + " is required"}
		}
	}

	v.collect(input, errs)

	if v.mode == models.ValidationModeStrict {
		v.strictRules(input, errs)
	}

	return input, toValidationError(errs)
}

// ValidateUpdate checks a partial payload: absent fields are fine, present
// ones follow the create rules.
func (v *WineValidator) ValidateUpdate(payload map[string]interface{}) (*WineInput, error) {
	input, errs := coerceWineInput(payload)
	v.collect(input, errs)

	if v.mode == models.ValidationModeStrict {
		v.strictRules(input, errs)
	}

	return input, toValidationError(errs)
}

func (v *WineValidator) collect(input *WineInput, errs map[string]apperrors.FieldError) {
	err := v.validate.Struct(input)
	if err == nil {
		return
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return
	}
	for _, e := range validationErrs {
		field := e.Field()
		if _, exists := errs[field]; exists {
			continue
		}
		errs[field] = apperrors.FieldError{
			Field:   field,
			Tag:     e.Tag(),
			Message: v.validationMessage(e),
		}
	}
}

// strictRules are the checks of the strict revision that tags cannot
// express per mode.
func (v *WineValidator) strictRules(input *WineInput, errs map[string]apperrors.FieldError) {
	if _, failed := errs["price"]; !failed && input.Price != nil && *input.Price <= 0 {
		errs["price"] = apperrors.FieldError{Field: "price", Tag: "gt", Message: "price must be greater than 0"}
	}
	for field, value := range map[string]*string{"grape": input.Grape, "region": input.Region} {
		if _, failed := errs[field]; failed || value == nil {
			continue
		}
		if strings.TrimSpace(*value) == "" {
			errs[field] = apperrors.FieldError{Field: field, Tag: "notblank", Message: field + " must not be empty"}
		}
	}
}

func (v *WineValidator) validateVintage(fl validator.FieldLevel) bool {
	return fl.Field().Int() <= int64(v.MaxVintage())
}

func validateCents(fl validator.FieldLevel) bool {
	scaled := fl.Field().Float() * 100
	return math.Abs(scaled-math.Round(scaled)) < centsTolerance
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func (v *WineValidator) validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "notblank":
		return e.Field() + " must not be empty"
	case "vintage":
		return fmt.Sprintf("%s must be between %d and %d", e.Field(), minVintage, v.MaxVintage())
	case "min":
		if e.Field() == "year" {
			return fmt.Sprintf("%s must be between %d and %d", e.Field(), minVintage, v.MaxVintage())
		}
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "cents":
		return e.Field() + " must have at most 2 decimal places"
	default:
		return e.Field() + " is invalid"
	}
}

func (in *WineInput) has(field string) bool {
	switch field {
	case "name":
		return in.Name != nil
	case "grape":
		return in.Grape != nil
	case "region":
		return in.Region != nil
	case "year":
		return in.Year != nil
	case "price":
		return in.Price != nil
	case "rating":
		return in.Rating != nil
	case "quantity":
		return in.Quantity != nil
	}
	return false
}

// coerceWineInput reads the known keys of payload, converting numeric
// strings to numbers. Unknown keys, including id, owner_id and timestamps,
// are dropped. JSON null counts as absent.
func coerceWineInput(payload map[string]interface{}) (*WineInput, map[string]apperrors.FieldError) {
	input := &WineInput{}
	errs := make(map[string]apperrors.FieldError)

	typeErr := func(field, want string) {
		errs[field] = apperrors.FieldError{Field: field, Tag: "type", Message: field + " must be " + want}
	}

	for _, field := range []string{"name", "grape", "region"} {
		raw, ok := payload[field]
		if !ok || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			typeErr(field, "a string")
			continue
		}
		s = strings.TrimSpace(s)
		switch field {
		case "name":
			input.Name = &s
		case "grape":
			input.Grape = &s
		case "region":
			input.Region = &s
		}
	}

	for _, field := range []string{"year", "quantity"} {
		raw, ok := payload[field]
		if !ok || raw == nil {
			continue
		}
		n, err := toInt(raw)
		if err != nil {
			typeErr(field, "an integer")
			continue
		}
		if field == "year" {
			input.Year = &n
		} else {
			input.Quantity = &n
		}
	}

	for _, field := range []string{"price", "rating"} {
		raw, ok := payload[field]
		if !ok || raw == nil {
			continue
		}
		f, err := toFloat(raw)
		if err != nil {
			typeErr(field, "a number")
			continue
		}
		if field == "price" {
			input.Price = &f
		} else {
			input.Rating = &f
		}
	}

	return input, errs
}

func toFloat(raw interface{}) (float64, error) {
	var f float64
	switch val := raw.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, err
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return f, nil
}

func toInt(raw interface{}) (int, error) {
	f, err := toFloat(raw)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%v is not an integer", f)
	}
	return int(f), nil
}

func toValidationError(errs map[string]apperrors.FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	fields := make([]apperrors.FieldError, 0, len(errs))
	for _, name := range wineFields {
		if fe, ok := errs[name]; ok {
			fields = append(fields, fe)
		}
	}
	return apperrors.Validation(fields)
}
