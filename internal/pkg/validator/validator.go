package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	validate.RegisterValidation("violation_type", oneOfStrings(
		"harassment", "hate_speech", "violence", "sexual_content", "drugs",
		"spam", "scam", "copyright", "personal_info", "minor_safety",
	))

	validate.RegisterValidation("severity", oneOfStrings(
		"low", "medium", "high", "critical",
	))

	validate.RegisterValidation("report_category", oneOfStrings(
		"harassment", "hate_speech", "violence", "sexual_content", "drugs",
		"spam", "scam", "copyright", "personal_info", "minor_safety", "other",
	))

	validate.RegisterValidation("suspension_type", oneOfStrings(
		"warning", "temporary", "permanent",
	))

	validate.RegisterValidation("review_action", oneOfStrings(
		"extend", "reduce", "remove", "make_permanent",
	))

	validate.RegisterValidation("appeal_action", oneOfStrings(
		"approve", "reject",
	))

	validate.RegisterValidation("resolve_action", oneOfStrings(
		"dismiss", "warn", "delete", "suspend",
	))
}

func oneOfStrings(valid ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, v := range valid {
			if value == v {
				return true
			}
		}
		return false
	}
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "uuid":
			errors[field] = "Invalid identifier format"
		case "violation_type":
			errors[field] = "Invalid violation type"
		case "severity":
			errors[field] = "Invalid severity. Must be: low, medium, high, or critical"
		case "report_category":
			errors[field] = "Invalid report category"
		case "suspension_type":
			errors[field] = "Invalid suspension type. Must be: warning, temporary, or permanent"
		case "review_action":
			errors[field] = "Invalid action. Must be: extend, reduce, remove, or make_permanent"
		case "appeal_action":
			errors[field] = "Invalid action. Must be: approve or reject"
		case "resolve_action":
			errors[field] = "Invalid action. Must be: dismiss, warn, delete, or suspend"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
