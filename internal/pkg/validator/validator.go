package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

var steamIDPattern = regexp.MustCompile(`^[0-9]{17}$`)

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
	// SteamID64 validation (17 digits)
	validate.RegisterValidation("steamid", func(fl validator.FieldLevel) bool {
		return steamIDPattern.MatchString(fl.Field().String())
	})

	// Ledger entry type validation
	validate.RegisterValidation("tx_type", func(fl validator.FieldLevel) bool {
		txType := fl.Field().String()
		validTypes := []string{
			"admin_grant", "admin_adjust", "admin_set_balance", "admin_rollback",
			"voucher_redeem", "pro_monthly_stipend", "spin_reward", "",
		}
		for _, t := range validTypes {
			if txType == t {
				return true
			}
		}
		return false
	})
}

// IsSteamID reports whether s looks like a SteamID64
func IsSteamID(s string) bool {
	return steamIDPattern.MatchString(s)
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
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "steamid":
			errors[field] = "Invalid SteamID64 (expected 17 digits)"
		case "tx_type":
			errors[field] = "Invalid ledger entry type"
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
