package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonTagName)
	validate.RegisterValidation("slot_date", validateSlotDate)
	validate.RegisterValidation("slot_time", validateSlotTime)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func jsonTagName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func validateSlotDate(fl validator.FieldLevel) bool {
	_, err := NormalizeSlotDate(fl.Field().String())
	return err == nil
}

func validateSlotTime(fl validator.FieldLevel) bool {
	_, err := NormalizeSlotTime(fl.Field().String())
	return err == nil
}
