package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ndewijer/folio/internal/model"
)

var (
	engine     *validator.Validate
	engineOnce sync.Once
)

// Engine returns the shared validator with the domain tags registered:
// asset_type, tx_kind and cadence. Field names in errors are the json names.
func Engine() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("asset_type", validateAssetType)
		_ = v.RegisterValidation("tx_kind", validateTxKind)
		_ = v.RegisterValidation("cadence", validateCadence)
		engine = v
	})
	return engine
}

func validateAssetType(fl validator.FieldLevel) bool {
	return model.AssetType(fl.Field().String()).Valid()
}

func validateTxKind(fl validator.FieldLevel) bool {
	return model.TransactionKind(fl.Field().String()).Valid()
}

func validateCadence(fl validator.FieldLevel) bool {
	return model.Cadence(fl.Field().String()).Valid()
}

// Struct runs tag validation on s and converts failures into a field map Error.
// extra holds cross-field failures found by the caller; it may be nil.
func Struct(s any, extra map[string]string) error {
	fields := make(map[string]string)

	if err := Engine().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields[fe.Field()] = message(fe)
		}
	}

	for k, v := range extra {
		if _, ok := fields[k]; !ok {
			fields[k] = v
		}
	}

	if len(fields) > 0 {
		return &Error{Fields: fields}
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "uuid":
		return "must be a valid UUID"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "asset_type":
		return fmt.Sprintf("invalid asset type: %v", fe.Value())
	case "tx_kind":
		return fmt.Sprintf("invalid kind: %v", fe.Value())
	case "cadence":
		return fmt.Sprintf("invalid cadence: %v", fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
