package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/onboarding-backend/internal/domain/onboarding"
)

// Validator checks onboarding entities against their structural rules. It is
// safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// hexRGB is #RGB or #RRGGBB; the library's hexcolor also admits alpha.
var hexRGB = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var (
	defaultOnce sync.Once
	defaultV    *Validator
)

// Default returns a process-wide Validator.
func Default() *Validator {
	defaultOnce.Do(func() { defaultV = New() })
	return defaultV
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	v.RegisterAlias("product_name", fmt.Sprintf("required,min=%d,max=%d",
		onboarding.MinProductNameLen, onboarding.MaxProductNameLen))
	v.RegisterAlias("product_description", fmt.Sprintf("required,min=%d,max=%d",
		onboarding.MinProductDescriptionLen, onboarding.MaxProductDescriptionLen))
	v.RegisterAlias("photo_size", fmt.Sprintf("gt=0,max=%d", onboarding.MaxPhotoFileSize))
	v.RegisterAlias("photo_mime", "oneof="+strings.Join(onboarding.AllowedPhotoMimeTypes, " "))

	mustRegister(v, "uuid4_strict", func(fl validator.FieldLevel) bool {
		return onboarding.IsUUIDv4(fl.Field().String())
	})
	mustRegister(v, "hex_rgb", func(fl validator.FieldLevel) bool {
		return hexRGB.MatchString(fl.Field().String())
	})
	mustRegister(v, "cents", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		switch f.Kind() {
		case reflect.Float32, reflect.Float64:
			return WholeCents(f.Float())
		default:
			return false
		}
	})
	mustRegister(v, "language_addon", func(fl validator.FieldLevel) bool {
		_, ok := CanonicalLanguage(fl.Field().String())
		return ok
	})

	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// WholeCents reports whether amount has at most two decimal places. The
// comparison goes through an integer cent count so values like 19.99, which
// are not exact in binary, still pass.
func WholeCents(amount float64) bool {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return false
	}
	cents := int64(math.Round(amount * 100))
	return float64(cents)/100 == amount
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// check runs struct validation and converts failures into violations whose
// paths are relative to the struct itself.
func (x *Validator) check(s any) onboarding.Violations {
	err := x.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return onboarding.Violations{{Reason: "could not be validated: " + err.Error()}}
	}
	out := make(onboarding.Violations, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, onboarding.Violation{Field: fieldPath(fe), Reason: reason(fe)})
	}
	return out
}

// fieldPath drops the root struct name from the namespace:
// "Product.photos[0].mimeType" -> "photos[0].mimeType".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func reason(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.ActualTag() {
	case "required":
		return "is required"
	case "min":
		return sized(fe.Kind(), "at least", param)
	case "max":
		return sized(fe.Kind(), "at most", param)
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be " + param + " or greater"
	case "cents":
		return "must have at most 2 decimal places"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "uuid4_strict":
		return "must be a version 4 UUID"
	case "http_url", "url":
		return "must be a valid http(s) URL"
	case "hex_rgb":
		return "must be a hex color such as #1a2b3c"
	case "email":
		return "must be a valid email address"
	case "e164":
		return "must be an E.164 phone number such as +14155550100"
	case "language_addon":
		return "must be a supported language code"
	default:
		return "failed " + fe.ActualTag() + " validation"
	}
}

func sized(kind reflect.Kind, bound, param string) string {
	switch kind {
	case reflect.String:
		return fmt.Sprintf("must be %s %s characters", bound, param)
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("must have %s %s items", bound, param)
	default:
		return fmt.Sprintf("must be %s %s", bound, param)
	}
}
