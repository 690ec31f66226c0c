package validation

import (
	"net/http"
	"regexp"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var pincodeRe = regexp.MustCompile(`^\d{6}$`)

// New returns a configured validator with the custom rules the request
// schemas rely on.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// 6-digit postal code, nothing else.
	_ = v.RegisterValidation("pincode", func(fl validatorv10.FieldLevel) bool {
		return pincodeRe.MatchString(fl.Field().String())
	})

	return v
}

// BindAndValidate binds the JSON body into out and runs schema validation.
// On failure it returns a 400 HTTPError with field-level messages; the
// handler short-circuits with the returned error.
func BindAndValidate(c echo.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.Bind(out); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := v.Struct(out); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"error":  "validation_failed",
			"fields": errorsToMap(err),
		})
	}
	return nil
}

func errorsToMap(err error) map[string]string {
	out := map[string]string{}
	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		for _, fe := range ve {
			out[fe.StructNamespace()] = fe.Tag()
		}
	} else {
		out["error"] = err.Error()
	}
	return out
}
