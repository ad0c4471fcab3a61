package checkout

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/brianmwiruki/Thrills/models"
	"github.com/brianmwiruki/Thrills/pricing"
	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^[+]?[(]?[0-9]{1,4}[)]?[-\s0-9]*$`)

const minPhoneLength = 7

// ValidationErrors lists every rejected field of a form.
type ValidationErrors []*pricing.ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

var messages = map[string]string{
	"email":    "Please enter a valid email address.",
	"phone":    "Please enter a valid phone number.",
	"us_state": "Please select a valid US state.",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		p := fl.Field().String()
		return len(p) >= minPhoneLength && phonePattern.MatchString(p)
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		form := sl.Current().Interface().(models.CheckoutForm)
		if form.State != "" && isUS(form.Country) && !isStateCode(form.State) {
			sl.ReportError(form.State, "state", "State", "us_state", "")
		}
	}, models.CheckoutForm{})
	return v
}

func isUS(country string) bool {
	switch strings.ToUpper(strings.TrimSpace(country)) {
	case "US", "USA", "UNITED STATES":
		return true
	}
	return false
}

func isStateCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

// ValidateForm checks the buyer's details. The returned error is
// ValidationErrors.
func ValidateForm(form models.CheckoutForm) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = "Please fill in all required fields."
		}
		out = append(out, &pricing.ValidationError{Field: fe.Field(), Message: msg})
	}
	return out
}
