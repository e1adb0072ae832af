package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	playground "github.com/go-playground/validator/v10"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._+-]*[a-zA-Z0-9])?@[a-zA-Z0-9]([a-zA-Z0-9.-]*[a-zA-Z0-9])?\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)
)

func Email(email string) error {
	const maxlength = 64

	if len(email) > maxlength {
		return errors.New("long_email")
	}

	if !emailRegex.MatchString(email) {
		return errors.New("bad_format")
	}

	return nil
}

func Password(password string) error {
	length := utf8.RuneCountInString(password)
	if length < 6 {
		return errors.New("short_password")
	} else if length > 32 {
		return errors.New("long_password")
	}
	return nil
}

func Username(username string) error {
	length := utf8.RuneCountInString(username)
	if length < 3 {
		return errors.New("short_username")
	} else if length > 32 {
		return errors.New("long_username")
	}

	if !usernameRegex.MatchString(username) {
		return errors.New("bad_username")
	}
	return nil
}

var validate = newValidate()

func newValidate() *playground.Validate {
	v := playground.New(playground.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	v.RegisterValidation("username", func(fl playground.FieldLevel) bool {
		return Username(fl.Field().String()) == nil
	})
	v.RegisterValidation("password", func(fl playground.FieldLevel) bool {
		return Password(fl.Field().String()) == nil
	})
	v.RegisterValidation("mail", func(fl playground.FieldLevel) bool {
		return Email(fl.Field().String()) == nil
	})

	return v
}

// FieldErrors maps a json field name to an error code.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for field, code := range f {
		parts = append(parts, field+": "+code)
	}
	return strings.Join(parts, ", ")
}

// Struct validates v by its `validate` tags. The codes for the custom tags
// are the same the single-field validators return.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors playground.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fieldErrors := make(FieldErrors, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErrors[fe.Field()] = codeFor(fe)
	}
	return fieldErrors
}

func codeFor(fe playground.FieldError) string {
	value, _ := fe.Value().(string)

	switch fe.Tag() {
	case "username":
		return Username(value).Error()
	case "password":
		return Password(value).Error()
	case "mail":
		return Email(value).Error()
	case "required":
		return "missing_" + strings.ToLower(fe.Field())
	case "max":
		return "long_" + strings.ToLower(fe.Field())
	case "min":
		return "short_" + strings.ToLower(fe.Field())
	}
	return "invalid_" + strings.ToLower(fe.Field())
}
