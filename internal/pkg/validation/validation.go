package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Custom validation tags
const (
	NotBlankTag = "notblank"
	EduEmailTag = "edu_email"
)

// Validator wraps a validator instance with its English translator
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// Register installs the custom tags, JSON field names and English messages on
// validate. Emails checked by edu_email must end with emailSuffix.
func Register(validate *validator.Validate, emailSuffix string) (*Validator, error) {
	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, err
	}

	// Report JSON or form names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	if err := validate.RegisterValidation(NotBlankTag, notBlank); err != nil {
		return nil, err
	}
	if err := validate.RegisterValidation(EduEmailTag, eduEmail(emailSuffix)); err != nil {
		return nil, err
	}

	v := &Validator{validate: validate, translator: translator}
	v.registerTranslation(NotBlankTag, "{0} is required", true)
	v.registerTranslation(EduEmailTag, "Please use your university email ("+emailSuffix+")", false)
	return v, nil
}

func (v *Validator) registerTranslation(tag, text string, withField bool) {
	_ = v.validate.RegisterTranslation(
		tag, v.translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			if !withField {
				s, _ := t.T(tag)
				return s
			}
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Message turns a binding error into a single user-facing sentence.
// Errors that are not validation errors come back as a generic message.
func (v *Validator) Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	return verrs[0].Translate(v.translator)
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

func eduEmail(suffix string) validator.Func {
	suffix = strings.ToLower(suffix)
	return func(fl validator.FieldLevel) bool {
		return strings.HasSuffix(strings.ToLower(strings.TrimSpace(fl.Field().String())), suffix)
	}
}
