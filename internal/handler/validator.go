package handler

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

// custom validation tags
const (
	notBlankTag = "notblank"
	weekdayTag  = "weekday"
)

// Validator is the echo.Validator for request bodies. Error messages are in
// English and name fields by their JSON tag.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator() *Validator {
	v := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation(weekdayTag, func(fl validator.FieldLevel) bool {
		_, ok := model.CanonicalWeekday(fl.Field().String())
		return ok
	})

	noop := func(ut.Translator) error { return nil }
	_ = v.RegisterTranslation(notBlankTag, trans, noop, func(_ ut.Translator, fe validator.FieldError) string {
		return fe.Field() + " cannot be blank"
	})
	_ = v.RegisterTranslation(weekdayTag, trans, noop, func(_ ut.Translator, fe validator.FieldError) string {
		return fe.Field() + " must be a day of the week, e.g. Monday"
	})

	return &Validator{validate: v, translator: trans}
}

func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}

// Fields turns validation errors into a field -> message map. ok is false
// when err is not a validation error.
func (v *Validator) Fields(err error) (map[string]string, bool) {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Translate(v.translator)
	}
	return out, true
}
