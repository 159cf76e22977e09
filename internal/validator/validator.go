package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/examduty/dutybook-backend/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// trans is the singleton English translator for validation errors.
var (
	trans     ut.Translator
	setupOnce sync.Once
)

// Setup registers the validator with English translations on Gin's binding engine.
// Safe to call more than once.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*govalidator.Validate)
		if !ok {
			return
		}

		// Report fields by their wire name: JSON tag first, then form tag.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		_ = v.RegisterValidation("designation", validateDesignation)
		_ = v.RegisterValidation("timeslot", validateTimeSlot)
		registerMessage(v, "designation", "{0} must be one of Assistant Professor, Associate Professor, Non-Teaching Staff, HOD")
		registerMessage(v, "timeslot", "{0} must be Morning or Afternoon")
	})
}

func validateDesignation(fl govalidator.FieldLevel) bool {
	return model.Designation(strings.TrimSpace(fl.Field().String())).Valid()
}

func validateTimeSlot(fl govalidator.FieldLevel) bool {
	_, ok := model.ParseTimeSlot(fl.Field().String())
	return ok
}

func registerMessage(v *govalidator.Validate, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, text, true)
		},
		func(t ut.Translator, fe govalidator.FieldError) string {
			msg, err := t.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name → human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if trans != nil {
				fields[fe.Field()] = fe.Translate(trans)
			} else {
				fields[fe.Field()] = fe.Error()
			}
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// HasTagFailure reports whether err contains a failure for the given validation tag.
func HasTagFailure(err error, tag string) bool {
	var ve govalidator.ValidationErrors
	if !errors.As(err, &ve) {
		return false
	}
	for _, fe := range ve {
		if fe.Tag() == tag {
			return true
		}
	}
	return false
}

// Bind binds and validates the JSON request body into dst, returning the raw
// error so callers can inspect which rule failed. Pair with TranslateErrors.
func Bind(c *gin.Context, dst interface{}) error {
	return c.ShouldBindJSON(dst)
}

// BindForm binds and validates a multipart or urlencoded form into dst.
func BindForm(c *gin.Context, dst interface{}) error {
	return c.ShouldBind(dst)
}

// OnlyMissing reports whether every failure in err is a "required" rule.
func OnlyMissing(err error) bool {
	var ve govalidator.ValidationErrors
	if !errors.As(err, &ve) {
		return false
	}
	for _, fe := range ve {
		if fe.Tag() != "required" {
			return false
		}
	}
	return true
}
