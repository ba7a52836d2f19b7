package api

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shopspring/decimal"
)

const (
	notBlankTag        = "notblank"
	monthYearTag       = "month_year"
	positiveDecimalTag = "positive_decimal"
)

var (
	monthYearPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

	validateOnce sync.Once
	validate     *validator.Validate
	translator   ut.Translator
)

// ValidationError maps JSON field names to English messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func setupValidator() {
	validate = validator.New()
	english := en.New()
	uni := ut.New(english, english)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report JSON names rather than Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Tag.Get("field")
		}
		return name
	})
	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = validate.RegisterValidation(notBlankTag, notBlank)
	_ = validate.RegisterValidation(monthYearTag, func(fl validator.FieldLevel) bool {
		return monthYearPattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation(positiveDecimalTag, func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	})
	registerMessages(map[string]string{
		notBlankTag:        "{0} cannot be blank",
		monthYearTag:       "{0} must be in YYYY-MM format",
		positiveDecimalTag: "{0} must be a positive amount",
	})
}

func registerMessages(messages map[string]string) {
	for tag, text := range messages {
		_ = validate.RegisterTranslation(tag, translator,
			func(t ut.Translator) error { return t.Add(tag, text, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				msg, err := t.T(fe.Tag(), fe.Field())
				if err != nil {
					return fe.Error()
				}
				return msg
			})
	}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Validate checks a create or update payload against its struct tags.
func Validate(payload any) error {
	validateOnce.Do(setupValidator)
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fe.Field()] = fe.Translate(translator)
	}
	return out
}

// NewUser is the body of POST /user.
type NewUser struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required,min=6"`
	RoleID   int64  `json:"role_id"  validate:"required,gt=0"`
}

// NewStudent is the body of POST /student. The API creates the user account
// and the student profile together.
type NewStudent struct {
	Username     string `json:"username"     validate:"notblank"`
	Password     string `json:"password"     validate:"required,min=6"`
	UserFullName string `json:"userFullName" validate:"notblank"`
	Nickname     string `json:"nickname"     validate:"notblank"`
	Age          int    `json:"age"          validate:"required,gt=0"`
	Address      string `json:"address"      validate:"notblank"`
}

// NewSalaryList is the body of POST /salaryList.
type NewSalaryList struct {
	Title     string          `json:"title,omitempty"`
	MonthYear string          `json:"monthYear"                     validate:"required,month_year"`
	DailyRate decimal.Decimal `json:"-"         field:"dailyRate"   validate:"positive_decimal"`
}

// MarshalJSON sends the daily rate as a JSON number.
func (n NewSalaryList) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Title     string      `json:"title,omitempty"`
		MonthYear string      `json:"monthYear"`
		DailyRate json.Number `json:"dailyRate"`
	}{n.Title, n.MonthYear, json.Number(n.DailyRate.String())})
}

// NewVocabList is the body of POST /vocabList.
type NewVocabList struct {
	Title       string `json:"title"       validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	Category    string `json:"category"    validate:"notblank"`
}

// NewVocab is the body of POST /vocab/list/{id}.
type NewVocab struct {
	Word            string `json:"word"                       validate:"notblank"`
	Translation     string `json:"translation"                validate:"notblank"`
	Definition      string `json:"definition,omitempty"`
	PartOfSpeech    string `json:"part_of_speech,omitempty"`
	ExampleSentence string `json:"example_sentence,omitempty"`
	Synonyms        string `json:"synonyms,omitempty"`
	Antonyms        string `json:"antonyms,omitempty"`
}

// PaymentStatus is the body of PUT /salaryRecord/paymentStatus/record/{id}.
type PaymentStatus struct {
	Status string `json:"status" validate:"oneof=paid unpaid"`
}
