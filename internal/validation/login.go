// Package validation содержит проверку данных формы входа.
package validation

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/mmeshcher/atelier/internal/model"
)

var (
	// ErrInvalidForm возвращается при попытке отправить форму с ошибками.
	ErrInvalidForm = errors.New("login form is invalid")
	// ErrCredentialsRejected возвращает Authenticator, отклонивший значения формы.
	ErrCredentialsRejected = errors.New("credentials rejected")
)

// Code описывает причину, по которой поле формы не прошло проверку.
type Code string

const (
	CodeRequired      Code = "required"
	CodeInvalidFormat Code = "invalid_format"
	CodeTooShort      Code = "too_short"
)

// Имена полей формы входа в ответах об ошибках.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
)

// Errors сопоставляет имени поля код первой нарушенной проверки.
type Errors map[string]Code

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonName)
	})
	return validate
}

// ValidateCredentials проверяет поля формы входа. Пустой результат означает, что форма корректна.
func ValidateCredentials(c model.Credentials) Errors {
	errs := Errors{}

	err := instance().Struct(c)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs
	}

	for _, fe := range fieldErrs {
		errs[fe.Field()] = codeForTag(fe.Tag())
	}
	return errs
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func codeForTag(tag string) Code {
	switch tag {
	case "required":
		return CodeRequired
	case "min":
		return CodeTooShort
	default:
		return CodeInvalidFormat
	}
}

// Authenticator получает значения корректной формы при отправке.
type Authenticator interface {
	Authenticate(ctx context.Context, c model.Credentials) error
}

// AuthenticatorFunc позволяет использовать обычную функцию как Authenticator.
type AuthenticatorFunc func(ctx context.Context, c model.Credentials) error

// Authenticate вызывает f(ctx, c).
func (f AuthenticatorFunc) Authenticate(ctx context.Context, c model.Credentials) error {
	return f(ctx, c)
}

// Form хранит состояние формы входа: значения полей, признак изменения и признак отправки.
type Form struct {
	values    model.Credentials
	touched   bool
	submitted bool
}

// NewForm создаёт пустую нетронутую форму.
func NewForm() *Form {
	return &Form{}
}

// SetEmail задаёт значение поля email.
func (f *Form) SetEmail(v string) {
	f.values.Email = v
	f.touched = true
}

// SetPassword задаёт значение поля password.
func (f *Form) SetPassword(v string) {
	f.values.Password = v
	f.touched = true
}

// Values возвращает текущие значения полей.
func (f *Form) Values() model.Credentials {
	return f.values
}

// Errors возвращает ошибки проверки полей.
func (f *Form) Errors() Errors {
	return ValidateCredentials(f.values)
}

// Valid сообщает, корректны ли оба поля. Отправка доступна только для корректной формы.
func (f *Form) Valid() bool {
	return len(f.Errors()) == 0
}

// Pristine сообщает, что поля формы ещё не изменялись.
func (f *Form) Pristine() bool {
	return !f.touched
}

// Submitted сообщает, была ли форма успешно отправлена.
func (f *Form) Submitted() bool {
	return f.submitted
}

// Submit передаёт значения корректной формы в auth. Некорректная форма не отправляется.
func (f *Form) Submit(ctx context.Context, auth Authenticator) error {
	if !f.Valid() {
		return ErrInvalidForm
	}

	if err := auth.Authenticate(ctx, f.values); err != nil {
		return err
	}

	f.submitted = true
	return nil
}

// Reset очищает поля и возвращает форму в нетронутое состояние.
func (f *Form) Reset() {
	f.values = model.Credentials{}
	f.touched = false
	f.submitted = false
}
