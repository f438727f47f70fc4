package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"chat-relay/errors"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

type CreateChannelRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Private     bool   `json:"private"`
}

type AddMemberRequest struct {
	UserID string `json:"user_id" validate:"required,max=128"`
}

type RenameUserRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=64"`
}

// ValidateRequest checks a decoded REST body against its struct tags.
// Leading and trailing spaces are trimmed from string fields first.
func ValidateRequest(req any) error {
	trimStrings(req)
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !stderrors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err)
	}
	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, describe(fe))
	}
	return fmt.Errorf("%w: %s", errors.ErrInvalidRequest, strings.Join(messages, ", "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf(`"%s" is required`, fe.Field())
	case "max":
		return fmt.Sprintf(`"%s" must be at most %s characters`, fe.Field(), fe.Param())
	default:
		return fmt.Sprintf(`"%s" failed on %s`, fe.Field(), fe.Tag())
	}
}

func trimStrings(req any) {
	v := reflect.ValueOf(req)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() == reflect.String && f.CanSet() {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}
