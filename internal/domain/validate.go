package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("bcryptmax", bcryptMax); err != nil {
		panic(err)
	}
	// Report fields by their wire name so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// bcryptMax limits a string by its byte length, unlike max which counts runes.
func bcryptMax(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= maxPasswordBytes
}

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when an entity or input breaks its constraints.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// FieldMap returns the field messages keyed by field name.
func (e *ValidationError) FieldMap() map[string]string {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		m[f.Field] = f.Message
	}
	return m
}

var messages = map[string]string{
	"titulo.notblank":  "O atributo titulo é obrigatório!",
	"titulo.min":       "O atributo titulo deve conter no mínimo 5 e no máximo 100 caracteres!",
	"titulo.max":       "O atributo titulo deve conter no mínimo 5 e no máximo 100 caracteres!",
	"texto.notblank":   "O atributo texto é obrigatório!",
	"texto.min":        "O atributo texto deve conter no mínimo 10 e no máximo 1000 caracteres!",
	"texto.max":        "O atributo texto deve conter no mínimo 10 e no máximo 1000 caracteres!",
	"nome.notblank":    "O atributo nome é obrigatório!",
	"nome.max":         "O atributo nome deve conter no máximo 255 caracteres!",
	"usuario.required": "O atributo usuario é obrigatório!",
	"usuario.email":    "O atributo usuario deve ser um email válido!",
	"usuario.max":      "O atributo usuario deve conter no máximo 255 caracteres!",
	"senha.required":   "O atributo senha é obrigatório!",
	"senha.min":        "A senha deve conter no mínimo 8 caracteres!",
	"senha.bcryptmax":  "A senha deve conter no máximo 72 bytes!",
	"foto.max":         "O link da foto não pode ser maior do que 5000 caracteres!",
}

// Validate checks v against its struct tags and returns a *ValidationError
// listing every rejected field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("O atributo %s é inválido!", fe.Field())
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
