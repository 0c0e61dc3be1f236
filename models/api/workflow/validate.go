package workflowapimodels

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var fieldNames = map[string]string{
	"Name":          "название процесса",
	"Title":         "название этапа",
	"NodeType":      "тип этапа",
	"CandidateID":   "кандидат",
	"WorkflowID":    "процесс",
	"SourceNodeID":  "этап-источник",
	"TargetNodeID":  "целевой этап",
	"ConditionType": "условие перехода",
	"RecruiterID":   "рекрутер",
	"Result":        "результат этапа",
	"Items":         "список этапов",
	"NewOrder":      "порядковый номер",
	"ID":            "идентификатор",
}

// validateStruct проверка по тегам validate с сообщением для пользователя
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		name, ok := fieldNames[fieldErr.StructField()]
		if !ok {
			name = fieldErr.Field()
		}
		switch fieldErr.Tag() {
		case "required":
			msgs = append(msgs, "не указано поле: "+name)
		case "oneof":
			msgs = append(msgs, "недопустимое значение поля "+name+": "+fieldErr.Param())
		default:
			msgs = append(msgs, "некорректное значение поля: "+name)
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
