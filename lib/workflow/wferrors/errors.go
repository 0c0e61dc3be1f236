// Package wferrors виды ошибок движка процессов найма.
// Конкретные ошибки оборачивают один из видов, проверка через errors.Is.
package wferrors

import (
	"net/http"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrInvalidTransition   = errors.New("недопустимый переход состояния")
	ErrNotFound            = errors.New("запись не найдена")
	ErrDuplicateConnection = errors.New("связь между этапами уже существует")
	ErrHasExecutions       = errors.New("по этапу есть выполнения кандидатов")
	ErrConstraintConflict  = errors.New("нарушено ограничение уникальности")
	ErrConfigValidation    = errors.New("некорректная конфигурация этапа")
	ErrInvalidArgument     = errors.New("некорректные данные")
	ErrAlreadyExists       = errors.New("запись уже существует")
	ErrLocked              = errors.New("запись изменяется другим запросом")

	ErrNotEditable = errors.Wrap(ErrInvalidTransition, "процесс недоступен для редактирования")
)

func InvalidTransition(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidTransition, format, args...)
}

func NotFound(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNotFound, format, args...)
}

func InvalidArgument(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

func ConfigValidation(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConfigValidation, format, args...)
}

// FromDB переводит ошибки gorm в виды ошибок движка
func FromDB(err error, conflict error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Wrap(conflict, err.Error())
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(ErrNotFound, err.Error())
	}
	return err
}

// HTTPStatus код ответа api для ошибки
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrHasExecutions),
		errors.Is(err, ErrDuplicateConnection),
		errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrLocked):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrConfigValidation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// IsBusinessError ошибка вызвана данными запроса, а не сбоем сервиса
func IsBusinessError(err error) bool {
	return HTTPStatus(err) != http.StatusInternalServerError
}
