package wferrors

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestErrorKinds(t *testing.T) {
	t.Run(`wrapped kinds check`, func(t *testing.T) {
		err := InvalidTransition("статус %v", "completed")
		require.True(t, errors.Is(err, ErrInvalidTransition))
		require.False(t, errors.Is(err, ErrNotFound))

		err = errors.Wrap(ErrNotEditable, "этап")
		require.True(t, errors.Is(err, ErrNotEditable))
		require.True(t, errors.Is(err, ErrInvalidTransition))
	})

	t.Run(`FromDB check`, func(t *testing.T) {
		require.Nil(t, FromDB(nil, ErrAlreadyExists))
		err := FromDB(gorm.ErrDuplicatedKey, ErrAlreadyExists)
		require.True(t, errors.Is(err, ErrAlreadyExists))
		err = FromDB(gorm.ErrRecordNotFound, ErrAlreadyExists)
		require.True(t, errors.Is(err, ErrNotFound))
		other := errors.New("сбой")
		require.Equal(t, other, FromDB(other, ErrAlreadyExists))
	})

	t.Run(`HTTPStatus check`, func(t *testing.T) {
		require.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("этап")))
		require.Equal(t, http.StatusConflict, HTTPStatus(ErrNotEditable))
		require.Equal(t, http.StatusConflict, HTTPStatus(errors.Wrap(ErrHasExecutions, "этап")))
		require.Equal(t, http.StatusBadRequest, HTTPStatus(ConfigValidation("поле")))
		require.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrConstraintConflict))
		require.False(t, IsBusinessError(errors.New("сбой")))
		require.True(t, IsBusinessError(InvalidArgument("поле")))
	})
}
