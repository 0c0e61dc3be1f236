package connectionstore

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.Nil(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.Nil(t, err)
	return db, mock
}

func TestList(t *testing.T) {
	t.Run(`insertion order check`, func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "node_connections" WHERE workflow_id = $1 ORDER BY ordinal`)).
			WithArgs("wf").
			WillReturnRows(sqlmock.NewRows([]string{"id", "ordinal", "workflow_id", "source_node_id", "target_node_id", "condition_type"}).
				AddRow("c-z", 1, "wf", "A", "B", "success").
				AddRow("c-a", 2, "wf", "A", "C", "always"))

		list, err := NewInstance(db).List("wf")
		require.Nil(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "c-z", list[0].ID)
		require.Equal(t, int64(2), list[1].Ordinal)
		require.Nil(t, mock.ExpectationsWereMet())
	})
}
