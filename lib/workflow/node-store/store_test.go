package nodestore

import (
	"hr-workflow-backend/lib/workflow/graph"
	"hr-workflow-backend/lib/workflow/wferrors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var updateOrderSQL = regexp.QuoteMeta(`UPDATE "workflow_nodes" SET "sequence_order"=$1,"updated_at"=$2 WHERE id = $3 AND workflow_id = $4`)

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

func expectUpdate(mock sqlmock.Sqlmock, order int, nodeID string) *sqlmock.ExpectedExec {
	return mock.ExpectExec(updateOrderSQL).
		WithArgs(order, sqlmock.AnyArg(), nodeID, "wf")
}

func permutationPlan(t *testing.T) []graph.SequenceUpdate {
	g := graph.New("wf", "draft")
	for k, id := range []string{"A", "B", "C"} {
		require.Nil(t, g.AddNode(graph.Node{ID: id, Type: "todo", SequenceOrder: k + 1, Status: "active"}))
	}
	plan, err := g.PlanReorder([]graph.OrderItem{
		{NodeID: "A", NewOrder: 3},
		{NodeID: "B", NewOrder: 1},
		{NodeID: "C", NewOrder: 2},
	}, 1000000)
	require.Nil(t, err)
	return plan
}

func TestApplySequence(t *testing.T) {
	t.Run(`two phases in one transaction check`, func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		expectUpdate(mock, -1000000, "A").WillReturnResult(sqlmock.NewResult(0, 1))
		expectUpdate(mock, -1000001, "B").WillReturnResult(sqlmock.NewResult(0, 1))
		expectUpdate(mock, -1000002, "C").WillReturnResult(sqlmock.NewResult(0, 1))
		expectUpdate(mock, 3, "A").WillReturnResult(sqlmock.NewResult(0, 1))
		expectUpdate(mock, 1, "B").WillReturnResult(sqlmock.NewResult(0, 1))
		expectUpdate(mock, 2, "C").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.Nil(t, NewInstance(db).ApplySequence("wf", permutationPlan(t)))
		require.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run(`rollback on conflict check`, func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		expectUpdate(mock, -1000000, "A").WillReturnResult(sqlmock.NewResult(0, 1))
		expectUpdate(mock, -1000001, "B").WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectRollback()

		err := NewInstance(db).ApplySequence("wf", permutationPlan(t))
		require.True(t, errors.Is(err, wferrors.ErrConstraintConflict))
		require.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run(`rollback on missing node check`, func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		expectUpdate(mock, -1000000, "A").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := NewInstance(db).ApplySequence("wf", permutationPlan(t))
		require.True(t, errors.Is(err, wferrors.ErrNotFound))
		require.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run(`empty plan check`, func(t *testing.T) {
		db, mock := newMockDB(t)
		require.Nil(t, NewInstance(db).ApplySequence("wf", nil))
		require.Nil(t, mock.ExpectationsWereMet())
	})
}
