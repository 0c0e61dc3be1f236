package state

import (
	"hr-workflow-backend/lib/workflow/wferrors"
	"hr-workflow-backend/models"
	dbmodels "hr-workflow-backend/models/db"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

func newInstance(status models.CandidateWorkflowStatus) (*dbmodels.CandidateWorkflow, *InstanceMachine) {
	rec := &dbmodels.CandidateWorkflow{Status: status}
	return rec, NewInstanceMachine(rec, fixedClock)
}

func newExecution(status models.ExecutionStatus) (*dbmodels.NodeExecution, *ExecutionMachine) {
	rec := &dbmodels.NodeExecution{Status: status}
	return rec, NewExecutionMachine(rec, fixedClock)
}

func isInvalidTransition(t *testing.T, err error) {
	require.True(t, errors.Is(err, wferrors.ErrInvalidTransition), "ожидалась ошибка перехода, получено: %v", err)
}

var allInstanceStatuses = []models.CandidateWorkflowStatus{
	models.CWStatusNotStarted,
	models.CWStatusInProgress,
	models.CWStatusOnHold,
	models.CWStatusCompleted,
	models.CWStatusFailed,
	models.CWStatusWithdrawn,
}

var allExecutionStatuses = []models.ExecutionStatus{
	models.ExecutionPending,
	models.ExecutionScheduled,
	models.ExecutionInProgress,
	models.ExecutionCompleted,
	models.ExecutionFailed,
	models.ExecutionSkipped,
}

func TestInstanceMachine(t *testing.T) {
	t.Run(`Start check`, func(t *testing.T) {
		rec, m := newInstance(models.CWStatusNotStarted)
		require.Nil(t, m.Start("n1"))
		require.Equal(t, models.CWStatusInProgress, rec.Status)
		require.Equal(t, "n1", *rec.CurrentNodeID)
		require.Equal(t, fixedNow, *rec.StartedAt)

		isInvalidTransition(t, m.Start("n1"))

		_, m = newInstance(models.CWStatusNotStarted)
		require.True(t, errors.Is(m.Start(""), wferrors.ErrInvalidArgument))
	})

	t.Run(`AdvanceTo check`, func(t *testing.T) {
		rec, m := newInstance(models.CWStatusNotStarted)
		require.Nil(t, m.Start("n1"))
		next := "n2"
		require.Nil(t, m.AdvanceTo(&next))
		require.Equal(t, "n2", *rec.CurrentNodeID)
		require.Nil(t, m.AdvanceTo(nil))
		require.Nil(t, rec.CurrentNodeID)

		for _, status := range allInstanceStatuses {
			if status == models.CWStatusInProgress {
				continue
			}
			_, m := newInstance(status)
			isInvalidTransition(t, m.AdvanceTo(&next))
		}
	})

	t.Run(`terminal transitions check`, func(t *testing.T) {
		score := 87.5
		for _, from := range []models.CandidateWorkflowStatus{models.CWStatusInProgress, models.CWStatusOnHold} {
			rec, m := newInstance(from)
			node := "n3"
			rec.CurrentNodeID = &node
			require.Nil(t, m.Complete("hired", &score, "оффер принят"))
			require.Equal(t, models.CWStatusCompleted, rec.Status)
			require.Equal(t, "hired", rec.FinalResult)
			require.Equal(t, score, *rec.OverallScore)
			require.Equal(t, fixedNow, *rec.CompletedAt)
			require.Equal(t, "n3", *rec.CurrentNodeID)

			rec, m = newInstance(from)
			rec.CurrentNodeID = &node
			require.Nil(t, m.Fail("не прошел тест", nil))
			require.Equal(t, models.CWStatusFailed, rec.Status)
			require.Equal(t, "n3", *rec.FailedAtNodeID)
			require.Equal(t, fixedNow, *rec.FailedAt)

			rec, m = newInstance(from)
			require.Nil(t, m.Withdraw("принял другой оффер"))
			require.Equal(t, models.CWStatusWithdrawn, rec.Status)
			require.Equal(t, "принял другой оффер", rec.WithdrawalReason)
		}

		for _, from := range []models.CandidateWorkflowStatus{models.CWStatusNotStarted, models.CWStatusCompleted, models.CWStatusFailed, models.CWStatusWithdrawn} {
			_, m := newInstance(from)
			isInvalidTransition(t, m.Complete("hired", nil, ""))
			isInvalidTransition(t, m.Fail("", nil))
			isInvalidTransition(t, m.Withdraw(""))
		}
	})

	t.Run(`hold and resume check`, func(t *testing.T) {
		rec, m := newInstance(models.CWStatusInProgress)
		require.Nil(t, m.Hold())
		require.Equal(t, models.CWStatusOnHold, rec.Status)
		require.NotNil(t, rec.OnHoldAt)
		isInvalidTransition(t, m.Hold())
		require.Nil(t, m.Resume())
		require.Equal(t, models.CWStatusInProgress, rec.Status)
		require.Nil(t, rec.OnHoldAt)
		isInvalidTransition(t, m.Resume())

		_, m = newInstance(models.CWStatusNotStarted)
		isInvalidTransition(t, m.Hold())
	})

	t.Run(`AssignRecruiter check`, func(t *testing.T) {
		for _, status := range allInstanceStatuses {
			rec, m := newInstance(status)
			err := m.AssignRecruiter("r1")
			if status.IsTerminal() {
				isInvalidTransition(t, err)
				assert.Nil(t, rec.AssignedRecruiterID)
				continue
			}
			require.Nil(t, err)
			require.Equal(t, "r1", *rec.AssignedRecruiterID)
			require.Equal(t, fixedNow, *rec.AssignedAt)
			require.Equal(t, status, rec.Status)
		}
	})
}

func TestExecutionMachine(t *testing.T) {
	t.Run(`happy path check`, func(t *testing.T) {
		rec, m := newExecution(models.ExecutionPending)
		due := fixedNow.Add(72 * time.Hour)
		require.Nil(t, m.Schedule(&due))
		require.Equal(t, models.ExecutionScheduled, rec.Status)
		require.Equal(t, due, *rec.DueDate)

		require.Nil(t, m.Start("u1"))
		require.Equal(t, models.ExecutionInProgress, rec.Status)
		require.Equal(t, "u1", *rec.AssignedTo)

		score := 91.0
		require.Nil(t, m.Complete(CompleteData{
			Result:        "pass",
			CompletedBy:   "u1",
			Score:         &score,
			Feedback:      "сильный кандидат",
			ExecutionData: map[string]any{"questions": 12},
		}))
		require.Equal(t, models.ExecutionCompleted, rec.Status)
		require.Equal(t, "pass", rec.Result)
		require.Equal(t, "u1", *rec.CompletedBy)
		require.Equal(t, fixedNow, *rec.CompletedAt)
		require.Equal(t, 12, rec.ExecutionData["questions"])

		require.Nil(t, m.Review("lead"))
		require.Equal(t, "lead", *rec.ReviewedBy)
	})

	t.Run(`start from pending check`, func(t *testing.T) {
		rec, m := newExecution(models.ExecutionPending)
		require.Nil(t, m.Start(""))
		require.Nil(t, rec.AssignedTo)
		require.NotNil(t, rec.StartedAt)
	})

	t.Run(`invalid transitions check`, func(t *testing.T) {
		for _, status := range allExecutionStatuses {
			_, m := newExecution(status)
			if status != models.ExecutionPending {
				isInvalidTransition(t, m.Schedule(nil))
			}
			if status != models.ExecutionPending && status != models.ExecutionScheduled {
				isInvalidTransition(t, m.Start(""))
			}
			if status != models.ExecutionInProgress {
				isInvalidTransition(t, m.Complete(CompleteData{Result: "pass", CompletedBy: "u1"}))
			}
			if status.IsTerminal() {
				isInvalidTransition(t, m.Fail("u1", ""))
				isInvalidTransition(t, m.Skip(true, "u1", ""))
			} else {
				isInvalidTransition(t, m.Review("lead"))
			}
		}
	})

	t.Run(`fail and skip check`, func(t *testing.T) {
		for _, status := range []models.ExecutionStatus{models.ExecutionPending, models.ExecutionScheduled, models.ExecutionInProgress} {
			rec, m := newExecution(status)
			require.Nil(t, m.Fail("u1", "не явился"))
			require.Equal(t, models.ExecutionFailed, rec.Status)
			require.Equal(t, "не явился", rec.Reason)

			rec, m = newExecution(status)
			isInvalidTransition(t, m.Skip(false, "u1", ""))
			require.Equal(t, status, rec.Status)
			require.Nil(t, m.Skip(true, "u1", "не требуется"))
			require.Equal(t, models.ExecutionSkipped, rec.Status)
		}
	})

	t.Run(`links check`, func(t *testing.T) {
		for _, status := range allExecutionStatuses {
			rec, m := newExecution(status)
			require.Nil(t, m.LinkInterview("i1"))
			require.Nil(t, m.LinkTodo("t1"))
			require.Equal(t, "i1", *rec.InterviewID)
			require.Equal(t, "t1", *rec.TodoID)
			require.Equal(t, status, rec.Status)
		}
		_, m := newExecution(models.ExecutionPending)
		require.True(t, errors.Is(m.LinkTodo(""), wferrors.ErrInvalidArgument))
	})

	t.Run(`IsOverdue check`, func(t *testing.T) {
		past := fixedNow.Add(-time.Hour)
		future := fixedNow.Add(time.Hour)
		require.True(t, IsOverdue(dbmodels.NodeExecution{Status: models.ExecutionPending, DueDate: &past}, fixedNow))
		require.False(t, IsOverdue(dbmodels.NodeExecution{Status: models.ExecutionPending, DueDate: &future}, fixedNow))
		require.False(t, IsOverdue(dbmodels.NodeExecution{Status: models.ExecutionCompleted, DueDate: &past}, fixedNow))
		require.False(t, IsOverdue(dbmodels.NodeExecution{Status: models.ExecutionInProgress}, fixedNow))
	})
}
