package stats

import (
	"hr-workflow-backend/models"
	dbmodels "hr-workflow-backend/models/db"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

func execRow(nodeID string, status models.ExecutionStatus, minutes int) dbmodels.ExecutionWithNode {
	row := dbmodels.ExecutionWithNode{NodeTitle: "Этап " + nodeID, NodeType: models.NodeTypeInterview}
	row.NodeID = nodeID
	row.Status = status
	if minutes > 0 {
		started := now.Add(-time.Duration(minutes) * time.Minute)
		row.StartedAt = &started
		row.CompletedAt = &now
	}
	return row
}

func assigned(assignee string, status models.ExecutionStatus, due *time.Time) dbmodels.NodeExecution {
	return dbmodels.NodeExecution{AssignedTo: &assignee, Status: status, DueDate: due}
}

func TestFormulas(t *testing.T) {
	t.Run(`formulas check`, func(t *testing.T) {
		require.Equal(t, 0.0, CompletionRate(0, 0))
		require.Equal(t, 75.0, CompletionRate(3, 4))
		require.Equal(t, 55.0, BottleneckScore(30, 75))
		require.Equal(t, 1+2*1.5+3*2.0, WorkloadScore(1, 2, 3))
	})
}

func TestByNode(t *testing.T) {
	t.Run(`ByNode check`, func(t *testing.T) {
		rows := []dbmodels.ExecutionWithNode{
			execRow("a", models.ExecutionCompleted, 30),
			execRow("a", models.ExecutionCompleted, 90),
			execRow("a", models.ExecutionFailed, 0),
			execRow("a", models.ExecutionPending, 0),
			execRow("b", models.ExecutionInProgress, 0),
			execRow("b", models.ExecutionSkipped, 0),
		}
		result := ByNode(rows)
		require.Len(t, result, 2)

		a := result[0]
		require.Equal(t, "a", a.NodeID)
		require.Equal(t, 4, a.Total)
		require.Equal(t, 2, a.Completed)
		require.Equal(t, 1, a.Failed)
		require.Equal(t, 1, a.Pending)
		require.Equal(t, 50.0, a.CompletionRate)
		require.Equal(t, 60.0, a.AvgDurationMinutes)
		require.Equal(t, 110.0, a.BottleneckScore)

		b := result[1]
		require.Equal(t, 1, b.InProgress)
		require.Equal(t, 1, b.Skipped)
		require.Equal(t, 0.0, b.CompletionRate)
		require.Equal(t, 100.0, b.BottleneckScore)

		top := Bottlenecks(result, 1)
		require.Len(t, top, 1)
		require.Equal(t, "a", top[0].NodeID)
		require.Len(t, Bottlenecks(result, 0), 2)
		require.Empty(t, ByNode(nil))
	})
}

func TestWorkload(t *testing.T) {
	t.Run(`WorkloadByAssignee check`, func(t *testing.T) {
		past := now.Add(-24 * time.Hour)
		future := now.Add(24 * time.Hour)
		rows := []dbmodels.NodeExecution{
			assigned("u1", models.ExecutionPending, nil),
			assigned("u1", models.ExecutionScheduled, &future),
			assigned("u1", models.ExecutionCompleted, &past),
			assigned("u2", models.ExecutionInProgress, &past),
			assigned("u2", models.ExecutionInProgress, nil),
			{Status: models.ExecutionPending},
		}
		result := WorkloadByAssignee(rows, now)
		require.Len(t, result, 2)
		require.Equal(t, Workload{AssigneeID: "u2", InProgress: 2, Overdue: 1, Score: 5}, result[0])
		require.Equal(t, Workload{AssigneeID: "u1", Pending: 2, Score: 2}, result[1])
	})
}

func TestSummarize(t *testing.T) {
	t.Run(`Summarize check`, func(t *testing.T) {
		result := Summarize([]models.CandidateWorkflowStatus{
			models.CWStatusCompleted,
			models.CWStatusCompleted,
			models.CWStatusCompleted,
			models.CWStatusFailed,
			models.CWStatusInProgress,
		})
		require.Equal(t, 5, result.Total)
		require.Equal(t, 3, result.ByStatus[models.CWStatusCompleted])
		require.Equal(t, 75.0, result.ConversionRate)

		require.Equal(t, 0.0, Summarize(nil).ConversionRate)
	})
}
