package overdueworker

import (
	"context"
	executionstore "hr-workflow-backend/lib/candidate-workflow/execution-store"
	candidateworkflowstore "hr-workflow-backend/lib/candidate-workflow/store"
	baseworker "hr-workflow-backend/lib/utils/base-worker"
	"hr-workflow-backend/lib/workflow/events"
	"hr-workflow-backend/models"
	dbmodels "hr-workflow-backend/models/db"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type executionStoreMock struct {
	executionstore.Provider
	list     []dbmodels.NodeExecution
	listErr  error
	marked   []string
	markedAt time.Time
}

func (s *executionStoreMock) ListOverdue(now time.Time, limit int) ([]dbmodels.NodeExecution, error) {
	return s.list, s.listErr
}

func (s *executionStoreMock) MarkOverdueNotified(id string, at time.Time) error {
	s.marked = append(s.marked, id)
	s.markedAt = at
	return nil
}

type storeMock struct {
	candidateworkflowstore.Provider
}

func (storeMock) GetByID(spaceID, id string) (*dbmodels.CandidateWorkflow, error) {
	if id == "missing" {
		return nil, nil
	}
	return &dbmodels.CandidateWorkflow{CandidateID: "c-" + id}, nil
}

type publisherMock struct {
	published []events.Event
}

func (p *publisherMock) Publish(ctx context.Context, event events.Event) {
	p.published = append(p.published, event)
}

func TestHandle(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(-time.Hour)
	assignee := "u1"

	t.Run(`publish and mark check`, func(t *testing.T) {
		executions := &executionStoreMock{list: []dbmodels.NodeExecution{
			{
				BaseSpaceModel:      dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "e1"}, SpaceID: "s1"},
				CandidateWorkflowID: "cw1",
				NodeID:              "n1",
				Node:                &dbmodels.WorkflowNode{WorkflowID: "w1", NodeType: models.NodeTypeInterview},
				DueDate:             &due,
				AssignedTo:          &assignee,
			},
			{
				BaseSpaceModel:      dbmodels.BaseSpaceModel{BaseModel: dbmodels.BaseModel{ID: "e2"}, SpaceID: "s1"},
				CandidateWorkflowID: "missing",
				NodeID:              "n2",
			},
		}}
		publisher := &publisherMock{}
		w := impl{
			BaseImpl:       *baseworker.NewInstance("test", 0, time.Minute),
			executionStore: executions,
			store:          storeMock{},
			publisher:      publisher,
			now:            func() time.Time { return now },
		}
		w.handle(context.Background())

		require.Len(t, publisher.published, 2)
		first := publisher.published[0]
		require.Equal(t, events.NodeExecutionOverdue, first.Type)
		require.Equal(t, "w1", first.WorkflowID)
		require.Equal(t, "c-cw1", first.CandidateID)
		require.Equal(t, "u1", first.UserID)
		require.Equal(t, models.NodeTypeInterview, first.NodeType)
		require.Equal(t, due.Format(time.RFC3339), first.Data["due_date"])
		require.Equal(t, "", publisher.published[1].CandidateID)

		require.Equal(t, []string{"e1", "e2"}, executions.marked)
		require.Equal(t, now, executions.markedAt)
	})

	t.Run(`list error check`, func(t *testing.T) {
		executions := &executionStoreMock{listErr: errors.New("db down")}
		publisher := &publisherMock{}
		w := impl{
			BaseImpl:       *baseworker.NewInstance("test", 0, time.Minute),
			executionStore: executions,
			store:          storeMock{},
			publisher:      publisher,
			now:            func() time.Time { return now },
		}
		w.handle(context.Background())
		require.Len(t, publisher.published, 0)
		require.Len(t, executions.marked, 0)
	})
}
