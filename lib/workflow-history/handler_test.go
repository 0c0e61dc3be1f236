package workflowhistoryhandler

import (
	"context"
	"hr-workflow-backend/lib/workflow/events"
	apimodels "hr-workflow-backend/models/api"
	dbmodels "hr-workflow-backend/models/db"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type storeMock struct {
	created []dbmodels.WorkflowHistory
	list    []dbmodels.WorkflowHistory
	err     error
}

func (s *storeMock) Create(rec dbmodels.WorkflowHistory) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.created = append(s.created, rec)
	return "h1", nil
}

func (s *storeMock) ListCount(spaceID, candidateWorkflowID string) (int64, error) {
	return int64(len(s.list)), nil
}

func (s *storeMock) List(spaceID, candidateWorkflowID string, page apimodels.Pagination) ([]dbmodels.WorkflowHistory, error) {
	return s.list, nil
}

func TestHistoryRecord(t *testing.T) {
	occurred := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run(`failed event check`, func(t *testing.T) {
		rec, ok := historyRecord(events.Event{
			Type:                events.CandidateWorkflowFailed,
			SpaceID:             "s1",
			WorkflowID:          "w1",
			CandidateWorkflowID: "cw1",
			NodeID:              "n2",
			UserID:              "u1",
			Reason:              "не прошел интервью",
			OccurredAt:          occurred,
		})
		require.True(t, ok)
		require.Equal(t, "s1", rec.SpaceID)
		require.Equal(t, "cw1", rec.CandidateWorkflowID)
		require.Equal(t, "w1", rec.WorkflowID)
		require.NotNil(t, rec.NodeID)
		require.Equal(t, "n2", *rec.NodeID)
		require.Equal(t, "candidate_workflow.failed", rec.EventType)
		require.Equal(t, "Процесс завершен с отказом", rec.Changes.Description)
		require.Equal(t, []dbmodels.FieldChanges{{Field: "reason", NewValue: "не прошел интервью"}}, rec.Changes.Data)
		require.Equal(t, occurred, rec.CreatedAt)
	})

	t.Run(`execution data check`, func(t *testing.T) {
		rec, ok := historyRecord(events.Event{
			Type:                events.NodeExecutionCompleted,
			CandidateWorkflowID: "cw1",
			Result:              "pass",
			Data:                map[string]any{"score": 80, "due_date": "2024-03-02"},
		})
		require.True(t, ok)
		require.Nil(t, rec.NodeID)
		require.Equal(t, []dbmodels.FieldChanges{
			{Field: "result", NewValue: "pass"},
			{Field: "due_date", NewValue: "2024-03-02"},
			{Field: "score", NewValue: "80"},
		}, rec.Changes.Data)
	})

	t.Run(`workflow event skipped check`, func(t *testing.T) {
		_, ok := historyRecord(events.Event{Type: events.WorkflowActivated, WorkflowID: "w1"})
		require.False(t, ok)
	})
}

func TestHandleEvent(t *testing.T) {
	t.Run(`save check`, func(t *testing.T) {
		store := &storeMock{}
		h := impl{store: store}
		err := h.HandleEvent(context.Background(), events.Event{Type: events.CandidateWorkflowStarted, CandidateWorkflowID: "cw1"})
		require.Nil(t, err)
		require.Len(t, store.created, 1)
		require.Equal(t, "Процесс запущен", store.created[0].Changes.Description)

		err = h.HandleEvent(context.Background(), events.Event{Type: events.WorkflowArchived, WorkflowID: "w1"})
		require.Nil(t, err)
		require.Len(t, store.created, 1)
	})

	t.Run(`store error check`, func(t *testing.T) {
		h := impl{store: &storeMock{err: errors.New("db down")}}
		err := h.HandleEvent(context.Background(), events.Event{Type: events.CandidateWorkflowStarted, CandidateWorkflowID: "cw1"})
		require.NotNil(t, err)
	})

	t.Run(`list offset check`, func(t *testing.T) {
		h := impl{store: &storeMock{list: []dbmodels.WorkflowHistory{{EventType: "candidate_workflow.started"}}}}
		list, count, err := h.List("s1", "cw1", apimodels.Pagination{Page: 3, Limit: 10})
		require.Nil(t, err)
		require.Equal(t, int64(1), count)
		require.Len(t, list, 0)

		list, _, err = h.List("s1", "cw1", apimodels.Pagination{})
		require.Nil(t, err)
		require.Len(t, list, 1)
	})
}
