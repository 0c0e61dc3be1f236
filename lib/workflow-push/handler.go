package workflowpushhandler

import (
	"context"
	"hr-workflow-backend/db"
	candidateworkflowstore "hr-workflow-backend/lib/candidate-workflow/store"
	"hr-workflow-backend/lib/workflow/events"
	connectionhub "hr-workflow-backend/lib/ws/hub/connection-hub"
	wsmodels "hr-workflow-backend/models/ws"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Provider уведомления назначенному рекрутеру об изменениях процесса кандидата
type Provider interface {
	HandleEvent(ctx context.Context, event events.Event) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: candidateworkflowstore.NewInstance(db.DB),
		hub:   connectionhub.Instance,
	}
}

type impl struct {
	store candidateworkflowstore.Provider
	hub   connectionhub.Provider
}

var eventTitles = map[events.EventType]string{
	events.CandidateWorkflowStarted:   "Кандидат начал процесс найма",
	events.CandidateWorkflowAdvanced:  "Кандидат переведен на следующий этап",
	events.CandidateWorkflowCompleted: "Кандидат завершил процесс найма",
	events.CandidateWorkflowFailed:    "Кандидат не прошел процесс найма",
	events.CandidateWorkflowWithdrawn: "Кандидат отозван из процесса найма",
	events.CandidateWorkflowOnHold:    "Процесс кандидата приостановлен",
	events.CandidateWorkflowResumed:   "Процесс кандидата возобновлен",
	events.NodeExecutionScheduled:     "Этап кандидата запланирован",
	events.NodeExecutionStarted:       "Начат этап кандидата",
	events.NodeExecutionCompleted:     "Этап кандидата завершен",
	events.NodeExecutionFailed:        "Кандидат не прошел этап",
	events.NodeExecutionSkipped:       "Этап кандидата пропущен",
	events.NodeExecutionReviewed:      "Этап кандидата проверен",
	events.NodeExecutionOverdue:       "Просрочен этап кандидата",
}

func (i impl) HandleEvent(ctx context.Context, event events.Event) error {
	if !isRecruiterEvent(event.Type) || event.CandidateWorkflowID == "" {
		return nil
	}
	rec, err := i.store.GetByID(event.SpaceID, event.CandidateWorkflowID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения процесса кандидата")
	}
	if rec == nil || rec.AssignedRecruiterID == nil || *rec.AssignedRecruiterID == "" {
		return nil
	}
	i.hub.SendMessage(pushMessage(*rec.AssignedRecruiterID, event))
	return nil
}

func isRecruiterEvent(eventType events.EventType) bool {
	return strings.HasPrefix(string(eventType), "candidate_workflow.") ||
		strings.HasPrefix(string(eventType), "node_execution.")
}

func pushMessage(userID string, event events.Event) wsmodels.ServerMessage {
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	text, ok := eventTitles[event.Type]
	if !ok {
		text = string(event.Type)
	}
	if event.Reason != "" {
		text += ": " + event.Reason
	}
	return wsmodels.ServerMessage{
		ToUserID:            userID,
		Time:                occurredAt.Format("02.01.2006 15:04:05"),
		Code:                string(event.Type),
		Msg:                 text,
		CandidateWorkflowID: event.CandidateWorkflowID,
		ExecutionID:         event.ExecutionID,
	}
}
