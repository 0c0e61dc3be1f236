package workflowhistoryhandler

import (
	"context"
	"fmt"
	"hr-workflow-backend/db"
	workflowhistorystore "hr-workflow-backend/lib/workflow-history/store"
	"hr-workflow-backend/lib/workflow/events"
	apimodels "hr-workflow-backend/models/api"
	workflowapimodels "hr-workflow-backend/models/api/workflow"
	dbmodels "hr-workflow-backend/models/db"
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	List(spaceID, candidateWorkflowID string, page apimodels.Pagination) ([]workflowapimodels.HistoryView, int64, error)
	// HandleEvent обработчик шины событий, пишет событие в журнал процесса кандидата
	HandleEvent(ctx context.Context, event events.Event) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: workflowhistorystore.NewInstance(db.DB),
	}
}

type impl struct {
	store workflowhistorystore.Provider
}

func (i impl) List(spaceID, candidateWorkflowID string, page apimodels.Pagination) ([]workflowapimodels.HistoryView, int64, error) {
	rowCount, err := i.store.ListCount(spaceID, candidateWorkflowID)
	if err != nil {
		return nil, 0, err
	}

	p, limit := page.GetPage()
	offset := (p - 1) * limit
	if int64(offset) > rowCount {
		return []workflowapimodels.HistoryView{}, rowCount, nil
	}

	list, err := i.store.List(spaceID, candidateWorkflowID, page)
	if err != nil {
		log.WithError(err).Error("ошибка получения журнала процесса кандидата")
		return nil, 0, errors.New("ошибка получения журнала процесса кандидата")
	}
	result := make([]workflowapimodels.HistoryView, 0, len(list))
	for _, rec := range list {
		result = append(result, workflowapimodels.HistoryConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) HandleEvent(ctx context.Context, event events.Event) error {
	rec, ok := historyRecord(event)
	if !ok {
		return nil
	}
	logger := log.
		WithField("space_id", event.SpaceID).
		WithField("candidate_workflow_id", event.CandidateWorkflowID).
		WithField("event_type", event.Type)
	_, err := i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения журнала процесса кандидата")
		return errors.Wrap(err, "ошибка сохранения журнала процесса кандидата")
	}
	return nil
}

var descriptions = map[events.EventType]string{
	events.CandidateWorkflowStarted:   "Процесс запущен",
	events.CandidateWorkflowAdvanced:  "Переход на следующий этап",
	events.CandidateWorkflowCompleted: "Процесс завершен",
	events.CandidateWorkflowFailed:    "Процесс завершен с отказом",
	events.CandidateWorkflowWithdrawn: "Кандидат отозван",
	events.CandidateWorkflowOnHold:    "Процесс приостановлен",
	events.CandidateWorkflowResumed:   "Процесс возобновлен",
	events.NodeReached:                "Кандидат на этапе",
	events.NodeExecutionScheduled:     "Этап запланирован",
	events.NodeExecutionStarted:       "Этап начат",
	events.NodeExecutionCompleted:     "Этап завершен",
	events.NodeExecutionFailed:        "Этап не пройден",
	events.NodeExecutionSkipped:       "Этап пропущен",
	events.NodeExecutionReviewed:      "Результат этапа проверен",
	events.NodeExecutionOverdue:       "Срок этапа истек",
}

// historyRecord запись журнала по событию. События уровня шаблона процесса в журнал не попадают.
func historyRecord(event events.Event) (dbmodels.WorkflowHistory, bool) {
	if event.CandidateWorkflowID == "" {
		return dbmodels.WorkflowHistory{}, false
	}
	description, ok := descriptions[event.Type]
	if !ok {
		description = string(event.Type)
	}
	changes := dbmodels.EntityChanges{
		Description: description,
		Data:        []dbmodels.FieldChanges{},
	}
	if event.Result != "" {
		changes.Data = append(changes.Data, dbmodels.FieldChanges{Field: "result", NewValue: event.Result})
	}
	if event.Reason != "" {
		changes.Data = append(changes.Data, dbmodels.FieldChanges{Field: "reason", NewValue: event.Reason})
	}
	keys := make([]string, 0, len(event.Data))
	for key := range event.Data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		changes.Data = append(changes.Data, dbmodels.FieldChanges{Field: key, NewValue: fmt.Sprint(event.Data[key])})
	}

	rec := dbmodels.WorkflowHistory{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: event.SpaceID,
		},
		CandidateWorkflowID: event.CandidateWorkflowID,
		WorkflowID:          event.WorkflowID,
		EventType:           string(event.Type),
		UserID:              event.UserID,
		Changes:             changes,
	}
	if event.NodeID != "" {
		nodeID := event.NodeID
		rec.NodeID = &nodeID
	}
	if !event.OccurredAt.IsZero() {
		rec.CreatedAt = event.OccurredAt
	}
	return rec, true
}
