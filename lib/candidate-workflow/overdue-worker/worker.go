package overdueworker

import (
	"context"
	"hr-workflow-backend/config"
	"hr-workflow-backend/db"
	executionstore "hr-workflow-backend/lib/candidate-workflow/execution-store"
	candidateworkflowstore "hr-workflow-backend/lib/candidate-workflow/store"
	baseworker "hr-workflow-backend/lib/utils/base-worker"
	"hr-workflow-backend/lib/utils/helpers"
	"hr-workflow-backend/lib/workflow/events"
	dbmodels "hr-workflow-backend/models/db"
	"time"
)

const batchSize = 100

func StartWorker(ctx context.Context) {
	interval := time.Duration(config.Conf.Workflow.OverdueCheckIntervalMin) * time.Minute
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	i := &impl{
		BaseImpl:       *baseworker.NewInstance("OverdueExecutionWorker", 30*time.Second, interval),
		executionStore: executionstore.NewInstance(db.DB),
		store:          candidateworkflowstore.NewInstance(db.DB),
		publisher:      events.Instance,
		now:            time.Now,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	executionStore executionstore.Provider
	store          candidateworkflowstore.Provider
	publisher      events.Publisher
	now            func() time.Time
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	now := i.now()
	list, err := i.executionStore.ListOverdue(now, batchSize)
	if err != nil {
		logger.WithError(err).Error("Ошибка получения списка просроченных этапов")
		return
	}
	for _, execution := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		i.publisher.Publish(ctx, i.overdueEvent(execution))
		err = i.executionStore.MarkOverdueNotified(execution.ID, now)
		if err != nil {
			logger.
				WithError(err).
				WithField("space_id", execution.SpaceID).
				WithField("execution_id", execution.ID).
				Error("Ошибка отметки оповещения о просроченном этапе")
		}
	}
}

func (i impl) overdueEvent(execution dbmodels.NodeExecution) events.Event {
	event := events.Event{
		Type:                events.NodeExecutionOverdue,
		SpaceID:             execution.SpaceID,
		CandidateWorkflowID: execution.CandidateWorkflowID,
		NodeID:              execution.NodeID,
		ExecutionID:         execution.ID,
	}
	if execution.AssignedTo != nil {
		event.UserID = *execution.AssignedTo
	}
	if execution.DueDate != nil {
		event.Data = map[string]any{"due_date": execution.DueDate.Format(time.RFC3339)}
	}
	if execution.Node != nil {
		event.WorkflowID = execution.Node.WorkflowID
		event.NodeType = execution.Node.NodeType
	}
	rec, err := i.store.GetByID(execution.SpaceID, execution.CandidateWorkflowID)
	if err != nil {
		i.GetLogger().
			WithError(err).
			WithField("candidate_workflow_id", execution.CandidateWorkflowID).
			Warn("Не удалось получить процесс кандидата для оповещения")
	}
	if rec != nil {
		event.CandidateID = rec.CandidateID
	}
	return event
}
