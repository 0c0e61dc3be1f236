package candidateworkflowhandler

import (
	"context"
	"hr-workflow-backend/config"
	"hr-workflow-backend/db"
	executionstore "hr-workflow-backend/lib/candidate-workflow/execution-store"
	candidateworkflowstore "hr-workflow-backend/lib/candidate-workflow/store"
	"hr-workflow-backend/lib/utils/lock"
	"hr-workflow-backend/lib/workflow/events"
	"hr-workflow-backend/lib/workflow/graph"
	"hr-workflow-backend/lib/workflow/nodeconfig"
	"hr-workflow-backend/lib/workflow/state"
	"hr-workflow-backend/lib/workflow/wferrors"
	workflowstore "hr-workflow-backend/lib/workflow/workflow-store"
	"hr-workflow-backend/models"
	workflowapimodels "hr-workflow-backend/models/api/workflow"
	dbmodels "hr-workflow-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(ctx context.Context, spaceID, userID string, data workflowapimodels.CandidateWorkflowData) (id string, err error)
	GetByID(spaceID, id string) (item workflowapimodels.CandidateWorkflowView, err error)
	List(spaceID string, filter workflowapimodels.CandidateWorkflowFilter) (list []workflowapimodels.CandidateWorkflowView, rowCount int64, err error)
	AssignRecruiter(ctx context.Context, spaceID, id, userID, recruiterID string) (item workflowapimodels.CandidateWorkflowView, err error)
	Start(ctx context.Context, spaceID, id, userID string) (item workflowapimodels.CandidateWorkflowView, err error)
	Advance(ctx context.Context, spaceID, id, userID string, nextNodeID *string) (item workflowapimodels.CandidateWorkflowView, err error)
	Complete(ctx context.Context, spaceID, id, userID string, data workflowapimodels.CompleteRequest) (item workflowapimodels.CandidateWorkflowView, err error)
	Fail(ctx context.Context, spaceID, id, userID string, data workflowapimodels.FailRequest) (item workflowapimodels.CandidateWorkflowView, err error)
	Withdraw(ctx context.Context, spaceID, id, userID, reason string) (item workflowapimodels.CandidateWorkflowView, err error)
	Hold(ctx context.Context, spaceID, id, userID string) (item workflowapimodels.CandidateWorkflowView, err error)
	Resume(ctx context.Context, spaceID, id, userID string) (item workflowapimodels.CandidateWorkflowView, err error)
	NextNodes(spaceID, id, result string, score *float64) (list []workflowapimodels.NodeView, err error)
	ExecutionList(spaceID, id string) (list []workflowapimodels.ExecutionView, err error)
	ScheduleExecution(ctx context.Context, spaceID, executionID, userID string, data workflowapimodels.ScheduleRequest) (item workflowapimodels.ExecutionView, err error)
	StartExecution(ctx context.Context, spaceID, executionID, userID string, data workflowapimodels.StartExecutionRequest) (item workflowapimodels.ExecutionView, err error)
	CompleteExecution(ctx context.Context, spaceID, executionID, userID string, data workflowapimodels.CompleteExecutionRequest) (result workflowapimodels.CompleteExecutionResult, err error)
	FailExecution(ctx context.Context, spaceID, executionID, userID, reason string) (item workflowapimodels.ExecutionView, err error)
	SkipExecution(ctx context.Context, spaceID, executionID, userID, reason string) (item workflowapimodels.ExecutionView, err error)
	ReviewExecution(ctx context.Context, spaceID, executionID, userID string) (item workflowapimodels.ExecutionView, err error)
	LinkInterview(ctx context.Context, spaceID, executionID, userID, interviewID string) (item workflowapimodels.ExecutionView, err error)
	LinkTodo(ctx context.Context, spaceID, executionID, userID, todoID string) (item workflowapimodels.ExecutionView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		db:             db.DB,
		stores:         defaultStores,
		store:          candidateworkflowstore.NewInstance(db.DB),
		executionStore: executionstore.NewInstance(db.DB),
		workflowStore:  workflowstore.NewInstance(db.DB),
		lockWait:       time.Duration(config.Conf.Workflow.InstanceLockWaitSec) * time.Second,
	}
}

type impl struct {
	db             *gorm.DB
	stores         txStores
	store          candidateworkflowstore.Provider
	executionStore executionstore.Provider
	workflowStore  workflowstore.Provider
	lockWait       time.Duration
}

func (i impl) Create(ctx context.Context, spaceID, userID string, data workflowapimodels.CandidateWorkflowData) (id string, err error) {
	logger := i.getLogger(spaceID, "", userID).
		WithField("workflow_id", data.WorkflowID).
		WithField("candidate_id", data.CandidateID)
	workflow, err := i.workflowStore.GetByID(spaceID, data.WorkflowID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения процесса")
	}
	if workflow == nil {
		return "", wferrors.NotFound("процесс %v", data.WorkflowID)
	}
	if workflow.Status != models.WorkflowStatusActive {
		return "", wferrors.InvalidTransition("кандидата можно добавить только в активный процесс, статус процесса: %v", workflow.Status)
	}
	rec := dbmodels.CandidateWorkflow{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		CandidateID:     data.CandidateID,
		WorkflowID:      data.WorkflowID,
		WorkflowVersion: workflow.Version,
		Status:          models.CWStatusNotStarted,
	}
	if data.AssignedRecruiterID != "" {
		if err = state.NewInstanceMachine(&rec, nil).AssignRecruiter(data.AssignedRecruiterID); err != nil {
			return "", err
		}
	}
	id, err = i.store.Create(rec)
	if err != nil {
		if errors.Is(err, wferrors.ErrAlreadyExists) {
			return "", errors.Wrap(err, "кандидат уже добавлен в процесс")
		}
		return "", errors.Wrap(err, "ошибка добавления кандидата в процесс")
	}
	logger.WithField("candidate_workflow_id", id).Info("кандидат добавлен в процесс найма")
	return id, nil
}

func (i impl) GetByID(spaceID, id string) (item workflowapimodels.CandidateWorkflowView, err error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		return workflowapimodels.CandidateWorkflowView{}, errors.Wrap(err, "ошибка получения процесса кандидата")
	}
	if rec == nil {
		return workflowapimodels.CandidateWorkflowView{}, wferrors.NotFound("процесс кандидата %v", id)
	}
	return workflowapimodels.CandidateWorkflowConvert(*rec), nil
}

func (i impl) List(spaceID string, filter workflowapimodels.CandidateWorkflowFilter) (list []workflowapimodels.CandidateWorkflowView, rowCount int64, err error) {
	rowCount, err = i.store.ListCount(spaceID, filter)
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []workflowapimodels.CandidateWorkflowView{}, rowCount, nil
	}
	recList, err := i.store.List(spaceID, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка процессов кандидатов")
	}
	list = make([]workflowapimodels.CandidateWorkflowView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, workflowapimodels.CandidateWorkflowConvert(rec))
	}
	return list, rowCount, nil
}

func (i impl) AssignRecruiter(ctx context.Context, spaceID, id, userID, recruiterID string) (item workflowapimodels.CandidateWorkflowView, err error) {
	rec, err := i.withInstance(ctx, spaceID, id, func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow) ([]events.Event, error) {
		return nil, state.NewInstanceMachine(rec, nil).AssignRecruiter(recruiterID)
	})
	if err != nil {
		return workflowapimodels.CandidateWorkflowView{}, err
	}
	i.getLogger(spaceID, id, userID).WithField("recruiter_id", recruiterID).Info("назначен рекрутер процесса кандидата")
	return workflowapimodels.CandidateWorkflowConvert(*rec), nil
}

// Start запуск процесса кандидата с начального этапа с наименьшим порядковым номером
func (i impl) Start(ctx context.Context, spaceID, id, userID string) (item workflowapimodels.CandidateWorkflowView, err error) {
	rec, err := i.withInstance(ctx, spaceID, id, func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow) ([]events.Event, error) {
		workflow, g, err := i.loadGraph(tx, spaceID, rec.WorkflowID)
		if err != nil {
			return nil, err
		}
		if workflow.Status != models.WorkflowStatusActive {
			return nil, wferrors.InvalidTransition("процесс не активен, статус процесса: %v", workflow.Status)
		}
		starts := g.StartNodes()
		if len(starts) == 0 {
			return nil, wferrors.InvalidArgument("в процессе нет начального этапа")
		}
		if err = state.NewInstanceMachine(rec, nil).Start(starts[0].ID); err != nil {
			return nil, err
		}
		reached, err := i.enterNode(tx, rec, starts[0].ID, userID)
		if err != nil {
			return nil, err
		}
		return []events.Event{newEvent(events.CandidateWorkflowStarted, rec, userID), reached}, nil
	})
	if err != nil {
		return workflowapimodels.CandidateWorkflowView{}, err
	}
	i.getLogger(spaceID, id, userID).Info("запущен процесс кандидата")
	return workflowapimodels.CandidateWorkflowConvert(*rec), nil
}

// Advance перевод кандидата на указанный этап; nil - достижимых этапов нет, решение за пользователем
func (i impl) Advance(ctx context.Context, spaceID, id, userID string, nextNodeID *string) (item workflowapimodels.CandidateWorkflowView, err error) {
	rec, err := i.withInstance(ctx, spaceID, id, func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow) ([]events.Event, error) {
		return i.advance(tx, rec, nextNodeID, userID)
	})
	if err != nil {
		return workflowapimodels.CandidateWorkflowView{}, err
	}
	i.getLogger(spaceID, id, userID).Info("процесс кандидата переведен на следующий этап")
	return workflowapimodels.CandidateWorkflowConvert(*rec), nil
}

func (i impl) Complete(ctx context.Context, spaceID, id, userID string, data workflowapimodels.CompleteRequest) (item workflowapimodels.CandidateWorkflowView, err error) {
	rec, err := i.withInstance(ctx, spaceID, id, func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow) ([]events.Event, error) {
		if err := state.NewInstanceMachine(rec, nil).Complete(data.FinalResult, data.Score, data.Notes); err != nil {
			return nil, err
		}
		event := newEvent(events.CandidateWorkflowCompleted, rec, userID)
		event.Result = data.FinalResult
		return []events.Event{event}, nil
	})
	if err != nil {
		return workflowapimodels.CandidateWorkflowView{}, err
	}
	i.getLogger(spaceID, id, userID).Info("процесс кандидата завершен")
	return workflowapimodels.CandidateWorkflowConvert(*rec), nil
}

func (i impl) Fail(ctx context.Context, spaceID, id, userID string, data workflowapimodels.FailRequest) (item workflowapimodels.CandidateWorkflowView, err error) {
	rec, err := i.withInstance(ctx, spaceID, id, func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow) ([]events.Event, error) {
		if err := state.NewInstanceMachine(rec, nil).Fail(data.Reason, data.FailedAtNodeID); err != nil {
			return nil, err
		}
		return []events.Event{failedEvent(rec, userID)}, nil
	})
	if err != nil {
		return workflowapimodels.CandidateWorkflowView{}, err
	}
	i.getLogger(spaceID, id, userID).Info("кандидат не прошел процесс найма")
	return workflowapimodels.CandidateWorkflowConvert(*rec), nil
}

func (i impl) Withdraw(ctx context.Context, spaceID, id, userID, reason string) (item workflowapimodels.CandidateWorkflowView, err error) {
	rec, err := i.withInstance(ctx, spaceID, id, func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow) ([]events.Event, error) {
		if err := state.NewInstanceMachine(rec, nil).Withdraw(reason); err != nil {
			return nil, err
		}
		event := newEvent(events.CandidateWorkflowWithdrawn, rec, userID)
		event.Reason = reason
		return []events.Event{event}, nil
	})
	if err != nil {
		return workflowapimodels.CandidateWorkflowView{}, err
	}
	i.getLogger(spaceID, id, userID).Info("кандидат отозван из процесса найма")
	return workflowapimodels.CandidateWorkflowConvert(*rec), nil
}

func (i impl) Hold(ctx context.Context, spaceID, id, userID string) (item workflowapimodels.CandidateWorkflowView, err error) {
	rec, err := i.withInstance(ctx, spaceID, id, func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow) ([]events.Event, error) {
		if err := state.NewInstanceMachine(rec, nil).Hold(); err != nil {
			return nil, err
		}
		return []events.Event{newEvent(events.CandidateWorkflowOnHold, rec, userID)}, nil
	})
	if err != nil {
		return workflowapimodels.CandidateWorkflowView{}, err
	}
	i.getLogger(spaceID, id, userID).Info("процесс кандидата приостановлен")
	return workflowapimodels.CandidateWorkflowConvert(*rec), nil
}

func (i impl) Resume(ctx context.Context, spaceID, id, userID string) (item workflowapimodels.CandidateWorkflowView, err error) {
	rec, err := i.withInstance(ctx, spaceID, id, func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow) ([]events.Event, error) {
		if err := state.NewInstanceMachine(rec, nil).Resume(); err != nil {
			return nil, err
		}
		return []events.Event{newEvent(events.CandidateWorkflowResumed, rec, userID)}, nil
	})
	if err != nil {
		return workflowapimodels.CandidateWorkflowView{}, err
	}
	i.getLogger(spaceID, id, userID).Info("процесс кандидата возобновлен")
	return workflowapimodels.CandidateWorkflowConvert(*rec), nil
}

// NextNodes этапы, доступные из текущего этапа кандидата при данном результате
func (i impl) NextNodes(spaceID, id, result string, score *float64) (list []workflowapimodels.NodeView, err error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения процесса кандидата")
	}
	if rec == nil {
		return nil, wferrors.NotFound("процесс кандидата %v", id)
	}
	if rec.CurrentNodeID == nil {
		return []workflowapimodels.NodeView{}, nil
	}
	_, g, err := i.loadGraph(i.db, spaceID, rec.WorkflowID)
	if err != nil {
		return nil, err
	}
	next, err := g.NextNodes(*rec.CurrentNodeID, result, score)
	if err != nil {
		return nil, err
	}
	return i.nodeViews(i.db, rec.WorkflowID, next)
}

func (i impl) ExecutionList(spaceID, id string) (list []workflowapimodels.ExecutionView, err error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения процесса кандидата")
	}
	if rec == nil {
		return nil, wferrors.NotFound("процесс кандидата %v", id)
	}
	recList, err := i.executionStore.List(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения этапов кандидата")
	}
	list = make([]workflowapimodels.ExecutionView, 0, len(recList))
	for _, execution := range recList {
		list = append(list, workflowapimodels.ExecutionConvert(execution))
	}
	return list, nil
}

func (i impl) ScheduleExecution(ctx context.Context, spaceID, executionID, userID string, data workflowapimodels.ScheduleRequest) (item workflowapimodels.ExecutionView, err error) {
	execution, err := i.withExecution(ctx, spaceID, executionID, func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow, execution *dbmodels.NodeExecution) ([]events.Event, error) {
		if err := state.NewExecutionMachine(execution, nil).Schedule(data.DueDate); err != nil {
			return nil, err
		}
		return []events.Event{executionEvent(events.NodeExecutionScheduled, rec, execution, userID)}, nil
	})
	if err != nil {
		return workflowapimodels.ExecutionView{}, err
	}
	i.getExecutionLogger(spaceID, execution, userID).Info("этап кандидата запланирован")
	return workflowapimodels.ExecutionConvert(*execution), nil
}

func (i impl) StartExecution(ctx context.Context, spaceID, executionID, userID string, data workflowapimodels.StartExecutionRequest) (item workflowapimodels.ExecutionView, err error) {
	execution, err := i.withExecution(ctx, spaceID, executionID, func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow, execution *dbmodels.NodeExecution) ([]events.Event, error) {
		if rec.Status != models.CWStatusInProgress {
			return nil, wferrors.InvalidTransition("процесс кандидата в статусе %v", rec.Status)
		}
		if err := state.NewExecutionMachine(execution, nil).Start(data.AssignedTo); err != nil {
			return nil, err
		}
		return []events.Event{executionEvent(events.NodeExecutionStarted, rec, execution, userID)}, nil
	})
	if err != nil {
		return workflowapimodels.ExecutionView{}, err
	}
	i.getExecutionLogger(spaceID, execution, userID).Info("начато выполнение этапа кандидата")
	return workflowapimodels.ExecutionConvert(*execution), nil
}

// CompleteExecution завершение этапа и решение о дальнейшем движении кандидата.
// Если этап не текущий для кандидата, процесс кандидата не меняется.
func (i impl) CompleteExecution(ctx context.Context, spaceID, executionID, userID string, data workflowapimodels.CompleteExecutionRequest) (result workflowapimodels.CompleteExecutionResult, err error) {
	var instance *dbmodels.CandidateWorkflow
	decision := DecisionChoose
	nextViews := []workflowapimodels.NodeView{}
	execution, err := i.withExecution(ctx, spaceID, executionID, func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow, execution *dbmodels.NodeExecution) ([]events.Event, error) {
		instance = rec
		if rec.Status != models.CWStatusInProgress {
			return nil, wferrors.InvalidTransition("процесс кандидата в статусе %v", rec.Status)
		}
		err := state.NewExecutionMachine(execution, nil).Complete(state.CompleteData{
			Result:        data.Result,
			CompletedBy:   userID,
			Score:         data.Score,
			Feedback:      data.Feedback,
			ExecutionData: data.ExecutionData,
		})
		if err != nil {
			return nil, err
		}
		completed := executionEvent(events.NodeExecutionCompleted, rec, execution, userID)
		completed.Result = data.Result
		list := []events.Event{completed}

		_, g, err := i.loadGraph(tx, spaceID, rec.WorkflowID)
		if err != nil {
			return nil, err
		}
		next, err := g.NextNodes(execution.NodeID, data.Result, data.Score)
		if err != nil {
			return nil, err
		}
		if nextViews, err = i.nodeViews(tx, rec.WorkflowID, next); err != nil {
			return nil, err
		}
		if rec.CurrentNodeID == nil || *rec.CurrentNodeID != execution.NodeID {
			return list, nil
		}
		node, _ := g.Node(execution.NodeID)
		decision = decideNext(node, len(g.Outgoing(execution.NodeID)), next, data.Result)

		machine := state.NewInstanceMachine(rec, nil)
		switch decision {
		case DecisionCompleted:
			if err = machine.Complete(data.Result, data.Score, ""); err != nil {
				return nil, err
			}
			event := newEvent(events.CandidateWorkflowCompleted, rec, userID)
			event.Result = data.Result
			list = append(list, event)
		case DecisionFailed:
			nodeID := execution.NodeID
			if err = machine.Fail(data.Feedback, &nodeID); err != nil {
				return nil, err
			}
			list = append(list, failedEvent(rec, userID))
		case DecisionAdvanced:
			advanced, err := i.advance(tx, rec, &next[0].ID, userID)
			if err != nil {
				return nil, err
			}
			list = append(list, advanced...)
		case DecisionNone:
			advanced, err := i.advance(tx, rec, nil, userID)
			if err != nil {
				return nil, err
			}
			list = append(list, advanced...)
		}
		return list, nil
	})
	if err != nil {
		return workflowapimodels.CompleteExecutionResult{}, err
	}
	i.getExecutionLogger(spaceID, execution, userID).
		WithField("decision", decision).
		Info("завершен этап кандидата")
	return workflowapimodels.CompleteExecutionResult{
		Execution:         workflowapimodels.ExecutionConvert(*execution),
		CandidateWorkflow: workflowapimodels.CandidateWorkflowConvert(*instance),
		Decision:          string(decision),
		NextNodes:         nextViews,
	}, nil
}

// FailExecution отказ на этапе. Для текущего этапа проверяются связи с условием failure:
// при единственной подходящей связи и автопереходе кандидат переводится по ней,
// иначе процесс кандидата остается в работе и решение за пользователем.
func (i impl) FailExecution(ctx context.Context, spaceID, executionID, userID, reason string) (item workflowapimodels.ExecutionView, err error) {
	execution, err := i.withExecution(ctx, spaceID, executionID, func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow, execution *dbmodels.NodeExecution) ([]events.Event, error) {
		if err := state.NewExecutionMachine(execution, nil).Fail(userID, reason); err != nil {
			return nil, err
		}
		event := executionEvent(events.NodeExecutionFailed, rec, execution, userID)
		event.Reason = reason
		list := []events.Event{event}
		if rec.Status != models.CWStatusInProgress || rec.CurrentNodeID == nil || *rec.CurrentNodeID != execution.NodeID {
			return list, nil
		}
		_, g, err := i.loadGraph(tx, spaceID, rec.WorkflowID)
		if err != nil {
			return nil, err
		}
		next, err := g.NextNodes(execution.NodeID, string(models.ExecutionFailed), nil)
		if err != nil {
			return nil, err
		}
		node, _ := g.Node(execution.NodeID)
		if len(next) != 1 || !node.AutoAdvance {
			return list, nil
		}
		advanced, err := i.advance(tx, rec, &next[0].ID, userID)
		if err != nil {
			return nil, err
		}
		return append(list, advanced...), nil
	})
	if err != nil {
		return workflowapimodels.ExecutionView{}, err
	}
	i.getExecutionLogger(spaceID, execution, userID).Info("кандидат не прошел этап")
	return workflowapimodels.ExecutionConvert(*execution), nil
}

func (i impl) SkipExecution(ctx context.Context, spaceID, executionID, userID, reason string) (item workflowapimodels.ExecutionView, err error) {
	execution, err := i.withExecution(ctx, spaceID, executionID, func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow, execution *dbmodels.NodeExecution) ([]events.Event, error) {
		canSkip := execution.Node != nil && execution.Node.CanSkip
		if err := state.NewExecutionMachine(execution, nil).Skip(canSkip, userID, reason); err != nil {
			return nil, err
		}
		event := executionEvent(events.NodeExecutionSkipped, rec, execution, userID)
		event.Reason = reason
		return []events.Event{event}, nil
	})
	if err != nil {
		return workflowapimodels.ExecutionView{}, err
	}
	i.getExecutionLogger(spaceID, execution, userID).Info("этап кандидата пропущен")
	return workflowapimodels.ExecutionConvert(*execution), nil
}

func (i impl) ReviewExecution(ctx context.Context, spaceID, executionID, userID string) (item workflowapimodels.ExecutionView, err error) {
	execution, err := i.withExecution(ctx, spaceID, executionID, func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow, execution *dbmodels.NodeExecution) ([]events.Event, error) {
		if err := state.NewExecutionMachine(execution, nil).Review(userID); err != nil {
			return nil, err
		}
		return []events.Event{executionEvent(events.NodeExecutionReviewed, rec, execution, userID)}, nil
	})
	if err != nil {
		return workflowapimodels.ExecutionView{}, err
	}
	i.getExecutionLogger(spaceID, execution, userID).Info("выполнение этапа кандидата проверено")
	return workflowapimodels.ExecutionConvert(*execution), nil
}

func (i impl) LinkInterview(ctx context.Context, spaceID, executionID, userID, interviewID string) (item workflowapimodels.ExecutionView, err error) {
	execution, err := i.withExecution(ctx, spaceID, executionID, func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow, execution *dbmodels.NodeExecution) ([]events.Event, error) {
		return nil, state.NewExecutionMachine(execution, nil).LinkInterview(interviewID)
	})
	if err != nil {
		return workflowapimodels.ExecutionView{}, err
	}
	i.getExecutionLogger(spaceID, execution, userID).WithField("interview_id", interviewID).Info("к этапу кандидата привязано интервью")
	return workflowapimodels.ExecutionConvert(*execution), nil
}

func (i impl) LinkTodo(ctx context.Context, spaceID, executionID, userID, todoID string) (item workflowapimodels.ExecutionView, err error) {
	execution, err := i.withExecution(ctx, spaceID, executionID, func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow, execution *dbmodels.NodeExecution) ([]events.Event, error) {
		return nil, state.NewExecutionMachine(execution, nil).LinkTodo(todoID)
	})
	if err != nil {
		return workflowapimodels.ExecutionView{}, err
	}
	i.getExecutionLogger(spaceID, execution, userID).WithField("todo_id", todoID).Info("к этапу кандидата привязана задача")
	return workflowapimodels.ExecutionConvert(*execution), nil
}

// withInstance изменение процесса кандидата под блокировкой по его идентификатору.
// Внутри транзакции строка процесса кандидата перечитывается с блокировкой FOR UPDATE.
// События отправляются только после фиксации транзакции.
func (i impl) withInstance(ctx context.Context, spaceID, id string, fn func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow) ([]events.Event, error)) (*dbmodels.CandidateWorkflow, error) {
	var rec *dbmodels.CandidateWorkflow
	var list []events.Event
	success, err := lock.WithDelay(ctx, "candidate_workflow:"+id, i.lockWait, func() error {
		return i.db.Transaction(func(tx *gorm.DB) error {
			store := i.stores.instances(tx)
			var err error
			rec, err = store.GetForUpdate(spaceID, id)
			if err != nil {
				return errors.Wrap(err, "ошибка получения процесса кандидата")
			}
			if rec == nil {
				return wferrors.NotFound("процесс кандидата %v", id)
			}
			list, err = fn(tx, rec)
			if err != nil {
				return err
			}
			if err = store.Save(rec); err != nil {
				return errors.Wrap(err, "ошибка сохранения процесса кандидата")
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if !success {
		return nil, errors.Wrapf(wferrors.ErrLocked, "процесс кандидата %v", id)
	}
	for _, event := range list {
		events.Instance.Publish(ctx, event)
	}
	return rec, nil
}

// withExecution изменение этапа кандидата под блокировкой процесса кандидата
func (i impl) withExecution(ctx context.Context, spaceID, executionID string, fn func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow, execution *dbmodels.NodeExecution) ([]events.Event, error)) (*dbmodels.NodeExecution, error) {
	current, err := i.executionStore.GetByID(spaceID, executionID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения этапа кандидата")
	}
	if current == nil {
		return nil, wferrors.NotFound("этап кандидата %v", executionID)
	}
	var execution *dbmodels.NodeExecution
	_, err = i.withInstance(ctx, spaceID, current.CandidateWorkflowID, func(tx *gorm.DB, rec *dbmodels.CandidateWorkflow) ([]events.Event, error) {
		store := i.stores.executions(tx)
		var err error
		execution, err = store.GetForUpdate(spaceID, executionID)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка получения этапа кандидата")
		}
		if execution == nil {
			return nil, wferrors.NotFound("этап кандидата %v", executionID)
		}
		list, err := fn(tx, rec, execution)
		if err != nil {
			return nil, err
		}
		if err = store.Save(execution); err != nil {
			return nil, errors.Wrap(err, "ошибка сохранения этапа кандидата")
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return execution, nil
}

func (i impl) advance(tx *gorm.DB, rec *dbmodels.CandidateWorkflow, nextNodeID *string, userID string) ([]events.Event, error) {
	if err := state.NewInstanceMachine(rec, nil).AdvanceTo(nextNodeID); err != nil {
		return nil, err
	}
	advanced := newEvent(events.CandidateWorkflowAdvanced, rec, userID)
	if rec.CurrentNodeID == nil {
		return []events.Event{advanced}, nil
	}
	reached, err := i.enterNode(tx, rec, *rec.CurrentNodeID, userID)
	if err != nil {
		return nil, err
	}
	return []events.Event{advanced, reached}, nil
}

// enterNode создание ожидающего выполнения этапа. Этап читается с блокировкой FOR SHARE,
// удалить его до конца транзакции нельзя.
func (i impl) enterNode(tx *gorm.DB, rec *dbmodels.CandidateWorkflow, nodeID, userID string) (events.Event, error) {
	node, err := i.stores.nodes(tx).GetForShare(nodeID)
	if err != nil {
		return events.Event{}, errors.Wrap(err, "ошибка получения этапа")
	}
	if node == nil || node.WorkflowID != rec.WorkflowID {
		return events.Event{}, wferrors.NotFound("этап %v в процессе %v", nodeID, rec.WorkflowID)
	}
	if node.Status != models.NodeStatusActive {
		return events.Event{}, wferrors.InvalidArgument("этап %v не активен", nodeID)
	}
	store := i.stores.executions(tx)
	existing, err := store.GetByNode(rec.ID, nodeID)
	if err != nil {
		return events.Event{}, errors.Wrap(err, "ошибка получения этапа кандидата")
	}
	if existing != nil {
		if existing.Status.IsTerminal() {
			return events.Event{}, errors.Wrapf(wferrors.ErrAlreadyExists, "кандидат уже прошел этап %v", node.Title)
		}
		existing.Node = node
		return executionEvent(events.NodeReached, rec, existing, userID), nil
	}

	execution := dbmodels.NodeExecution{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: rec.SpaceID,
		},
		CandidateWorkflowID: rec.ID,
		NodeID:              nodeID,
		Status:              models.ExecutionPending,
	}
	cfg, err := nodeconfig.Parse(node.NodeType, node.Config)
	if err != nil {
		return events.Event{}, err
	}
	execution.DueDate = nodeconfig.DueDate(cfg, time.Now())
	execution.ID, err = store.Create(execution)
	if err != nil {
		return events.Event{}, errors.Wrap(err, "ошибка создания этапа кандидата")
	}
	execution.Node = node
	return executionEvent(events.NodeReached, rec, &execution, userID), nil
}

func (i impl) loadGraph(tx *gorm.DB, spaceID, workflowID string) (*dbmodels.Workflow, *graph.Graph, error) {
	workflow, err := i.stores.workflows(tx).GetByID(spaceID, workflowID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения процесса")
	}
	if workflow == nil {
		return nil, nil, wferrors.NotFound("процесс %v", workflowID)
	}
	nodes, err := i.stores.nodes(tx).List(workflowID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения этапов процесса")
	}
	connections, err := i.stores.connections(tx).List(workflowID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения связей процесса")
	}
	g, err := graph.Build(*workflow, nodes, connections)
	if err != nil {
		return nil, nil, err
	}
	return workflow, g, nil
}

func (i impl) nodeViews(tx *gorm.DB, workflowID string, nodes []graph.Node) ([]workflowapimodels.NodeView, error) {
	result := make([]workflowapimodels.NodeView, 0, len(nodes))
	if len(nodes) == 0 {
		return result, nil
	}
	store := i.stores.nodes(tx)
	for _, node := range nodes {
		rec, err := store.GetByID(workflowID, node.ID)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка получения этапа")
		}
		if rec != nil {
			result = append(result, workflowapimodels.NodeConvert(*rec))
		}
	}
	return result, nil
}

func newEvent(eventType events.EventType, rec *dbmodels.CandidateWorkflow, userID string) events.Event {
	event := events.Event{
		Type:                eventType,
		SpaceID:             rec.SpaceID,
		WorkflowID:          rec.WorkflowID,
		CandidateWorkflowID: rec.ID,
		CandidateID:         rec.CandidateID,
		UserID:              userID,
	}
	if rec.CurrentNodeID != nil {
		event.NodeID = *rec.CurrentNodeID
	}
	return event
}

func failedEvent(rec *dbmodels.CandidateWorkflow, userID string) events.Event {
	event := newEvent(events.CandidateWorkflowFailed, rec, userID)
	event.Reason = rec.FailureReason
	if rec.FailedAtNodeID != nil {
		event.NodeID = *rec.FailedAtNodeID
	}
	return event
}

func executionEvent(eventType events.EventType, rec *dbmodels.CandidateWorkflow, execution *dbmodels.NodeExecution, userID string) events.Event {
	event := newEvent(eventType, rec, userID)
	event.NodeID = execution.NodeID
	event.ExecutionID = execution.ID
	if execution.Node != nil {
		event.NodeType = execution.Node.NodeType
	}
	if execution.DueDate != nil {
		event.Data = map[string]any{"due_date": execution.DueDate}
	}
	return event
}

func (i impl) getLogger(spaceID, id, userID string) *log.Entry {
	logger := log.WithField("space_id", spaceID)
	if id != "" {
		logger = logger.WithField("candidate_workflow_id", id)
	}
	if userID != "" {
		logger = logger.WithField("user_id", userID)
	}
	return logger
}

func (i impl) getExecutionLogger(spaceID string, execution *dbmodels.NodeExecution, userID string) *log.Entry {
	return i.getLogger(spaceID, execution.CandidateWorkflowID, userID).
		WithField("execution_id", execution.ID).
		WithField("node_id", execution.NodeID)
}
