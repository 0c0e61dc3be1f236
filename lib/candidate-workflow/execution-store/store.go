package executionstore

import (
	"hr-workflow-backend/lib/workflow/wferrors"
	"hr-workflow-backend/models"
	dbmodels "hr-workflow-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.NodeExecution) (id string, err error)
	GetByID(spaceID, id string) (*dbmodels.NodeExecution, error)
	GetForUpdate(spaceID, id string) (*dbmodels.NodeExecution, error)
	GetByNode(candidateWorkflowID, nodeID string) (*dbmodels.NodeExecution, error)
	Save(rec *dbmodels.NodeExecution) error
	List(candidateWorkflowID string) (list []dbmodels.NodeExecution, err error)
	CountByNode(nodeID string) (count int64, err error)
	ListOverdue(now time.Time, limit int) (list []dbmodels.NodeExecution, err error)
	MarkOverdueNotified(id string, at time.Time) error
	StatsRows(spaceID, workflowID string) (list []dbmodels.ExecutionWithNode, err error)
	ListOpenAssigned(spaceID string) (list []dbmodels.NodeExecution, err error)
	LinkedIDsByWorkflow(spaceID, workflowID string) (interviewIDs, todoIDs []string, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.NodeExecution) (id string, err error) {
	err = i.db.
		Omit("Node").
		Create(&rec).
		Error
	if err != nil {
		return "", wferrors.FromDB(err, wferrors.ErrAlreadyExists)
	}
	return rec.ID, nil
}

func (i impl) get(tx *gorm.DB) (*dbmodels.NodeExecution, error) {
	rec := dbmodels.NodeExecution{}
	err := tx.
		Model(&dbmodels.NodeExecution{}).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.NodeExecution, error) {
	return i.get(i.db.
		Preload("Node").
		Where("id = ?", id).
		Where("space_id = ?", spaceID))
}

func (i impl) GetForUpdate(spaceID, id string) (*dbmodels.NodeExecution, error) {
	rec, err := i.get(i.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID))
	if err != nil || rec == nil {
		return rec, err
	}
	node := dbmodels.WorkflowNode{}
	err = i.db.Where("id = ?", rec.NodeID).First(&node).Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения этапа выполнения")
	}
	rec.Node = &node
	return rec, nil
}

func (i impl) GetByNode(candidateWorkflowID, nodeID string) (*dbmodels.NodeExecution, error) {
	return i.get(i.db.
		Where("candidate_workflow_id = ?", candidateWorkflowID).
		Where("node_id = ?", nodeID))
}

func (i impl) Save(rec *dbmodels.NodeExecution) error {
	return i.db.
		Omit("Node").
		Save(rec).
		Error
}

func (i impl) List(candidateWorkflowID string) (list []dbmodels.NodeExecution, err error) {
	list = []dbmodels.NodeExecution{}
	err = i.db.
		Preload("Node").
		Where("candidate_workflow_id = ?", candidateWorkflowID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CountByNode(nodeID string) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.NodeExecution{}).
		Where("node_id = ?", nodeID).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListOverdue незавершенные выполнения с истекшим сроком, о которых еще не оповещали
func (i impl) ListOverdue(now time.Time, limit int) (list []dbmodels.NodeExecution, err error) {
	list = []dbmodels.NodeExecution{}
	err = i.db.
		Preload("Node").
		Where("status in (?)", models.OpenExecutionStatuses).
		Where("due_date < ?", now).
		Where("overdue_notified_at is null").
		Order("due_date").
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) MarkOverdueNotified(id string, at time.Time) error {
	return i.db.
		Model(&dbmodels.NodeExecution{}).
		Where("id = ?", id).
		Update("overdue_notified_at", at).
		Error
}

// StatsRows выполнения вместе с данными этапа, workflowID пустой - по всему пространству
func (i impl) StatsRows(spaceID, workflowID string) (list []dbmodels.ExecutionWithNode, err error) {
	list = []dbmodels.ExecutionWithNode{}
	tx := i.db.
		Table("node_executions").
		Select("node_executions.*, workflow_nodes.workflow_id, workflow_nodes.title as node_title, workflow_nodes.node_type").
		Joins("join workflow_nodes on workflow_nodes.id = node_executions.node_id").
		Where("node_executions.space_id = ?", spaceID)
	if workflowID != "" {
		tx = tx.Where("workflow_nodes.workflow_id = ?", workflowID)
	}
	err = tx.
		Order("workflow_nodes.sequence_order").
		Scan(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListOpenAssigned(spaceID string) (list []dbmodels.NodeExecution, err error) {
	list = []dbmodels.NodeExecution{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("status in (?)", models.OpenExecutionStatuses).
		Where("assigned_to is not null").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// LinkedIDsByWorkflow ид интервью и задач, привязанных к незавершенным этапам процесса
func (i impl) LinkedIDsByWorkflow(spaceID, workflowID string) (interviewIDs, todoIDs []string, err error) {
	list := []dbmodels.NodeExecution{}
	err = i.db.
		Model(&dbmodels.NodeExecution{}).
		Joins("join candidate_workflows on candidate_workflows.id = node_executions.candidate_workflow_id").
		Where("candidate_workflows.workflow_id = ?", workflowID).
		Where("node_executions.space_id = ?", spaceID).
		Where("node_executions.status in (?)", models.OpenExecutionStatuses).
		Where("node_executions.interview_id is not null or node_executions.todo_id is not null").
		Find(&list).
		Error
	if err != nil {
		return nil, nil, err
	}
	interviewIDs = []string{}
	todoIDs = []string{}
	for _, rec := range list {
		if rec.InterviewID != nil {
			interviewIDs = append(interviewIDs, *rec.InterviewID)
		}
		if rec.TodoID != nil {
			todoIDs = append(todoIDs, *rec.TodoID)
		}
	}
	return interviewIDs, todoIDs, nil
}
