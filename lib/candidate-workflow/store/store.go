package candidateworkflowstore

import (
	"hr-workflow-backend/lib/workflow/wferrors"
	"hr-workflow-backend/models"
	workflowapimodels "hr-workflow-backend/models/api/workflow"
	dbmodels "hr-workflow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.CandidateWorkflow) (id string, err error)
	GetByID(spaceID, id string) (*dbmodels.CandidateWorkflow, error)
	GetForUpdate(spaceID, id string) (*dbmodels.CandidateWorkflow, error)
	Save(rec *dbmodels.CandidateWorkflow) error
	List(spaceID string, filter workflowapimodels.CandidateWorkflowFilter) (list []dbmodels.CandidateWorkflow, err error)
	ListCount(spaceID string, filter workflowapimodels.CandidateWorkflowFilter) (count int64, err error)
	StatusList(spaceID, workflowID string) (list []models.CandidateWorkflowStatus, err error)
	CountActiveByWorkflow(spaceID, workflowID string) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.CandidateWorkflow) (id string, err error) {
	err = i.db.
		Omit("Workflow").
		Create(&rec).
		Error
	if err != nil {
		return "", wferrors.FromDB(err, wferrors.ErrAlreadyExists)
	}
	return rec.ID, nil
}

func (i impl) get(tx *gorm.DB, spaceID, id string) (*dbmodels.CandidateWorkflow, error) {
	rec := dbmodels.CandidateWorkflow{}
	err := tx.
		Model(&dbmodels.CandidateWorkflow{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
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

func (i impl) GetByID(spaceID, id string) (*dbmodels.CandidateWorkflow, error) {
	return i.get(i.db.Preload("Workflow"), spaceID, id)
}

// GetForUpdate блокировка строки до конца транзакции, изменения одного прохождения идут последовательно
func (i impl) GetForUpdate(spaceID, id string) (*dbmodels.CandidateWorkflow, error) {
	return i.get(i.db.Clauses(clause.Locking{Strength: "UPDATE"}), spaceID, id)
}

func (i impl) Save(rec *dbmodels.CandidateWorkflow) error {
	return i.db.
		Omit("Workflow").
		Save(rec).
		Error
}

func (i impl) List(spaceID string, filter workflowapimodels.CandidateWorkflowFilter) (list []dbmodels.CandidateWorkflow, err error) {
	list = []dbmodels.CandidateWorkflow{}
	tx := i.db.
		Model(&dbmodels.CandidateWorkflow{}).
		Where("space_id = ?", spaceID)
	i.addFilter(tx, filter)
	page, limit := filter.GetPage()
	i.setPage(tx, page, limit)
	err = tx.
		Preload("Workflow").
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(spaceID string, filter workflowapimodels.CandidateWorkflowFilter) (count int64, err error) {
	tx := i.db.
		Model(&dbmodels.CandidateWorkflow{}).
		Where("space_id = ?", spaceID)
	i.addFilter(tx, filter)
	err = tx.Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "ошибка получения общего количества кандидатов в процессах")
	}
	return count, nil
}

// StatusList статусы всех прохождений процесса, workflowID пустой - по всему пространству
func (i impl) StatusList(spaceID, workflowID string) (list []models.CandidateWorkflowStatus, err error) {
	list = []models.CandidateWorkflowStatus{}
	tx := i.db.
		Model(&dbmodels.CandidateWorkflow{}).
		Where("space_id = ?", spaceID)
	if workflowID != "" {
		tx = tx.Where("workflow_id = ?", workflowID)
	}
	err = tx.Pluck("status", &list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CountActiveByWorkflow(spaceID, workflowID string) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.CandidateWorkflow{}).
		Where("space_id = ?", spaceID).
		Where("workflow_id = ?", workflowID).
		Where("status in (?)", []models.CandidateWorkflowStatus{models.CWStatusInProgress, models.CWStatusOnHold}).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) addFilter(tx *gorm.DB, filter workflowapimodels.CandidateWorkflowFilter) {
	if filter.WorkflowID != "" {
		tx.Where("workflow_id = ?", filter.WorkflowID)
	}
	if filter.CandidateID != "" {
		tx.Where("candidate_id = ?", filter.CandidateID)
	}
	if filter.RecruiterID != "" {
		tx.Where("assigned_recruiter_id = ?", filter.RecruiterID)
	}
	if filter.Status != "" {
		tx.Where("status = ?", filter.Status)
	}
}

func (i impl) setPage(tx *gorm.DB, page, limit int) {
	offset := (page - 1) * limit
	tx.Limit(limit).Offset(offset)
}
