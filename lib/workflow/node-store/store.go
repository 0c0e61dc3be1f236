package nodestore

import (
	"hr-workflow-backend/lib/workflow/graph"
	"hr-workflow-backend/lib/workflow/wferrors"
	dbmodels "hr-workflow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.WorkflowNode) (id string, err error)
	Update(workflowID, id string, updMap map[string]interface{}) error
	GetByID(workflowID, id string) (*dbmodels.WorkflowNode, error)
	GetForUpdate(workflowID, id string) (*dbmodels.WorkflowNode, error)
	GetForShare(id string) (*dbmodels.WorkflowNode, error)
	List(workflowID string) (list []dbmodels.WorkflowNode, err error)
	Delete(workflowID, id string) error
	ApplySequence(workflowID string, plan []graph.SequenceUpdate) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.WorkflowNode) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", wferrors.FromDB(err, wferrors.ErrConstraintConflict)
	}
	return rec.ID, nil
}

func (i impl) Update(workflowID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.WorkflowNode{}).
		Where("id = ?", id).
		Where("workflow_id = ?", workflowID).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) get(tx *gorm.DB, id string) (*dbmodels.WorkflowNode, error) {
	rec := dbmodels.WorkflowNode{}
	err := tx.
		Model(&dbmodels.WorkflowNode{}).
		Where("id = ?", id).
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

func (i impl) GetByID(workflowID, id string) (*dbmodels.WorkflowNode, error) {
	return i.get(i.db.Where("workflow_id = ?", workflowID), id)
}

func (i impl) GetForUpdate(workflowID, id string) (*dbmodels.WorkflowNode, error) {
	return i.get(i.db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("workflow_id = ?", workflowID), id)
}

// GetForShare этап не может быть удален, пока транзакция не завершена
func (i impl) GetForShare(id string) (*dbmodels.WorkflowNode, error) {
	return i.get(i.db.Clauses(clause.Locking{Strength: "SHARE"}), id)
}

func (i impl) List(workflowID string) (list []dbmodels.WorkflowNode, err error) {
	list = []dbmodels.WorkflowNode{}
	err = i.db.
		Where("workflow_id = ?", workflowID).
		Order("sequence_order").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Delete(workflowID, id string) error {
	err := i.db.
		Where("workflow_id = ?", workflowID).
		Where("id = ?", id).
		Delete(&dbmodels.WorkflowNode{}).
		Error
	if err != nil {
		return err
	}
	return nil
}

// ApplySequence выполнение плана перенумерации одной транзакцией.
// Любая ошибка откатывает весь план, временные номера в БД не остаются.
func (i impl) ApplySequence(workflowID string, plan []graph.SequenceUpdate) error {
	if len(plan) == 0 {
		return nil
	}
	return i.db.Transaction(func(tx *gorm.DB) error {
		for _, update := range plan {
			result := tx.
				Model(&dbmodels.WorkflowNode{}).
				Where("id = ?", update.NodeID).
				Where("workflow_id = ?", workflowID).
				Update("sequence_order", update.SequenceOrder)
			if result.Error != nil {
				return wferrors.FromDB(errors.Wrapf(result.Error, "этап %v", update.NodeID), wferrors.ErrConstraintConflict)
			}
			if result.RowsAffected != 1 {
				return wferrors.NotFound("этап %v", update.NodeID)
			}
		}
		return nil
	})
}
