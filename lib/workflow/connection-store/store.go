package connectionstore

import (
	"hr-workflow-backend/lib/workflow/wferrors"
	dbmodels "hr-workflow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.NodeConnection) (id string, err error)
	GetByID(workflowID, id string) (*dbmodels.NodeConnection, error)
	List(workflowID string) (list []dbmodels.NodeConnection, err error)
	Delete(workflowID, id string) error
	DeleteByNode(workflowID, nodeID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.NodeConnection) (id string, err error) {
	err = i.db.
		Omit("SourceNode", "TargetNode").
		Create(&rec).
		Error
	if err != nil {
		return "", wferrors.FromDB(err, wferrors.ErrDuplicateConnection)
	}
	return rec.ID, nil
}

func (i impl) GetByID(workflowID, id string) (*dbmodels.NodeConnection, error) {
	rec := dbmodels.NodeConnection{}
	err := i.db.
		Model(&dbmodels.NodeConnection{}).
		Where("id = ?", id).
		Where("workflow_id = ?", workflowID).
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

// List связи процесса в порядке добавления
func (i impl) List(workflowID string) (list []dbmodels.NodeConnection, err error) {
	list = []dbmodels.NodeConnection{}
	err = i.db.
		Where("workflow_id = ?", workflowID).
		Order("ordinal").
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
		Delete(&dbmodels.NodeConnection{}).
		Error
	if err != nil {
		return err
	}
	return nil
}

// DeleteByNode удаление всех входящих и исходящих связей этапа
func (i impl) DeleteByNode(workflowID, nodeID string) error {
	err := i.db.
		Where("workflow_id = ?", workflowID).
		Where("source_node_id = ? OR target_node_id = ?", nodeID, nodeID).
		Delete(&dbmodels.NodeConnection{}).
		Error
	if err != nil {
		return err
	}
	return nil
}
