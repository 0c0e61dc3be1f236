package workflowhistorystore

import (
	apimodels "hr-workflow-backend/models/api"
	dbmodels "hr-workflow-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.WorkflowHistory) (id string, err error)
	ListCount(spaceID, candidateWorkflowID string) (count int64, err error)
	List(spaceID, candidateWorkflowID string, page apimodels.Pagination) (list []dbmodels.WorkflowHistory, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.WorkflowHistory) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) ListCount(spaceID, candidateWorkflowID string) (count int64, err error) {
	var rowCount int64
	err = i.db.
		Model(dbmodels.WorkflowHistory{}).
		Where("space_id = ?", spaceID).
		Where("candidate_workflow_id = ?", candidateWorkflowID).
		Count(&rowCount).
		Error
	if err != nil {
		log.WithError(err).Error("ошибка получения общего количества событий процесса кандидата")
		return 0, errors.New("ошибка получения общего количества событий процесса кандидата")
	}
	return rowCount, nil
}

func (i impl) List(spaceID, candidateWorkflowID string, page apimodels.Pagination) (list []dbmodels.WorkflowHistory, err error) {
	list = []dbmodels.WorkflowHistory{}
	tx := i.db.
		Model(dbmodels.WorkflowHistory{}).
		Where("space_id = ?", spaceID).
		Where("candidate_workflow_id = ?", candidateWorkflowID)
	p, limit := page.GetPage()
	i.setPage(tx, p, limit)
	err = tx.Order("created_at").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) setPage(tx *gorm.DB, page, limit int) {
	offset := (page - 1) * limit
	tx.Limit(limit).Offset(offset)
}
