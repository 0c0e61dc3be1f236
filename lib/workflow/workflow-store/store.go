package workflowstore

import (
	"hr-workflow-backend/models"
	workflowapimodels "hr-workflow-backend/models/api/workflow"
	dbmodels "hr-workflow-backend/models/db"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Workflow) (id string, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
	GetByID(spaceID, id string) (*dbmodels.Workflow, error)
	GetForUpdate(spaceID, id string) (*dbmodels.Workflow, error)
	List(spaceID string, filter workflowapimodels.WorkflowFilter) (list []dbmodels.Workflow, err error)
	ListCount(spaceID string, filter workflowapimodels.WorkflowFilter) (count int64, err error)
	BumpVersion(spaceID, id string) error
	Delete(spaceID, id string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Workflow) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Update(spaceID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.Workflow{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) get(tx *gorm.DB, spaceID, id string) (*dbmodels.Workflow, error) {
	rec := dbmodels.Workflow{}
	err := tx.
		Model(&dbmodels.Workflow{}).
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

func (i impl) GetByID(spaceID, id string) (*dbmodels.Workflow, error) {
	return i.get(i.db, spaceID, id)
}

// GetForUpdate блокировка строки процесса до конца транзакции, структурные изменения идут по очереди
func (i impl) GetForUpdate(spaceID, id string) (*dbmodels.Workflow, error) {
	return i.get(i.db.Clauses(clause.Locking{Strength: "UPDATE"}), spaceID, id)
}

func (i impl) List(spaceID string, filter workflowapimodels.WorkflowFilter) (list []dbmodels.Workflow, err error) {
	list = []dbmodels.Workflow{}
	tx := i.db.
		Model(&dbmodels.Workflow{}).
		Where("space_id = ?", spaceID)
	i.addFilter(tx, filter)
	page, limit := filter.GetPage()
	i.setPage(tx, page, limit)
	err = tx.Order("created_at desc").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(spaceID string, filter workflowapimodels.WorkflowFilter) (count int64, err error) {
	tx := i.db.
		Model(&dbmodels.Workflow{}).
		Where("space_id = ?", spaceID)
	i.addFilter(tx, filter)
	err = tx.Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "ошибка получения общего количества процессов")
	}
	return count, nil
}

func (i impl) BumpVersion(spaceID, id string) error {
	return i.db.
		Model(&dbmodels.Workflow{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Update("version", gorm.Expr("version + 1")).
		Error
}

func (i impl) Delete(spaceID, id string) error {
	err := i.db.
		Where("space_id = ?", spaceID).
		Where("id = ?", id).
		Delete(&dbmodels.Workflow{}).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) addFilter(tx *gorm.DB, filter workflowapimodels.WorkflowFilter) {
	if filter.Status != "" {
		tx.Where("status = ?", filter.Status)
	} else {
		tx.Where("status <> ?", models.WorkflowStatusArchived)
	}
	if filter.IsTemplate != nil {
		tx.Where("is_template = ?", *filter.IsTemplate)
	}
	if len(filter.Tags) != 0 {
		tx.Where("tags @> ?", pq.StringArray(filter.Tags))
	}
	if filter.Search != "" {
		tx.Where("LOWER(name) like ?", "%"+strings.ToLower(filter.Search)+"%")
	}
}

func (i impl) setPage(tx *gorm.DB, page, limit int) {
	offset := (page - 1) * limit
	tx.Limit(limit).Offset(offset)
}
