package workflowapimodels

import (
	"hr-workflow-backend/models"
	apimodels "hr-workflow-backend/models/api"
	dbmodels "hr-workflow-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

type WorkflowData struct {
	Name        string         `json:"name" validate:"required,max=255"` // название процесса
	Description string         `json:"description"`                      // описание
	IsTemplate  bool           `json:"is_template"`                      // процесс является шаблоном
	Tags        []string       `json:"tags" validate:"dive,required"`    // теги
	Settings    map[string]any `json:"settings"`                         // произвольные настройки
}

func (w WorkflowData) Validate() error {
	return validateStruct(w)
}

type WorkflowView struct {
	WorkflowData
	ID          string                `json:"id"`
	Status      models.WorkflowStatus `json:"status"`
	Version     int                   `json:"version"`
	AuthorID    string                `json:"author_id"`
	IsEditable  bool                  `json:"is_editable"`
	ActivatedAt *time.Time            `json:"activated_at"`
	ArchivedAt  *time.Time            `json:"archived_at"`
	CreatedAt   time.Time             `json:"created_at"`
}

func WorkflowConvert(rec dbmodels.Workflow) WorkflowView {
	tags := []string{}
	if rec.Tags != nil {
		tags = rec.Tags
	}
	return WorkflowView{
		WorkflowData: WorkflowData{
			Name:        rec.Name,
			Description: rec.Description,
			IsTemplate:  rec.IsTemplate,
			Tags:        tags,
			Settings:    rec.Settings,
		},
		ID:          rec.ID,
		Status:      rec.Status,
		Version:     rec.Version,
		AuthorID:    rec.AuthorID,
		IsEditable:  rec.Status.IsEditable(),
		ActivatedAt: rec.ActivatedAt,
		ArchivedAt:  rec.ArchivedAt,
		CreatedAt:   rec.CreatedAt,
	}
}

type WorkflowFilter struct {
	apimodels.Pagination
	Status     models.WorkflowStatus `json:"status"`      // фильтр по статусу
	IsTemplate *bool                 `json:"is_template"` // только шаблоны / только процессы
	Tags       []string              `json:"tags"`        // процессы, содержащие все теги
	Search     string                `json:"search"`      // поиск по названию
}

func (f WorkflowFilter) Validate() error {
	if f.Status != "" && !f.Status.IsValid() {
		return errors.Errorf("неизвестный статус процесса: %v", f.Status)
	}
	return nil
}

type FromTemplateRequest struct {
	Name string `json:"name" validate:"required,max=255"` // название нового процесса
}

func (r FromTemplateRequest) Validate() error {
	return validateStruct(r)
}

// ArchiveResult зависимые записи интервью и задач, которые вызывающая сторона архивирует сама
type ArchiveResult struct {
	InterviewIDs []string `json:"interview_ids"`
	TodoIDs      []string `json:"todo_ids"`
}
