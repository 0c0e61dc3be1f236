package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

// WorkflowHistory журнал событий по прохождению процесса кандидатом
type WorkflowHistory struct {
	BaseSpaceModel
	CandidateWorkflowID string        `gorm:"type:varchar(36);index"`
	WorkflowID          string        `gorm:"type:varchar(36);index"`
	NodeID              *string       `gorm:"type:varchar(36)"`
	EventType           string        `gorm:"type:varchar(100)"`
	UserID              string        `gorm:"type:varchar(36)"`
	Changes             EntityChanges `gorm:"type:jsonb"`
}

type EntityChanges struct {
	Description string         `json:"description"` // Комментарий
	Data        []FieldChanges `json:"data"`        // Список изменений
}

type FieldChanges struct {
	Field    string `json:"field"`     // Измененное поле
	OldValue any    `json:"old_value"` // Старое значение
	NewValue any    `json:"new_value"` // Новое значение
}

func (j EntityChanges) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *EntityChanges) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		return nil
	default:
		return errors.Errorf("неподдерживаемый тип поля changes: %T", value)
	}
	return json.Unmarshal(data, j)
}
