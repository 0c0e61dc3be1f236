package dbmodels

import (
	"hr-workflow-backend/models"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Workflow шаблон процесса найма (граф этапов)
type Workflow struct {
	BaseSpaceModel
	Name        string                `gorm:"type:varchar(255)"`
	Description string                `gorm:"type:text"`
	Status      models.WorkflowStatus `gorm:"type:varchar(50);index"`
	Version     int                   `gorm:"default:1"`
	IsTemplate  bool
	Tags        pq.StringArray    `gorm:"type:text[]"`
	Settings    datatypes.JSONMap `gorm:"type:jsonb"`
	AuthorID    string            `gorm:"type:varchar(36)"`
	ActivatedAt *time.Time
	ArchivedAt  *time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// WasActivated процесс хотя бы раз запускался в работу
func (w Workflow) WasActivated() bool {
	return w.ActivatedAt != nil
}

// WorkflowNode этап процесса найма
type WorkflowNode struct {
	BaseModel
	WorkflowID    string          `gorm:"type:varchar(36);uniqueIndex:idx_workflow_node_order,priority:1"`
	NodeType      models.NodeType `gorm:"type:varchar(50)"`
	Title         string          `gorm:"type:varchar(255)"`
	Description   string          `gorm:"type:text"`
	Instructions  string          `gorm:"type:text"`
	SequenceOrder int             `gorm:"uniqueIndex:idx_workflow_node_order,priority:2"`
	PositionX     float64
	PositionY     float64
	Config        datatypes.JSON    `gorm:"type:jsonb"`
	Status        models.NodeStatus `gorm:"type:varchar(50)"`
	IsRequired    bool
	CanSkip       bool
	AutoAdvance   bool
}

// NodeConnection направленная связь между этапами
type NodeConnection struct {
	BaseModel
	// Ordinal порядок добавления, по нему перебираются переходы из этапа
	Ordinal         int64                `gorm:"autoIncrement;index"`
	WorkflowID      string               `gorm:"type:varchar(36);index"`
	SourceNodeID    string               `gorm:"type:varchar(36);uniqueIndex:idx_node_connection_pair,priority:1"`
	SourceNode      *WorkflowNode        `gorm:"foreignKey:SourceNodeID;constraint:OnDelete:CASCADE"`
	TargetNodeID    string               `gorm:"type:varchar(36);uniqueIndex:idx_node_connection_pair,priority:2"`
	TargetNode      *WorkflowNode        `gorm:"foreignKey:TargetNodeID;constraint:OnDelete:CASCADE"`
	ConditionType   models.ConditionType `gorm:"type:varchar(50)"`
	ConditionConfig datatypes.JSON       `gorm:"type:jsonb"`
}
