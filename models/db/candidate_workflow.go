package dbmodels

import (
	"hr-workflow-backend/models"
	"time"

	"gorm.io/datatypes"
)

// CandidateWorkflow прохождение процесса найма конкретным кандидатом
type CandidateWorkflow struct {
	BaseSpaceModel
	CandidateID         string    `gorm:"type:varchar(36);uniqueIndex:idx_candidate_workflow,priority:1"`
	WorkflowID          string    `gorm:"type:varchar(36);uniqueIndex:idx_candidate_workflow,priority:2"`
	Workflow            *Workflow `gorm:"foreignKey:WorkflowID"`
	WorkflowVersion     int
	CurrentNodeID       *string                        `gorm:"type:varchar(36)"`
	Status              models.CandidateWorkflowStatus `gorm:"type:varchar(50);index"`
	AssignedRecruiterID *string                        `gorm:"type:varchar(36);index"`
	AssignedAt          *time.Time
	StartedAt           *time.Time
	OnHoldAt            *time.Time
	CompletedAt         *time.Time
	FailedAt            *time.Time
	WithdrawnAt         *time.Time
	OverallScore        *float64
	FinalResult         string  `gorm:"type:varchar(100)"`
	Notes               string  `gorm:"type:text"`
	FailureReason       string  `gorm:"type:text"`
	FailedAtNodeID      *string `gorm:"type:varchar(36)"`
	WithdrawalReason    string  `gorm:"type:text"`
}

// NodeExecution состояние кандидата на конкретном этапе
type NodeExecution struct {
	BaseSpaceModel
	CandidateWorkflowID string                 `gorm:"type:varchar(36);uniqueIndex:idx_node_execution,priority:1"`
	NodeID              string                 `gorm:"type:varchar(36);uniqueIndex:idx_node_execution,priority:2"`
	Node                *WorkflowNode          `gorm:"foreignKey:NodeID;constraint:OnDelete:RESTRICT"`
	Status              models.ExecutionStatus `gorm:"type:varchar(50);index"`
	Result              string                 `gorm:"type:varchar(100)"`
	Score               *float64
	Feedback            string            `gorm:"type:text"`
	Reason              string            `gorm:"type:text"`
	ExecutionData       datatypes.JSONMap `gorm:"type:jsonb"`
	DueDate             *time.Time        `gorm:"index"`
	AssignedTo          *string           `gorm:"type:varchar(36);index"`
	CompletedBy         *string           `gorm:"type:varchar(36)"`
	ReviewedBy          *string           `gorm:"type:varchar(36)"`
	ScheduledAt         *time.Time
	StartedAt           *time.Time
	CompletedAt         *time.Time
	ReviewedAt          *time.Time
	OverdueNotifiedAt   *time.Time
	InterviewID         *string `gorm:"type:varchar(36)"`
	TodoID              *string `gorm:"type:varchar(36)"`
}

// ExecutionWithNode строка выборки для статистики
type ExecutionWithNode struct {
	NodeExecution
	WorkflowID string
	NodeTitle  string
	NodeType   models.NodeType
}
