package models

// Статусы процесса найма (шаблона процесса)
type WorkflowStatus string

const (
	WorkflowStatusDraft    WorkflowStatus = "draft"
	WorkflowStatusActive   WorkflowStatus = "active"
	WorkflowStatusInactive WorkflowStatus = "inactive"
	WorkflowStatusArchived WorkflowStatus = "archived"
)

// IsEditable структуру процесса можно менять только в черновике или в неактивном состоянии
func (s WorkflowStatus) IsEditable() bool {
	return s == WorkflowStatusDraft || s == WorkflowStatusInactive
}

func (s WorkflowStatus) IsValid() bool {
	switch s {
	case WorkflowStatusDraft, WorkflowStatusActive, WorkflowStatusInactive, WorkflowStatusArchived:
		return true
	}
	return false
}

// Типы этапов процесса
type NodeType string

const (
	NodeTypeInterview  NodeType = "interview"
	NodeTypeTodo       NodeType = "todo"
	NodeTypeAssessment NodeType = "assessment"
	NodeTypeDecision   NodeType = "decision"
)

func (t NodeType) IsValid() bool {
	switch t {
	case NodeTypeInterview, NodeTypeTodo, NodeTypeAssessment, NodeTypeDecision:
		return true
	}
	return false
}

type NodeStatus string

const (
	NodeStatusDraft    NodeStatus = "draft"
	NodeStatusActive   NodeStatus = "active"
	NodeStatusInactive NodeStatus = "inactive"
)

func (s NodeStatus) IsValid() bool {
	switch s {
	case NodeStatusDraft, NodeStatusActive, NodeStatusInactive:
		return true
	}
	return false
}

// Условия перехода по связи между этапами
type ConditionType string

const (
	ConditionSuccess     ConditionType = "success"
	ConditionFailure     ConditionType = "failure"
	ConditionAlways      ConditionType = "always"
	ConditionConditional ConditionType = "conditional"
)

func (t ConditionType) IsValid() bool {
	switch t {
	case ConditionSuccess, ConditionFailure, ConditionAlways, ConditionConditional:
		return true
	}
	return false
}

// Статусы прохождения процесса кандидатом
type CandidateWorkflowStatus string

const (
	CWStatusNotStarted CandidateWorkflowStatus = "not_started"
	CWStatusInProgress CandidateWorkflowStatus = "in_progress"
	CWStatusOnHold     CandidateWorkflowStatus = "on_hold"
	CWStatusCompleted  CandidateWorkflowStatus = "completed"
	CWStatusFailed     CandidateWorkflowStatus = "failed"
	CWStatusWithdrawn  CandidateWorkflowStatus = "withdrawn"
)

func (s CandidateWorkflowStatus) IsTerminal() bool {
	return s == CWStatusCompleted || s == CWStatusFailed || s == CWStatusWithdrawn
}

// Статусы выполнения этапа
type ExecutionStatus string

const (
	ExecutionPending    ExecutionStatus = "pending"
	ExecutionScheduled  ExecutionStatus = "scheduled"
	ExecutionInProgress ExecutionStatus = "in_progress"
	ExecutionCompleted  ExecutionStatus = "completed"
	ExecutionFailed     ExecutionStatus = "failed"
	ExecutionSkipped    ExecutionStatus = "skipped"
)

func (s ExecutionStatus) IsTerminal() bool {
	return s == ExecutionCompleted || s == ExecutionFailed || s == ExecutionSkipped
}

var OpenExecutionStatuses = []ExecutionStatus{ExecutionPending, ExecutionScheduled, ExecutionInProgress}
