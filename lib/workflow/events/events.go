// Package events уведомления о переходах состояний процессов найма.
// Отправка через watermill, движок не ждет и не использует результат доставки.
package events

import (
	"hr-workflow-backend/models"
	"time"
)

const (
	Topic                = "workflow_events"
	EventTypeMetadataKey = "event_type"
	SpaceIDMetadataKey   = "space_id"
)

type EventType string

const (
	WorkflowActivated EventType = "workflow.activated"
	WorkflowArchived  EventType = "workflow.archived"

	CandidateWorkflowStarted   EventType = "candidate_workflow.started"
	CandidateWorkflowAdvanced  EventType = "candidate_workflow.advanced"
	CandidateWorkflowCompleted EventType = "candidate_workflow.completed"
	CandidateWorkflowFailed    EventType = "candidate_workflow.failed"
	CandidateWorkflowWithdrawn EventType = "candidate_workflow.withdrawn"
	CandidateWorkflowOnHold    EventType = "candidate_workflow.on_hold"
	CandidateWorkflowResumed   EventType = "candidate_workflow.resumed"

	// NodeReached кандидат перешел на этап, сервисы интервью и задач создают по нему свои записи
	NodeReached EventType = "node.reached"

	NodeExecutionScheduled EventType = "node_execution.scheduled"
	NodeExecutionStarted   EventType = "node_execution.started"
	NodeExecutionCompleted EventType = "node_execution.completed"
	NodeExecutionFailed    EventType = "node_execution.failed"
	NodeExecutionSkipped   EventType = "node_execution.skipped"
	NodeExecutionReviewed  EventType = "node_execution.reviewed"
	NodeExecutionOverdue   EventType = "node_execution.overdue"
)

type Event struct {
	Type                EventType       `json:"type"`
	SpaceID             string          `json:"space_id"`
	WorkflowID          string          `json:"workflow_id"`
	CandidateWorkflowID string          `json:"candidate_workflow_id,omitempty"`
	CandidateID         string          `json:"candidate_id,omitempty"`
	NodeID              string          `json:"node_id,omitempty"`
	NodeType            models.NodeType `json:"node_type,omitempty"`
	ExecutionID         string          `json:"execution_id,omitempty"`
	UserID              string          `json:"user_id,omitempty"`
	Result              string          `json:"result,omitempty"`
	Reason              string          `json:"reason,omitempty"`
	Data                map[string]any  `json:"data,omitempty"`
	OccurredAt          time.Time       `json:"occurred_at"`
}
