package workflowapimodels

import (
	"hr-workflow-backend/models"
	apimodels "hr-workflow-backend/models/api"
	dbmodels "hr-workflow-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

type CandidateWorkflowData struct {
	CandidateID         string `json:"candidate_id" validate:"required"` // ид кандидата
	WorkflowID          string `json:"workflow_id" validate:"required"`  // ид процесса найма
	AssignedRecruiterID string `json:"assigned_recruiter_id"`            // ответственный рекрутер
}

func (c CandidateWorkflowData) Validate() error {
	return validateStruct(c)
}

type CandidateWorkflowView struct {
	ID                  string                         `json:"id"`
	CandidateID         string                         `json:"candidate_id"`
	WorkflowID          string                         `json:"workflow_id"`
	WorkflowName        string                         `json:"workflow_name"`
	WorkflowVersion     int                            `json:"workflow_version"`
	CurrentNodeID       *string                        `json:"current_node_id"`
	Status              models.CandidateWorkflowStatus `json:"status"`
	AssignedRecruiterID *string                        `json:"assigned_recruiter_id"`
	AssignedAt          *time.Time                     `json:"assigned_at"`
	StartedAt           *time.Time                     `json:"started_at"`
	OnHoldAt            *time.Time                     `json:"on_hold_at"`
	CompletedAt         *time.Time                     `json:"completed_at"`
	FailedAt            *time.Time                     `json:"failed_at"`
	WithdrawnAt         *time.Time                     `json:"withdrawn_at"`
	OverallScore        *float64                       `json:"overall_score"`
	FinalResult         string                         `json:"final_result"`
	Notes               string                         `json:"notes"`
	FailureReason       string                         `json:"failure_reason"`
	FailedAtNodeID      *string                        `json:"failed_at_node_id"`
	WithdrawalReason    string                         `json:"withdrawal_reason"`
	CreatedAt           time.Time                      `json:"created_at"`
}

func CandidateWorkflowConvert(rec dbmodels.CandidateWorkflow) CandidateWorkflowView {
	result := CandidateWorkflowView{
		ID:                  rec.ID,
		CandidateID:         rec.CandidateID,
		WorkflowID:          rec.WorkflowID,
		WorkflowVersion:     rec.WorkflowVersion,
		CurrentNodeID:       rec.CurrentNodeID,
		Status:              rec.Status,
		AssignedRecruiterID: rec.AssignedRecruiterID,
		AssignedAt:          rec.AssignedAt,
		StartedAt:           rec.StartedAt,
		OnHoldAt:            rec.OnHoldAt,
		CompletedAt:         rec.CompletedAt,
		FailedAt:            rec.FailedAt,
		WithdrawnAt:         rec.WithdrawnAt,
		OverallScore:        rec.OverallScore,
		FinalResult:         rec.FinalResult,
		Notes:               rec.Notes,
		FailureReason:       rec.FailureReason,
		FailedAtNodeID:      rec.FailedAtNodeID,
		WithdrawalReason:    rec.WithdrawalReason,
		CreatedAt:           rec.CreatedAt,
	}
	if rec.Workflow != nil {
		result.WorkflowName = rec.Workflow.Name
	}
	return result
}

type CandidateWorkflowFilter struct {
	apimodels.Pagination
	WorkflowID  string                         `json:"workflow_id"`  // фильтр по процессу
	CandidateID string                         `json:"candidate_id"` // фильтр по кандидату
	RecruiterID string                         `json:"recruiter_id"` // фильтр по рекрутеру
	Status      models.CandidateWorkflowStatus `json:"status"`       // фильтр по статусу
}

func (f CandidateWorkflowFilter) Validate() error {
	return nil
}

type AssignRecruiterRequest struct {
	RecruiterID string `json:"recruiter_id" validate:"required"` // ид рекрутера
}

func (r AssignRecruiterRequest) Validate() error {
	return validateStruct(r)
}

type AdvanceRequest struct {
	NextNodeID *string `json:"next_node_id"` // следующий этап, null если достижимых этапов нет
}

func (r AdvanceRequest) Validate() error {
	return nil
}

type CompleteRequest struct {
	FinalResult string   `json:"final_result" validate:"required,max=100"` // итог процесса
	Score       *float64 `json:"score"`                                    // общая оценка
	Notes       string   `json:"notes"`                                    // комментарий
}

func (r CompleteRequest) Validate() error {
	return validateStruct(r)
}

type FailRequest struct {
	Reason         string  `json:"reason"`            // причина отказа
	FailedAtNodeID *string `json:"failed_at_node_id"` // этап, на котором кандидат не прошел
}

func (r FailRequest) Validate() error {
	return nil
}

type ReasonRequest struct {
	Reason string `json:"reason"` // причина
}

func (r ReasonRequest) Validate() error {
	return nil
}

type NextNodesRequest struct {
	Result string   `json:"result"` // результат текущего этапа
	Score  *float64 `json:"score"`  // оценка
}

func (r NextNodesRequest) Validate() error {
	return nil
}

type ExecutionView struct {
	ID                  string                 `json:"id"`
	CandidateWorkflowID string                 `json:"candidate_workflow_id"`
	NodeID              string                 `json:"node_id"`
	NodeTitle           string                 `json:"node_title"`
	NodeType            models.NodeType        `json:"node_type"`
	Status              models.ExecutionStatus `json:"status"`
	Result              string                 `json:"result"`
	Score               *float64               `json:"score"`
	Feedback            string                 `json:"feedback"`
	Reason              string                 `json:"reason"`
	ExecutionData       map[string]any         `json:"execution_data"`
	DueDate             *time.Time             `json:"due_date"`
	AssignedTo          *string                `json:"assigned_to"`
	CompletedBy         *string                `json:"completed_by"`
	ReviewedBy          *string                `json:"reviewed_by"`
	ScheduledAt         *time.Time             `json:"scheduled_at"`
	StartedAt           *time.Time             `json:"started_at"`
	CompletedAt         *time.Time             `json:"completed_at"`
	ReviewedAt          *time.Time             `json:"reviewed_at"`
	InterviewID         *string                `json:"interview_id"`
	TodoID              *string                `json:"todo_id"`
}

func ExecutionConvert(rec dbmodels.NodeExecution) ExecutionView {
	result := ExecutionView{
		ID:                  rec.ID,
		CandidateWorkflowID: rec.CandidateWorkflowID,
		NodeID:              rec.NodeID,
		Status:              rec.Status,
		Result:              rec.Result,
		Score:               rec.Score,
		Feedback:            rec.Feedback,
		Reason:              rec.Reason,
		ExecutionData:       rec.ExecutionData,
		DueDate:             rec.DueDate,
		AssignedTo:          rec.AssignedTo,
		CompletedBy:         rec.CompletedBy,
		ReviewedBy:          rec.ReviewedBy,
		ScheduledAt:         rec.ScheduledAt,
		StartedAt:           rec.StartedAt,
		CompletedAt:         rec.CompletedAt,
		ReviewedAt:          rec.ReviewedAt,
		InterviewID:         rec.InterviewID,
		TodoID:              rec.TodoID,
	}
	if rec.Node != nil {
		result.NodeTitle = rec.Node.Title
		result.NodeType = rec.Node.NodeType
	}
	return result
}

type ScheduleRequest struct {
	DueDate *time.Time `json:"due_date"` // срок выполнения, по умолчанию из настроек этапа
}

func (r ScheduleRequest) Validate() error {
	return nil
}

type StartExecutionRequest struct {
	AssignedTo string `json:"assigned_to"` // исполнитель
}

func (r StartExecutionRequest) Validate() error {
	return nil
}

type CompleteExecutionRequest struct {
	Result        string         `json:"result" validate:"required,max=100"` // результат: pass/fail/approved/...
	Score         *float64       `json:"score"`                              // оценка
	Feedback      string         `json:"feedback"`                           // отзыв
	ExecutionData map[string]any `json:"execution_data"`                     // данные выполнения
}

func (r CompleteExecutionRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if r.Score != nil && *r.Score < 0 {
		return errors.New("оценка не может быть отрицательной")
	}
	return nil
}

type LinkRequest struct {
	ID string `json:"id" validate:"required"` // ид внешней записи
}

func (r LinkRequest) Validate() error {
	return validateStruct(r)
}

// CompleteExecutionResult итог выполнения этапа и решение о дальнейшем движении
type CompleteExecutionResult struct {
	Execution         ExecutionView         `json:"execution"`
	CandidateWorkflow CandidateWorkflowView `json:"candidate_workflow"`
	Decision          string                `json:"decision"`   // completed/failed/advanced/choose/none
	NextNodes         []NodeView            `json:"next_nodes"` // подходящие этапы, если выбор за пользователем
}

type HistoryView struct {
	ID        string                 `json:"id"`
	EventType string                 `json:"event_type"`
	NodeID    *string                `json:"node_id"`
	UserID    string                 `json:"user_id"`
	Changes   dbmodels.EntityChanges `json:"changes"`
	CreatedAt time.Time              `json:"created_at"`
}

func HistoryConvert(rec dbmodels.WorkflowHistory) HistoryView {
	return HistoryView{
		ID:        rec.ID,
		EventType: rec.EventType,
		NodeID:    rec.NodeID,
		UserID:    rec.UserID,
		Changes:   rec.Changes,
		CreatedAt: rec.CreatedAt,
	}
}
