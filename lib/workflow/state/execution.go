package state

import (
	"hr-workflow-backend/lib/workflow/wferrors"
	"hr-workflow-backend/models"
	dbmodels "hr-workflow-backend/models/db"
	"time"
)

type ExecutionMachine struct {
	rec *dbmodels.NodeExecution
	now Clock
}

func NewExecutionMachine(rec *dbmodels.NodeExecution, now Clock) *ExecutionMachine {
	return &ExecutionMachine{rec: rec, now: clockOrNow(now)}
}

// CompleteData результат выполнения этапа
type CompleteData struct {
	Result        string
	CompletedBy   string
	Score         *float64
	Feedback      string
	ExecutionData map[string]any
}

func (m *ExecutionMachine) Status() models.ExecutionStatus {
	return m.rec.Status
}

func (m *ExecutionMachine) timestamp() *time.Time {
	t := m.now()
	return &t
}

func (m *ExecutionMachine) expect(action string, allowed ...models.ExecutionStatus) error {
	for _, status := range allowed {
		if m.rec.Status == status {
			return nil
		}
	}
	return wferrors.InvalidTransition("%v: этап в статусе %v", action, m.rec.Status)
}

func (m *ExecutionMachine) expectOpen(action string) error {
	if m.rec.Status.IsTerminal() {
		return wferrors.InvalidTransition("%v: этап уже завершен (%v)", action, m.rec.Status)
	}
	return nil
}

func (m *ExecutionMachine) Schedule(dueDate *time.Time) error {
	if err := m.expect("планирование", models.ExecutionPending); err != nil {
		return err
	}
	m.rec.Status = models.ExecutionScheduled
	m.rec.ScheduledAt = m.timestamp()
	if dueDate != nil {
		m.rec.DueDate = dueDate
	}
	return nil
}

func (m *ExecutionMachine) Start(assignedTo string) error {
	if err := m.expect("начало выполнения", models.ExecutionPending, models.ExecutionScheduled); err != nil {
		return err
	}
	m.rec.Status = models.ExecutionInProgress
	m.rec.StartedAt = m.timestamp()
	if assignedTo != "" {
		m.rec.AssignedTo = &assignedTo
	}
	return nil
}

func (m *ExecutionMachine) Complete(data CompleteData) error {
	if err := m.expect("завершение", models.ExecutionInProgress); err != nil {
		return err
	}
	if data.CompletedBy == "" {
		return wferrors.InvalidArgument("не указан пользователь, завершивший этап")
	}
	m.rec.Status = models.ExecutionCompleted
	m.rec.Result = data.Result
	m.rec.CompletedBy = &data.CompletedBy
	m.rec.CompletedAt = m.timestamp()
	m.rec.Score = data.Score
	m.rec.Feedback = data.Feedback
	if data.ExecutionData != nil {
		m.rec.ExecutionData = data.ExecutionData
	}
	return nil
}

func (m *ExecutionMachine) Fail(completedBy, reason string) error {
	if err := m.expectOpen("отказ"); err != nil {
		return err
	}
	m.rec.Status = models.ExecutionFailed
	m.rec.Reason = reason
	m.rec.CompletedAt = m.timestamp()
	if completedBy != "" {
		m.rec.CompletedBy = &completedBy
	}
	return nil
}

// Skip пропуск этапа. Единственное место, где проверяется признак can_skip этапа.
func (m *ExecutionMachine) Skip(canSkip bool, completedBy, reason string) error {
	if err := m.expectOpen("пропуск"); err != nil {
		return err
	}
	if !canSkip {
		return wferrors.InvalidTransition("пропуск: этап нельзя пропустить")
	}
	m.rec.Status = models.ExecutionSkipped
	m.rec.Reason = reason
	m.rec.CompletedAt = m.timestamp()
	if completedBy != "" {
		m.rec.CompletedBy = &completedBy
	}
	return nil
}

func (m *ExecutionMachine) Review(reviewerID string) error {
	if err := m.expect("проверка", models.ExecutionCompleted, models.ExecutionFailed); err != nil {
		return err
	}
	if reviewerID == "" {
		return wferrors.InvalidArgument("не указан проверяющий")
	}
	m.rec.ReviewedBy = &reviewerID
	m.rec.ReviewedAt = m.timestamp()
	return nil
}

// LinkInterview статус выполнения не меняется
func (m *ExecutionMachine) LinkInterview(interviewID string) error {
	if interviewID == "" {
		return wferrors.InvalidArgument("не указано интервью")
	}
	m.rec.InterviewID = &interviewID
	return nil
}

func (m *ExecutionMachine) LinkTodo(todoID string) error {
	if todoID == "" {
		return wferrors.InvalidArgument("не указана задача")
	}
	m.rec.TodoID = &todoID
	return nil
}

// IsOverdue срок выполнения истек, а этап еще не завершен
func IsOverdue(rec dbmodels.NodeExecution, now time.Time) bool {
	return !rec.Status.IsTerminal() && rec.DueDate != nil && rec.DueDate.Before(now)
}
