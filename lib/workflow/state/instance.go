// Package state переходы состояний прохождения процесса кандидатом и выполнения этапа.
// Машины работают над записями БД в памяти, сохранение выполняет вызывающий код.
package state

import (
	"hr-workflow-backend/lib/workflow/wferrors"
	"hr-workflow-backend/models"
	dbmodels "hr-workflow-backend/models/db"
	"time"
)

type Clock func() time.Time

func clockOrNow(now Clock) Clock {
	if now == nil {
		return time.Now
	}
	return now
}

type InstanceMachine struct {
	rec *dbmodels.CandidateWorkflow
	now Clock
}

func NewInstanceMachine(rec *dbmodels.CandidateWorkflow, now Clock) *InstanceMachine {
	return &InstanceMachine{rec: rec, now: clockOrNow(now)}
}

func (m *InstanceMachine) Status() models.CandidateWorkflowStatus {
	return m.rec.Status
}

func (m *InstanceMachine) timestamp() *time.Time {
	t := m.now()
	return &t
}

func (m *InstanceMachine) expect(action string, allowed ...models.CandidateWorkflowStatus) error {
	for _, status := range allowed {
		if m.rec.Status == status {
			return nil
		}
	}
	return wferrors.InvalidTransition("%v: процесс кандидата в статусе %v", action, m.rec.Status)
}

// AssignRecruiter допустимо в любом нетерминальном статусе
func (m *InstanceMachine) AssignRecruiter(recruiterID string) error {
	if m.rec.Status.IsTerminal() {
		return wferrors.InvalidTransition("назначение рекрутера: процесс кандидата завершен (%v)", m.rec.Status)
	}
	if recruiterID == "" {
		return wferrors.InvalidArgument("не указан рекрутер")
	}
	m.rec.AssignedRecruiterID = &recruiterID
	m.rec.AssignedAt = m.timestamp()
	return nil
}

func (m *InstanceMachine) Start(firstNodeID string) error {
	if err := m.expect("запуск", models.CWStatusNotStarted); err != nil {
		return err
	}
	if firstNodeID == "" {
		return wferrors.InvalidArgument("не указан начальный этап")
	}
	m.rec.Status = models.CWStatusInProgress
	m.rec.CurrentNodeID = &firstNodeID
	m.rec.StartedAt = m.timestamp()
	return nil
}

// AdvanceTo переход на следующий этап, nil означает что достижимых этапов нет
func (m *InstanceMachine) AdvanceTo(nextNodeID *string) error {
	if err := m.expect("переход на этап", models.CWStatusInProgress); err != nil {
		return err
	}
	if nextNodeID != nil && *nextNodeID == "" {
		nextNodeID = nil
	}
	m.rec.CurrentNodeID = nextNodeID
	return nil
}

func (m *InstanceMachine) Complete(finalResult string, score *float64, notes string) error {
	if err := m.expect("завершение", models.CWStatusInProgress, models.CWStatusOnHold); err != nil {
		return err
	}
	m.rec.Status = models.CWStatusCompleted
	m.rec.CompletedAt = m.timestamp()
	m.rec.FinalResult = finalResult
	if score != nil {
		m.rec.OverallScore = score
	}
	if notes != "" {
		m.rec.Notes = notes
	}
	return nil
}

func (m *InstanceMachine) Fail(reason string, failedAtNodeID *string) error {
	if err := m.expect("отказ", models.CWStatusInProgress, models.CWStatusOnHold); err != nil {
		return err
	}
	m.rec.Status = models.CWStatusFailed
	m.rec.FailedAt = m.timestamp()
	m.rec.FailureReason = reason
	if failedAtNodeID != nil {
		m.rec.FailedAtNodeID = failedAtNodeID
	} else {
		m.rec.FailedAtNodeID = m.rec.CurrentNodeID
	}
	return nil
}

func (m *InstanceMachine) Withdraw(reason string) error {
	if err := m.expect("отзыв кандидата", models.CWStatusInProgress, models.CWStatusOnHold); err != nil {
		return err
	}
	m.rec.Status = models.CWStatusWithdrawn
	m.rec.WithdrawnAt = m.timestamp()
	m.rec.WithdrawalReason = reason
	return nil
}

func (m *InstanceMachine) Hold() error {
	if err := m.expect("приостановка", models.CWStatusInProgress); err != nil {
		return err
	}
	m.rec.Status = models.CWStatusOnHold
	m.rec.OnHoldAt = m.timestamp()
	return nil
}

func (m *InstanceMachine) Resume() error {
	if err := m.expect("возобновление", models.CWStatusOnHold); err != nil {
		return err
	}
	m.rec.Status = models.CWStatusInProgress
	m.rec.OnHoldAt = nil
	return nil
}
