package workflowalertshandler

import (
	"context"
	"fmt"
	"hr-workflow-backend/config"
	"hr-workflow-backend/lib/smtp"
	"hr-workflow-backend/lib/workflow/events"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Provider оповещения по почте об отказах кандидатов и просроченных этапах
type Provider interface {
	HandleEvent(ctx context.Context, event events.Event) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		sender:     smtp.Instance,
		alertEmail: config.Conf.Smtp.AlertEmail,
	}
}

type impl struct {
	sender     smtp.Provider
	alertEmail string
}

func (i impl) HandleEvent(ctx context.Context, event events.Event) error {
	if i.alertEmail == "" || i.sender == nil {
		return nil
	}
	subject, message, ok := alertMessage(event)
	if !ok {
		return nil
	}
	err := i.sender.SendEMail(i.alertEmail, message, subject)
	if err != nil {
		log.
			WithField("space_id", event.SpaceID).
			WithField("candidate_workflow_id", event.CandidateWorkflowID).
			WithField("event_type", event.Type).
			WithError(err).
			Error("ошибка отправки оповещения по процессу кандидата")
	}
	// повторная доставка события не нужна, письмо не критично
	return nil
}

func alertMessage(event events.Event) (subject, message string, ok bool) {
	lines := []string{}
	switch event.Type {
	case events.CandidateWorkflowFailed:
		subject = "Отказ кандидату"
		lines = append(lines, "Процесс кандидата завершен с отказом.")
		if event.Reason != "" {
			lines = append(lines, "Причина: "+event.Reason)
		}
	case events.NodeExecutionOverdue:
		subject = "Просрочен этап"
		lines = append(lines, "Истек срок выполнения этапа.")
		if dueDate, exist := event.Data["due_date"]; exist {
			lines = append(lines, fmt.Sprintf("Срок: %v", dueDate))
		}
	default:
		return "", "", false
	}
	lines = append(lines,
		"Процесс: "+event.WorkflowID,
		"Процесс кандидата: "+event.CandidateWorkflowID,
	)
	if event.CandidateID != "" {
		lines = append(lines, "Кандидат: "+event.CandidateID)
	}
	if event.NodeID != "" {
		lines = append(lines, "Этап: "+event.NodeID)
	}
	return subject, strings.Join(lines, "\r\n"), true
}
