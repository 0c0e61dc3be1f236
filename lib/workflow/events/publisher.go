package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	log "github.com/sirupsen/logrus"
)

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

var Instance Publisher = nopPublisher{}

func NewHandler(publisher message.Publisher) {
	Instance = NewPublisher(publisher)
}

func NewPublisher(publisher message.Publisher) Publisher {
	return impl{publisher: publisher}
}

type impl struct {
	publisher message.Publisher
}

func (i impl) Publish(ctx context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	logger := log.
		WithField("event_type", event.Type).
		WithField("space_id", event.SpaceID).
		WithField("workflow_id", event.WorkflowID)
	if event.CandidateWorkflowID != "" {
		logger = logger.WithField("candidate_workflow_id", event.CandidateWorkflowID)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.WithError(err).Error("ошибка сериализации события процесса")
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set(EventTypeMetadataKey, string(event.Type))
	msg.Metadata.Set(SpaceIDMetadataKey, event.SpaceID)
	if err = i.publisher.Publish(Topic, msg); err != nil {
		logger.WithError(err).Error("ошибка отправки события процесса")
		return
	}
	logger.Debug("событие процесса отправлено")
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, event Event) {
	log.WithField("event_type", event.Type).Debug("шина событий не настроена, событие пропущено")
}
