package events

import (
	"context"
	"encoding/json"
	"runtime/debug"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Handler func(ctx context.Context, event Event) error

// RetryConfig повторы обработчика для одного сообщения
type RetryConfig struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

var DefaultRetry = RetryConfig{
	MaxRetries:      3,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     10 * time.Second,
	Multiplier:      2,
}

func (r RetryConfig) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.InitialInterval
	b.Multiplier = r.Multiplier
	if r.MaxInterval > 0 {
		b.MaxInterval = r.MaxInterval
	}
	// число попыток ограничивает MaxRetries
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, r.MaxRetries), ctx)
}

// Subscribe чтение событий из топика в отдельной горутине до завершения ctx.
// Ошибка обработчика повторяется с нарастающей паузой, после MaxRetries повторов
// событие пропускается. Нечитаемое сообщение подтверждается сразу.
func Subscribe(ctx context.Context, subscriber message.Subscriber, name string, retry RetryConfig, handler Handler) error {
	messages, err := subscriber.Subscribe(ctx, Topic)
	if err != nil {
		return errors.Wrapf(err, "ошибка подписки %v на события процессов", name)
	}
	logger := log.WithField("subscriber", name)
	go func() {
		for msg := range messages {
			handleMessage(ctx, logger, msg, retry, handler)
		}
		logger.Info("подписка на события процессов завершена")
	}()
	return nil
}

func handleMessage(ctx context.Context, logger *log.Entry, msg *message.Message, retry RetryConfig, handler Handler) {
	logger = logger.
		WithField("message_uuid", msg.UUID).
		WithField("event_type", msg.Metadata.Get(EventTypeMetadataKey))

	event := Event{}
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		logger.WithError(err).Error("ошибка разбора события процесса")
		msg.Ack()
		return
	}
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := safeHandle(ctx, event, handler)
		if err != nil {
			logger.WithError(err).WithField("attempt", attempt).Warn("ошибка обработки события процесса")
		}
		return err
	}, retry.backOff(ctx))
	if err != nil && ctx.Err() != nil {
		// при остановке сервиса сообщение остается в брокере
		msg.Nack()
		return
	}
	if err != nil {
		logger.WithError(err).WithField("attempts", attempt).Error("событие процесса пропущено после повторов")
	}
	msg.Ack()
}

func safeHandle(ctx context.Context, event Event, handler Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic_stack", string(debug.Stack())).Errorf("panic: (%v)", r)
			err = errors.Errorf("panic: %v", r)
		}
	}()
	return handler(ctx, event)
}
