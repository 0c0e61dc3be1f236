package initializers

import (
	"context"
	"hr-workflow-backend/config"
	"hr-workflow-backend/lib/workflow/events"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	log "github.com/sirupsen/logrus"
)

const kafkaProvider = "kafka"

// newSubscriber подписчик шины для обработчика name
var newSubscriber func(name string) (message.Subscriber, error)

func InitEventBus(ctx context.Context) {
	logger := events.NewLogger(log.WithField("component", "event_bus"))
	var publisher message.Publisher
	if config.Conf.EventBus.Provider == kafkaProvider {
		brokers := config.Conf.EventBus.KafkaBrokers
		kafkaPublisher, err := events.NewKafkaPublisher(logger, brokers)
		if err != nil {
			panic(err.Error())
		}
		publisher = kafkaPublisher
		newSubscriber = func(name string) (message.Subscriber, error) {
			return events.NewKafkaSubscriber(logger, brokers, config.Conf.EventBus.ConsumerGroup+"-"+name)
		}
	} else {
		goChannel := events.NewGoChannel(logger)
		publisher = goChannel
		newSubscriber = func(name string) (message.Subscriber, error) {
			return goChannel, nil
		}
	}
	events.NewHandler(publisher)

	go func() {
		<-ctx.Done()
		if err := publisher.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия шины событий")
		}
	}()
	log.WithField("provider", config.Conf.EventBus.Provider).Info("шина событий процессов инициализирована")
}

func subscribe(ctx context.Context, name string, handler events.Handler) {
	subscriber, err := newSubscriber(name)
	if err != nil {
		panic(err.Error())
	}
	retry := events.DefaultRetry
	retry.MaxRetries = uint64(config.Conf.EventBus.HandlerMaxRetries)
	retry.InitialInterval = time.Duration(config.Conf.EventBus.HandlerRetryIntervalMs) * time.Millisecond
	if err = events.Subscribe(ctx, subscriber, name, retry, handler); err != nil {
		panic(err.Error())
	}
}
