package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
	}
	Auth struct {
		JWTSecret      string `default:"" env:"JWT_SECRET"`
		JWTExpireInSec int    `default:"86400" env:"JWT_EXPIRE_IN_SEC"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"hr-workflow" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		From       string `default:"" env:"SMTP_FROM"`
		AlertEmail string `default:"" env:"WORKFLOW_ALERT_EMAIL"`
	}
	EventBus struct {
		// gochannel или kafka
		Provider string `default:"gochannel" env:"EVENT_BUS_PROVIDER"`
		// адреса брокеров через запятую
		KafkaBrokers  string `default:"" env:"KAFKA_BROKERS"`
		ConsumerGroup string `default:"hr-workflow" env:"KAFKA_CONSUMER_GROUP"`
		// повторы обработчика события, после них событие пропускается
		HandlerMaxRetries      int `default:"3" env:"EVENT_HANDLER_MAX_RETRIES"`
		HandlerRetryIntervalMs int `default:"500" env:"EVENT_HANDLER_RETRY_INTERVAL_MS"`
	}
	Workflow struct {
		ShadowOffset            int `default:"1000000" env:"WORKFLOW_SHADOW_OFFSET"`
		InstanceLockWaitSec     int `default:"10" env:"WORKFLOW_INSTANCE_LOCK_WAIT_SEC"`
		OverdueCheckIntervalMin int `default:"15" env:"WORKFLOW_OVERDUE_CHECK_INTERVAL_MIN"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
