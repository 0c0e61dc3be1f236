package initializers

import (
	"hr-workflow-backend/config"
	"hr-workflow-backend/lib/smtp"
)

func InitSmtp() {
	err := smtp.Connect(config.Conf.Smtp.User, config.Conf.Smtp.Password,
		config.Conf.Smtp.Host, config.Conf.Smtp.Port, *config.Conf.Smtp.TLSEnabled, config.Conf.Smtp.From)
	if err != nil {
		panic(err.Error())
	}
}
