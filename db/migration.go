package db

import (
	dbmodels "hr-workflow-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Workflow{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Workflow")
	}
	if err := DB.AutoMigrate(&dbmodels.WorkflowNode{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры WorkflowNode")
	}
	if err := DB.AutoMigrate(&dbmodels.NodeConnection{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры NodeConnection")
	}
	if err := DB.AutoMigrate(&dbmodels.CandidateWorkflow{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры CandidateWorkflow")
	}
	if err := DB.AutoMigrate(&dbmodels.NodeExecution{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры NodeExecution")
	}
	if err := DB.AutoMigrate(&dbmodels.WorkflowHistory{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры WorkflowHistory")
	}
	if err := DB.AutoMigrate(&dbmodels.PushData{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры PushData")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
