package candidateworkflowhandler

import (
	executionstore "hr-workflow-backend/lib/candidate-workflow/execution-store"
	candidateworkflowstore "hr-workflow-backend/lib/candidate-workflow/store"
	connectionstore "hr-workflow-backend/lib/workflow/connection-store"
	nodestore "hr-workflow-backend/lib/workflow/node-store"
	workflowstore "hr-workflow-backend/lib/workflow/workflow-store"

	"gorm.io/gorm"
)

// txStores хранилища, открываемые внутри транзакции
type txStores struct {
	instances   func(tx *gorm.DB) candidateworkflowstore.Provider
	executions  func(tx *gorm.DB) executionstore.Provider
	workflows   func(tx *gorm.DB) workflowstore.Provider
	nodes       func(tx *gorm.DB) nodestore.Provider
	connections func(tx *gorm.DB) connectionstore.Provider
}

var defaultStores = txStores{
	instances:   candidateworkflowstore.NewInstance,
	executions:  executionstore.NewInstance,
	workflows:   workflowstore.NewInstance,
	nodes:       nodestore.NewInstance,
	connections: connectionstore.NewInstance,
}
