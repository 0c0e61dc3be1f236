package workflowhandler

import (
	executionstore "hr-workflow-backend/lib/candidate-workflow/execution-store"
	connectionstore "hr-workflow-backend/lib/workflow/connection-store"
	nodestore "hr-workflow-backend/lib/workflow/node-store"
	workflowstore "hr-workflow-backend/lib/workflow/workflow-store"
	dbmodels "hr-workflow-backend/models/db"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// memory состояние хранилищ процесса в памяти теста
type memory struct {
	workflow       dbmodels.Workflow
	nodes          []dbmodels.WorkflowNode
	connections    []dbmodels.NodeConnection
	executionCount map[string]int64

	versionBumps       int
	createdNodes       []string
	deletedNodes       []string
	deletedConnections []string
}

type workflowStoreMock struct {
	workflowstore.Provider
	mem *memory
}

func (s workflowStoreMock) GetByID(spaceID, id string) (*dbmodels.Workflow, error) {
	if s.mem.workflow.ID != id || s.mem.workflow.SpaceID != spaceID {
		return nil, nil
	}
	rec := s.mem.workflow
	return &rec, nil
}

func (s workflowStoreMock) GetForUpdate(spaceID, id string) (*dbmodels.Workflow, error) {
	return s.GetByID(spaceID, id)
}

func (s workflowStoreMock) BumpVersion(spaceID, id string) error {
	s.mem.versionBumps++
	s.mem.workflow.Version++
	return nil
}

type nodeStoreMock struct {
	nodestore.Provider
	mem *memory
}

func (s nodeStoreMock) List(workflowID string) ([]dbmodels.WorkflowNode, error) {
	list := []dbmodels.WorkflowNode{}
	for _, node := range s.mem.nodes {
		if node.WorkflowID == workflowID {
			list = append(list, node)
		}
	}
	return list, nil
}

func (s nodeStoreMock) GetForUpdate(workflowID, id string) (*dbmodels.WorkflowNode, error) {
	for _, node := range s.mem.nodes {
		if node.WorkflowID == workflowID && node.ID == id {
			rec := node
			return &rec, nil
		}
	}
	return nil, nil
}

func (s nodeStoreMock) Create(rec dbmodels.WorkflowNode) (string, error) {
	s.mem.createdNodes = append(s.mem.createdNodes, rec.ID)
	return rec.ID, nil
}

func (s nodeStoreMock) Delete(workflowID, id string) error {
	s.mem.deletedNodes = append(s.mem.deletedNodes, id)
	return nil
}

type connectionStoreMock struct {
	connectionstore.Provider
	mem *memory
}

func (s connectionStoreMock) List(workflowID string) ([]dbmodels.NodeConnection, error) {
	list := []dbmodels.NodeConnection{}
	for _, conn := range s.mem.connections {
		if conn.WorkflowID == workflowID {
			list = append(list, conn)
		}
	}
	return list, nil
}

func (s connectionStoreMock) DeleteByNode(workflowID, nodeID string) error {
	s.mem.deletedConnections = append(s.mem.deletedConnections, nodeID)
	return nil
}

type executionStoreMock struct {
	executionstore.Provider
	mem *memory
}

func (s executionStoreMock) CountByNode(nodeID string) (int64, error) {
	return s.mem.executionCount[nodeID], nil
}

// newTestHandler обработчик с транзакциями через sqlmock и хранилищами в памяти
func newTestHandler(t *testing.T, mem *memory) (impl, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.Nil(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.Nil(t, err)
	stores := txStores{
		workflows:   func(tx *gorm.DB) workflowstore.Provider { return workflowStoreMock{mem: mem} },
		nodes:       func(tx *gorm.DB) nodestore.Provider { return nodeStoreMock{mem: mem} },
		connections: func(tx *gorm.DB) connectionstore.Provider { return connectionStoreMock{mem: mem} },
		executions:  func(tx *gorm.DB) executionstore.Provider { return executionStoreMock{mem: mem} },
	}
	return impl{
		db:           db,
		stores:       stores,
		store:        workflowStoreMock{mem: mem},
		nodeStore:    nodeStoreMock{mem: mem},
		connStore:    connectionStoreMock{mem: mem},
		shadowOffset: 1000000,
	}, mock
}
