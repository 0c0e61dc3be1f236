package candidateworkflowhandler

import (
	"context"
	executionstore "hr-workflow-backend/lib/candidate-workflow/execution-store"
	candidateworkflowstore "hr-workflow-backend/lib/candidate-workflow/store"
	connectionstore "hr-workflow-backend/lib/workflow/connection-store"
	"hr-workflow-backend/lib/workflow/events"
	nodestore "hr-workflow-backend/lib/workflow/node-store"
	workflowstore "hr-workflow-backend/lib/workflow/workflow-store"
	"hr-workflow-backend/models"
	dbmodels "hr-workflow-backend/models/db"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// memory процесс, его граф и прохождения кандидатов в памяти теста
type memory struct {
	workflow    dbmodels.Workflow
	nodes       []dbmodels.WorkflowNode
	connections []dbmodels.NodeConnection
	instances   map[string]dbmodels.CandidateWorkflow
	executions  map[string]dbmodels.NodeExecution

	createdExecutions []string
}

func newMemory(nodes []dbmodels.WorkflowNode, connections []dbmodels.NodeConnection) *memory {
	for k := range nodes {
		nodes[k].WorkflowID = "wf"
		if nodes[k].Status == "" {
			nodes[k].Status = models.NodeStatusActive
		}
		if nodes[k].NodeType == "" {
			nodes[k].NodeType = models.NodeTypeInterview
		}
	}
	for k := range connections {
		connections[k].WorkflowID = "wf"
		connections[k].Ordinal = int64(k + 1)
		connections[k].ID = "c" + strconv.Itoa(k+1)
	}
	return &memory{
		workflow: dbmodels.Workflow{
			BaseSpaceModel: dbmodels.BaseSpaceModel{
				BaseModel: dbmodels.BaseModel{ID: "wf"},
				SpaceID:   "space",
			},
			Status:  models.WorkflowStatusActive,
			Version: 1,
		},
		nodes:       nodes,
		connections: connections,
		instances:   map[string]dbmodels.CandidateWorkflow{},
		executions:  map[string]dbmodels.NodeExecution{},
	}
}

func (m *memory) addInstance(id string, status models.CandidateWorkflowStatus, currentNodeID *string) {
	m.instances[id] = dbmodels.CandidateWorkflow{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{ID: id},
			SpaceID:   "space",
		},
		CandidateID:     "candidate-" + id,
		WorkflowID:      "wf",
		WorkflowVersion: 1,
		Status:          status,
		CurrentNodeID:   currentNodeID,
	}
}

func (m *memory) addExecution(id, instanceID, nodeID string, status models.ExecutionStatus) {
	m.executions[id] = dbmodels.NodeExecution{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			BaseModel: dbmodels.BaseModel{ID: id},
			SpaceID:   "space",
		},
		CandidateWorkflowID: instanceID,
		NodeID:              nodeID,
		Status:              status,
	}
}

func (m *memory) node(id string) *dbmodels.WorkflowNode {
	for _, node := range m.nodes {
		if node.ID == id {
			rec := node
			return &rec
		}
	}
	return nil
}

type instanceStoreMock struct {
	candidateworkflowstore.Provider
	mem *memory
}

func (s instanceStoreMock) GetByID(spaceID, id string) (*dbmodels.CandidateWorkflow, error) {
	rec, ok := s.mem.instances[id]
	if !ok || rec.SpaceID != spaceID {
		return nil, nil
	}
	return &rec, nil
}

func (s instanceStoreMock) GetForUpdate(spaceID, id string) (*dbmodels.CandidateWorkflow, error) {
	return s.GetByID(spaceID, id)
}

func (s instanceStoreMock) Save(rec *dbmodels.CandidateWorkflow) error {
	s.mem.instances[rec.ID] = *rec
	return nil
}

type executionStoreMock struct {
	executionstore.Provider
	mem *memory
}

func (s executionStoreMock) GetByID(spaceID, id string) (*dbmodels.NodeExecution, error) {
	rec, ok := s.mem.executions[id]
	if !ok || rec.SpaceID != spaceID {
		return nil, nil
	}
	rec.Node = s.mem.node(rec.NodeID)
	return &rec, nil
}

func (s executionStoreMock) GetForUpdate(spaceID, id string) (*dbmodels.NodeExecution, error) {
	return s.GetByID(spaceID, id)
}

func (s executionStoreMock) GetByNode(candidateWorkflowID, nodeID string) (*dbmodels.NodeExecution, error) {
	for _, rec := range s.mem.executions {
		if rec.CandidateWorkflowID == candidateWorkflowID && rec.NodeID == nodeID {
			return &rec, nil
		}
	}
	return nil, nil
}

func (s executionStoreMock) Create(rec dbmodels.NodeExecution) (string, error) {
	rec.ID = "exec-" + rec.NodeID
	rec.Node = nil
	s.mem.executions[rec.ID] = rec
	s.mem.createdExecutions = append(s.mem.createdExecutions, rec.ID)
	return rec.ID, nil
}

func (s executionStoreMock) Save(rec *dbmodels.NodeExecution) error {
	saved := *rec
	saved.Node = nil
	s.mem.executions[rec.ID] = saved
	return nil
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

func (s nodeStoreMock) GetByID(workflowID, id string) (*dbmodels.WorkflowNode, error) {
	node := s.mem.node(id)
	if node == nil || node.WorkflowID != workflowID {
		return nil, nil
	}
	return node, nil
}

func (s nodeStoreMock) GetForShare(id string) (*dbmodels.WorkflowNode, error) {
	return s.mem.node(id), nil
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

// recorder издатель, запоминающий отправленные события
type recorder struct {
	mu   sync.Mutex
	list []events.Event
}

func (r *recorder) Publish(ctx context.Context, event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, event)
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]events.EventType, 0, len(r.list))
	for _, event := range r.list {
		result = append(result, event.Type)
	}
	return result
}

// newTestHandler обработчик с транзакциями через sqlmock, хранилищами в памяти
// и издателем событий, который восстанавливается после теста
func newTestHandler(t *testing.T, mem *memory) (impl, sqlmock.Sqlmock, *recorder) {
	sqlDB, mock, err := sqlmock.New()
	require.Nil(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.Nil(t, err)

	published := &recorder{}
	prev := events.Instance
	events.Instance = published
	t.Cleanup(func() { events.Instance = prev })

	stores := txStores{
		instances:   func(tx *gorm.DB) candidateworkflowstore.Provider { return instanceStoreMock{mem: mem} },
		executions:  func(tx *gorm.DB) executionstore.Provider { return executionStoreMock{mem: mem} },
		workflows:   func(tx *gorm.DB) workflowstore.Provider { return workflowStoreMock{mem: mem} },
		nodes:       func(tx *gorm.DB) nodestore.Provider { return nodeStoreMock{mem: mem} },
		connections: func(tx *gorm.DB) connectionstore.Provider { return connectionStoreMock{mem: mem} },
	}
	return impl{
		db:             db,
		stores:         stores,
		store:          instanceStoreMock{mem: mem},
		executionStore: executionStoreMock{mem: mem},
		workflowStore:  workflowStoreMock{mem: mem},
		lockWait:       time.Second,
	}, mock, published
}

func strPtr(s string) *string {
	return &s
}
