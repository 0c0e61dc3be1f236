// Package graph граф этапов процесса найма в памяти: построение из записей БД,
// изменение структуры, валидация, перебор путей и переходы между этапами.
package graph

import (
	"hr-workflow-backend/lib/workflow/condition"
	"hr-workflow-backend/lib/workflow/wferrors"
	"hr-workflow-backend/models"
	dbmodels "hr-workflow-backend/models/db"
	"sort"

	"github.com/pkg/errors"
)

type Node struct {
	ID            string
	Type          models.NodeType
	Title         string
	SequenceOrder int
	Status        models.NodeStatus
	IsRequired    bool
	CanSkip       bool
	AutoAdvance   bool
}

func (n Node) IsActive() bool {
	return n.Status == models.NodeStatusActive
}

type Connection struct {
	ID            string
	SourceID      string
	TargetID      string
	ConditionType models.ConditionType
	Condition     *condition.Config
}

type Graph struct {
	WorkflowID string
	Status     models.WorkflowStatus

	nodes       map[string]*Node
	connections []Connection
	outgoing    map[string][]Connection
	incoming    map[string][]Connection
}

func New(workflowID string, status models.WorkflowStatus) *Graph {
	return &Graph{
		WorkflowID: workflowID,
		Status:     status,
		nodes:      map[string]*Node{},
		outgoing:   map[string][]Connection{},
		incoming:   map[string][]Connection{},
	}
}

func NodeFromDB(rec dbmodels.WorkflowNode) Node {
	return Node{
		ID:            rec.ID,
		Type:          rec.NodeType,
		Title:         rec.Title,
		SequenceOrder: rec.SequenceOrder,
		Status:        rec.Status,
		IsRequired:    rec.IsRequired,
		CanSkip:       rec.CanSkip,
		AutoAdvance:   rec.AutoAdvance,
	}
}

func ConnectionFromDB(rec dbmodels.NodeConnection) (Connection, error) {
	cfg, err := condition.ParseConfig(rec.ConditionConfig)
	if err != nil {
		return Connection{}, errors.Wrapf(err, "связь %v", rec.ID)
	}
	return Connection{
		ID:            rec.ID,
		SourceID:      rec.SourceNodeID,
		TargetID:      rec.TargetNodeID,
		ConditionType: rec.ConditionType,
		Condition:     cfg,
	}, nil
}

// Build граф по сохраненным этапам и связям; связи должны идти в порядке добавления
func Build(workflow dbmodels.Workflow, nodes []dbmodels.WorkflowNode, connections []dbmodels.NodeConnection) (*Graph, error) {
	g := New(workflow.ID, workflow.Status)
	for _, rec := range nodes {
		node := NodeFromDB(rec)
		g.nodes[node.ID] = &node
	}
	for _, rec := range connections {
		conn, err := ConnectionFromDB(rec)
		if err != nil {
			return nil, err
		}
		if g.nodes[conn.SourceID] == nil || g.nodes[conn.TargetID] == nil {
			return nil, wferrors.NotFound("связь %v ссылается на отсутствующий этап", conn.ID)
		}
		g.link(conn)
	}
	return g, nil
}

func (g *Graph) link(conn Connection) {
	g.connections = append(g.connections, conn)
	g.outgoing[conn.SourceID] = append(g.outgoing[conn.SourceID], conn)
	g.incoming[conn.TargetID] = append(g.incoming[conn.TargetID], conn)
}

func (g *Graph) rebuildAdjacency() {
	g.outgoing = map[string][]Connection{}
	g.incoming = map[string][]Connection{}
	for _, conn := range g.connections {
		g.outgoing[conn.SourceID] = append(g.outgoing[conn.SourceID], conn)
		g.incoming[conn.TargetID] = append(g.incoming[conn.TargetID], conn)
	}
}

func (g *Graph) ensureEditable() error {
	if !g.Status.IsEditable() {
		return errors.Wrapf(wferrors.ErrNotEditable, "статус процесса: %v", g.Status)
	}
	return nil
}

func (g *Graph) Node(id string) (Node, bool) {
	node, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *node, true
}

// Nodes этапы в порядке sequence_order
func (g *Graph) Nodes() []Node {
	result := make([]Node, 0, len(g.nodes))
	for _, node := range g.nodes {
		result = append(result, *node)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SequenceOrder == result[j].SequenceOrder {
			return result[i].ID < result[j].ID
		}
		return result[i].SequenceOrder < result[j].SequenceOrder
	})
	return result
}

// Connections связи в порядке добавления
func (g *Graph) Connections() []Connection {
	result := make([]Connection, len(g.connections))
	copy(result, g.connections)
	return result
}

func (g *Graph) Outgoing(nodeID string) []Connection {
	return g.outgoing[nodeID]
}

func (g *Graph) Incoming(nodeID string) []Connection {
	return g.incoming[nodeID]
}

func (g *Graph) MaxSequenceOrder() int {
	max := 0
	for _, node := range g.nodes {
		if node.SequenceOrder > max {
			max = node.SequenceOrder
		}
	}
	return max
}

func (g *Graph) sequenceOwner(order int) (string, bool) {
	for id, node := range g.nodes {
		if node.SequenceOrder == order {
			return id, true
		}
	}
	return "", false
}

func (g *Graph) AddNode(node Node) error {
	if err := g.ensureEditable(); err != nil {
		return err
	}
	if node.ID == "" {
		return wferrors.InvalidArgument("не указан идентификатор этапа")
	}
	if _, ok := g.nodes[node.ID]; ok {
		return errors.Wrapf(wferrors.ErrAlreadyExists, "этап %v", node.ID)
	}
	if !node.Type.IsValid() {
		return wferrors.InvalidArgument("неизвестный тип этапа: %v", node.Type)
	}
	if node.SequenceOrder < 1 {
		return wferrors.InvalidArgument("порядковый номер этапа должен быть больше 0")
	}
	if ownerID, busy := g.sequenceOwner(node.SequenceOrder); busy {
		return wferrors.InvalidArgument("порядковый номер %v уже занят этапом %v", node.SequenceOrder, ownerID)
	}
	g.nodes[node.ID] = &node
	return nil
}

// UpdateNode изменение атрибутов этапа, порядковый номер меняется только через Reorder
func (g *Graph) UpdateNode(node Node) error {
	if err := g.ensureEditable(); err != nil {
		return err
	}
	existing, ok := g.nodes[node.ID]
	if !ok {
		return wferrors.NotFound("этап %v", node.ID)
	}
	if !node.Type.IsValid() {
		return wferrors.InvalidArgument("неизвестный тип этапа: %v", node.Type)
	}
	node.SequenceOrder = existing.SequenceOrder
	*existing = node
	return nil
}

// RemoveNode удаление этапа вместе со всеми его связями.
// Этап, по которому есть выполнения, удалить нельзя, граф при этом не меняется.
func (g *Graph) RemoveNode(id string, executionCount int64) (removed []Connection, err error) {
	if err = g.ensureEditable(); err != nil {
		return nil, err
	}
	if _, ok := g.nodes[id]; !ok {
		return nil, wferrors.NotFound("этап %v", id)
	}
	if executionCount > 0 {
		return nil, errors.Wrapf(wferrors.ErrHasExecutions, "этап %v, выполнений: %v", id, executionCount)
	}
	kept := make([]Connection, 0, len(g.connections))
	for _, conn := range g.connections {
		if conn.SourceID == id || conn.TargetID == id {
			removed = append(removed, conn)
			continue
		}
		kept = append(kept, conn)
	}
	g.connections = kept
	delete(g.nodes, id)
	g.rebuildAdjacency()
	return removed, nil
}

func (g *Graph) FindConnection(sourceID, targetID string) (Connection, bool) {
	for _, conn := range g.outgoing[sourceID] {
		if conn.TargetID == targetID {
			return conn, true
		}
	}
	return Connection{}, false
}

func (g *Graph) AddConnection(conn Connection) error {
	if err := g.ensureEditable(); err != nil {
		return err
	}
	if conn.ID == "" {
		return wferrors.InvalidArgument("не указан идентификатор связи")
	}
	if _, ok := g.nodes[conn.SourceID]; !ok {
		return wferrors.NotFound("этап-источник %v", conn.SourceID)
	}
	if _, ok := g.nodes[conn.TargetID]; !ok {
		return wferrors.NotFound("целевой этап %v", conn.TargetID)
	}
	if conn.SourceID == conn.TargetID {
		return wferrors.InvalidArgument("этап не может ссылаться сам на себя")
	}
	if _, exist := g.FindConnection(conn.SourceID, conn.TargetID); exist {
		return errors.Wrapf(wferrors.ErrDuplicateConnection, "%v -> %v", conn.SourceID, conn.TargetID)
	}
	if err := condition.ValidateConfig(conn.ConditionType, conn.Condition); err != nil {
		return err
	}
	g.link(conn)
	return nil
}

func (g *Graph) RemoveConnection(id string) (Connection, error) {
	if err := g.ensureEditable(); err != nil {
		return Connection{}, err
	}
	for k, conn := range g.connections {
		if conn.ID != id {
			continue
		}
		g.connections = append(g.connections[:k:k], g.connections[k+1:]...)
		g.rebuildAdjacency()
		return conn, nil
	}
	return Connection{}, wferrors.NotFound("связь %v", id)
}

// NextNodes этапы, в которые можно перейти из nodeID при данном результате.
// Порядок совпадает с порядком добавления связей.
func (g *Graph) NextNodes(nodeID, result string, score *float64) ([]Node, error) {
	if _, ok := g.nodes[nodeID]; !ok {
		return nil, wferrors.NotFound("этап %v", nodeID)
	}
	next := make([]Node, 0, len(g.outgoing[nodeID]))
	for _, conn := range g.outgoing[nodeID] {
		if !condition.Evaluate(conn.ConditionType, result, score, conn.Condition) {
			continue
		}
		target := g.nodes[conn.TargetID]
		if target == nil || !target.IsActive() {
			continue
		}
		next = append(next, *target)
	}
	return next, nil
}
