package workflowapimodels

import (
	"encoding/json"
	"hr-workflow-backend/lib/workflow/condition"
	"hr-workflow-backend/lib/workflow/graph"
	"hr-workflow-backend/models"
	dbmodels "hr-workflow-backend/models/db"

	"github.com/pkg/errors"
)

type NodeData struct {
	NodeType      models.NodeType   `json:"node_type" validate:"required,oneof=interview todo assessment decision"` // тип этапа
	Title         string            `json:"title" validate:"required,max=255"`                                      // название этапа
	Description   string            `json:"description"`                                                            // описание
	Instructions  string            `json:"instructions"`                                                           // инструкция для исполнителя
	SequenceOrder *int              `json:"sequence_order" validate:"omitempty,min=1"`                              // порядковый номер, по умолчанию в конец
	PositionX     float64           `json:"position_x"`                                                             // положение на схеме
	PositionY     float64           `json:"position_y"`                                                             // положение на схеме
	Config        json.RawMessage   `json:"config" swaggertype:"object"`                                            // настройки этапа по типу
	Status        models.NodeStatus `json:"status" validate:"omitempty,oneof=draft active inactive"`                // статус, по умолчанию active
	IsRequired    bool              `json:"is_required"`                                                            // обязательный этап
	CanSkip       bool              `json:"can_skip"`                                                               // этап можно пропустить
	AutoAdvance   bool              `json:"auto_advance"`                                                           // автопереход при единственном следующем этапе
}

func (n NodeData) Validate() error {
	if err := validateStruct(n); err != nil {
		return err
	}
	if n.IsRequired && n.CanSkip {
		return errors.New("обязательный этап нельзя пропускать")
	}
	return nil
}

func (n NodeData) GetStatus() models.NodeStatus {
	if n.Status == "" {
		return models.NodeStatusActive
	}
	return n.Status
}

type NodeView struct {
	NodeData
	ID            string `json:"id"`
	WorkflowID    string `json:"workflow_id"`
	SequenceOrder int    `json:"sequence_order"`
}

func NodeConvert(rec dbmodels.WorkflowNode) NodeView {
	return NodeView{
		NodeData: NodeData{
			NodeType:     rec.NodeType,
			Title:        rec.Title,
			Description:  rec.Description,
			Instructions: rec.Instructions,
			PositionX:    rec.PositionX,
			PositionY:    rec.PositionY,
			Config:       json.RawMessage(rec.Config),
			Status:       rec.Status,
			IsRequired:   rec.IsRequired,
			CanSkip:      rec.CanSkip,
			AutoAdvance:  rec.AutoAdvance,
		},
		ID:            rec.ID,
		WorkflowID:    rec.WorkflowID,
		SequenceOrder: rec.SequenceOrder,
	}
}

type ReorderRequest struct {
	Items []graph.OrderItem `json:"items" validate:"required,min=1"` // новые порядковые номера этапов
}

func (r ReorderRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	for _, item := range r.Items {
		if item.NodeID == "" {
			return errors.New("не указан этап")
		}
		if item.NewOrder < 1 {
			return errors.New("порядковый номер этапа должен быть больше 0")
		}
	}
	return nil
}

type NodeOrderRequest struct {
	NewOrder int `json:"new_order" validate:"required,min=1"` // новая позиция этапа
}

func (r NodeOrderRequest) Validate() error {
	return validateStruct(r)
}

type ConnectionData struct {
	SourceNodeID    string               `json:"source_node_id" validate:"required"`                                          // этап-источник
	TargetNodeID    string               `json:"target_node_id" validate:"required,nefield=SourceNodeID"`                     // целевой этап
	ConditionType   models.ConditionType `json:"condition_type" validate:"required,oneof=success failure always conditional"` // условие перехода
	ConditionConfig *condition.Config    `json:"condition_config"`                                                            // параметры условного перехода
}

func (c ConnectionData) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	return condition.ValidateConfig(c.ConditionType, c.ConditionConfig)
}

type ConnectionView struct {
	ConnectionData
	ID         string `json:"id"`
	WorkflowID string `json:"workflow_id"`
}

func ConnectionConvert(rec dbmodels.NodeConnection) ConnectionView {
	cfg, _ := condition.ParseConfig(rec.ConditionConfig)
	return ConnectionView{
		ConnectionData: ConnectionData{
			SourceNodeID:    rec.SourceNodeID,
			TargetNodeID:    rec.TargetNodeID,
			ConditionType:   rec.ConditionType,
			ConditionConfig: cfg,
		},
		ID:         rec.ID,
		WorkflowID: rec.WorkflowID,
	}
}

// GraphView процесс со всеми этапами и связями
type GraphView struct {
	Workflow    WorkflowView     `json:"workflow"`
	Nodes       []NodeView       `json:"nodes"`
	Connections []ConnectionView `json:"connections"`
}

func GraphConvert(workflow dbmodels.Workflow, nodes []dbmodels.WorkflowNode, connections []dbmodels.NodeConnection) GraphView {
	result := GraphView{
		Workflow:    WorkflowConvert(workflow),
		Nodes:       make([]NodeView, 0, len(nodes)),
		Connections: make([]ConnectionView, 0, len(connections)),
	}
	for _, rec := range nodes {
		result.Nodes = append(result.Nodes, NodeConvert(rec))
	}
	for _, rec := range connections {
		result.Connections = append(result.Connections, ConnectionConvert(rec))
	}
	return result
}

type PathsView struct {
	Paths [][]string `json:"paths"`
}
