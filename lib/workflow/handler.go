package workflowhandler

import (
	"context"
	"encoding/json"
	"hr-workflow-backend/config"
	"hr-workflow-backend/db"
	connectionstore "hr-workflow-backend/lib/workflow/connection-store"
	"hr-workflow-backend/lib/workflow/events"
	"hr-workflow-backend/lib/workflow/graph"
	nodestore "hr-workflow-backend/lib/workflow/node-store"
	"hr-workflow-backend/lib/workflow/nodeconfig"
	"hr-workflow-backend/lib/workflow/wferrors"
	workflowstore "hr-workflow-backend/lib/workflow/workflow-store"
	"hr-workflow-backend/models"
	workflowapimodels "hr-workflow-backend/models/api/workflow"
	dbmodels "hr-workflow-backend/models/db"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Provider interface {
	Create(spaceID, userID string, data workflowapimodels.WorkflowData) (id string, err error)
	Update(spaceID, id string, data workflowapimodels.WorkflowData) error
	GetByID(spaceID, id string) (item workflowapimodels.WorkflowView, err error)
	List(spaceID string, filter workflowapimodels.WorkflowFilter) (list []workflowapimodels.WorkflowView, rowCount int64, err error)
	Delete(ctx context.Context, spaceID, id, userID string) (result workflowapimodels.ArchiveResult, err error)
	Activate(ctx context.Context, spaceID, id, userID string) (result graph.ValidationResult, err error)
	Deactivate(spaceID, id, userID string) error
	Archive(ctx context.Context, spaceID, id, userID string) (result workflowapimodels.ArchiveResult, err error)
	CreateFromTemplate(spaceID, userID, templateID string, data workflowapimodels.FromTemplateRequest) (id string, err error)
	GetGraph(spaceID, id string) (result workflowapimodels.GraphView, err error)
	NodeCreate(spaceID, id string, data workflowapimodels.NodeData) (item workflowapimodels.NodeView, err error)
	NodeUpdate(spaceID, id, nodeID string, data workflowapimodels.NodeData) (item workflowapimodels.NodeView, err error)
	NodeDelete(spaceID, id, nodeID string) error
	ConnectionCreate(spaceID, id string, data workflowapimodels.ConnectionData) (item workflowapimodels.ConnectionView, err error)
	ConnectionDelete(spaceID, id, connectionID string) error
	Reorder(spaceID, id string, items []graph.OrderItem) error
	NodeChangeOrder(spaceID, id, nodeID string, newOrder int) error
	Validate(spaceID, id string) (result graph.ValidationResult, err error)
	Paths(spaceID, id, startNodeID string) (result workflowapimodels.PathsView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		db:           db.DB,
		stores:       defaultStores,
		store:        workflowstore.NewInstance(db.DB),
		nodeStore:    nodestore.NewInstance(db.DB),
		connStore:    connectionstore.NewInstance(db.DB),
		shadowOffset: config.Conf.Workflow.ShadowOffset,
	}
}

type impl struct {
	db           *gorm.DB
	stores       txStores
	store        workflowstore.Provider
	nodeStore    nodestore.Provider
	connStore    connectionstore.Provider
	shadowOffset int
}

func (i impl) Create(spaceID, userID string, data workflowapimodels.WorkflowData) (id string, err error) {
	logger := i.getLogger(spaceID, "", userID)
	rec := dbmodels.Workflow{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		Name:        data.Name,
		Description: data.Description,
		Status:      models.WorkflowStatusDraft,
		Version:     1,
		IsTemplate:  data.IsTemplate,
		Tags:        pq.StringArray(data.Tags),
		Settings:    datatypes.JSONMap(data.Settings),
		AuthorID:    userID,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания процесса")
	}
	logger.WithField("workflow_id", id).Info("создан процесс найма")
	return id, nil
}

func (i impl) Update(spaceID, id string, data workflowapimodels.WorkflowData) error {
	logger := i.getLogger(spaceID, id, "")
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return err
	}
	if !rec.Status.IsEditable() {
		return errors.Wrapf(wferrors.ErrNotEditable, "статус процесса: %v", rec.Status)
	}
	updMap := map[string]interface{}{
		"name":        data.Name,
		"description": data.Description,
		"is_template": data.IsTemplate,
		"tags":        pq.StringArray(data.Tags),
		"settings":    datatypes.JSONMap(data.Settings),
	}
	err = i.store.Update(spaceID, id, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка обновления процесса")
	}
	logger.Info("обновлен процесс найма")
	return nil
}

func (i impl) GetByID(spaceID, id string) (item workflowapimodels.WorkflowView, err error) {
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return workflowapimodels.WorkflowView{}, err
	}
	return workflowapimodels.WorkflowConvert(*rec), nil
}

func (i impl) List(spaceID string, filter workflowapimodels.WorkflowFilter) (list []workflowapimodels.WorkflowView, rowCount int64, err error) {
	rowCount, err = i.store.ListCount(spaceID, filter)
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []workflowapimodels.WorkflowView{}, rowCount, nil
	}
	recList, err := i.store.List(spaceID, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка процессов")
	}
	list = make([]workflowapimodels.WorkflowView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, workflowapimodels.WorkflowConvert(rec))
	}
	return list, rowCount, nil
}

// Delete мягкое удаление процесса. Зависимые интервью и задачи возвращаются вызывающей стороне.
func (i impl) Delete(ctx context.Context, spaceID, id, userID string) (result workflowapimodels.ArchiveResult, err error) {
	logger := i.getLogger(spaceID, id, userID)
	err = i.db.Transaction(func(tx *gorm.DB) error {
		store := i.stores.workflows(tx)
		rec, err := store.GetForUpdate(spaceID, id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения процесса")
		}
		if rec == nil {
			return wferrors.NotFound("процесс %v", id)
		}
		if rec.Status == models.WorkflowStatusActive {
			return wferrors.InvalidTransition("активный процесс нельзя удалить, сначала его нужно деактивировать")
		}
		result.InterviewIDs, result.TodoIDs, err = i.stores.executions(tx).LinkedIDsByWorkflow(spaceID, id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения связанных интервью и задач")
		}
		return store.Delete(spaceID, id)
	})
	if err != nil {
		return workflowapimodels.ArchiveResult{}, err
	}
	logger.Info("удален процесс найма")
	return result, nil
}

// Activate перевод черновика в работу, граф должен пройти проверку.
// При ошибках проверки процесс остается черновиком, замечания возвращаются в result.
func (i impl) Activate(ctx context.Context, spaceID, id, userID string) (result graph.ValidationResult, err error) {
	logger := i.getLogger(spaceID, id, userID)
	err = i.db.Transaction(func(tx *gorm.DB) error {
		rec, g, err := i.loadGraph(tx, spaceID, id, true)
		if err != nil {
			return err
		}
		if rec.Status != models.WorkflowStatusDraft {
			return wferrors.InvalidTransition("активировать можно только черновик, статус процесса: %v", rec.Status)
		}
		result = g.Validate()
		if !result.IsValid {
			return nil
		}
		now := time.Now()
		updMap := map[string]interface{}{
			"status":       models.WorkflowStatusActive,
			"activated_at": now,
		}
		return i.stores.workflows(tx).Update(spaceID, id, updMap)
	})
	if err != nil {
		return graph.ValidationResult{}, err
	}
	if !result.IsValid {
		logger.Info("процесс найма не прошел проверку перед активацией")
		return result, nil
	}
	logger.Info("процесс найма активирован")
	events.Instance.Publish(ctx, events.Event{
		Type:       events.WorkflowActivated,
		SpaceID:    spaceID,
		WorkflowID: id,
		UserID:     userID,
	})
	return result, nil
}

func (i impl) Deactivate(spaceID, id, userID string) error {
	logger := i.getLogger(spaceID, id, userID)
	err := i.db.Transaction(func(tx *gorm.DB) error {
		store := i.stores.workflows(tx)
		rec, err := store.GetForUpdate(spaceID, id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения процесса")
		}
		if rec == nil {
			return wferrors.NotFound("процесс %v", id)
		}
		if rec.Status != models.WorkflowStatusActive {
			return wferrors.InvalidTransition("деактивировать можно только активный процесс, статус процесса: %v", rec.Status)
		}
		return store.Update(spaceID, id, map[string]interface{}{"status": models.WorkflowStatusInactive})
	})
	if err != nil {
		return err
	}
	logger.Info("процесс найма деактивирован")
	return nil
}

// Archive перевод процесса в архив, из архива возврата нет
func (i impl) Archive(ctx context.Context, spaceID, id, userID string) (result workflowapimodels.ArchiveResult, err error) {
	logger := i.getLogger(spaceID, id, userID)
	err = i.db.Transaction(func(tx *gorm.DB) error {
		store := i.stores.workflows(tx)
		rec, err := store.GetForUpdate(spaceID, id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения процесса")
		}
		if rec == nil {
			return wferrors.NotFound("процесс %v", id)
		}
		if rec.Status == models.WorkflowStatusArchived {
			return wferrors.InvalidTransition("процесс уже в архиве")
		}
		result.InterviewIDs, result.TodoIDs, err = i.stores.executions(tx).LinkedIDsByWorkflow(spaceID, id)
		if err != nil {
			return errors.Wrap(err, "ошибка получения связанных интервью и задач")
		}
		updMap := map[string]interface{}{
			"status":      models.WorkflowStatusArchived,
			"archived_at": time.Now(),
		}
		return store.Update(spaceID, id, updMap)
	})
	if err != nil {
		return workflowapimodels.ArchiveResult{}, err
	}
	logger.
		WithField("interviews", len(result.InterviewIDs)).
		WithField("todos", len(result.TodoIDs)).
		Info("процесс найма перемещен в архив")
	events.Instance.Publish(ctx, events.Event{
		Type:       events.WorkflowArchived,
		SpaceID:    spaceID,
		WorkflowID: id,
		UserID:     userID,
		Data: map[string]any{
			"interview_ids": result.InterviewIDs,
			"todo_ids":      result.TodoIDs,
		},
	})
	return result, nil
}

// CreateFromTemplate новый черновик с копией этапов и связей шаблона
func (i impl) CreateFromTemplate(spaceID, userID, templateID string, data workflowapimodels.FromTemplateRequest) (id string, err error) {
	logger := i.getLogger(spaceID, templateID, userID)
	err = i.db.Transaction(func(tx *gorm.DB) error {
		template, err := i.stores.workflows(tx).GetByID(spaceID, templateID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения шаблона")
		}
		if template == nil {
			return wferrors.NotFound("шаблон %v", templateID)
		}
		if !template.IsTemplate {
			return wferrors.InvalidArgument("процесс %v не является шаблоном", templateID)
		}
		nodes, err := i.stores.nodes(tx).List(templateID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения этапов шаблона")
		}
		connections, err := i.stores.connections(tx).List(templateID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения связей шаблона")
		}

		workflow, nodeCopies, connCopies := copyTemplate(*template, nodes, connections, data.Name, userID)
		id, err = i.stores.workflows(tx).Create(workflow)
		if err != nil {
			return errors.Wrap(err, "ошибка создания процесса по шаблону")
		}
		nodeStore := i.stores.nodes(tx)
		for _, node := range nodeCopies {
			node.WorkflowID = id
			if _, err = nodeStore.Create(node); err != nil {
				return errors.Wrapf(err, "ошибка копирования этапа %v", node.Title)
			}
		}
		connStore := i.stores.connections(tx)
		for _, conn := range connCopies {
			conn.WorkflowID = id
			if _, err = connStore.Create(conn); err != nil {
				return errors.Wrap(err, "ошибка копирования связи")
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	logger.WithField("new_workflow_id", id).Info("создан процесс найма по шаблону")
	return id, nil
}

// copyTemplate копии записей шаблона с новыми идентификаторами этапов и связей.
// Связи копируются в порядке добавления, порядок переходов сохраняется.
func copyTemplate(template dbmodels.Workflow, nodes []dbmodels.WorkflowNode, connections []dbmodels.NodeConnection, name, userID string) (dbmodels.Workflow, []dbmodels.WorkflowNode, []dbmodels.NodeConnection) {
	workflow := dbmodels.Workflow{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: template.SpaceID,
		},
		Name:        name,
		Description: template.Description,
		Status:      models.WorkflowStatusDraft,
		Version:     1,
		Tags:        template.Tags,
		Settings:    template.Settings,
		AuthorID:    userID,
	}
	idMap := make(map[string]string, len(nodes))
	nodeCopies := make([]dbmodels.WorkflowNode, 0, len(nodes))
	for _, node := range nodes {
		newID := uuid.NewString()
		idMap[node.ID] = newID
		node.BaseModel = dbmodels.BaseModel{ID: newID}
		node.WorkflowID = ""
		nodeCopies = append(nodeCopies, node)
	}
	connCopies := make([]dbmodels.NodeConnection, 0, len(connections))
	for _, conn := range connections {
		// порядковый номер связи выдает база при вставке, связи вставляются в исходном порядке
		conn.BaseModel = dbmodels.BaseModel{ID: uuid.NewString()}
		conn.Ordinal = 0
		conn.WorkflowID = ""
		conn.SourceNodeID = idMap[conn.SourceNodeID]
		conn.TargetNodeID = idMap[conn.TargetNodeID]
		conn.SourceNode = nil
		conn.TargetNode = nil
		connCopies = append(connCopies, conn)
	}
	return workflow, nodeCopies, connCopies
}

func (i impl) GetGraph(spaceID, id string) (result workflowapimodels.GraphView, err error) {
	rec, err := i.getRec(spaceID, id)
	if err != nil {
		return workflowapimodels.GraphView{}, err
	}
	nodes, err := i.nodeStore.List(id)
	if err != nil {
		return workflowapimodels.GraphView{}, errors.Wrap(err, "ошибка получения этапов процесса")
	}
	connections, err := i.connStore.List(id)
	if err != nil {
		return workflowapimodels.GraphView{}, errors.Wrap(err, "ошибка получения связей процесса")
	}
	return workflowapimodels.GraphConvert(*rec, nodes, connections), nil
}

func (i impl) NodeCreate(spaceID, id string, data workflowapimodels.NodeData) (item workflowapimodels.NodeView, err error) {
	logger := i.getLogger(spaceID, id, "")
	cfg, err := nodeconfig.Normalize(data.NodeType, data.Config)
	if err != nil {
		return workflowapimodels.NodeView{}, err
	}
	rec := dbmodels.WorkflowNode{
		BaseModel: dbmodels.BaseModel{
			ID: uuid.NewString(),
		},
		WorkflowID:   id,
		NodeType:     data.NodeType,
		Title:        data.Title,
		Description:  data.Description,
		Instructions: data.Instructions,
		PositionX:    data.PositionX,
		PositionY:    data.PositionY,
		Config:       datatypes.JSON(cfg),
		Status:       data.GetStatus(),
		IsRequired:   data.IsRequired,
		CanSkip:      data.CanSkip,
		AutoAdvance:  data.AutoAdvance,
	}
	err = i.mutate(spaceID, id, func(tx *gorm.DB, g *graph.Graph) error {
		rec.SequenceOrder = g.MaxSequenceOrder() + 1
		if data.SequenceOrder != nil {
			rec.SequenceOrder = *data.SequenceOrder
		}
		if err := g.AddNode(graph.NodeFromDB(rec)); err != nil {
			return err
		}
		_, err := i.stores.nodes(tx).Create(rec)
		return err
	})
	if err != nil {
		return workflowapimodels.NodeView{}, err
	}
	logger.WithField("node_id", rec.ID).Info("добавлен этап процесса")
	return workflowapimodels.NodeConvert(rec), nil
}

// NodeUpdate изменение этапа, порядковый номер меняется только через Reorder/NodeChangeOrder
func (i impl) NodeUpdate(spaceID, id, nodeID string, data workflowapimodels.NodeData) (item workflowapimodels.NodeView, err error) {
	logger := i.getLogger(spaceID, id, "").WithField("node_id", nodeID)
	cfg, err := nodeconfig.Normalize(data.NodeType, data.Config)
	if err != nil {
		return workflowapimodels.NodeView{}, err
	}
	var rec *dbmodels.WorkflowNode
	err = i.mutate(spaceID, id, func(tx *gorm.DB, g *graph.Graph) error {
		store := i.stores.nodes(tx)
		var err error
		rec, err = store.GetForUpdate(id, nodeID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения этапа")
		}
		if rec == nil {
			return wferrors.NotFound("этап %v", nodeID)
		}
		rec.NodeType = data.NodeType
		rec.Title = data.Title
		rec.Description = data.Description
		rec.Instructions = data.Instructions
		rec.PositionX = data.PositionX
		rec.PositionY = data.PositionY
		rec.Config = datatypes.JSON(cfg)
		rec.Status = data.GetStatus()
		rec.IsRequired = data.IsRequired
		rec.CanSkip = data.CanSkip
		rec.AutoAdvance = data.AutoAdvance
		if err = g.UpdateNode(graph.NodeFromDB(*rec)); err != nil {
			return err
		}
		updMap := map[string]interface{}{
			"node_type":    rec.NodeType,
			"title":        rec.Title,
			"description":  rec.Description,
			"instructions": rec.Instructions,
			"position_x":   rec.PositionX,
			"position_y":   rec.PositionY,
			"config":       rec.Config,
			"status":       rec.Status,
			"is_required":  rec.IsRequired,
			"can_skip":     rec.CanSkip,
			"auto_advance": rec.AutoAdvance,
		}
		return store.Update(id, nodeID, updMap)
	})
	if err != nil {
		return workflowapimodels.NodeView{}, err
	}
	logger.Info("обновлен этап процесса")
	return workflowapimodels.NodeConvert(*rec), nil
}

// NodeDelete удаление этапа вместе со связями. Строка этапа блокируется до конца транзакции,
// новые выполнения по нему в это время не создаются.
func (i impl) NodeDelete(spaceID, id, nodeID string) error {
	logger := i.getLogger(spaceID, id, "").WithField("node_id", nodeID)
	var removed []graph.Connection
	err := i.mutate(spaceID, id, func(tx *gorm.DB, g *graph.Graph) error {
		store := i.stores.nodes(tx)
		rec, err := store.GetForUpdate(id, nodeID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения этапа")
		}
		if rec == nil {
			return wferrors.NotFound("этап %v", nodeID)
		}
		count, err := i.stores.executions(tx).CountByNode(nodeID)
		if err != nil {
			return errors.Wrap(err, "ошибка получения количества выполнений этапа")
		}
		removed, err = g.RemoveNode(nodeID, count)
		if err != nil {
			return err
		}
		if err = i.stores.connections(tx).DeleteByNode(id, nodeID); err != nil {
			return errors.Wrap(err, "ошибка удаления связей этапа")
		}
		return store.Delete(id, nodeID)
	})
	if err != nil {
		return err
	}
	logger.WithField("connections", len(removed)).Info("удален этап процесса")
	return nil
}

func (i impl) ConnectionCreate(spaceID, id string, data workflowapimodels.ConnectionData) (item workflowapimodels.ConnectionView, err error) {
	logger := i.getLogger(spaceID, id, "")
	rec := dbmodels.NodeConnection{
		BaseModel: dbmodels.BaseModel{
			ID: uuid.NewString(),
		},
		WorkflowID:    id,
		SourceNodeID:  data.SourceNodeID,
		TargetNodeID:  data.TargetNodeID,
		ConditionType: data.ConditionType,
	}
	if data.ConditionConfig != nil {
		raw, err := json.Marshal(data.ConditionConfig)
		if err != nil {
			return workflowapimodels.ConnectionView{}, errors.Wrap(err, "ошибка сериализации условия перехода")
		}
		rec.ConditionConfig = datatypes.JSON(raw)
	}
	err = i.mutate(spaceID, id, func(tx *gorm.DB, g *graph.Graph) error {
		conn, err := graph.ConnectionFromDB(rec)
		if err != nil {
			return err
		}
		if err = g.AddConnection(conn); err != nil {
			return err
		}
		_, err = i.stores.connections(tx).Create(rec)
		return err
	})
	if err != nil {
		return workflowapimodels.ConnectionView{}, err
	}
	logger.
		WithField("connection_id", rec.ID).
		WithField("source_node_id", rec.SourceNodeID).
		WithField("target_node_id", rec.TargetNodeID).
		Info("добавлена связь этапов")
	return workflowapimodels.ConnectionConvert(rec), nil
}

func (i impl) ConnectionDelete(spaceID, id, connectionID string) error {
	logger := i.getLogger(spaceID, id, "").WithField("connection_id", connectionID)
	err := i.mutate(spaceID, id, func(tx *gorm.DB, g *graph.Graph) error {
		if _, err := g.RemoveConnection(connectionID); err != nil {
			return err
		}
		return i.stores.connections(tx).Delete(id, connectionID)
	})
	if err != nil {
		return err
	}
	logger.Info("удалена связь этапов")
	return nil
}

// Reorder пакетная смена порядковых номеров этапов
func (i impl) Reorder(spaceID, id string, items []graph.OrderItem) error {
	logger := i.getLogger(spaceID, id, "")
	err := i.mutate(spaceID, id, func(tx *gorm.DB, g *graph.Graph) error {
		plan, err := g.PlanReorder(items, i.shadowOffset)
		if err != nil {
			return err
		}
		return i.stores.nodes(tx).ApplySequence(id, plan)
	})
	if err != nil {
		return err
	}
	logger.WithField("items", len(items)).Info("изменен порядок этапов процесса")
	return nil
}

// NodeChangeOrder перемещение этапа на позицию со сдвигом остальных
func (i impl) NodeChangeOrder(spaceID, id, nodeID string, newOrder int) error {
	logger := i.getLogger(spaceID, id, "").WithField("node_id", nodeID)
	err := i.mutate(spaceID, id, func(tx *gorm.DB, g *graph.Graph) error {
		items, err := g.MoveNodePlan(nodeID, newOrder)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		plan, err := g.PlanReorder(items, i.shadowOffset)
		if err != nil {
			return err
		}
		return i.stores.nodes(tx).ApplySequence(id, plan)
	})
	if err != nil {
		return err
	}
	logger.WithField("new_order", newOrder).Info("изменен порядок этапов процесса")
	return nil
}

func (i impl) Validate(spaceID, id string) (result graph.ValidationResult, err error) {
	_, g, err := i.loadGraph(i.db, spaceID, id, false)
	if err != nil {
		return graph.ValidationResult{}, err
	}
	return g.Validate(), nil
}

func (i impl) Paths(spaceID, id, startNodeID string) (result workflowapimodels.PathsView, err error) {
	_, g, err := i.loadGraph(i.db, spaceID, id, false)
	if err != nil {
		return workflowapimodels.PathsView{}, err
	}
	paths, err := g.EnumeratePaths(startNodeID)
	if err != nil {
		return workflowapimodels.PathsView{}, err
	}
	return workflowapimodels.PathsView{Paths: paths}, nil
}

func (i impl) getRec(spaceID, id string) (*dbmodels.Workflow, error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения процесса")
	}
	if rec == nil {
		return nil, wferrors.NotFound("процесс %v", id)
	}
	return rec, nil
}

// loadGraph снимок графа процесса; forUpdate блокирует строку процесса до конца транзакции
func (i impl) loadGraph(tx *gorm.DB, spaceID, id string, forUpdate bool) (*dbmodels.Workflow, *graph.Graph, error) {
	store := i.stores.workflows(tx)
	var rec *dbmodels.Workflow
	var err error
	if forUpdate {
		rec, err = store.GetForUpdate(spaceID, id)
	} else {
		rec, err = store.GetByID(spaceID, id)
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения процесса")
	}
	if rec == nil {
		return nil, nil, wferrors.NotFound("процесс %v", id)
	}
	nodes, err := i.stores.nodes(tx).List(id)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения этапов процесса")
	}
	connections, err := i.stores.connections(tx).List(id)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения связей процесса")
	}
	g, err := graph.Build(*rec, nodes, connections)
	if err != nil {
		return nil, nil, err
	}
	return rec, g, nil
}

// mutate структурное изменение процесса в одной транзакции.
// После первой активации каждое изменение увеличивает версию процесса.
func (i impl) mutate(spaceID, id string, fn func(tx *gorm.DB, g *graph.Graph) error) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		rec, g, err := i.loadGraph(tx, spaceID, id, true)
		if err != nil {
			return err
		}
		if err = fn(tx, g); err != nil {
			return err
		}
		if rec.WasActivated() {
			if err = i.stores.workflows(tx).BumpVersion(spaceID, id); err != nil {
				return errors.Wrap(err, "ошибка обновления версии процесса")
			}
		}
		return nil
	})
}

func (i impl) getLogger(spaceID, workflowID, userID string) *log.Entry {
	logger := log.WithField("space_id", spaceID)
	if workflowID != "" {
		logger = logger.WithField("workflow_id", workflowID)
	}
	if userID != "" {
		logger = logger.WithField("user_id", userID)
	}
	return logger
}
