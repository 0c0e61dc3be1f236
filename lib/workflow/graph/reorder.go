package graph

import (
	"hr-workflow-backend/lib/workflow/wferrors"
	"sort"
)

type OrderItem struct {
	NodeID   string `json:"node_id"`
	NewOrder int    `json:"new_order"`
}

// SequenceUpdate один шаг перенумерации. Shadow - временное значение, не пересекающееся с реальными номерами.
type SequenceUpdate struct {
	NodeID        string
	SequenceOrder int
	Shadow        bool
}

// PlanReorder план перенумерации этапов в два прохода: сначала всем затронутым этапам
// назначаются отрицательные временные номера, затем итоговые.
// Уникальность номеров внутри процесса не нарушается ни на одном шаге.
func (g *Graph) PlanReorder(items []OrderItem, shadowOffset int) ([]SequenceUpdate, error) {
	if err := g.ensureEditable(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, wferrors.InvalidArgument("не переданы этапы для изменения порядка")
	}
	if shadowOffset < 1 {
		return nil, wferrors.InvalidArgument("смещение временных номеров должно быть больше 0")
	}

	final := make(map[string]int, len(g.nodes))
	for id, node := range g.nodes {
		final[id] = node.SequenceOrder
	}
	changed := make([]OrderItem, 0, len(items))
	seen := map[string]bool{}
	for _, item := range items {
		node, ok := g.nodes[item.NodeID]
		if !ok {
			return nil, wferrors.NotFound("этап %v", item.NodeID)
		}
		if seen[item.NodeID] {
			return nil, wferrors.InvalidArgument("этап %v указан повторно", item.NodeID)
		}
		seen[item.NodeID] = true
		if item.NewOrder < 1 {
			return nil, wferrors.InvalidArgument("порядковый номер этапа должен быть больше 0")
		}
		final[item.NodeID] = item.NewOrder
		if node.SequenceOrder != item.NewOrder {
			changed = append(changed, item)
		}
	}

	owners := make(map[int]string, len(final))
	for id, order := range final {
		if other, busy := owners[order]; busy {
			return nil, wferrors.InvalidArgument("порядковый номер %v получат этапы %v и %v", order, other, id)
		}
		owners[order] = id
	}

	plan := make([]SequenceUpdate, 0, len(changed)*2)
	for k, item := range changed {
		plan = append(plan, SequenceUpdate{
			NodeID:        item.NodeID,
			SequenceOrder: -(k + shadowOffset),
			Shadow:        true,
		})
	}
	for _, item := range changed {
		plan = append(plan, SequenceUpdate{
			NodeID:        item.NodeID,
			SequenceOrder: item.NewOrder,
		})
	}
	return plan, nil
}

// ApplyOrder перенос сохраненных номеров в граф
func (g *Graph) ApplyOrder(plan []SequenceUpdate) {
	for _, update := range plan {
		if update.Shadow {
			continue
		}
		if node, ok := g.nodes[update.NodeID]; ok {
			node.SequenceOrder = update.SequenceOrder
		}
	}
}

// MoveNodePlan перемещение одного этапа на позицию newOrder со сдвигом остальных.
// Этапы перенумеровываются подряд начиная с 1, в результат попадают только измененные.
func (g *Graph) MoveNodePlan(nodeID string, newOrder int) ([]OrderItem, error) {
	changed, ok := g.nodes[nodeID]
	if !ok {
		return nil, wferrors.NotFound("этап %v", nodeID)
	}
	if newOrder < 1 {
		return nil, wferrors.InvalidArgument("порядковый номер этапа должен быть больше 0")
	}
	list := g.Nodes()
	others := make([]Node, 0, len(list))
	for _, node := range list {
		if node.ID != nodeID {
			others = append(others, node)
		}
	}
	sort.SliceStable(others, func(i, j int) bool {
		return others[i].SequenceOrder < others[j].SequenceOrder
	})
	if newOrder > len(others)+1 {
		newOrder = len(others) + 1
	}

	newSet := make([]Node, 0, len(list))
	newSet = append(newSet, others[:newOrder-1]...)
	newSet = append(newSet, *changed)
	newSet = append(newSet, others[newOrder-1:]...)

	result := []OrderItem{}
	for k, node := range newSet {
		if node.SequenceOrder != k+1 {
			result = append(result, OrderItem{NodeID: node.ID, NewOrder: k + 1})
		}
	}
	return result, nil
}
