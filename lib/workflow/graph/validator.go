package graph

import "sort"

const (
	IssueNoStartNode        = "no_start_node"
	IssueMultipleStartNodes = "multiple_start_nodes"
	IssueNoEndNode          = "no_end_node"
	IssueOrphanedNodes      = "orphaned_nodes"
	IssueCycleDetected      = "cycle_detected"
	IssueUnreachableNodes   = "unreachable_nodes"
)

type Issue struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	NodeIDs []string `json:"node_ids,omitempty"`
}

type ValidationResult struct {
	IsValid    bool     `json:"is_valid"`
	Issues     []Issue  `json:"issues"`
	Warnings   []Issue  `json:"warnings"`
	StartNodes []string `json:"start_nodes"`
	EndNodes   []string `json:"end_nodes"`
}

// StartNodes активный этап с порядковым номером 1, а если его нет,
// все активные этапы без входящих связей
func (g *Graph) StartNodes() []Node {
	nodes := g.Nodes()
	for _, node := range nodes {
		if node.SequenceOrder == 1 && node.IsActive() {
			return []Node{node}
		}
	}
	result := []Node{}
	for _, node := range nodes {
		if node.IsActive() && len(g.incoming[node.ID]) == 0 {
			result = append(result, node)
		}
	}
	return result
}

// EndNodes активные этапы без исходящих связей
func (g *Graph) EndNodes() []Node {
	result := []Node{}
	for _, node := range g.Nodes() {
		if node.IsActive() && len(g.outgoing[node.ID]) == 0 {
			result = append(result, node)
		}
	}
	return result
}

func (g *Graph) orphans() []string {
	result := []string{}
	for _, node := range g.Nodes() {
		if len(g.incoming[node.ID]) == 0 && len(g.outgoing[node.ID]) == 0 {
			result = append(result, node.ID)
		}
	}
	return result
}

// findCycle поиск в глубину с рекурсивным стеком, возвращает первый найденный цикл
func (g *Graph) findCycle() []string {
	const (
		unvisited = iota
		onStack
		done
	)
	color := make(map[string]int, len(g.nodes))
	stack := []string{}

	var visit func(id string) []string
	visit = func(id string) []string {
		color[id] = onStack
		stack = append(stack, id)
		for _, conn := range g.outgoing[id] {
			switch color[conn.TargetID] {
			case onStack:
				for k := len(stack) - 1; k >= 0; k-- {
					if stack[k] == conn.TargetID {
						cycle := make([]string, len(stack)-k)
						copy(cycle, stack[k:])
						return cycle
					}
				}
			case unvisited:
				if cycle := visit(conn.TargetID); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = done
		return nil
	}

	for _, node := range g.Nodes() {
		if color[node.ID] != unvisited {
			continue
		}
		if cycle := visit(node.ID); cycle != nil {
			return cycle
		}
	}
	return nil
}

func (g *Graph) HasCycle() bool {
	return g.findCycle() != nil
}

func (g *Graph) reachableFrom(starts []Node) map[string]bool {
	reached := map[string]bool{}
	queue := make([]string, 0, len(starts))
	for _, node := range starts {
		reached[node.ID] = true
		queue = append(queue, node.ID)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, conn := range g.outgoing[id] {
			if reached[conn.TargetID] {
				continue
			}
			reached[conn.TargetID] = true
			queue = append(queue, conn.TargetID)
		}
	}
	return reached
}

func nodeIDs(nodes []Node) []string {
	result := make([]string, 0, len(nodes))
	for _, node := range nodes {
		result = append(result, node.ID)
	}
	return result
}

// Validate проверка структуры процесса. Проблемы графа возвращаются данными, а не ошибкой.
func (g *Graph) Validate() ValidationResult {
	result := ValidationResult{
		Issues:   []Issue{},
		Warnings: []Issue{},
	}
	starts := g.StartNodes()
	ends := g.EndNodes()
	result.StartNodes = nodeIDs(starts)
	result.EndNodes = nodeIDs(ends)

	switch {
	case len(starts) == 0:
		result.Issues = append(result.Issues, Issue{
			Code:    IssueNoStartNode,
			Message: "Не найден начальный этап",
		})
	case len(starts) > 1:
		result.Warnings = append(result.Warnings, Issue{
			Code:    IssueMultipleStartNodes,
			Message: "Найдено несколько начальных этапов",
			NodeIDs: result.StartNodes,
		})
	}

	if len(ends) == 0 {
		result.Warnings = append(result.Warnings, Issue{
			Code:    IssueNoEndNode,
			Message: "Не найден завершающий этап",
		})
	}

	if orphans := g.orphans(); len(orphans) > 1 {
		result.Issues = append(result.Issues, Issue{
			Code:    IssueOrphanedNodes,
			Message: "Найдены этапы без связей",
			NodeIDs: orphans,
		})
	}

	cycle := g.findCycle()
	if cycle != nil {
		result.Issues = append(result.Issues, Issue{
			Code:    IssueCycleDetected,
			Message: "Обнаружен цикл между этапами",
			NodeIDs: cycle,
		})
	}

	if len(starts) > 0 && cycle == nil {
		reached := g.reachableFrom(starts)
		unreachable := []string{}
		for _, node := range g.Nodes() {
			if node.IsActive() && !reached[node.ID] {
				unreachable = append(unreachable, node.ID)
			}
		}
		if len(unreachable) > 0 {
			sort.Strings(unreachable)
			result.Warnings = append(result.Warnings, Issue{
				Code:    IssueUnreachableNodes,
				Message: "Этапы недостижимы из начального этапа",
				NodeIDs: unreachable,
			})
		}
	}

	result.IsValid = len(result.Issues) == 0
	return result
}
