package graph

import "hr-workflow-backend/lib/workflow/wferrors"

// EnumeratePaths перебор всех путей по графу от startNodeID, либо от всех этапов
// без входящих связей, если начало не указано.
// Повторное посещение этапа в пределах пути завершает этот путь.
// Число путей растет экспоненциально от ветвления, вызывать только при редактировании процесса.
func (g *Graph) EnumeratePaths(startNodeID string) ([][]string, error) {
	var starts []string
	if startNodeID != "" {
		if _, ok := g.nodes[startNodeID]; !ok {
			return nil, wferrors.NotFound("этап %v", startNodeID)
		}
		starts = []string{startNodeID}
	} else {
		for _, node := range g.Nodes() {
			if len(g.incoming[node.ID]) == 0 {
				starts = append(starts, node.ID)
			}
		}
	}

	paths := [][]string{}
	emit := func(path []string) {
		p := make([]string, len(path))
		copy(p, path)
		paths = append(paths, p)
	}

	inPath := map[string]bool{}
	var walk func(id string, path []string)
	walk = func(id string, path []string) {
		path = append(path, id)
		inPath[id] = true
		defer delete(inPath, id)

		outgoing := g.outgoing[id]
		if len(outgoing) == 0 {
			emit(path)
			return
		}
		emitted := false
		for _, conn := range outgoing {
			if inPath[conn.TargetID] {
				if !emitted {
					emit(path)
					emitted = true
				}
				continue
			}
			walk(conn.TargetID, path)
		}
	}

	for _, id := range starts {
		walk(id, nil)
	}
	return paths, nil
}
