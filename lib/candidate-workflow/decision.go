package candidateworkflowhandler

import (
	"hr-workflow-backend/lib/workflow/condition"
	"hr-workflow-backend/lib/workflow/graph"
)

type Decision string

const (
	// DecisionCompleted этап завершающий, процесс кандидата завершен
	DecisionCompleted Decision = "completed"
	// DecisionFailed этап завершающий, результат отрицательный
	DecisionFailed Decision = "failed"
	// DecisionAdvanced кандидат автоматически переведен на следующий этап
	DecisionAdvanced Decision = "advanced"
	// DecisionChoose следующий этап выбирает пользователь
	DecisionChoose Decision = "choose"
	// DecisionNone ни одна связь не подошла, текущий этап сброшен
	DecisionNone Decision = "none"
)

// decideNext что делать с процессом кандидата после завершения этапа.
// Автопереход выполняется только при единственном подходящем этапе.
func decideNext(node graph.Node, outgoing int, next []graph.Node, result string) Decision {
	if outgoing == 0 {
		if condition.IsFailureResult(result) {
			return DecisionFailed
		}
		return DecisionCompleted
	}
	switch {
	case len(next) == 0:
		return DecisionNone
	case len(next) == 1 && node.AutoAdvance:
		return DecisionAdvanced
	}
	return DecisionChoose
}
