// Package stats отчетные показатели по выполнению этапов, на состояние процессов не влияют.
package stats

import (
	"hr-workflow-backend/models"
	dbmodels "hr-workflow-backend/models/db"
	"math"
	"sort"
	"time"
)

type NodeStats struct {
	NodeID             string          `json:"node_id"`
	NodeTitle          string          `json:"node_title"`
	NodeType           models.NodeType `json:"node_type"`
	Total              int             `json:"total"`
	Completed          int             `json:"completed"`
	Failed             int             `json:"failed"`
	Skipped            int             `json:"skipped"`
	Pending            int             `json:"pending"`
	InProgress         int             `json:"in_progress"`
	CompletionRate     float64         `json:"completion_rate"`      // Процент завершенных
	AvgDurationMinutes float64         `json:"avg_duration_minutes"` // Среднее время от начала до завершения
	BottleneckScore    float64         `json:"bottleneck_score"`
}

type Workload struct {
	AssigneeID string  `json:"assignee_id"`
	Pending    int     `json:"pending"`
	InProgress int     `json:"in_progress"`
	Overdue    int     `json:"overdue"`
	Score      float64 `json:"score"`
}

type Summary struct {
	Total          int                                    `json:"total"`
	ByStatus       map[models.CandidateWorkflowStatus]int `json:"by_status"`
	ConversionRate float64                                `json:"conversion_rate"` // Процент завершенных среди закончивших процесс
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CompletionRate процент завершенных выполнений, для пустой выборки 0
func CompletionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

func BottleneckScore(avgDurationMinutes, completionRate float64) float64 {
	return avgDurationMinutes + (100 - completionRate)
}

func WorkloadScore(pending, inProgress, overdue int) float64 {
	return float64(pending)*1 + float64(inProgress)*1.5 + float64(overdue)*2
}

// ByNode показатели по этапам, порядок как у первого появления этапа в выборке
func ByNode(rows []dbmodels.ExecutionWithNode) []NodeStats {
	index := map[string]int{}
	result := []NodeStats{}
	durations := map[string][]float64{}
	for _, row := range rows {
		k, ok := index[row.NodeID]
		if !ok {
			k = len(result)
			index[row.NodeID] = k
			result = append(result, NodeStats{
				NodeID:    row.NodeID,
				NodeTitle: row.NodeTitle,
				NodeType:  row.NodeType,
			})
		}
		item := &result[k]
		item.Total++
		switch row.Status {
		case models.ExecutionCompleted:
			item.Completed++
			if row.StartedAt != nil && row.CompletedAt != nil {
				durations[row.NodeID] = append(durations[row.NodeID], row.CompletedAt.Sub(*row.StartedAt).Minutes())
			}
		case models.ExecutionFailed:
			item.Failed++
		case models.ExecutionSkipped:
			item.Skipped++
		case models.ExecutionPending, models.ExecutionScheduled:
			item.Pending++
		case models.ExecutionInProgress:
			item.InProgress++
		}
	}
	for k := range result {
		item := &result[k]
		item.CompletionRate = round2(CompletionRate(item.Completed, item.Total))
		if list := durations[item.NodeID]; len(list) > 0 {
			sum := 0.0
			for _, d := range list {
				sum += d
			}
			item.AvgDurationMinutes = round2(sum / float64(len(list)))
		}
		item.BottleneckScore = round2(BottleneckScore(item.AvgDurationMinutes, item.CompletionRate))
	}
	return result
}

// Bottlenecks этапы с наибольшим показателем узкого места, limit <= 0 без ограничения
func Bottlenecks(list []NodeStats, limit int) []NodeStats {
	sorted := make([]NodeStats, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BottleneckScore > sorted[j].BottleneckScore
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// WorkloadByAssignee загрузка исполнителей по незавершенным выполнениям, по убыванию
func WorkloadByAssignee(rows []dbmodels.NodeExecution, now time.Time) []Workload {
	index := map[string]int{}
	result := []Workload{}
	for _, row := range rows {
		if row.AssignedTo == nil || row.Status.IsTerminal() {
			continue
		}
		k, ok := index[*row.AssignedTo]
		if !ok {
			k = len(result)
			index[*row.AssignedTo] = k
			result = append(result, Workload{AssigneeID: *row.AssignedTo})
		}
		item := &result[k]
		switch row.Status {
		case models.ExecutionPending, models.ExecutionScheduled:
			item.Pending++
		case models.ExecutionInProgress:
			item.InProgress++
		}
		if row.DueDate != nil && row.DueDate.Before(now) {
			item.Overdue++
		}
	}
	for k := range result {
		result[k].Score = WorkloadScore(result[k].Pending, result[k].InProgress, result[k].Overdue)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
	return result
}

func Summarize(statuses []models.CandidateWorkflowStatus) Summary {
	result := Summary{
		Total:    len(statuses),
		ByStatus: map[models.CandidateWorkflowStatus]int{},
	}
	for _, status := range statuses {
		result.ByStatus[status]++
	}
	finished := result.ByStatus[models.CWStatusCompleted] + result.ByStatus[models.CWStatusFailed] + result.ByStatus[models.CWStatusWithdrawn]
	result.ConversionRate = round2(CompletionRate(result.ByStatus[models.CWStatusCompleted], finished))
	return result
}
