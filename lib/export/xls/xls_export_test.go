package xlsexport

import (
	"hr-workflow-backend/lib/workflow/stats"
	"hr-workflow-backend/models"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportNodeStats(t *testing.T) {
	t.Run(`sheets check`, func(t *testing.T) {
		list := []stats.NodeStats{
			{NodeID: "n1", NodeTitle: "Скрининг", NodeType: models.NodeTypeTodo, Total: 4, Completed: 3, CompletionRate: 75, BottleneckScore: 25},
			{NodeID: "n2", NodeTitle: "Интервью", NodeType: models.NodeTypeInterview, Total: 2, Pending: 2},
		}
		workload := []stats.Workload{
			{AssigneeID: "u1", Pending: 1, InProgress: 2, Overdue: 1, Score: 6},
		}
		buf, err := impl{}.ExportNodeStats(list, workload)
		require.Nil(t, err)

		f, err := excelize.OpenReader(buf)
		require.Nil(t, err)
		defer f.Close()
		require.Equal(t, []string{nodeStatsSheet, workloadSheet}, f.GetSheetList())

		rows, err := f.GetRows(nodeStatsSheet)
		require.Nil(t, err)
		require.Len(t, rows, 3)
		require.Equal(t, nodeStatsHeaders, rows[0])
		require.Equal(t, "Скрининг", rows[1][0])
		require.Equal(t, "todo", rows[1][1])
		require.Equal(t, "75", rows[1][8])
		require.Equal(t, "Интервью", rows[2][0])

		rows, err = f.GetRows(workloadSheet)
		require.Nil(t, err)
		require.Len(t, rows, 2)
		require.Equal(t, []string{"u1", "1", "2", "1", "6"}, rows[1])
	})

	t.Run(`empty check`, func(t *testing.T) {
		buf, err := impl{}.ExportNodeStats(nil, nil)
		require.Nil(t, err)
		f, err := excelize.OpenReader(buf)
		require.Nil(t, err)
		defer f.Close()
		rows, err := f.GetRows(nodeStatsSheet)
		require.Nil(t, err)
		require.Len(t, rows, 1)
	})
}
