package xlsexport

import (
	"bytes"
	"hr-workflow-backend/lib/workflow/stats"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportNodeStats(list []stats.NodeStats, workload []stats.Workload) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var nodeStatsHeaders = []string{"Этап", "Тип", "Всего", "Завершено", "Отказ", "Пропущено", "Ожидает", "В работе", "Завершено, %", "Среднее время, мин", "Узкое место"}

var workloadHeaders = []string{"Исполнитель", "Ожидает", "В работе", "Просрочено", "Нагрузка"}

const (
	nodeStatsSheet = "Этапы"
	workloadSheet  = "Нагрузка"
)

// ExportNodeStats показатели по этапам и нагрузка исполнителей, каждая таблица на своем листе
func (i impl) ExportNodeStats(list []stats.NodeStats, workload []stats.Workload) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	if err := f.SetSheetName("Sheet1", nodeStatsSheet); err != nil {
		return nil, errors.Wrap(err, "ошибка создания листа в xlsx")
	}
	row, err := writeHeader(f, nodeStatsSheet, 0, nodeStatsHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		if _, err = writeNodeStats(f, nodeStatsSheet, list, row); err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы этапов в xlsx")
		}
	}

	if _, err = f.NewSheet(workloadSheet); err != nil {
		return nil, errors.Wrap(err, "ошибка создания листа в xlsx")
	}
	row, err = writeHeader(f, workloadSheet, 0, workloadHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(workload) != 0 {
		if _, err = writeWorkload(f, workloadSheet, workload, row); err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы нагрузки в xlsx")
		}
	}
	return f.WriteToBuffer()
}

func writeNodeStats(f *excelize.File, sheet string, list []stats.NodeStats, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(nodeStatsHeaders), row+len(list)); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		values := []interface{}{
			item.NodeTitle,
			string(item.NodeType),
			item.Total,
			item.Completed,
			item.Failed,
			item.Skipped,
			item.Pending,
			item.InProgress,
			item.CompletionRate,
			item.AvgDurationMinutes,
			item.BottleneckScore,
		}
		if err := writeRow(f, sheet, row, values); err != nil {
			return row, err
		}
	}
	return row, nil
}

func writeWorkload(f *excelize.File, sheet string, list []stats.Workload, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(workloadHeaders), row+len(list)); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		values := []interface{}{
			item.AssigneeID,
			item.Pending,
			item.InProgress,
			item.Overdue,
			item.Score,
		}
		if err := writeRow(f, sheet, row, values); err != nil {
			return row, err
		}
	}
	return row, nil
}
