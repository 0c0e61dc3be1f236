package workflowstatshandler

import (
	"bytes"
	"hr-workflow-backend/db"
	executionstore "hr-workflow-backend/lib/candidate-workflow/execution-store"
	candidateworkflowstore "hr-workflow-backend/lib/candidate-workflow/store"
	xlsexport "hr-workflow-backend/lib/export/xls"
	"hr-workflow-backend/lib/workflow/stats"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	NodeStats(spaceID, workflowID string) ([]stats.NodeStats, error)
	Bottlenecks(spaceID, workflowID string, limit int) ([]stats.NodeStats, error)
	Workload(spaceID string) ([]stats.Workload, error)
	Summary(spaceID, workflowID string) (stats.Summary, error)
	ExportNodeStats(spaceID, workflowID string) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		executionStore: executionstore.NewInstance(db.DB),
		store:          candidateworkflowstore.NewInstance(db.DB),
		exporter:       xlsexport.Instance,
	}
}

type impl struct {
	executionStore executionstore.Provider
	store          candidateworkflowstore.Provider
	exporter       xlsexport.Provider
}

func (i impl) NodeStats(spaceID, workflowID string) ([]stats.NodeStats, error) {
	rows, err := i.executionStore.StatsRows(spaceID, workflowID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения выполнений этапов")
	}
	return stats.ByNode(rows), nil
}

func (i impl) Bottlenecks(spaceID, workflowID string, limit int) ([]stats.NodeStats, error) {
	list, err := i.NodeStats(spaceID, workflowID)
	if err != nil {
		return nil, err
	}
	return stats.Bottlenecks(list, limit), nil
}

func (i impl) Workload(spaceID string) ([]stats.Workload, error) {
	rows, err := i.executionStore.ListOpenAssigned(spaceID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения назначенных этапов")
	}
	return stats.WorkloadByAssignee(rows, time.Now()), nil
}

func (i impl) Summary(spaceID, workflowID string) (stats.Summary, error) {
	statuses, err := i.store.StatusList(spaceID, workflowID)
	if err != nil {
		return stats.Summary{}, errors.Wrap(err, "ошибка получения статусов процессов кандидатов")
	}
	return stats.Summarize(statuses), nil
}

func (i impl) ExportNodeStats(spaceID, workflowID string) (*bytes.Buffer, error) {
	logger := log.WithField("space_id", spaceID).WithField("workflow_id", workflowID)
	list, err := i.NodeStats(spaceID, workflowID)
	if err != nil {
		return nil, err
	}
	workload, err := i.Workload(spaceID)
	if err != nil {
		return nil, err
	}
	buf, err := i.exporter.ExportNodeStats(list, workload)
	if err != nil {
		logger.WithError(err).Error("ошибка выгрузки статистики по этапам")
		return nil, errors.New("ошибка выгрузки статистики по этапам")
	}
	return buf, nil
}
