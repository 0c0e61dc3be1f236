package initializers

import (
	"context"
	"hr-workflow-backend/config"
	"hr-workflow-backend/fiberlog"
	candidateworkflowhandler "hr-workflow-backend/lib/candidate-workflow"
	overdueworker "hr-workflow-backend/lib/candidate-workflow/overdue-worker"
	xlsexport "hr-workflow-backend/lib/export/xls"
	workflowhandler "hr-workflow-backend/lib/workflow"
	workflowalertshandler "hr-workflow-backend/lib/workflow-alerts"
	workflowhistoryhandler "hr-workflow-backend/lib/workflow-history"
	workflowpushhandler "hr-workflow-backend/lib/workflow-push"
	workflowstatshandler "hr-workflow-backend/lib/workflow-stats"
	connectionhub "hr-workflow-backend/lib/ws/hub/connection-hub"
	"time"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitSmtp()
	InitEventBus(ctx)
	xlsexport.NewHandler()
	workflowhandler.NewHandler()
	candidateworkflowhandler.NewHandler()
	workflowstatshandler.NewHandler()
	workflowhistoryhandler.NewHandler()
	workflowalertshandler.NewHandler()
	connectionhub.Init()
	workflowpushhandler.NewHandler()
	initSubscribers(ctx)
	go initWorkers(ctx)
}

func initSubscribers(ctx context.Context) {
	// Журнал событий по процессам кандидатов
	subscribe(ctx, "history", workflowhistoryhandler.Instance.HandleEvent)

	// Оповещения по почте об отказах и просроченных этапах
	subscribe(ctx, "alerts", workflowalertshandler.Instance.HandleEvent)

	// Уведомления назначенному рекрутеру через websocket
	subscribe(ctx, "push", workflowpushhandler.Instance.HandleEvent)
}

func initWorkers(ctx context.Context) {
	if makeTimeGap(ctx) {
		// Задача поиска просроченных этапов
		overdueworker.StartWorker(ctx)
	}
}

func makeTimeGap(ctx context.Context) (canRun bool) {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(time.Second * 10):
		return true
	}
}
