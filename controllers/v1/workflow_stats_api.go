package apiv1

import (
	"fmt"
	"hr-workflow-backend/controllers"
	workflowstatshandler "hr-workflow-backend/lib/workflow-stats"
	"hr-workflow-backend/middleware"
	apimodels "hr-workflow-backend/models/api"
	"time"

	"github.com/gofiber/fiber/v2"
)

type workflowStatsApiController struct {
	controllers.BaseAPIController
}

func InitWorkflowStatsApiRouters(app *fiber.App) {
	controller := workflowStatsApiController{}
	app.Route("workflow_stats", func(router fiber.Router) {
		router.Get("workload", controller.workload)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("nodes", controller.nodeStats)
			idRoute.Get("bottlenecks", controller.bottlenecks)
			idRoute.Get("summary", controller.summary)
			idRoute.Get("export", controller.export)
		})
	})
}

// @Summary Статистика по этапам
// @Tags Статистика процессов
// @Description Количество выполнений по статусам, среднее время и доля завершенных для каждого этапа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "workflow ID"
// @Success 200 {object} apimodels.Response{data=[]stats.NodeStats}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/workflow_stats/{id}/nodes [get]
func (c *workflowStatsApiController) nodeStats(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	resp, err := workflowstatshandler.Instance.NodeStats(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения статистики по этапам")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Узкие места
// @Tags Статистика процессов
// @Description Этапы с наибольшей оценкой узкого места
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "workflow ID"
// @Param	limit				query 	int								false		 "количество этапов, по умолчанию 5"
// @Success 200 {object} apimodels.Response{data=[]stats.NodeStats}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/workflow_stats/{id}/bottlenecks [get]
func (c *workflowStatsApiController) bottlenecks(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	limit := ctx.QueryInt("limit", 5)
	if limit < 1 {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("количество этапов должно быть больше 0"))
	}
	spaceID := middleware.GetUserSpace(ctx)
	resp, err := workflowstatshandler.Instance.Bottlenecks(spaceID, id, limit)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения узких мест процесса")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Сводка
// @Tags Статистика процессов
// @Description Количество процессов кандидатов по статусам и конверсия
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "workflow ID"
// @Success 200 {object} apimodels.Response{data=stats.Summary}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/workflow_stats/{id}/summary [get]
func (c *workflowStatsApiController) summary(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	resp, err := workflowstatshandler.Instance.Summary(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения сводки по процессу")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Нагрузка
// @Tags Статистика процессов
// @Description Нагрузка исполнителей по незавершенным этапам
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]stats.Workload}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/workflow_stats/workload [get]
func (c *workflowStatsApiController) workload(ctx *fiber.Ctx) error {
	spaceID := middleware.GetUserSpace(ctx)
	resp, err := workflowstatshandler.Instance.Workload(spaceID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения нагрузки исполнителей")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Выгрузка в Excel
// @Tags Статистика процессов
// @Description Статистика по этапам и нагрузка исполнителей в xlsx
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "workflow ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/workflow_stats/{id}/export [get]
func (c *workflowStatsApiController) export(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	data, err := workflowstatshandler.Instance.ExportNodeStats(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки статистики процесса в Excel")
	}
	fileName := fmt.Sprintf("workflow-stats-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}
