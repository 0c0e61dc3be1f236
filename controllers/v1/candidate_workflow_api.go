package apiv1

import (
	"hr-workflow-backend/controllers"
	candidateworkflowhandler "hr-workflow-backend/lib/candidate-workflow"
	workflowhistoryhandler "hr-workflow-backend/lib/workflow-history"
	"hr-workflow-backend/middleware"
	apimodels "hr-workflow-backend/models/api"
	workflowapimodels "hr-workflow-backend/models/api/workflow"

	"github.com/gofiber/fiber/v2"
)

type candidateWorkflowApiController struct {
	controllers.BaseAPIController
}

func InitCandidateWorkflowApiRouters(app *fiber.App) {
	controller := candidateWorkflowApiController{}
	app.Route("candidate_workflow", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("recruiter", controller.assignRecruiter)
			idRoute.Put("start", controller.start)
			idRoute.Put("advance", controller.advance)
			idRoute.Put("complete", controller.complete)
			idRoute.Put("fail", controller.fail)
			idRoute.Put("withdraw", controller.withdraw)
			idRoute.Put("hold", controller.hold)
			idRoute.Put("resume", controller.resume)
			idRoute.Post("next_nodes", controller.nextNodes)
			idRoute.Get("executions", controller.executionList)
			idRoute.Post("history", controller.history)
		})
	})
	app.Route("node_execution/:id", func(router fiber.Router) {
		router.Put("schedule", controller.executionSchedule)
		router.Put("start", controller.executionStart)
		router.Put("complete", controller.executionComplete)
		router.Put("fail", controller.executionFail)
		router.Put("skip", controller.executionSkip)
		router.Put("review", controller.executionReview)
		router.Put("interview", controller.executionLinkInterview)
		router.Put("todo", controller.executionLinkTodo)
	})
}

// @Summary Создание
// @Tags Процесс кандидата
// @Description Назначение кандидату активного процесса найма
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 workflowapimodels.CandidateWorkflowData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate_workflow [post]
func (c *candidateWorkflowApiController) create(ctx *fiber.Ctx) error {
	var payload workflowapimodels.CandidateWorkflowData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	id, err := candidateworkflowhandler.Instance.Create(ctx.UserContext(), spaceID, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка назначения процесса кандидату")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Получение по ИД
// @Tags Процесс кандидата
// @Description Получение по ИД
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.CandidateWorkflowView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate_workflow/{id} [get]
func (c *candidateWorkflowApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	resp, err := candidateworkflowhandler.Instance.GetByID(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения процесса кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Список
// @Tags Процесс кандидата
// @Description Список
// @Param	body body	 workflowapimodels.CandidateWorkflowFilter	true	"request filter body"
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]workflowapimodels.CandidateWorkflowView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate_workflow/list [post]
func (c *candidateWorkflowApiController) list(ctx *fiber.Ctx) error {
	var payload workflowapimodels.CandidateWorkflowFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, rowCount, err := candidateworkflowhandler.Instance.List(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка процессов кандидатов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Назначение рекрутера
// @Tags Процесс кандидата
// @Description Назначение рекрутера
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 workflowapimodels.AssignRecruiterRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.CandidateWorkflowView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate_workflow/{id}/recruiter [put]
func (c *candidateWorkflowApiController) assignRecruiter(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload workflowapimodels.AssignRecruiterRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := candidateworkflowhandler.Instance.AssignRecruiter(ctx.UserContext(), spaceID, id, userID, payload.RecruiterID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка назначения рекрутера")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Запуск
// @Tags Процесс кандидата
// @Description Запуск процесса, кандидат переходит на стартовый этап
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.CandidateWorkflowView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate_workflow/{id}/start [put]
func (c *candidateWorkflowApiController) start(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := candidateworkflowhandler.Instance.Start(ctx.UserContext(), spaceID, id, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка запуска процесса кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Переход на этап
// @Tags Процесс кандидата
// @Description Переход на следующий этап
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 workflowapimodels.AdvanceRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.CandidateWorkflowView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate_workflow/{id}/advance [put]
func (c *candidateWorkflowApiController) advance(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload workflowapimodels.AdvanceRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := candidateworkflowhandler.Instance.Advance(ctx.UserContext(), spaceID, id, userID, payload.NextNodeID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка перехода на следующий этап")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Завершение
// @Tags Процесс кандидата
// @Description Завершение процесса с итоговым результатом
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 workflowapimodels.CompleteRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.CandidateWorkflowView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate_workflow/{id}/complete [put]
func (c *candidateWorkflowApiController) complete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload workflowapimodels.CompleteRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := candidateworkflowhandler.Instance.Complete(ctx.UserContext(), spaceID, id, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка завершения процесса кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Отказ
// @Tags Процесс кандидата
// @Description Завершение процесса с отказом
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 workflowapimodels.FailRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.CandidateWorkflowView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate_workflow/{id}/fail [put]
func (c *candidateWorkflowApiController) fail(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload workflowapimodels.FailRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := candidateworkflowhandler.Instance.Fail(ctx.UserContext(), spaceID, id, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отказа кандидату")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Отзыв кандидата
// @Tags Процесс кандидата
// @Description Кандидат отказался от участия
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 workflowapimodels.ReasonRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.CandidateWorkflowView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate_workflow/{id}/withdraw [put]
func (c *candidateWorkflowApiController) withdraw(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload workflowapimodels.ReasonRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := candidateworkflowhandler.Instance.Withdraw(ctx.UserContext(), spaceID, id, userID, payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отзыва кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Приостановка
// @Tags Процесс кандидата
// @Description Приостановка процесса
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.CandidateWorkflowView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate_workflow/{id}/hold [put]
func (c *candidateWorkflowApiController) hold(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := candidateworkflowhandler.Instance.Hold(ctx.UserContext(), spaceID, id, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка приостановки процесса кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Возобновление
// @Tags Процесс кандидата
// @Description Возобновление приостановленного процесса
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.CandidateWorkflowView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate_workflow/{id}/resume [put]
func (c *candidateWorkflowApiController) resume(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := candidateworkflowhandler.Instance.Resume(ctx.UserContext(), spaceID, id, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка возобновления процесса кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Доступные этапы
// @Tags Процесс кандидата
// @Description Этапы, на которые можно перейти с текущего при заданном результате
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 workflowapimodels.NextNodesRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]workflowapimodels.NodeView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate_workflow/{id}/next_nodes [post]
func (c *candidateWorkflowApiController) nextNodes(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload workflowapimodels.NextNodesRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	resp, err := candidateworkflowhandler.Instance.NextNodes(spaceID, id, payload.Result, payload.Score)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения доступных этапов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Выполнения этапов
// @Tags Процесс кандидата
// @Description Список выполнений этапов кандидатом
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=[]workflowapimodels.ExecutionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate_workflow/{id}/executions [get]
func (c *candidateWorkflowApiController) executionList(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	resp, err := candidateworkflowhandler.Instance.ExecutionList(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения выполнений этапов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Журнал
// @Tags Процесс кандидата
// @Description Журнал событий процесса кандидата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param	body body	 apimodels.Pagination	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]workflowapimodels.HistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/candidate_workflow/{id}/history [post]
func (c *candidateWorkflowApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload apimodels.Pagination
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, rowCount, err := workflowhistoryhandler.Instance.List(spaceID, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала процесса кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Планирование этапа
// @Tags Выполнение этапа
// @Description Планирование этапа со сроком выполнения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "execution ID"
// @Param	body body	 workflowapimodels.ScheduleRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.ExecutionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/node_execution/{id}/schedule [put]
func (c *candidateWorkflowApiController) executionSchedule(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload workflowapimodels.ScheduleRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := candidateworkflowhandler.Instance.ScheduleExecution(ctx.UserContext(), spaceID, id, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка планирования этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Начало этапа
// @Tags Выполнение этапа
// @Description Начало выполнения этапа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "execution ID"
// @Param	body body	 workflowapimodels.StartExecutionRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.ExecutionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/node_execution/{id}/start [put]
func (c *candidateWorkflowApiController) executionStart(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload workflowapimodels.StartExecutionRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := candidateworkflowhandler.Instance.StartExecution(ctx.UserContext(), spaceID, id, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка начала этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Завершение этапа
// @Tags Выполнение этапа
// @Description Завершение этапа с результатом. Возвращает решение о дальнейшем движении кандидата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "execution ID"
// @Param	body body	 workflowapimodels.CompleteExecutionRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.CompleteExecutionResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/node_execution/{id}/complete [put]
func (c *candidateWorkflowApiController) executionComplete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload workflowapimodels.CompleteExecutionRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := candidateworkflowhandler.Instance.CompleteExecution(ctx.UserContext(), spaceID, id, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка завершения этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Этап не пройден
// @Tags Выполнение этапа
// @Description Этап не пройден
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "execution ID"
// @Param	body body	 workflowapimodels.ReasonRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.ExecutionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/node_execution/{id}/fail [put]
func (c *candidateWorkflowApiController) executionFail(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload workflowapimodels.ReasonRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := candidateworkflowhandler.Instance.FailExecution(ctx.UserContext(), spaceID, id, userID, payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отметки этапа как не пройденного")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Пропуск этапа
// @Tags Выполнение этапа
// @Description Пропуск этапа, доступен если этап разрешает пропуск
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "execution ID"
// @Param	body body	 workflowapimodels.ReasonRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.ExecutionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/node_execution/{id}/skip [put]
func (c *candidateWorkflowApiController) executionSkip(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload workflowapimodels.ReasonRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := candidateworkflowhandler.Instance.SkipExecution(ctx.UserContext(), spaceID, id, userID, payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка пропуска этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Проверка этапа
// @Tags Выполнение этапа
// @Description Проверка результата этапа руководителем
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "execution ID"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.ExecutionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/node_execution/{id}/review [put]
func (c *candidateWorkflowApiController) executionReview(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := candidateworkflowhandler.Instance.ReviewExecution(ctx.UserContext(), spaceID, id, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка проверки этапа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Привязка интервью
// @Tags Выполнение этапа
// @Description Привязка интервью, созданного по событию перехода на этап
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "execution ID"
// @Param	body body	 workflowapimodels.LinkRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.ExecutionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/node_execution/{id}/interview [put]
func (c *candidateWorkflowApiController) executionLinkInterview(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload workflowapimodels.LinkRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := candidateworkflowhandler.Instance.LinkInterview(ctx.UserContext(), spaceID, id, userID, payload.ID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка привязки интервью")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Привязка задачи
// @Tags Выполнение этапа
// @Description Привязка задачи, созданной по событию перехода на этап
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "execution ID"
// @Param	body body	 workflowapimodels.LinkRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=workflowapimodels.ExecutionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/node_execution/{id}/todo [put]
func (c *candidateWorkflowApiController) executionLinkTodo(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload workflowapimodels.LinkRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	resp, err := candidateworkflowhandler.Instance.LinkTodo(ctx.UserContext(), spaceID, id, userID, payload.ID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка привязки задачи")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
