package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/referralhub/pkg/api/errors"
	"github.com/jordanlanch/referralhub/pkg/logger"
	"github.com/jordanlanch/referralhub/pkg/models"
	"github.com/jordanlanch/referralhub/pkg/task"
)

// TaskHandler handles task endpoints
type TaskHandler struct {
	tasks     *task.Service
	logger    logger.Logger
	validator *validator.Validate
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks *task.Service, log logger.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: log, validator: newValidator()}
}

// List godoc
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Success 200 {array} models.Task
// @Router /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.tasks.List(ctx)
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, orEmpty(list))
}

// ListByUser godoc
// @Summary List a user's tasks
// @Tags Tasks
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} models.Task
// @Router /tasks/user/{userId} [get]
func (h *TaskHandler) ListByUser(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.tasks.ListByUser(ctx, c.Param("userId"))
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, orEmpty(list))
}

// Create godoc
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param request body models.CreateTaskRequest true "Task"
// @Success 201 {object} models.Task
// @Failure 400 {object} models.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req models.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return errors.InvalidBody(c)
	}
	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.tasks.Create(ctx, req)
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusCreated, t)
}

// Complete godoc
// @Summary Mark a task completed
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} models.Task
// @Failure 404 {object} models.ErrorResponse
// @Router /tasks/complete/{id} [put]
func (h *TaskHandler) Complete(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.tasks.Complete(ctx, c.Param("id"))
	if err != nil {
		return errors.Respond(c, err, h.logger)
	}
	return c.JSON(http.StatusOK, t)
}
