package handler

import (
	"quizdeck/internal/domain"
	"quizdeck/internal/middleware"
	"quizdeck/internal/service"
	"quizdeck/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// HistoryHandler handles attempt history HTTP requests
type HistoryHandler struct {
	service   service.HistoryService
	validator *validation.Validator
}

// NewHistoryHandler creates a new HistoryHandler instance
func NewHistoryHandler(service service.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// GetHistory godoc
// @Summary Get the current user's attempt history
// @Description Returns a page of the user's attempts newest first plus aggregate stats
// @Tags history
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (in_progress, completed, abandoned)"
// @Param limit query int false "Page size" default(15)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.HistoryResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /me/attempts [get]
func (h *HistoryHandler) GetHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 15)
	offset := c.QueryInt("offset", 0)
	if errs := h.validator.ValidatePagination(limit, offset); len(errs) > 0 {
		return errs
	}

	userID := middleware.UserIDFromContext(c)

	filter := domain.AttemptHistoryFilter{
		Status: domain.AttemptStatus(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	}

	resp, err := h.service.GetHistory(c.Context(), userID, filter)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
