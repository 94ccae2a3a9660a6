package handler

import (
	"quizdeck/internal/domain"
	"quizdeck/internal/middleware"
	"quizdeck/internal/service"
	"quizdeck/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz catalog HTTP requests
type QuizHandler struct {
	service   service.CatalogService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.CatalogService) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// ListQuizzes godoc
// @Summary List active quizzes
// @Description Returns a page of active quizzes, optionally filtered by category and type
// @Tags quizzes
// @Produce json
// @Param category_id query string false "Category ID"
// @Param type query string false "Quiz type (free or premium)"
// @Param limit query int false "Page size" default(12)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.QuizListResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 12)
	offset := c.QueryInt("offset", 0)
	if errs := h.validator.ValidatePagination(limit, offset); len(errs) > 0 {
		return errs
	}

	filter := domain.QuizListFilter{
		CategoryID: c.Query("category_id"),
		Type:       domain.QuizType(c.Query("type")),
		Limit:      limit,
		Offset:     offset,
	}

	resp, err := h.service.ListQuizzes(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetQuiz godoc
// @Summary Get quiz detail
// @Description Returns a quiz with whether the current actor may start it and why not
// @Tags quizzes
// @Produce json
// @Param quizId path string true "Quiz ID"
// @Param X-Guest-Session-ID header string false "Guest session ID for anonymous play"
// @Success 200 {object} dto.QuizDetailResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{quizId} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quizID := c.Params("quizId")
	if errs := h.validator.ValidateQuizID(quizID); len(errs) > 0 {
		return errs
	}

	actor, err := middleware.ActorFromContext(c)
	if err != nil {
		return err
	}

	resp, err := h.service.GetQuiz(c.Context(), actor, quizID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
