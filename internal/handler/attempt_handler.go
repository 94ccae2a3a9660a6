package handler

import (
	"quizdeck/internal/dto"
	"quizdeck/internal/middleware"
	"quizdeck/internal/service"
	"quizdeck/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AttemptHandler handles attempt lifecycle HTTP requests
type AttemptHandler struct {
	service   service.AttemptService
	validator *validation.Validator
}

// NewAttemptHandler creates a new AttemptHandler instance
func NewAttemptHandler(service service.AttemptService) *AttemptHandler {
	return &AttemptHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// StartAttempt godoc
// @Summary Start a quiz attempt
// @Description Starts a new attempt on a quiz for the current user or guest session
// @Tags attempts
// @Accept json
// @Produce json
// @Param quizId path string true "Quiz ID"
// @Param X-Guest-Session-ID header string false "Guest session ID for anonymous play"
// @Success 201 {object} dto.StartAttemptResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{quizId}/attempts [post]
func (h *AttemptHandler) StartAttempt(c *fiber.Ctx) error {
	quizID := c.Params("quizId")
	if errs := h.validator.ValidateQuizID(quizID); len(errs) > 0 {
		return errs
	}

	actor, err := middleware.ActorFromContext(c)
	if err != nil {
		return err
	}

	resp, err := h.service.Start(c.Context(), actor, quizID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetAttemptState godoc
// @Summary Get attempt state
// @Description Returns the current progress, questions and remaining time of an attempt
// @Tags attempts
// @Produce json
// @Param attemptId path string true "Attempt ID"
// @Success 200 {object} dto.AttemptStateResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /attempts/{attemptId} [get]
func (h *AttemptHandler) GetAttemptState(c *fiber.Ctx) error {
	attemptID := c.Params("attemptId")
	if errs := h.validator.ValidateAttemptID(attemptID); len(errs) > 0 {
		return errs
	}

	actor, err := middleware.ActorFromContext(c)
	if err != nil {
		return err
	}

	resp, err := h.service.GetState(c.Context(), actor, attemptID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// RecordAnswer godoc
// @Summary Submit an answer
// @Description Records the answer for one question; resubmission overwrites the previous answer
// @Tags attempts
// @Accept json
// @Produce json
// @Param attemptId path string true "Attempt ID"
// @Param answer body dto.RecordAnswerRequest true "Answer submission"
// @Success 200 {object} dto.RecordAnswerResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /attempts/{attemptId}/answers [post]
func (h *AttemptHandler) RecordAnswer(c *fiber.Ctx) error {
	attemptID := c.Params("attemptId")
	if errs := h.validator.ValidateAttemptID(attemptID); len(errs) > 0 {
		return errs
	}

	var req dto.RecordAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if errs := h.validator.ValidateRecordAnswerRequest(req.QuestionID, req.SelectedOption, req.TimeTakenSeconds); len(errs) > 0 {
		return errs
	}

	actor, err := middleware.ActorFromContext(c)
	if err != nil {
		return err
	}

	resp, err := h.service.RecordAnswer(c.Context(), actor, attemptID, &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ToggleFlag godoc
// @Summary Toggle the review flag on a question
// @Description Flags or unflags an already-answered question for later review
// @Tags attempts
// @Produce json
// @Param attemptId path string true "Attempt ID"
// @Param questionId path string true "Question ID"
// @Success 200 {object} dto.ToggleFlagResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /attempts/{attemptId}/questions/{questionId}/flag [post]
func (h *AttemptHandler) ToggleFlag(c *fiber.Ctx) error {
	attemptID := c.Params("attemptId")
	if errs := h.validator.ValidateAttemptID(attemptID); len(errs) > 0 {
		return errs
	}
	questionID := c.Params("questionId")
	if errs := h.validator.ValidateQuizID(questionID); len(errs) > 0 {
		return errs
	}

	actor, err := middleware.ActorFromContext(c)
	if err != nil {
		return err
	}

	resp, err := h.service.ToggleFlag(c.Context(), actor, attemptID, questionID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetFlaggedQuestions godoc
// @Summary List flagged questions
// @Description Returns the question IDs flagged for review in this attempt
// @Tags attempts
// @Produce json
// @Param attemptId path string true "Attempt ID"
// @Success 200 {object} dto.FlaggedQuestionsResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /attempts/{attemptId}/flagged [get]
func (h *AttemptHandler) GetFlaggedQuestions(c *fiber.Ctx) error {
	attemptID := c.Params("attemptId")
	if errs := h.validator.ValidateAttemptID(attemptID); len(errs) > 0 {
		return errs
	}

	actor, err := middleware.ActorFromContext(c)
	if err != nil {
		return err
	}

	resp, err := h.service.GetFlagged(c.Context(), actor, attemptID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// CompleteAttempt godoc
// @Summary Complete an attempt
// @Description Finalizes the attempt and computes score and pass verdict. Completing an already finished attempt returns the stored result.
// @Tags attempts
// @Produce json
// @Param attemptId path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResultResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /attempts/{attemptId}/complete [post]
func (h *AttemptHandler) CompleteAttempt(c *fiber.Ctx) error {
	attemptID := c.Params("attemptId")
	if errs := h.validator.ValidateAttemptID(attemptID); len(errs) > 0 {
		return errs
	}

	actor, err := middleware.ActorFromContext(c)
	if err != nil {
		return err
	}

	resp, err := h.service.Complete(c.Context(), actor, attemptID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// AbandonAttempt godoc
// @Summary Abandon an attempt
// @Description Abandons an in-progress attempt without computing a score
// @Tags attempts
// @Produce json
// @Param attemptId path string true "Attempt ID"
// @Success 204
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /attempts/{attemptId}/abandon [post]
func (h *AttemptHandler) AbandonAttempt(c *fiber.Ctx) error {
	attemptID := c.Params("attemptId")
	if errs := h.validator.ValidateAttemptID(attemptID); len(errs) > 0 {
		return errs
	}

	actor, err := middleware.ActorFromContext(c)
	if err != nil {
		return err
	}

	if err := h.service.Abandon(c.Context(), actor, attemptID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetAttemptResult godoc
// @Summary Get attempt result
// @Description Returns the finalized outcome with the per-question review
// @Tags attempts
// @Produce json
// @Param attemptId path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResultDetailResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /attempts/{attemptId}/result [get]
func (h *AttemptHandler) GetAttemptResult(c *fiber.Ctx) error {
	attemptID := c.Params("attemptId")
	if errs := h.validator.ValidateAttemptID(attemptID); len(errs) > 0 {
		return errs
	}

	actor, err := middleware.ActorFromContext(c)
	if err != nil {
		return err
	}

	resp, err := h.service.GetResult(c.Context(), actor, attemptID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
