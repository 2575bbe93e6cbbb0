package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"careerlab/cv-match/internal/models"
	"careerlab/cv-match/internal/services"
)

type ParseHandler struct {
	extractor services.ExtractionService
}

func NewParseHandler(extractor services.ExtractionService) *ParseHandler {
	return &ParseHandler{extractor: extractor}
}

// HandleParseCV handles POST /parse-cv
func (h *ParseHandler) HandleParseCV(c *fiber.Ctx) error {
	var req models.ParseCVRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if strings.TrimSpace(req.CVText) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cv_text is required",
		})
	}

	cv, err := h.extractor.ParseCV(c.Context(), req.CVText)
	if err != nil {
		return parseErrorResponse(c, err)
	}

	return c.JSON(cv)
}

// HandleParseJob handles POST /parse-job
func (h *ParseHandler) HandleParseJob(c *fiber.Ctx) error {
	var req models.ParseJobRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if strings.TrimSpace(req.JobText) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_text is required",
		})
	}

	job, err := h.extractor.ParseJob(c.Context(), req.JobText)
	if err != nil {
		return parseErrorResponse(c, err)
	}

	return c.JSON(job)
}

func parseErrorResponse(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrUnparseable) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "The model response could not be parsed into a structured document",
		})
	}

	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error": "Extraction failed: " + err.Error(),
	})
}
