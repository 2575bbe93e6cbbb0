package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"careerlab/cv-match/internal/models"
	"careerlab/cv-match/internal/repositories"
	"careerlab/cv-match/internal/services"
)

type QuizHandler struct {
	quizService services.QuizService
	evaluator   services.QuizEvaluator
	quizRepo    repositories.QuizRepository
	matchRepo   repositories.MatchRepository
}

func NewQuizHandler(
	quizService services.QuizService,
	evaluator services.QuizEvaluator,
	quizRepo repositories.QuizRepository,
	matchRepo repositories.MatchRepository,
) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		evaluator:   evaluator,
		quizRepo:    quizRepo,
		matchRepo:   matchRepo,
	}
}

// HandleGenerateQuiz handles POST /quiz/generate. Focus skills fall back to
// the gap skills of a stored match when a match_id is supplied.
func (h *QuizHandler) HandleGenerateQuiz(c *fiber.Ctx) error {
	var req models.QuizGenerateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.CV == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cv is required",
		})
	}

	focusSkills := req.FocusSkills
	var matchID *uuid.UUID
	if len(focusSkills) == 0 && req.MatchID != "" {
		id, err := uuid.Parse(req.MatchID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid match_id format",
			})
		}

		record, err := h.matchRepo.FindByID(id)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Match not found",
			})
		}

		matchID = &record.ID
		if record.GapSkillsJSON != "" {
			if err := json.Unmarshal([]byte(record.GapSkillsJSON), &focusSkills); err != nil {
				log.Printf("⚠️  Failed to decode gap skills for match %s: %v\n", record.ID, err)
			}
		}
	}

	quiz, err := h.quizService.BuildQuiz(c.Context(), req.CV, req.Level, req.Count, focusSkills)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Quiz generation failed: " + err.Error(),
		})
	}

	record := &models.QuizRecord{
		ID:      uuid.New(),
		MatchID: matchID,
		Level:   string(quiz.Level),
	}
	if quizJSON, err := json.Marshal(quiz); err == nil {
		record.QuizJSON = string(quizJSON)
	}
	if err := h.quizRepo.Create(record); err != nil {
		log.Printf("⚠️  Failed to persist quiz record: %v\n", err)
		return c.JSON(models.QuizGenerateResponse{Quiz: quiz})
	}

	return c.JSON(models.QuizGenerateResponse{
		ID:   record.ID.String(),
		Quiz: quiz,
	})
}

// HandleEvaluateQuiz handles POST /quiz/evaluate. The quiz comes either
// inline or from a stored record by quiz_id. With verify set, each marked
// answer is re-checked against the model before scoring; the stored quiz is
// never modified by verification.
func (h *QuizHandler) HandleEvaluateQuiz(c *fiber.Ctx) error {
	var req models.QuizEvaluateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	quiz := req.Quiz
	var recordID *uuid.UUID
	if quiz == nil {
		if req.QuizID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "quiz or quiz_id is required",
			})
		}

		id, err := uuid.Parse(req.QuizID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid quiz_id format",
			})
		}

		record, err := h.quizRepo.FindByID(id)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Quiz not found",
			})
		}

		recordID = &record.ID
		if err := json.Unmarshal([]byte(record.QuizJSON), &quiz); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Stored quiz is corrupted",
			})
		}
	}

	scored := quiz
	if req.Verify {
		scored = h.evaluator.VerifyQuiz(c.Context(), quiz)
	}

	result := h.evaluator.Evaluate(scored, req.Answers)

	if recordID != nil {
		if resultJSON, err := json.Marshal(result); err == nil {
			if err := h.quizRepo.UpdateResult(*recordID, string(resultJSON)); err != nil {
				log.Printf("⚠️  Failed to persist quiz result: %v\n", err)
			}
		}
	}

	return c.JSON(result)
}

// HandleGetQuiz handles GET /quiz/:id
func (h *QuizHandler) HandleGetQuiz(c *fiber.Ctx) error {
	quizID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID format",
		})
	}

	record, err := h.quizRepo.FindByID(quizID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Quiz not found",
		})
	}

	var quiz *models.Quiz
	if err := json.Unmarshal([]byte(record.QuizJSON), &quiz); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Stored quiz is corrupted",
		})
	}

	response := fiber.Map{
		"id":   record.ID.String(),
		"quiz": quiz,
	}
	if record.MatchID != nil {
		response["match_id"] = record.MatchID.String()
	}
	if record.ResultJSON != nil {
		var result models.QuizResult
		if err := json.Unmarshal([]byte(*record.ResultJSON), &result); err == nil {
			response["result"] = result
		}
	}

	return c.JSON(response)
}
