package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"careerlab/cv-match/internal/models"
	"careerlab/cv-match/internal/repositories"
	"careerlab/cv-match/internal/services"
)

type MatchHandler struct {
	matcher     services.MatcherService
	matchRepo   repositories.MatchRepository
	embedder    services.EmbeddingProvider
	vectorStore services.JobVectorStore
}

func NewMatchHandler(
	matcher services.MatcherService,
	matchRepo repositories.MatchRepository,
	embedder services.EmbeddingProvider,
	vectorStore services.JobVectorStore,
) *MatchHandler {
	return &MatchHandler{
		matcher:     matcher,
		matchRepo:   matchRepo,
		embedder:    embedder,
		vectorStore: vectorStore,
	}
}

// HandleMatch handles POST /match. Scoring runs synchronously; the stored
// record and job vector index are side effects that never fail the request.
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	var req models.MatchRequest

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

	if req.Job == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job is required",
		})
	}

	response, err := h.matcher.Match(c.Context(), req.CV, req.Job)
	if err != nil {
		if errors.Is(err, services.ErrModelUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Embedding backend is unavailable",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Matching failed: " + err.Error(),
		})
	}

	record := h.persistMatch(req.CV, req.Job, response)
	if record != nil {
		response.ID = record.ID.String()
		h.indexJob(c, record.ID, req.Job)
	}

	return c.JSON(response)
}

// HandleGetMatch handles GET /match/:id
func (h *MatchHandler) HandleGetMatch(c *fiber.Ctx) error {
	matchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid match ID format",
		})
	}

	record, err := h.matchRepo.FindByID(matchID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Match not found",
		})
	}

	response := models.MatchResponse{ID: record.ID.String()}
	if err := json.Unmarshal([]byte(record.ReportJSON), &response.Report); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Stored report is corrupted",
		})
	}
	if record.GapSkillsJSON != "" {
		if err := json.Unmarshal([]byte(record.GapSkillsJSON), &response.GapSkills); err != nil {
			log.Printf("⚠️  Failed to decode gap skills for match %s: %v\n", record.ID, err)
		}
	}

	return c.JSON(response)
}

// HandleGetMatchReport handles GET /match/:id/report. The stored report is
// rendered as a plain-text summary.
func (h *MatchHandler) HandleGetMatchReport(c *fiber.Ctx) error {
	matchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid match ID format",
		})
	}

	record, err := h.matchRepo.FindByID(matchID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Match not found",
		})
	}

	var report *models.SimilarityReport
	if err := json.Unmarshal([]byte(record.ReportJSON), &report); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Stored report is corrupted",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(h.matcher.FormatReport(report))
}

// HandleListMatches handles GET /matches
func (h *MatchHandler) HandleListMatches(c *fiber.Ctx) error {
	records, err := h.matchRepo.FindRecent(c.QueryInt("limit"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list matches: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{"matches": records})
}

// HandleDeleteMatch handles DELETE /match/:id. The job vector is removed
// best-effort alongside the record.
func (h *MatchHandler) HandleDeleteMatch(c *fiber.Ctx) error {
	matchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid match ID format",
		})
	}

	if err := h.matchRepo.Delete(matchID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Match not found",
		})
	}

	if h.vectorStore != nil {
		if err := h.vectorStore.DeleteJob(c.Context(), matchID); err != nil {
			log.Printf("⚠️  Failed to remove job vector for match %s: %v\n", matchID, err)
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSimilarJobs handles POST /similar-jobs. The candidate profile is
// embedded and matched against previously indexed job descriptions.
func (h *MatchHandler) HandleSimilarJobs(c *fiber.Ctx) error {
	var req models.SimilarJobsRequest

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

	globalText := services.ExtractCVSections(req.CV)[services.SectionGlobal]
	if globalText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cv holds no usable content",
		})
	}

	vectors, err := h.embedder.Embed(c.Context(), []string{globalText})
	if err != nil || len(vectors) != 1 {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Embedding backend is unavailable",
		})
	}

	jobs, err := h.vectorStore.SimilarJobs(c.Context(), vectors[0], req.Limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Similar job search failed: " + err.Error(),
		})
	}

	return c.JSON(models.SimilarJobsResponse{Jobs: jobs})
}

func (h *MatchHandler) persistMatch(cv *models.StructuredCV, job *models.StructuredJob, response *models.MatchResponse) *models.MatchRecord {
	cvJSON, _ := json.Marshal(cv)
	jobJSON, _ := json.Marshal(job)
	reportJSON, _ := json.Marshal(response.Report)
	gapsJSON, _ := json.Marshal(response.GapSkills)

	record := &models.MatchRecord{
		ID:            uuid.New(),
		CVJSON:        string(cvJSON),
		JobJSON:       string(jobJSON),
		ReportJSON:    string(reportJSON),
		GapSkillsJSON: string(gapsJSON),
		ModelUsed:     response.Report.ModelUsed,
		OverallScore:  response.Report.OverallScore,
	}

	if err := h.matchRepo.Create(record); err != nil {
		log.Printf("⚠️  Failed to persist match record: %v\n", err)
		return nil
	}

	return record
}

func (h *MatchHandler) indexJob(c *fiber.Ctx, matchID uuid.UUID, job *models.StructuredJob) {
	if h.vectorStore == nil {
		return
	}

	globalText := services.ExtractJobSections(job)[services.SectionGlobal]
	if globalText == "" {
		return
	}

	vectors, err := h.embedder.Embed(c.Context(), []string{globalText})
	if err != nil || len(vectors) != 1 {
		log.Printf("⚠️  Skipping job vector index for match %s: %v\n", matchID, err)
		return
	}

	if err := h.vectorStore.UpsertJob(c.Context(), matchID, job, vectors[0]); err != nil {
		log.Printf("⚠️  Failed to index job for match %s: %v\n", matchID, err)
	}
}
