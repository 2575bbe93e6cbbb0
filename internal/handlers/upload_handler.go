package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"careerlab/cv-match/internal/models"
	"careerlab/cv-match/internal/services"
)

type UploadHandler struct {
	storageService  services.StorageService
	documentService services.DocumentService
	maxFileSize     int64
}

func NewUploadHandler(
	storageService services.StorageService,
	documentService services.DocumentService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		storageService:  storageService,
		documentService: documentService,
		maxFileSize:     maxFileSize,
	}
}

// HandleUpload handles POST /upload. The uploaded file is stored, its text
// extracted and returned so the client can feed it to the parse endpoints.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded. Send a PDF or TXT file in the 'file' field.",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storageService.SaveFile(file, "document")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save file: %v", err),
		})
	}

	text, warning, err := h.documentService.ExtractText(filePath)
	if err != nil {
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to extract text: %v", err),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		Filename: filename,
		Text:     text,
		Warning:  warning,
	})
}
