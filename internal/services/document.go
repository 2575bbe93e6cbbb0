package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DocumentService turns an uploaded CV or job description file into plain
// text ready for structured extraction.
type DocumentService interface {
	ExtractText(filePath string) (text string, warning string, err error)
}

type documentService struct{}

func NewDocumentService() DocumentService {
	return &documentService{}
}

// ExtractText implements DocumentService. PDF files are read page by page;
// plain text files pass through unchanged. A PDF that opens but yields no
// text (typically a scanned document) returns an empty text with a warning
// instead of an error.
func (d *documentService) ExtractText(filePath string) (string, string, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		return d.extractPDF(filePath)
	case ".txt":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", "", fmt.Errorf("failed to read text file: %w", err)
		}
		return CleanText(string(data)), "", nil
	default:
		return "", "", fmt.Errorf("unsupported file extension: %s", filepath.Ext(filePath))
	}
}

func (d *documentService) extractPDF(filePath string) (string, string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Log error but continue with other pages
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := CleanText(textBuilder.String())
	if text == "" {
		return "", "The PDF contains no extractable text. It may be a scanned document.", nil
	}

	return text, "", nil
}

// CleanText trims lines and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
