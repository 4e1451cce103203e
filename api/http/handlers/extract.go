package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/artem13815/careerdesk/api/http/presenter"
	"github.com/artem13815/careerdesk/pkg/resume"
)

type ExtractHandler struct {
	svc resume.ExtractionService
	log *zap.Logger
}

func NewExtractHandler(svc resume.ExtractionService, log *zap.Logger) *ExtractHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExtractHandler{svc: svc, log: log}
}

type extractResponse struct {
	ResumeText string `json:"resume_text"`
}

// Extract returns the plain text of an uploaded resume file.
// @Summary Extract resume text
// @Description Accepts a PDF, DOCX or TXT file and returns its plain text.
// @Tags    extraction
// @Accept  multipart/form-data
// @Produce json
// @Param   file formData file true "Resume file (PDF, DOCX or TXT)"
// @Success 200 {object} extractResponse
// @Failure 400 {object} presenter.DetailResponse "Missing or unreadable file"
// @Failure 413 {object} presenter.DetailResponse "File too large"
// @Failure 415 {object} presenter.DetailResponse "Unsupported format"
// @Failure 422 {object} presenter.DetailResponse "No text in file"
// @Router  /extract-resume-text [post]
func (h *ExtractHandler) Extract(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return presenter.Detail(c, http.StatusBadRequest, "file is required (pdf, docx or txt)")
	}
	file, err := fh.Open()
	if err != nil {
		return presenter.Detail(c, http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()

	data, err := readAtMost(file, h.svc.MaxBytes())
	if err != nil {
		if errors.Is(err, resume.ErrTooLarge) {
			return presenter.Detail(c, http.StatusRequestEntityTooLarge, err.Error())
		}
		return presenter.Detail(c, http.StatusBadRequest, err.Error())
	}

	ex, err := h.svc.Extract(c.Context(), fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		status := extractStatus(err)
		if status >= http.StatusInternalServerError {
			h.log.Error("extract-resume-text failed", zap.String("file", fh.Filename), zap.Error(err))
		}
		return presenter.Detail(c, status, err.Error())
	}
	return presenter.JSON(c, http.StatusOK, extractResponse{ResumeText: ex.Text})
}

func extractStatus(err error) int {
	switch {
	case errors.Is(err, resume.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, resume.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, resume.ErrEmptyContent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, resume.ErrUnreadable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("%w: limit is %d bytes", resume.ErrTooLarge, max)
	}
	return b, nil
}
