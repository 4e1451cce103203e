package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/artem13815/careerdesk/api/http/presenter"
	"github.com/artem13815/careerdesk/pkg/desk"
	"github.com/artem13815/careerdesk/pkg/security/jwt"
)

// DeskHandler exposes the resume upload desk of the current session.
type DeskHandler struct {
	registry *desk.Registry
	tokens   *jwt.Generator
	log      *zap.Logger
	// Limit of one uploaded file read into memory (bytes)
	maxBytes     int64
	cookieMaxAge time.Duration
}

func NewDeskHandler(registry *desk.Registry, tokens *jwt.Generator, maxBytes int64, log *zap.Logger) *DeskHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &DeskHandler{
		registry:     registry,
		tokens:       tokens,
		log:          log,
		maxBytes:     maxBytes,
		cookieMaxAge: 30 * 24 * time.Hour,
	}
}

type stateResponse struct {
	desk.State
	SuccessVisible bool `json:"successVisible"`
}

func newStateResponse(s desk.State) stateResponse {
	return stateResponse{State: s, SuccessVisible: desk.SuccessVisible(s)}
}

type initResponse struct {
	Token     string        `json:"token"`
	SessionID string        `json:"sessionId"`
	State     stateResponse `json:"state"`
}

// Init starts a fresh desk for a page load.
// @Summary Start a desk session
// @Description Issues a new session token, wipes session and persistent storage and returns the default state.
// @Tags    desk
// @Produce json
// @Success 200 {object} initResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /api/v1/desk/init [post]
func (h *DeskHandler) Init(c *fiber.Ctx) error {
	var clientID string
	if tok := jwt.TokenFrom(c); tok != "" {
		if claims, err := h.tokens.Parse(tok); err == nil {
			clientID = claims.ClientID
		}
	}
	if clientID == "" {
		clientID = uuid.NewString()
	}
	sessionID := uuid.NewString()
	token, err := h.tokens.Generate(sessionID, clientID)
	if err != nil {
		h.log.Error("desk init: sign token", zap.Error(err))
		return presenter.Error(c, http.StatusInternalServerError, "failed to start desk session")
	}
	_, st, err := h.registry.Open(c.Context(), sessionID, clientID)
	if err != nil {
		// state is reset regardless; storage will be overwritten on first write
		h.log.Warn("desk init: storage reset incomplete", zap.String("session", sessionID), zap.Error(err))
	}
	c.Cookie(&fiber.Cookie{
		Name:     jwt.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(h.cookieMaxAge),
	})
	return presenter.JSON(c, http.StatusOK, initResponse{
		Token:     token,
		SessionID: sessionID,
		State:     newStateResponse(st),
	})
}

// State returns the current desk state.
// @Summary Desk state
// @Tags    desk
// @Produce json
// @Security DeskSession
// @Success 200 {object} stateResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /api/v1/desk [get]
func (h *DeskHandler) State(c *fiber.Ctx) error {
	d, err := h.desk(c)
	if err != nil {
		return h.deskError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, newStateResponse(d.Snapshot()))
}

// SelectFile uploads the first file of the "file" field.
// @Summary Upload a resume file
// @Tags    desk
// @Accept  multipart/form-data
// @Produce json
// @Param   file formData file true "Resume file; only the first one is used"
// @Security DeskSession
// @Success 200 {object} stateResponse "Outcome is in uploadError / resumeUploaded"
// @Failure 409 {object} presenter.ErrorResponse "Another submission is pending"
// @Router  /api/v1/desk/file [post]
func (h *DeskHandler) SelectFile(c *fiber.Ctx) error {
	return h.upload(c, "file", (*desk.Desk).HandleFileSelect)
}

// DropFiles uploads the first file of the "files" field and clears the drag highlight.
// @Summary Drop resume files
// @Tags    desk
// @Accept  multipart/form-data
// @Produce json
// @Param   files formData file true "Dropped files; only the first one is used"
// @Security DeskSession
// @Success 200 {object} stateResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /api/v1/desk/drop [post]
func (h *DeskHandler) DropFiles(c *fiber.Ctx) error {
	return h.upload(c, "files", (*desk.Desk).HandleFileDrop)
}

type dragRequest struct {
	Over bool `json:"over"`
}

// Drag toggles the drag-over flag.
// @Summary Set drag-over flag
// @Tags    desk
// @Accept  json
// @Produce json
// @Param   input body dragRequest true "drag state"
// @Security DeskSession
// @Success 200 {object} stateResponse
// @Router  /api/v1/desk/drag [put]
func (h *DeskHandler) Drag(c *fiber.Ctx) error {
	d, err := h.desk(c)
	if err != nil {
		return h.deskError(c, err)
	}
	var req dragRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	d.SetDragOver(req.Over)
	return presenter.JSON(c, http.StatusOK, newStateResponse(d.Snapshot()))
}

type manualRequest struct {
	Text *string `json:"text"`
}

// SetManual updates the paste buffer.
// @Summary Update pasted resume text
// @Tags    desk
// @Accept  json
// @Produce json
// @Param   input body manualRequest true "pasted text"
// @Security DeskSession
// @Success 200 {object} stateResponse
// @Router  /api/v1/desk/manual [put]
func (h *DeskHandler) SetManual(c *fiber.Ctx) error {
	d, err := h.desk(c)
	if err != nil {
		return h.deskError(c, err)
	}
	var req manualRequest
	if err := c.BodyParser(&req); err != nil || req.Text == nil {
		return presenter.Error(c, http.StatusBadRequest, "text is required")
	}
	d.SetManualText(*req.Text)
	return presenter.JSON(c, http.StatusOK, newStateResponse(d.Snapshot()))
}

// SaveManual stores the pasted text as the active resume.
// @Summary Save pasted resume text
// @Description Optional body replaces the paste buffer first. Empty text sets uploadError.
// @Tags    desk
// @Accept  json
// @Produce json
// @Param   input body manualRequest false "pasted text"
// @Security DeskSession
// @Success 200 {object} stateResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /api/v1/desk/manual [post]
func (h *DeskHandler) SaveManual(c *fiber.Ctx) error {
	d, err := h.desk(c)
	if err != nil {
		return h.deskError(c, err)
	}
	if len(c.Body()) > 0 {
		var req manualRequest
		if err := c.BodyParser(&req); err != nil {
			return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
		}
		if req.Text != nil {
			d.SetManualText(*req.Text)
		}
	}
	if err := d.SaveManualResume(c.Context()); err != nil {
		return h.deskError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, newStateResponse(d.Snapshot()))
}

// Clear drops the active resume.
// @Summary Clear resume
// @Tags    desk
// @Produce json
// @Security DeskSession
// @Success 200 {object} stateResponse
// @Router  /api/v1/desk/resume [delete]
func (h *DeskHandler) Clear(c *fiber.Ctx) error {
	d, err := h.desk(c)
	if err != nil {
		return h.deskError(c, err)
	}
	d.ClearResume(c.Context())
	return presenter.JSON(c, http.StatusOK, newStateResponse(d.Snapshot()))
}

type resumeResponse struct {
	desk.Record
	PreloadedFeature string `json:"preloadedFeature,omitempty"`
}

// Resume returns the stored resumeData record for downstream pages.
// @Summary Stored resume
// @Tags    desk
// @Produce json
// @Security DeskSession
// @Success 200 {object} resumeResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /api/v1/desk/resume [get]
func (h *DeskHandler) Resume(c *fiber.Ctx) error {
	d, err := h.desk(c)
	if err != nil {
		return h.deskError(c, err)
	}
	rec, ok, err := d.StoredRecord(c.Context())
	if err != nil {
		h.log.Error("desk resume: read record", zap.String("session", d.ID()), zap.Error(err))
		return presenter.Error(c, http.StatusInternalServerError, "failed to read resume data")
	}
	if !ok {
		return presenter.Error(c, http.StatusNotFound, "no resume stored")
	}
	feature, err := d.PreloadedFeature(c.Context())
	if err != nil {
		h.log.Warn("desk resume: read preloaded feature", zap.String("session", d.ID()), zap.Error(err))
	}
	return presenter.JSON(c, http.StatusOK, resumeResponse{Record: rec, PreloadedFeature: feature})
}

type navigateRequest struct {
	Feature string `json:"feature"`
}

type navigateResponse struct {
	Redirect string `json:"redirect"`
}

// Navigate resolves a feature page.
// @Summary Navigate to a feature
// @Description "analyzer", "interview" or "salary". Unknown names answer 204 without navigation.
// @Tags    desk
// @Accept  json
// @Produce json
// @Param   input body navigateRequest true "feature"
// @Security DeskSession
// @Success 200 {object} navigateResponse
// @Success 204 "Unknown feature"
// @Failure 409 {object} presenter.ErrorResponse "Please upload a resume first."
// @Router  /api/v1/desk/navigate [post]
func (h *DeskHandler) Navigate(c *fiber.Ctx) error {
	var req navigateRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	return h.navigate(c, req.Feature, false)
}

// NavigateRedirect is Navigate as a 303 redirect for plain links.
// @Summary Navigate to a feature (redirect)
// @Tags    desk
// @Param   feature path string true "feature name"
// @Security DeskSession
// @Success 303 "Location is the feature page"
// @Success 204 "Unknown feature"
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /api/v1/desk/navigate/{feature} [get]
func (h *DeskHandler) NavigateRedirect(c *fiber.Ctx) error {
	return h.navigate(c, utils.CopyString(c.Params("feature")), true)
}

func (h *DeskHandler) navigate(c *fiber.Ctx, feature string, redirect bool) error {
	d, err := h.desk(c)
	if err != nil {
		return h.deskError(c, err)
	}
	path, err := d.NavigateToFeature(c.Context(), feature)
	if err != nil {
		return h.deskError(c, err)
	}
	if path == "" {
		return c.SendStatus(http.StatusNoContent)
	}
	if redirect {
		return c.Redirect(path, http.StatusSeeOther)
	}
	return presenter.JSON(c, http.StatusOK, navigateResponse{Redirect: path})
}

func (h *DeskHandler) upload(c *fiber.Ctx, field string, fn func(*desk.Desk, context.Context, []desk.File) error) error {
	d, err := h.desk(c)
	if err != nil {
		return h.deskError(c, err)
	}
	var headers []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		headers = form.File[field]
	}
	files := make([]desk.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return presenter.Error(c, http.StatusBadRequest, "failed to open uploaded file")
		}
		data, err := readAtMost(f, h.maxBytes)
		f.Close()
		if err != nil {
			return presenter.Error(c, http.StatusRequestEntityTooLarge, err.Error())
		}
		files = append(files, desk.File{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data})
	}
	if err := fn(d, c.Context(), files); err != nil {
		return h.deskError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, newStateResponse(d.Snapshot()))
}

func (h *DeskHandler) desk(c *fiber.Ctx) (*desk.Desk, error) {
	sessionID, _ := c.Locals(jwt.LocalSessionID).(string)
	if strings.TrimSpace(sessionID) == "" {
		return nil, desk.ErrSessionNotFound
	}
	return h.registry.Get(sessionID)
}

func (h *DeskHandler) deskError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, desk.ErrSessionNotFound):
		return presenter.Error(c, http.StatusNotFound, "desk session not found, reload the page")
	case errors.Is(err, desk.ErrBusy):
		return presenter.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, desk.ErrResumeRequired):
		return presenter.Error(c, http.StatusConflict, desk.MsgResumeRequired)
	default:
		h.log.Warn("desk request interrupted", zap.Error(err))
		return presenter.Error(c, http.StatusServiceUnavailable, "request interrupted")
	}
}
