package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/sakayph/fares-api/internal/errors"
	"github.com/sakayph/fares-api/internal/ingest"
	"github.com/sakayph/fares-api/internal/middleware"
	"github.com/sakayph/fares-api/internal/models"
	"github.com/sakayph/fares-api/internal/services"
)

// TerminalHandler handles terminal HTTP requests, including the
// combined terminal-plus-fares upload.
type TerminalHandler struct {
	ingestSvc   services.IngestService
	terminalSvc services.TerminalService
}

// NewTerminalHandler creates a new TerminalHandler instance.
func NewTerminalHandler(ingestSvc services.IngestService, terminalSvc services.TerminalService) *TerminalHandler {
	return &TerminalHandler{
		ingestSvc:   ingestSvc,
		terminalSvc: terminalSvc,
	}
}

// CreateTerminalRequest is the body of the combined terminal+fares
// upload. Fares and Place are optional: when Fares is present, Place
// scopes the rows the new terminal will own.
type CreateTerminalRequest struct {
	Name            string          `json:"name" binding:"required"`
	AssociationName string          `json:"association_name"`
	Barangay        string          `json:"barangay"`
	Municipality    string          `json:"municipality"`
	Place           string          `json:"place"`
	Fares           []ingest.RawRow `json:"fares"`
	Latitude        float64         `json:"latitude" binding:"min=-90,max=90"`
	Longitude       float64         `json:"longitude" binding:"min=-180,max=180"`
	TransportTypeID int64           `json:"transport_type_id"`
}

// CreateTerminalResponse reports the created terminal and what its
// bundled fare batch persisted.
type CreateTerminalResponse struct {
	TerminalID int64 `json:"terminal_id"`
	Inserted   int64 `json:"inserted"`
	Skipped    int   `json:"skipped"`
}

// TerminalResponse wraps a single terminal.
type TerminalResponse struct {
	Terminal *models.Terminal `json:"terminal"`
}

// Create handles POST /api/v1/terminals.
// The terminal and its bundled fare rows persist in one transaction;
// this path appends rows and never replaces a place's existing fares.
func (h *TerminalHandler) Create(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req CreateTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid terminal payload", nil)
		return
	}

	if log != nil {
		log.Info("Processing terminal creation", map[string]interface{}{
			"name":  req.Name,
			"place": req.Place,
			"fares": len(req.Fares),
		})
	}

	result, err := h.ingestSvc.CreateTerminalWithFares(c.Request.Context(), services.TerminalUploadInput{
		Terminal: models.Terminal{
			Name:            req.Name,
			AssociationName: req.AssociationName,
			Barangay:        req.Barangay,
			Municipality:    req.Municipality,
			Latitude:        req.Latitude,
			Longitude:       req.Longitude,
			TransportTypeID: req.TransportTypeID,
		},
		Place: req.Place,
		Rows:  req.Fares,
	})
	if err != nil {
		if errors.Is(err, ingest.ErrPlaceRequired) {
			apierrors.BadRequest(c, err.Error(), map[string]interface{}{
				"place": "Required when fares are bundled",
			})
			return
		}
		apierrors.InternalServerError(c, "Failed to create terminal", err)
		return
	}

	c.JSON(http.StatusCreated, CreateTerminalResponse{
		TerminalID: *result.TerminalID,
		Inserted:   result.Inserted,
		Skipped:    result.Skipped,
	})
}

// Get handles GET /api/v1/terminals/:id.
func (h *TerminalHandler) Get(c *gin.Context) {
	id, ok := terminalID(c)
	if !ok {
		return
	}

	terminal, err := h.terminalSvc.GetTerminal(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTerminalNotFound) {
			apierrors.NotFound(c, "No terminal with that id")
			return
		}
		apierrors.InternalServerError(c, "Failed to query terminal", err)
		return
	}

	c.JSON(http.StatusOK, TerminalResponse{Terminal: terminal})
}

// Delete handles DELETE /api/v1/terminals/:id.
// Owned tricycle fare rows cascade with the terminal.
func (h *TerminalHandler) Delete(c *gin.Context) {
	id, ok := terminalID(c)
	if !ok {
		return
	}

	if err := h.terminalSvc.DeleteTerminal(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrTerminalNotFound) {
			apierrors.NotFound(c, "No terminal with that id")
			return
		}
		apierrors.InternalServerError(c, "Failed to delete terminal", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// terminalID parses the :id path parameter, writing the error response
// itself when the parameter is malformed.
func terminalID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apierrors.BadRequest(c, "Terminal id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}
