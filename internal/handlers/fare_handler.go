package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/sakayph/fares-api/internal/errors"
	"github.com/sakayph/fares-api/internal/ingest"
	"github.com/sakayph/fares-api/internal/middleware"
	"github.com/sakayph/fares-api/internal/models"
	"github.com/sakayph/fares-api/internal/services"
)

// FareHandler handles fare upload and fare query HTTP requests.
type FareHandler struct {
	ingestSvc services.IngestService
	fareSvc   services.FareService
	maxRows   int
}

// NewFareHandler creates a new FareHandler instance. maxRows caps how
// many raw rows one upload may carry.
func NewFareHandler(ingestSvc services.IngestService, fareSvc services.FareService, maxRows int) *FareHandler {
	return &FareHandler{
		ingestSvc: ingestSvc,
		fareSvc:   fareSvc,
		maxRows:   maxRows,
	}
}

// UploadFaresRequest is the body of a direct fare upload. Data rows are
// heterogeneous by design; the ingest package resolves their shape.
type UploadFaresRequest struct {
	Category string          `json:"category" binding:"required"`
	Place    string          `json:"place"`
	Data     []ingest.RawRow `json:"data" binding:"required"`
}

// TricycleFaresRequest is the query string of the tricycle fare listing.
type TricycleFaresRequest struct {
	Place string `form:"place" binding:"required"`
}

// JeepneyFaresResponse wraps the jeepney fare listing.
type JeepneyFaresResponse struct {
	Fares []models.JeepneyFare `json:"fares"`
	Count int                  `json:"count"`
}

// TricycleFaresResponse wraps one place's tricycle fare listing.
type TricycleFaresResponse struct {
	Place string                `json:"place"`
	Fares []models.TricycleFare `json:"fares"`
	Count int                   `json:"count"`
}

// PlacesResponse wraps the distinct-places listing.
type PlacesResponse struct {
	Places []string `json:"places"`
	Count  int      `json:"count"`
}

// Upload handles POST /api/v1/fares/upload.
// It normalizes the submitted rows and replaces the rows in the
// upload's scope inside a single transaction.
func (h *FareHandler) Upload(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req UploadFaresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid upload payload", nil)
		return
	}

	if h.maxRows > 0 && len(req.Data) > h.maxRows {
		apierrors.BadRequest(c, "Upload exceeds the row limit", map[string]interface{}{
			"rows":     len(req.Data),
			"max_rows": h.maxRows,
		})
		return
	}

	category, err := models.ParseFareCategory(req.Category)
	if err != nil {
		apierrors.BadRequest(c, err.Error(), map[string]interface{}{
			"category": "Must be one of: LTFRB, LGU",
		})
		return
	}

	if log != nil {
		log.Info("Processing fare upload", map[string]interface{}{
			"category": string(category),
			"place":    req.Place,
			"rows":     len(req.Data),
		})
	}

	result, err := h.ingestSvc.UploadFares(c.Request.Context(), services.UploadInput{
		Category: category,
		Place:    req.Place,
		Rows:     req.Data,
	})
	if err != nil {
		if errors.Is(err, ingest.ErrPlaceRequired) {
			apierrors.BadRequest(c, err.Error(), map[string]interface{}{
				"place": "Required for LGU uploads",
			})
			return
		}
		if errors.Is(err, ingest.ErrUnknownCategory) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to persist fare upload", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Jeepney handles GET /api/v1/fares/jeepney.
func (h *FareHandler) Jeepney(c *gin.Context) {
	fares, err := h.fareSvc.GetJeepneyFares(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to query jeepney fares", err)
		return
	}

	c.JSON(http.StatusOK, JeepneyFaresResponse{
		Fares: fares,
		Count: len(fares),
	})
}

// Tricycle handles GET /api/v1/fares/tricycle?place=X.
func (h *FareHandler) Tricycle(c *gin.Context) {
	var req TricycleFaresRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	fares, err := h.fareSvc.GetTricycleFares(c.Request.Context(), req.Place)
	if err != nil {
		if errors.Is(err, ingest.ErrPlaceRequired) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to query tricycle fares", err)
		return
	}

	c.JSON(http.StatusOK, TricycleFaresResponse{
		Place: req.Place,
		Fares: fares,
		Count: len(fares),
	})
}

// Places handles GET /api/v1/fares/places.
func (h *FareHandler) Places(c *gin.Context) {
	places, err := h.fareSvc.GetPlaces(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to query places", err)
		return
	}

	c.JSON(http.StatusOK, PlacesResponse{
		Places: places,
		Count:  len(places),
	})
}
