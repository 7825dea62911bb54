package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/trails-backend-go/internal/export"
	"github.com/jengzang/trails-backend-go/internal/ingest"
	"github.com/jengzang/trails-backend-go/internal/models"
	"github.com/jengzang/trails-backend-go/internal/service"
	"github.com/jengzang/trails-backend-go/pkg/response"
)

// MaxUploadBytes caps the size of an uploaded GeoJSON document
const MaxUploadBytes = 32 << 20

// TrailHandler handles HTTP requests for trails
type TrailHandler struct {
	service *service.TrailService
}

// NewTrailHandler creates a new trail handler
func NewTrailHandler(service *service.TrailService) *TrailHandler {
	return &TrailHandler{service: service}
}

// Analyze handles POST /api/v1/analyze?name=&format=json|geojson|kml
func (h *TrailHandler) Analyze(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.BadRequest(c, "Invalid format", err)
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)
	result, err := h.service.Analyze(c.Query("name"), body)
	if err != nil {
		writeServiceError(c, "Failed to analyze trail", err)
		return
	}

	if format == export.FormatJSON {
		response.Success(c, gin.H{
			"report": result.Report,
			"ingest": result.Stats,
		})
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, result.Report.Name, result.Report.Points(), result.Report.Segments); err != nil {
		response.InternalError(c, "Failed to export trail", err)
		return
	}
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// ListTrails handles GET /api/v1/trails
func (h *TrailHandler) ListTrails(c *gin.Context) {
	var filter models.TrailFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	trails, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, "Failed to list trails", err)
		return
	}

	response.Success(c, trails)
}

// GetTrail handles GET /api/v1/trails/:name
func (h *TrailHandler) GetTrail(c *gin.Context) {
	trail, err := h.service.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeServiceError(c, "Failed to get trail", err)
		return
	}

	response.Success(c, trail)
}

// GetTrailPath handles GET /api/v1/trails/:name/path
func (h *TrailHandler) GetTrailPath(c *gin.Context) {
	path, err := h.service.GetPath(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeServiceError(c, "Failed to get trail path", err)
		return
	}

	response.Success(c, path)
}

// ExportTrail handles GET /api/v1/trails/:name/export?format=geojson|kml
func (h *TrailHandler) ExportTrail(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatGeoJSON)))
	if err == nil && format == export.FormatJSON {
		err = errors.New("json is not a map format")
	}
	if err != nil {
		response.BadRequest(c, "Invalid format", err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), c.Param("name"), format, &buf); err != nil {
		writeServiceError(c, "Failed to export trail", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+safeFilename(c.Param("name"))+"."+string(format)+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// CreateTrail handles POST /api/v1/trails?name=
func (h *TrailHandler) CreateTrail(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)
	trail, err := h.service.Create(c.Request.Context(), c.Query("name"), body)
	if err != nil {
		writeServiceError(c, "Failed to create trail", err)
		return
	}

	response.Created(c, trail)
}

// DeleteTrail handles DELETE /api/v1/trails/:name
func (h *TrailHandler) DeleteTrail(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("name")); err != nil {
		writeServiceError(c, "Failed to delete trail", err)
		return
	}

	response.Success(c, gin.H{"deleted": c.Param("name")})
}

// writeServiceError maps service errors to HTTP statuses
func writeServiceError(c *gin.Context, message string, err error) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, service.ErrTrailNotFound), errors.Is(err, service.ErrJobNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrTrailExists):
		response.Conflict(c, err.Error())
	case errors.As(err, &maxBytes):
		response.Error(c, http.StatusRequestEntityTooLarge, "Upload too large", err)
	case errors.Is(err, ingest.ErrUnreadableDocument), errors.Is(err, service.ErrMissingName),
		errors.Is(err, service.ErrInvalidGeohash):
		response.BadRequest(c, message, err)
	default:
		response.InternalError(c, message, err)
	}
}

func safeFilename(name string) string {
	out := []rune(name)
	for i, r := range out {
		if r == '"' || r == '/' || r == '\\' || r < 0x20 {
			out[i] = '_'
		}
	}
	return string(out)
}
