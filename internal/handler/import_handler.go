package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/trails-backend-go/internal/service"
	"github.com/jengzang/trails-backend-go/pkg/response"
)

// ImportHandler handles HTTP requests for batch imports
type ImportHandler struct {
	service *service.ImportService
	dir     string
}

// NewImportHandler creates a new import handler importing from dir
func NewImportHandler(service *service.ImportService, dir string) *ImportHandler {
	return &ImportHandler{service: service, dir: dir}
}

// StartImport handles POST /api/v1/imports
func (h *ImportHandler) StartImport(c *gin.Context) {
	job, err := h.service.Start(c.Request.Context(), h.dir)
	if err != nil {
		response.InternalError(c, "Failed to start import", err)
		return
	}

	response.Accepted(c, job)
}

// GetImport handles GET /api/v1/imports/:id
func (h *ImportHandler) GetImport(c *gin.Context) {
	job, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, "Failed to get import job", err)
		return
	}

	response.Success(c, job)
}
