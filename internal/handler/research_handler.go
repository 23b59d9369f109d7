package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/research-guide-api/internal/dto"
	"github.com/noah-isme/research-guide-api/internal/service"
	appErrors "github.com/noah-isme/research-guide-api/pkg/errors"
	"github.com/noah-isme/research-guide-api/pkg/response"
)

type documentService interface {
	Generate(ctx context.Context, req dto.ResearchProject) (*service.RenderResult, error)
	Open(name, token string) (*os.File, error)
}

// ResearchHandler exposes the document generation endpoints.
type ResearchHandler struct {
	documents documentService
}

// NewResearchHandler constructs handler.
func NewResearchHandler(documents documentService) *ResearchHandler {
	return &ResearchHandler{documents: documents}
}

// Generate godoc
// @Summary Render a research project to PDF
// @Tags Research
// @Accept json
// @Produce json
// @Param payload body dto.ResearchProject true "Project sections"
// @Success 200 {object} dto.GenerateResponse
// @Failure 422 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /research/generate [post]
func (h *ResearchHandler) Generate(c *gin.Context) {
	var req dto.ResearchProject
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	result, err := h.documents.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.GenerateResponse{
		Message:  service.DocumentSuccessMessage,
		FilePath: result.FilePath,
	})
}

// Download godoc
// @Summary Download a rendered research project
// @Tags Research
// @Produce application/pdf
// @Param file path string true "File name"
// @Param token query string false "Signed token, when downloads are signed"
// @Success 200 {file} binary
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /research/download/{file} [get]
func (h *ResearchHandler) Download(c *gin.Context) {
	name := c.Param("file")
	file, err := h.documents.Open(name, c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat document"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", name))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), "application/pdf", file, nil)
}
