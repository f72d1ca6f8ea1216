package notes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notably/notes-api/platform/web/handler"
)

// Attachment godoc
// @Summary Download a note attachment
// @Description Streams the binary attached to one of the caller's notes
// @Tags Note
// @Produce octet-stream
// @Param id path string true "Note id"
// @Security BearerAuth
// @Success 200 {string} binary
// @Failure 401 {object} handler.Error
// @Failure 404 {object} handler.Error
// @Router /v1/notes/{id}/attachment [get]
func (h *Handlers) Attachment(ctx *gin.Context, owner string) handler.Result {
	data, err := h.core.Attachment(ctx.Request.Context(), owner, ctx.Param("id"))
	if err != nil {
		return status(err)
	}

	return handler.Result{
		Status:      http.StatusOK,
		Raw:         data,
		ContentType: http.DetectContentType(data),
	}
}
