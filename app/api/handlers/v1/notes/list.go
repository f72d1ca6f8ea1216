package notes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notably/notes-api/platform/web/handler"
)

// List godoc
// @Summary List notes
// @Description Lists the caller's notes, most recent first
// @Tags Note
// @Produce json
// @Security BearerAuth
// @Success 200 {array} note.Note
// @Failure 401 {object} handler.Error
// @Router /v1/notes [get]
func (h *Handlers) List(ctx *gin.Context, owner string) handler.Result {
	all, err := h.core.List(ctx.Request.Context(), owner)
	if err != nil {
		return status(err)
	}

	return handler.Result{
		Status: http.StatusOK,
		Body:   all,
	}
}
