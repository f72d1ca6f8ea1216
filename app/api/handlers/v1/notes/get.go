package notes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notably/notes-api/platform/web/handler"
)

// Get godoc
// @Summary Find a note
// @Description Finds one of the caller's notes by id
// @Tags Note
// @Produce json
// @Param id path string true "Note id"
// @Security BearerAuth
// @Success 200 {object} note.Note
// @Failure 401 {object} handler.Error
// @Failure 404 {object} handler.Error
// @Router /v1/notes/{id} [get]
func (h *Handlers) Get(ctx *gin.Context, owner string) handler.Result {
	found, err := h.core.Find(ctx.Request.Context(), owner, ctx.Param("id"))
	if err != nil {
		return status(err)
	}

	return handler.Result{
		Status: http.StatusOK,
		Body:   found,
	}
}
