package notes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notably/notes-api/platform/web/handler"
)

// Delete godoc
// @Summary Delete a note
// @Description Deletes one of the caller's notes and releases its attachment
// @Tags Note
// @Param id path string true "Note id"
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} handler.Error
// @Failure 404 {object} handler.Error
// @Router /v1/notes/{id} [delete]
func (h *Handlers) Delete(ctx *gin.Context, owner string) handler.Result {
	if err := h.core.Delete(ctx.Request.Context(), owner, ctx.Param("id")); err != nil {
		return status(err)
	}

	return handler.Result{
		Status: http.StatusNoContent,
	}
}
