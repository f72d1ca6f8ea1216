package notes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notably/notes-api/business/v1/note"
	"github.com/notably/notes-api/platform/web/handler"
)

// Update godoc
// @Summary Update a note
// @Description Applies a partial update to one of the caller's notes
// @Tags Note
// @Accept json
// @Produce json
// @Param id path string true "Note id"
// @Param note body note.UpdateNote true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} note.Note
// @Failure 400 {object} handler.Error
// @Failure 401 {object} handler.Error
// @Failure 404 {object} handler.Error
// @Failure 413 {object} handler.Error
// @Router /v1/notes/{id} [put]
func (h *Handlers) Update(ctx *gin.Context, owner string) handler.Result {
	var upd note.UpdateNote
	if err := ctx.ShouldBindJSON(&upd); err != nil {
		return handler.Result{
			Status: http.StatusBadRequest,
			Body:   handler.Error{Message: "invalid payload: " + err.Error()},
		}
	}

	updated, err := h.core.Update(ctx.Request.Context(), owner, ctx.Param("id"), upd)
	if err != nil {
		return status(err)
	}

	return handler.Result{
		Status: http.StatusOK,
		Body:   updated,
	}
}
