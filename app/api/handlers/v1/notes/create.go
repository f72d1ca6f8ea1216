package notes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notably/notes-api/business/v1/note"
	"github.com/notably/notes-api/platform/web/handler"
)

// Create godoc
// @Summary Create a note
// @Description Creates a note for the caller, optionally with one attachment
// @Tags Note
// @Accept json
// @Produce json
// @Param note body note.NewNote true "New note"
// @Security BearerAuth
// @Success 201 {object} note.Note
// @Failure 400 {object} handler.Error
// @Failure 401 {object} handler.Error
// @Failure 413 {object} handler.Error
// @Router /v1/notes [post]
func (h *Handlers) Create(ctx *gin.Context, owner string) handler.Result {
	var newN note.NewNote
	if err := ctx.ShouldBindJSON(&newN); err != nil {
		return handler.Result{
			Status: http.StatusBadRequest,
			Body:   handler.Error{Message: "invalid payload: " + err.Error()},
		}
	}

	created, err := h.core.Create(ctx.Request.Context(), owner, newN)
	if err != nil {
		return status(err)
	}

	return handler.Result{
		Status: http.StatusCreated,
		Body:   created,
	}
}
