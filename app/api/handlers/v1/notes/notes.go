// Package notes holds the http handlers for the note operations. Every
// handler runs behind the auth wrapper, the owner id it receives is the
// verified caller identity and never comes from the payload.
package notes

import (
	"errors"
	"net/http"

	"github.com/notably/notes-api/business/v1/note"
	"github.com/notably/notes-api/platform/web/handler"
)

type Handlers struct {
	core *note.Core
}

func New(core *note.Core) *Handlers {
	return &Handlers{core: core}
}

func status(err error) handler.Result {
	switch {
	case errors.Is(err, note.ErrNotFound):
		return handler.Result{
			Status: http.StatusNotFound,
			Body:   handler.Error{Message: "note not found"},
		}
	case errors.Is(err, note.ErrEmptyContent):
		return handler.Result{
			Status: http.StatusBadRequest,
			Body:   handler.Error{Message: err.Error()},
		}
	case errors.Is(err, note.ErrAttachmentTooLarge):
		return handler.Result{
			Status: http.StatusRequestEntityTooLarge,
			Body:   handler.Error{Message: err.Error()},
		}
	default:
		return handler.Result{
			Status: http.StatusInternalServerError,
			Body:   handler.Error{Message: err.Error()},
		}
	}
}
