package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/notably/notes-api/app/api/handlers/v1/healthcheck"
	"github.com/notably/notes-api/app/api/handlers/v1/notes"
	"github.com/notably/notes-api/business/v1/note"
	"github.com/notably/notes-api/platform/auth"
	"github.com/notably/notes-api/platform/web/handler"
)

func MapDefaults(r *gin.Engine) {
	r.GET("/v1/healthcheck", handler.Wrapper(healthcheck.Get))
}

func MapApi(r *gin.Engine, verifier auth.Verifier, core *note.Core) {
	h := notes.New(core)

	r.POST("/v1/notes", handler.WrapperAuth(verifier, h.Create))
	r.GET("/v1/notes", handler.WrapperAuth(verifier, h.List))
	r.GET("/v1/notes/:id", handler.WrapperAuth(verifier, h.Get))
	r.PUT("/v1/notes/:id", handler.WrapperAuth(verifier, h.Update))
	r.DELETE("/v1/notes/:id", handler.WrapperAuth(verifier, h.Delete))
	r.GET("/v1/notes/:id/attachment", handler.WrapperAuth(verifier, h.Attachment))
}
