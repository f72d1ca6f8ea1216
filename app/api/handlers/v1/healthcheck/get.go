package healthcheck

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notably/notes-api/platform/web/handler"
)

type Health struct {
	Status string `json:"status" example:"ok"`
}

// Get godoc
// @Summary Healthcheck
// @Description Reports whether the service is up
// @Tags Health
// @Produce json
// @Success 200 {object} healthcheck.Health
// @Router /v1/healthcheck [get]
func Get(_ *gin.Context) handler.Result {
	return handler.Result{
		Status: http.StatusOK,
		Body:   Health{Status: "ok"},
	}
}
