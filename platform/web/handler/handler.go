package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/notably/notes-api/platform/auth"
)

// Result is what every handler produces, the wrappers translate it into
// the gin response.
type Result struct {
	Status int
	Body   any
	// Raw, when set, is written as a binary body with ContentType
	// instead of a json Body.
	Raw         []byte
	ContentType string
}

// Error is the body of every non 2xx response
type Error struct {
	Message string `json:"message"`
}

// Wrapper adapts a handler func into a gin handler
func Wrapper(h func(ctx *gin.Context) Result) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		render(ctx, h(ctx))
	}
}

// WrapperAuth resolves the caller through the verifier before running the
// handler. A missing or invalid credential short-circuits with a 401 and
// the handler never runs.
func WrapperAuth(v auth.Verifier, h func(ctx *gin.Context, owner string) Result) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		credential := bearer(ctx.GetHeader("Authorization"))
		if credential == "" {
			render(ctx, Result{Status: http.StatusUnauthorized, Body: Error{Message: "missing credentials"}})
			return
		}

		owner, err := v.Verify(ctx.Request.Context(), credential)
		if err != nil {
			render(ctx, Result{Status: http.StatusUnauthorized, Body: Error{Message: "invalid credentials"}})
			return
		}

		render(ctx, h(ctx, owner))
	}
}

func bearer(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func render(ctx *gin.Context, r Result) {
	switch {
	case r.Raw != nil:
		contentType := r.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		ctx.Data(r.Status, contentType, r.Raw)
	case r.Body != nil:
		ctx.JSON(r.Status, r.Body)
	default:
		ctx.Status(r.Status)
	}
}
