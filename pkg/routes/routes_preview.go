// Package routes wires the preview endpoints onto a gin engine.
package routes

import (
	"github.com/gin-gonic/gin"

	"kinotrend/internal/handlers"
)

// SetupPreviewRoutes registers the preview server endpoints.
func SetupPreviewRoutes(r *gin.Engine, h *handlers.PreviewHandler) {
	r.GET("/health", h.Health)
	r.GET("/api/posters", h.ListPosters)
	r.GET("/posters/:name", h.GetPoster)
}
