package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Gon161/RAG-multi-documento/internal/api/middleware"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(handler *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Chat UI
	r.GET("/", ServeIndex)

	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.Session())
	handler.RegisterRoutes(apiGroup)

	return r
}
