package router

import (
	"fleetbase/app/handler"
	"fleetbase/app/middleware"

	"github.com/gin-gonic/gin"
)

// Router Router
type Router struct {
	statusHandler *handler.StatusHandler
}

// NewRouter creates a new Router
func NewRouter(statusHandler *handler.StatusHandler) *Router {
	return &Router{
		statusHandler: statusHandler,
	}
}

// Setup sets up routes
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger())

	engine.GET("/healthz", r.statusHandler.Healthz)

	v1 := engine.Group("/v1")
	{
		v1.GET("/status", r.statusHandler.Status)
	}
}
