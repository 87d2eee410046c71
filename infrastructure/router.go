// infrastructure/router.go
package infrastructure

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterOptions struct {
	CORSAllowOrigin string
	Metrics         *Metrics
	Logger          *zap.Logger
}

// NewRouter builds the gin engine with the service middleware chain and
// mounts h.
func NewRouter(h *VideoHandlers, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(opts.Logger))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	router.Use(CORS(opts.CORSAllowOrigin))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})

	h.RegisterRoutes(router)
	return router
}
