package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"signup-relay/pkg/middleware"
)

// NewRouter registers the relay routes and serves anything else from staticDir
func NewRouter(h *Handlers, staticDir string, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(allowedOrigins),
	)

	router.GET("/", h.Root)
	router.POST("/signup", h.HandleSignup)
	router.GET("/health", h.HealthCheck)

	// Static pages: signup.html, thankyou.html, assets
	router.NoRoute(gin.WrapH(http.FileServer(gin.Dir(staticDir, false))))

	return router
}
