package http

import (
	"fmt"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomline/roomline-server/internal/auth"
	"github.com/roomline/roomline-server/internal/config"
	"github.com/roomline/roomline-server/internal/core"
)

// NewServer builds the HTTP server: auth REST endpoints, a health
// probe, and the per-room WebSocket upgrade route.
func NewServer(hub *core.Hub, authService *auth.Service, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	api := NewAPIHandlers(authService, logger)
	router.POST("/api/auth/register", api.Register)
	router.POST("/api/auth/login", api.Login)
	router.POST("/api/auth/logout", api.Logout)
	router.GET("/api/me", AuthMiddleware(authService, logger), api.Me)

	ws := NewWSHandler(hub, cfg, logger)
	router.GET("/api/room/:room", ws.Handle)

	router.GET("/health", func(c *gin.Context) {
		fmt.Fprint(c.Writer, "ok")
	})

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
