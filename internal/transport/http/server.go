package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatbase/chatbase-server/internal/auth"
	"github.com/chatbase/chatbase-server/internal/config"
	"github.com/chatbase/chatbase-server/internal/core"
	"github.com/chatbase/chatbase-server/internal/store"
)

// NewServer builds the HTTP server with REST and websocket routes.
func NewServer(router *core.Router, authService *auth.Service, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(LoggerMiddleware(logger))

	apiHandlers := NewAPIHandlers(authService, st, logger)
	userHandlers := NewUserHandlers(st, router.Presence(), logger)
	messageHandlers := NewMessageHandlers(st, logger)

	engine.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	api := engine.Group("/api")
	{
		api.POST("/auth/register", apiHandlers.Register)
		api.POST("/auth/login", apiHandlers.Login)

		authed := api.Group("")
		authed.Use(AuthMiddleware(authService, logger))
		{
			authed.POST("/auth/logout", apiHandlers.Logout)
			authed.GET("/users", userHandlers.ListUsers)
			authed.POST("/users/avatar", userHandlers.SetAvatar)
			authed.GET("/messages/:userID", messageHandlers.History)
		}
	}

	wsHandler := NewWSHandler(router, authService, cfg.SendQueueSize, cfg.MessageRateLimit, logger)
	engine.GET("/ws", gin.WrapH(wsHandler))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
