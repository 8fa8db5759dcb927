// Package http wires the gin router and request handlers.
package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifeai-server/internal/delivery/http/middleware"
	"lifeai-server/internal/service"
)

// Handler bundles the services behind the HTTP API.
type Handler struct {
	auth     *service.AuthService
	game     *service.GameService
	chats    *service.ChatService
	tutor    *service.TutorService
	search   *service.SearchService
	feedback *service.FeedbackService
	logger   *zap.Logger
}

// NewHandler creates the handler set.
func NewHandler(
	auth *service.AuthService,
	game *service.GameService,
	chats *service.ChatService,
	tutor *service.TutorService,
	search *service.SearchService,
	feedback *service.FeedbackService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		auth:     auth,
		game:     game,
		chats:    chats,
		tutor:    tutor,
		search:   search,
		feedback: feedback,
		logger:   logger.Named("HTTPHandler"),
	}
}

// RouterConfig carries router-level settings.
type RouterConfig struct {
	AllowedOrigins []string
	MediaDir       string
}

// NewRouter builds the gin engine with middleware, static media and routes.
func (h *Handler) NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ZapLogging(h.logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if cfg.MediaDir != "" {
		router.Static("/media", cfg.MediaDir)
	}

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.POST("/refresh", h.refresh)
		authGroup.POST("/logout", middleware.Auth(h.auth.VerifyAccessToken), h.logout)
	}

	// The game keeps no server-side session; its endpoints are public.
	gameGroup := router.Group("/api/game")
	{
		gameGroup.POST("/new", h.newLife)
		gameGroup.POST("/turn", h.generateTurn)
		gameGroup.POST("/apply", h.applyChoice)
	}

	api := router.Group("/api", middleware.Auth(h.auth.VerifyAccessToken))
	{
		api.POST("/chats", h.createChat)
		api.GET("/chats", h.listChats)
		api.PATCH("/chats/:id", h.renameChat)
		api.DELETE("/chats/:id", h.deleteChat)
		api.GET("/chats/:id/messages", h.listMessages)
		api.POST("/chats/:id/messages", h.appendMessage)

		api.POST("/chat", h.streamCompletion)
		api.POST("/search", h.semanticSearch)
		api.POST("/feedback", h.recordFeedback)
	}

	return router
}
