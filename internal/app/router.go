package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carpool/internal/handler"
	"carpool/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler         *handler.UserHandler
	RouteHandler        *handler.RouteHandler
	MatchHandler        *handler.MatchHandler
	ContactHandler      *handler.ContactHandler
	DocumentHandler     *handler.DocumentHandler
	AdminHandler        *handler.AdminHandler
	NotificationHandler *handler.NotificationHandler
	RedisClient         *redis.Client
	NewRelicApp         *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Registration carries no identity yet.
		v1.POST("/users/register", deps.UserHandler.Register)

		authed := v1.Group("")
		authed.Use(middleware.IdentityMiddleware())
		{
			// User routes.
			users := authed.Group("/users")
			{
				users.GET("", deps.UserHandler.GetAll)
				users.GET("/me", deps.UserHandler.Me)
			}

			// Route and match routes.
			routes := authed.Group("/routes")
			{
				routes.POST("", deps.RouteHandler.Create)
				routes.GET("", deps.RouteHandler.GetAll)
				routes.DELETE("/:id", deps.RouteHandler.Delete)
				routes.GET("/:id/matches", deps.MatchHandler.GetMatches)
			}

			// Contact and chat routes.
			contacts := authed.Group("/contacts")
			{
				contacts.POST("", deps.ContactHandler.Create)
				contacts.GET("", deps.ContactHandler.GetAll)
				contacts.GET("/:id", deps.ContactHandler.Get)
				contacts.POST("/:id/messages", deps.ContactHandler.SendMessage)
				contacts.GET("/:id/messages", deps.ContactHandler.GetMessages)
			}

			// Document routes.
			documents := authed.Group("/documents")
			{
				documents.POST("", deps.DocumentHandler.Submit)
				documents.GET("", deps.DocumentHandler.GetMine)
				documents.GET("/catalog", deps.DocumentHandler.GetCatalog)
			}

			// Admin routes.
			admin := authed.Group("/admin")
			{
				admin.GET("/documents/pending", deps.AdminHandler.GetPendingDocuments)
				admin.PATCH("/documents/:id", deps.AdminHandler.ReviewDocument)
				admin.GET("/document-config", deps.AdminHandler.GetDocumentConfig)
				admin.PUT("/document-config", deps.AdminHandler.PutDocumentConfig)
			}

			// Notification routes.
			notifications := authed.Group("/notifications")
			{
				notifications.GET("", deps.NotificationHandler.GetAll)
				notifications.PATCH("", deps.NotificationHandler.MarkRead)
			}
		}
	}

	return router
}
