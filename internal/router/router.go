package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/swapdonaterent-backend/config"
	"github.com/ikkim/swapdonaterent-backend/internal/app/controller"
	"github.com/ikkim/swapdonaterent-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	itemController         *controller.ItemController
	categoryController     *controller.CategoryController
	cartController         *controller.CartController
	conversationController *controller.ConversationController
	uploadController       *controller.UploadController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	itemController *controller.ItemController,
	categoryController *controller.CategoryController,
	cartController *controller.CartController,
	conversationController *controller.ConversationController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		itemController:         itemController,
		categoryController:     categoryController,
		cartController:         cartController,
		conversationController: conversationController,
		uploadController:       uploadController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "SWAPDONATERENT API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/forgot-password", r.authController.ForgotPassword)
			auth.POST("/reset-password", r.authController.ResetPassword)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
		}

		v1.GET("/users/:id", r.authController.GetUserProfile)

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.GET("/:id", r.categoryController.GetCategory)
		}

		items := v1.Group("/items")
		{
			items.GET("", r.itemController.ListItems)
			items.GET("/featured", r.itemController.GetFeaturedItems)
			items.GET("/mine", r.authMiddleware.Authenticate(), r.itemController.GetMyItems)
			items.GET("/:id", r.itemController.GetItem)

			items.POST("", r.authMiddleware.Authenticate(), r.itemController.CreateItem)
			items.PUT("/:id", r.authMiddleware.Authenticate(), r.itemController.UpdateItem)
			items.DELETE("/:id", r.authMiddleware.Authenticate(), r.itemController.DeleteItem)

			items.POST("/:id/conversations",
				r.authMiddleware.Authenticate(),
				r.conversationController.StartConversation,
			)
		}

		// The badge endpoint answers for guests too, so it sits outside
		// the authenticated cart group.
		v1.GET("/cart/count", r.authMiddleware.OptionalAuthenticate(), r.cartController.CountItems)

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.DELETE("/:id", r.cartController.RemoveFromCart)
			cart.DELETE("", r.cartController.ClearCart)
		}

		conversations := v1.Group("/conversations")
		conversations.Use(r.authMiddleware.Authenticate())
		{
			conversations.GET("", r.conversationController.ListConversations)
			conversations.GET("/:id", r.conversationController.GetConversation)
			conversations.DELETE("/:id", r.conversationController.DeleteConversation)
			conversations.GET("/:id/messages", r.conversationController.GetMessages)
			conversations.POST("/:id/messages", r.conversationController.SendMessage)
		}

		messages := v1.Group("/messages")
		messages.Use(r.authMiddleware.Authenticate())
		{
			messages.PUT("/:id/read", r.conversationController.MarkMessageRead)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/presigned-url", r.uploadController.PresignUpload)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
