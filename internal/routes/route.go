package routes

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tripnest/server/internal/connect"
	"github.com/tripnest/server/internal/container"
	"github.com/tripnest/server/internal/handlers"
	"github.com/tripnest/server/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(container.Config.CORSOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger, container.Config.IsDevelopment()))
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			dbUp := connect.Ping(c.Request.Context(), container.MongoDBClient)
			c.JSON(200, gin.H{
				"success":  true,
				"status":   "OK",
				"service":  "tripnest-api",
				"database": dbUp,
			})
		})

		// public routes
		api.POST("/auth/register", handlers.Register(container.UserService))
		api.POST("/auth/login", handlers.Login(container.UserService))

		api.GET("/hosts", handlers.ListHosts(container.HostService))
		api.GET("/hosts/:id", handlers.GetHost(container.HostService))
		api.GET("/hosts/:id/profile-status", handlers.GetHostProfileStatus(container.HostService))

		api.GET("/transportations", handlers.ListTransportations(container.TransportationService))
		api.GET("/transportations/:id", handlers.GetTransportation(container.TransportationService))
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(container.Tokens, container.UserService, container.Logger))

	authRoutes := protected.Group("/auth")
	{
		authRoutes.GET("/me", handlers.Me())
		authRoutes.POST("/logout", handlers.Logout())
		authRoutes.PUT("/profile", handlers.UpdateProfile(container.UserService))
		authRoutes.PUT("/change-password", handlers.ChangePassword(container.UserService))
		authRoutes.PUT("/profile-picture", handlers.SetProfilePicture(container.UserService))
		authRoutes.DELETE("/profile-picture", handlers.ClearProfilePicture(container.UserService))
	}

	tripRoutes := protected.Group("/trips")
	{
		tripRoutes.POST("", handlers.CreateTrip(container.TripService))
		tripRoutes.GET("", handlers.ListTrips(container.TripService))
		tripRoutes.GET("/:id", handlers.GetTrip(container.TripService))
		tripRoutes.PUT("/:id", handlers.UpdateTrip(container.TripService))
		tripRoutes.DELETE("/:id", handlers.DeleteTrip(container.TripService))
	}

	hostRoutes := protected.Group("/hosts")
	{
		hostRoutes.POST("", handlers.CreateHost(container.HostService))
		hostRoutes.GET("/mine", handlers.ListMyHosts(container.HostService))
		hostRoutes.PUT("/:id", handlers.UpdateHost(container.HostService))
	}

	bookingRoutes := protected.Group("/bookings")
	{
		bookingRoutes.POST("", handlers.CreateBooking(container.BookingService))
		bookingRoutes.GET("", handlers.ListMyBookings(container.BookingService))
		bookingRoutes.GET("/host", handlers.ListHostBookings(container.BookingService))
		bookingRoutes.GET("/:id", handlers.GetBooking(container.BookingService))
		bookingRoutes.PUT("/:id/confirm", handlers.ConfirmBooking(container.BookingService))
		bookingRoutes.PUT("/:id/cancel", handlers.CancelBooking(container.BookingService))
		bookingRoutes.POST("/:id/pay", handlers.PayBooking(container.BookingService))
	}

	protected.POST("/transportations", handlers.CreateTransportation(container.TransportationService))

	protected.POST("/messages", handlers.SendMessage(container.MessageService))
	conversationRoutes := protected.Group("/conversations")
	{
		conversationRoutes.GET("", handlers.ListConversations(container.MessageService))
		conversationRoutes.GET("/:id/messages", handlers.ListMessages(container.MessageService))
		conversationRoutes.PUT("/:id/read", handlers.MarkConversationRead(container.MessageService))
	}

	return r
}
