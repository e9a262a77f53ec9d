package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"dentalcare-connect-server/internal/assistant"
	"dentalcare-connect-server/internal/chat"
	"dentalcare-connect-server/internal/config"
	"dentalcare-connect-server/internal/handlers"
	"dentalcare-connect-server/internal/middleware"
	"dentalcare-connect-server/internal/models"
	"dentalcare-connect-server/internal/scheduling"
)

// SetupRoutes configures the application routes. The locker and generator
// are built in main because they depend on optional external services.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, locker scheduling.Locker, gen assistant.TextGenerator) {
	// Domain services
	repo := scheduling.NewGormRepository(db)
	availabilitySvc := scheduling.NewAvailabilityService(repo)
	bookingSvc := scheduling.NewBookingService(repo, locker)
	chatSvc := chat.NewService(chat.NewGormStore(db))
	responder := assistant.NewResponder(gen, assistant.DefaultTimeout)

	// Handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilitySvc)
	appointmentHandler := handlers.NewAppointmentHandler(db, bookingSvc)
	messageHandler := handlers.NewMessageHandler(db, chatSvc, responder, cfg.PrimaryDoctorID)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		userRoutes := private.Group("/users")
		{
			userRoutes.GET("/doctors", userHandler.GetDoctors)
			userRoutes.GET("/doctor-patients", middleware.RoleAuthMiddleware(models.RoleDoctor), userHandler.GetDoctorPatients)
			userRoutes.GET("/:id", userHandler.GetUserByID)
		}

		// Anyone authenticated can read a doctor's calendar when booking.
		private.GET("/doctors/:id/availability", availabilityHandler.GetDoctorAvailability)

		// Only doctors manage availability, and only their own.
		availabilityRoutes := private.Group("/availability")
		availabilityRoutes.Use(middleware.RoleAuthMiddleware(models.RoleDoctor))
		{
			availabilityRoutes.GET("", availabilityHandler.GetMyAvailability)
			availabilityRoutes.POST("", availabilityHandler.AddSlot)
			availabilityRoutes.POST("/bulk", availabilityHandler.BulkAddSlots)
			availabilityRoutes.DELETE("/:slotId", availabilityHandler.RemoveSlot)
		}

		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PATCH("/:id/status", appointmentHandler.UpdateAppointmentStatus)
		}

		messageRoutes := private.Group("/messages")
		{
			messageRoutes.POST("/send", messageHandler.SendMessage)
			messageRoutes.GET("", messageHandler.GetMessages)
			messageRoutes.GET("/new", messageHandler.GetNewMessages)
			messageRoutes.GET("/conversations", messageHandler.GetConversations)
			messageRoutes.POST("/assistant", middleware.RoleAuthMiddleware(models.RolePatient), messageHandler.AskAssistant)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
