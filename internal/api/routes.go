package api

import (
	"net/http"

	"github.com/Barry4747/ZnanyByk-sub001/internal/config"
	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"
	"github.com/Barry4747/ZnanyByk-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services bundles everything the handlers call into.
type Services struct {
	Auth        service.AuthService
	Profile     service.ProfileService
	Trainer     service.TrainerService
	Schedule    service.ScheduleService
	Appointment service.AppointmentService
	Chat        service.ChatService
	Payment     service.PaymentService
}

// SetupRoutes registers every endpoint on router. metrics may be nil.
func SetupRoutes(router *gin.Engine, svc Services, metrics *Metrics, limits config.RateLimitConfig, log *zap.Logger) error {
	if err := RegisterValidators(); err != nil {
		return err
	}

	authHandler := NewAuthHandler(svc.Auth, log)
	profileHandler := NewProfileHandler(svc.Profile, log)
	trainerHandler := NewTrainerHandler(svc.Trainer, svc.Schedule, svc.Appointment, log)
	appointmentHandler := NewAppointmentHandler(svc.Appointment, log)
	chatHandler := NewChatHandler(svc.Chat, log)
	paymentHandler := NewPaymentHandler(svc.Payment, log)

	if metrics != nil {
		router.Use(metrics.Middleware())
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		authGroup.Use(RateLimitMiddleware(limits.RPS, limits.Burst))
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(svc.Auth))
	{
		protected.GET("/me", profileHandler.GetProfile)
		protected.GET("/profile", profileHandler.GetProfile)
		protected.PUT("/profile", profileHandler.UpdateProfile)
		protected.POST("/profile/photo/upload-url", profileHandler.RequestPhotoUpload)
		protected.POST("/profile/photo", profileHandler.ConfirmPhoto)
		protected.GET("/profile/photo", profileHandler.GetPhotoURL)

		// Trainer directory, open to every signed-in user.
		protected.GET("/trainers", trainerHandler.ListTrainers)
		protected.GET("/trainers/:trainerId", trainerHandler.GetTrainer)
		protected.GET("/trainers/:trainerId/schedule", trainerHandler.GetTrainerSchedule)

		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.PUT("/profile", trainerHandler.UpdateMyProfile)
			trainerGroup.GET("/schedule", trainerHandler.GetMySchedule)
			trainerGroup.POST("/schedule/:weekday/slots", trainerHandler.AddSlot)
			trainerGroup.DELETE("/schedule/:weekday/slots", trainerHandler.RemoveSlot)
			trainerGroup.GET("/appointments", trainerHandler.ListMyAppointments)
		}

		appointmentGroup := protected.Group("/appointments")
		{
			appointmentGroup.POST("", RoleMiddleware(domain.RoleClient), appointmentHandler.Book)
			appointmentGroup.GET("", RoleMiddleware(domain.RoleClient), appointmentHandler.ListMine)
			// Either side of the appointment may cancel it.
			appointmentGroup.DELETE("/:id", appointmentHandler.Cancel)
		}

		protected.GET("/chats", chatHandler.ListChats)
		protected.GET("/chats/:chatId/messages", chatHandler.GetThread)
		protected.POST("/chats/:chatId/seen", chatHandler.MarkSeen)
		protected.POST("/messages", chatHandler.SendMessage)

		paymentGroup := protected.Group("/payments")
		{
			paymentGroup.POST("", RoleMiddleware(domain.RoleClient), paymentHandler.Create)
			paymentGroup.GET("", paymentHandler.List)
			paymentGroup.POST("/:id/complete", paymentHandler.Complete)
			paymentGroup.POST("/:id/fail", paymentHandler.Fail)
		}
	}
	return nil
}
