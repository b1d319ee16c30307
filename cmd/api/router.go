package api

import (
	"net/http"

	assistantDelivery "mailmate-backend/internal/assistant/delivery"
	assistantUsecase "mailmate-backend/internal/assistant/usecase"
	"mailmate-backend/internal/auth/delivery"
	authUsecase "mailmate-backend/internal/auth/usecase"
	emailDelivery "mailmate-backend/internal/email/delivery"
	emailUsecase "mailmate-backend/internal/email/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, emailUsecase emailUsecase.EmailUsecase, assistantUsecase assistantUsecase.AssistantUsecase) {
	authHandler := delivery.NewAuthHandler(authUsecase)
	emailHandler := emailDelivery.NewEmailHandler(emailUsecase)
	assistantHandler := assistantDelivery.NewAssistantHandler(assistantUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/google", authHandler.GoogleSignIn)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUsecase), authHandler.Me)
		}

		// Assistant routes (protected)
		assistant := api.Group("/assistant")
		assistant.Use(delivery.AuthMiddleware(authUsecase))
		{
			assistant.POST("/chat", assistantHandler.Chat)
			assistant.GET("/history", assistantHandler.History)
			assistant.POST("/reset", assistantHandler.Reset)
		}

		// Email routes (protected)
		emails := api.Group("/emails")
		emails.Use(delivery.AuthMiddleware(authUsecase))
		{
			emails.GET("/recent", emailHandler.GetRecentEmails)
			emails.POST("/delete", emailHandler.DeleteEmail)
			emails.POST("/generate-reply", emailHandler.GenerateReply)
			emails.POST("/send", emailHandler.SendReply)
		}
	}
}
