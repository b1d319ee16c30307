package api

import (
	assistantUsecase "mailmate-backend/internal/assistant/usecase"
	authUsecase "mailmate-backend/internal/auth/usecase"
	emailUsecasePkg "mailmate-backend/internal/email/usecase"
	"mailmate-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase      authUsecase.AuthUsecase
	emailUsecase     emailUsecasePkg.EmailUsecase
	assistantUsecase assistantUsecase.AssistantUsecase
	config           *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, emailUc emailUsecasePkg.EmailUsecase, assistantUc assistantUsecase.AssistantUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:      authUc,
		emailUsecase:     emailUc,
		assistantUsecase: assistantUc,
		config:           cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.emailUsecase, h.assistantUsecase)

	return r.Run(addr)
}
