// internal/app/router.go
package app

import (
	businessHandler "crm-dashboard-service/internal/handlers/business"
	chatHandler "crm-dashboard-service/internal/handlers/chat"
	customerHandler "crm-dashboard-service/internal/handlers/customer"
	escalationHandler "crm-dashboard-service/internal/handlers/escalation"
	exportHandler "crm-dashboard-service/internal/handlers/export"
	healthHandler "crm-dashboard-service/internal/handlers/health"
	statsHandler "crm-dashboard-service/internal/handlers/stats"
	whatsappHandler "crm-dashboard-service/internal/handlers/whatsapp"
	"crm-dashboard-service/internal/middleware"
	"crm-dashboard-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	HealthHandler     *healthHandler.HealthHandler
	StatsHandler      *statsHandler.StatsHandler
	CustomerHandler   *customerHandler.CustomerHandler
	ChatHandler       *chatHandler.ChatHandler
	WhatsAppHandler   *whatsappHandler.WhatsAppHandler
	BusinessHandler   *businessHandler.BusinessHandler
	EscalationHandler *escalationHandler.EscalationHandler
	ExportHandler     *exportHandler.ExportHandler
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	r.Use(
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(logger),
		middleware.RecoveryMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route not found")
	})

	api := r.Group("/api")

	// ==================== Health Check ====================
	api.GET("/ping", h.HealthHandler.Ping)
	api.GET("/health", h.HealthHandler.Health)

	// ==================== Dashboard ====================
	api.GET("/stats", h.StatsHandler.GetStats)

	// ==================== Customers ====================
	customers := api.Group("/customers")
	{
		customers.GET("", h.CustomerHandler.ListCustomers)
		customers.GET("/:id", h.CustomerHandler.GetCustomer)
	}

	api.GET("/chat-history/:customerId", h.ChatHandler.GetHistory)
	api.POST("/send-whatsapp", h.WhatsAppHandler.SendMessage)

	// ==================== Leads ====================
	api.GET("/businesses", h.BusinessHandler.ListBusinesses)

	// ==================== Escalations ====================
	escalations := api.Group("/escalations")
	{
		escalations.GET("", h.EscalationHandler.ListEscalations)
		escalations.POST("/:id/resolve", h.EscalationHandler.ResolveEscalation)
	}

	// ==================== Exports ====================
	export := api.Group("/export")
	{
		export.GET("/customers", h.ExportHandler.ExportCustomers)
		export.GET("/businesses", h.ExportHandler.ExportBusinesses)
		export.GET("/chat-history", h.ExportHandler.ExportChatHistory)
	}
}
