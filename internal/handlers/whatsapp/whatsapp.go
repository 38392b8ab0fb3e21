package whatsapp

import (
	"net/http"

	"crm-dashboard-service/internal/domain/whatsapp"
	xerrors "crm-dashboard-service/internal/pkg/errors"
	"crm-dashboard-service/internal/pkg/response"
	service "crm-dashboard-service/internal/service/whatsapp"

	"github.com/gin-gonic/gin"
)

type WhatsAppHandler struct {
	whatsappService *service.Service
}

func NewWhatsAppHandler(whatsappService *service.Service) *WhatsAppHandler {
	return &WhatsAppHandler{whatsappService: whatsappService}
}

// SendMessage sends a text message through the gateway
func (h *WhatsAppHandler) SendMessage(c *gin.Context) {
	var req whatsapp.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid request", xerrors.InvalidRequest("%v", err))
		return
	}

	result, err := h.whatsappService.Send(c.Request.Context(), &req)
	if err != nil {
		if result != nil {
			response.Fail(c, "failed to send message", err, result)
			return
		}
		response.Fail(c, "failed to send message", err)
		return
	}

	response.Success(c, http.StatusOK, "message sent", result)
}
