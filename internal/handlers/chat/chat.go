package chat

import (
	"net/http"
	"strconv"

	"crm-dashboard-service/internal/domain/chat"
	xerrors "crm-dashboard-service/internal/pkg/errors"
	"crm-dashboard-service/internal/pkg/response"
	service "crm-dashboard-service/internal/service/chat"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// GetHistory returns a customer's conversation, newest message first
func (h *ChatHandler) GetHistory(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Param("customerId"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	var filters chat.HistoryFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Fail(c, "invalid filters", xerrors.InvalidFilter("%v", err))
		return
	}

	history, err := h.chatService.GetHistory(c.Request.Context(), customerID, &filters)
	if err != nil {
		response.Fail(c, "failed to load chat history", err)
		return
	}

	response.Success(c, http.StatusOK, "chat history retrieved", history)
}
