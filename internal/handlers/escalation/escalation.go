package escalation

import (
	"net/http"
	"strconv"

	"crm-dashboard-service/internal/domain/escalation"
	xerrors "crm-dashboard-service/internal/pkg/errors"
	"crm-dashboard-service/internal/pkg/response"
	service "crm-dashboard-service/internal/service/escalation"

	"github.com/gin-gonic/gin"
)

type EscalationHandler struct {
	escalationService *service.EscalationService
}

func NewEscalationHandler(escalationService *service.EscalationService) *EscalationHandler {
	return &EscalationHandler{escalationService: escalationService}
}

// ListEscalations lists escalations, most urgent first
func (h *EscalationHandler) ListEscalations(c *gin.Context) {
	var filters escalation.EscalationListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Fail(c, "invalid filters", xerrors.InvalidFilter("%v", err))
		return
	}

	result, err := h.escalationService.ListEscalations(c.Request.Context(), &filters)
	if err != nil {
		response.Fail(c, "failed to list escalations", err)
		return
	}

	response.List(c, "escalations retrieved", result.Escalations, result.Total, result.Limit, result.Offset)
}

// ResolveEscalation marks an escalation as resolved
func (h *EscalationHandler) ResolveEscalation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid escalation ID", err)
		return
	}

	result, err := h.escalationService.ResolveEscalation(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, "failed to resolve escalation", err)
		return
	}

	msg := "escalation resolved"
	if result.AlreadyResolved {
		msg = "escalation already resolved"
	}
	response.Success(c, http.StatusOK, msg, result)
}
