package business

import (
	"crm-dashboard-service/internal/domain/business"
	xerrors "crm-dashboard-service/internal/pkg/errors"
	"crm-dashboard-service/internal/pkg/response"
	service "crm-dashboard-service/internal/service/business"

	"github.com/gin-gonic/gin"
)

type BusinessHandler struct {
	businessService *service.BusinessService
}

func NewBusinessHandler(businessService *service.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

// ListBusinesses lists leads that have a phone number
func (h *BusinessHandler) ListBusinesses(c *gin.Context) {
	var filters business.BusinessListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Fail(c, "invalid filters", xerrors.InvalidFilter("%v", err))
		return
	}

	result, err := h.businessService.ListBusinesses(c.Request.Context(), &filters)
	if err != nil {
		response.Fail(c, "failed to list businesses", err)
		return
	}

	response.List(c, "businesses retrieved", result.Businesses, result.Total, result.Limit, result.Offset)
}
