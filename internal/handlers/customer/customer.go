// internal/handlers/customer/customer.go
package customer

import (
	"net/http"
	"strconv"

	"crm-dashboard-service/internal/domain/customer"
	xerrors "crm-dashboard-service/internal/pkg/errors"
	"crm-dashboard-service/internal/pkg/response"
	service "crm-dashboard-service/internal/service/customer"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerService *service.CustomerService
}

func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// ListCustomers lists customers with search, priority and date filters
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	var filters customer.CustomerListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Fail(c, "invalid filters", xerrors.InvalidFilter("%v", err))
		return
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), &filters)
	if err != nil {
		response.Fail(c, "failed to list customers", err)
		return
	}

	response.List(c, "customers retrieved", result.Customers, result.Total, result.Limit, result.Offset)
}

// GetCustomer retrieves a customer by ID
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid customer ID", err)
		return
	}

	result, err := h.customerService.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		response.Fail(c, "customer not found", err)
		return
	}

	response.Success(c, http.StatusOK, "customer retrieved", result)
}
