package export

import (
	"fmt"
	"net/http"

	"crm-dashboard-service/internal/domain/business"
	"crm-dashboard-service/internal/domain/customer"
	xerrors "crm-dashboard-service/internal/pkg/errors"
	"crm-dashboard-service/internal/pkg/response"
	service "crm-dashboard-service/internal/service/export"

	"github.com/gin-gonic/gin"
)

const csvContentType = "text/csv; charset=utf-8"

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func (h *ExportHandler) ExportCustomers(c *gin.Context) {
	var filters customer.CustomerListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Fail(c, "invalid filters", xerrors.InvalidFilter("%v", err))
		return
	}

	file, err := h.exportService.Customers(c.Request.Context(), &filters)
	h.write(c, file, err)
}

func (h *ExportHandler) ExportBusinesses(c *gin.Context) {
	var filters business.BusinessListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Fail(c, "invalid filters", xerrors.InvalidFilter("%v", err))
		return
	}

	file, err := h.exportService.Businesses(c.Request.Context(), &filters)
	h.write(c, file, err)
}

func (h *ExportHandler) ExportChatHistory(c *gin.Context) {
	var q service.ChatExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, "invalid filters", xerrors.InvalidFilter("%v", err))
		return
	}

	file, err := h.exportService.ChatHistory(c.Request.Context(), &q)
	h.write(c, file, err)
}

// write sends the whole document as an attachment.
func (h *ExportHandler) write(c *gin.Context, file *service.File, err error) {
	if err != nil {
		response.Fail(c, "export failed", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	c.Data(http.StatusOK, csvContentType, file.Data)
}
