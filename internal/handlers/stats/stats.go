package stats

import (
	"net/http"
	"strconv"

	"crm-dashboard-service/internal/pkg/response"
	service "crm-dashboard-service/internal/service/stats"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStats returns the dashboard report. ?refresh=true skips the cache.
func (h *StatsHandler) GetStats(c *gin.Context) {
	refresh, _ := strconv.ParseBool(c.Query("refresh"))

	rep, err := h.statsService.GetReport(c.Request.Context(), refresh)
	if err != nil {
		response.Fail(c, "failed to load dashboard stats", err)
		return
	}

	response.Success(c, http.StatusOK, "dashboard stats retrieved", rep)
}
