package business

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crm-dashboard-service/internal/repository/postgres"
	service "crm-dashboard-service/internal/service/business"

	"github.com/gin-gonic/gin"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestListBusinesses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mock, err := pgxmock.NewConn()
	require.NoError(t, err)

	repo := postgres.NewBusinessRepository(postgres.NewConnDB(mock))
	h := NewBusinessHandler(service.NewBusinessService(repo, time.UTC, zap.NewNop()))
	r := gin.New()
	r.GET("/api/businesses", h.ListBusinesses)

	mock.ExpectQuery(`WHERE has_phone = true AND \(name ILIKE \$1 OR phone ILIKE \$1 OR address ILIKE \$1\) AND status = \$2`).
		WithArgs("%kopi%", "new", 100, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM businesses WHERE has_phone = true`).
		WithArgs("%kopi%", "new").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/businesses?search=kopi&status=new", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
	assert.Contains(t, w.Body.String(), `"total":0`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
