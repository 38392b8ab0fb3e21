package escalation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crm-dashboard-service/internal/domain/escalation"
	"crm-dashboard-service/internal/repository/postgres"
	service "crm-dashboard-service/internal/service/escalation"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var resolveCols = []string{
	"id", "customer_id", "escalation_type", "priority_level", "status", "escalation_reason",
	"created_at", "resolved_at", "response_time_minutes",
}

func setup(t *testing.T) (*gin.Engine, pgxmock.PgxConnIface) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mock, err := pgxmock.NewConn()
	require.NoError(t, err)

	svc := service.NewEscalationService(postgres.NewEscalationRepository(postgres.NewConnDB(mock)), nil, zap.NewNop())
	h := NewEscalationHandler(svc)

	r := gin.New()
	r.GET("/api/escalations", h.ListEscalations)
	r.POST("/api/escalations/:id/resolve", h.ResolveEscalation)
	return r, mock
}

type resolveBody struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message"`
	Data    escalation.ResolveResult `json:"data"`
}

func TestResolve_ThenResolveAgain(t *testing.T) {
	r, mock := setup(t)

	created := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	resolved := created.Add(15 * time.Minute)

	high, minutes := "high", 15.0

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(resolveCols).
			AddRow(int64(7), int64(1), nil, &high, "open", nil, created, nil, nil))
	mock.ExpectQuery(`UPDATE escalations`).WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(resolveCols).
			AddRow(int64(7), int64(1), nil, &high, "resolved", nil, created, &resolved, &minutes))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(resolveCols).
			AddRow(int64(7), int64(1), nil, &high, "resolved", nil, created, &resolved, &minutes))
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/escalations/7/resolve", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var first resolveBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, "escalation resolved", first.Message)
	assert.False(t, first.Data.AlreadyResolved)
	assert.Equal(t, "resolved", first.Data.Escalation.Status)
	assert.InDelta(t, 15.0, *first.Data.Escalation.ResponseTimeMinutes, 0.001)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/escalations/7/resolve", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var second resolveBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.True(t, second.Data.AlreadyResolved)
	assert.True(t, second.Data.Escalation.ResolvedAt.Equal(resolved))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_Unknown(t *testing.T) {
	r, mock := setup(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows(resolveCols))
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/escalations/404/resolve", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_BadID(t *testing.T) {
	r, _ := setup(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/escalations/x/resolve", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEscalations(t *testing.T) {
	r, mock := setup(t)
	kind, urgent, reason, name, phone := "complaint", "urgent", "refund", "Budi", "62811"

	cols := []string{
		"id", "customer_id", "escalation_type", "priority_level", "status", "escalation_reason",
		"created_at", "resolved_at", "response_time_minutes", "customer_name", "customer_phone",
	}
	mock.ExpectQuery(`WHERE 1=1 AND e.status = \$1 AND e.priority_level = ANY\(\$2\) ORDER BY CASE`).
		WithArgs("open", pq.Array([]string{"urgent", "high"}), pgxmock.AnyArg(), 0).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(2), int64(1), &kind, &urgent, "open", &reason, time.Now(), nil, nil, &name, &phone))
	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs("open", pq.Array([]string{"urgent", "high"})).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/escalations?status_filter=open&priority=urgent,high&offset=0", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"customer_name":"Budi"`)
	assert.Contains(t, w.Body.String(), `"total":1`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
