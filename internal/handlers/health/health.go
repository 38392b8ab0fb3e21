package health

import (
	"context"
	"net/http"
	"time"

	"crm-dashboard-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const checkTimeout = 3 * time.Second

// Pinger is anything that can tell whether the store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db        Pinger
	redis     *redis.Client
	startedAt time.Time
}

func NewHealthHandler(db Pinger, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:        db,
		redis:     redisClient,
		startedAt: time.Now(),
	}
}

type Status struct {
	Status    string    `json:"status"`
	Database  bool      `json:"database"`
	Redis     string    `json:"redis"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

// Ping answers without touching any backend.
func (h *HealthHandler) Ping(c *gin.Context) {
	response.Success(c, http.StatusOK, "pong", nil)
}

// Health checks the store and redis concurrently. Only the store decides
// whether the service is healthy.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	var dbErr, redisErr error
	var g errgroup.Group

	g.Go(func() error {
		dbErr = h.db.Ping(ctx)
		return nil
	})
	if h.redis != nil {
		g.Go(func() error {
			redisErr = h.redis.Ping(ctx).Err()
			return nil
		})
	}
	_ = g.Wait()

	st := Status{
		Status:    "healthy",
		Database:  dbErr == nil,
		Redis:     "disabled",
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
	}
	if h.redis != nil {
		st.Redis = "up"
		if redisErr != nil {
			st.Redis = "down"
		}
	}

	if dbErr != nil {
		st.Status = "unhealthy"
		_ = c.Error(dbErr)
		response.Error(c, http.StatusServiceUnavailable, "database unreachable", nil, st)
		return
	}

	response.Success(c, http.StatusOK, "service is healthy", st)
}
