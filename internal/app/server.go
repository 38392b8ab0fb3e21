// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"crm-dashboard-service/internal/cache"
	"crm-dashboard-service/internal/config"
	"crm-dashboard-service/internal/db"
	businessHandler "crm-dashboard-service/internal/handlers/business"
	chatHandler "crm-dashboard-service/internal/handlers/chat"
	customerHandler "crm-dashboard-service/internal/handlers/customer"
	escalationHandler "crm-dashboard-service/internal/handlers/escalation"
	exportHandler "crm-dashboard-service/internal/handlers/export"
	healthHandler "crm-dashboard-service/internal/handlers/health"
	statsHandler "crm-dashboard-service/internal/handlers/stats"
	whatsappHandler "crm-dashboard-service/internal/handlers/whatsapp"
	"crm-dashboard-service/internal/pkg/ratelimit"
	"crm-dashboard-service/internal/repository/postgres"
	businesssvc "crm-dashboard-service/internal/service/business"
	chatsvc "crm-dashboard-service/internal/service/chat"
	customersvc "crm-dashboard-service/internal/service/customer"
	escalationsvc "crm-dashboard-service/internal/service/escalation"
	exportsvc "crm-dashboard-service/internal/service/export"
	statssvc "crm-dashboard-service/internal/service/stats"
	whatsappsvc "crm-dashboard-service/internal/service/whatsapp"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	http   *http.Server

	pool        *pgxpool.Pool
	redisClient *redis.Client
}

// NewServer connects the backends and wires the API. Nothing is served
// until Start.
func NewServer(ctx context.Context, cfg config.AppConfig) (*Server, error) {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{cfg: cfg, engine: gin.New()}
	if err := s.init(ctx); err != nil {
		_ = s.Shutdown(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Server) init(ctx context.Context) error {
	// ----- Logger -----
	logger, err := newLogger(s.cfg)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, db.PostgresConfig{
		URL:      s.cfg.DatabaseURL,
		MaxConns: s.cfg.DBMaxConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool
	logger.Info("postgres connected", zap.Int32("max_conns", pool.Config().MaxConns))

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Address:  s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       s.cfg.RedisDB,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	s.redisClient = redisClient
	if redisClient == nil {
		logger.Warn("REDIS_ADDR not set, stats cache and send rate limit disabled")
	} else {
		logger.Info("redis connected", zap.String("addr", s.cfg.RedisAddr))
	}

	if s.cfg.WhatsApp.APIURL == "" {
		logger.Warn("WHATSAPP_API_URL not set, outbound messages will fail")
	}

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	customerRepo := postgres.NewCustomerRepository(dbWrapper)
	businessRepo := postgres.NewBusinessRepository(dbWrapper)
	chatRepo := postgres.NewChatRepository(dbWrapper)
	escalationRepo := postgres.NewEscalationRepository(dbWrapper)
	statsRepo := postgres.NewStatsRepository(dbWrapper)
	exportRepo := postgres.NewExportRepository(dbWrapper)

	// ----- Services -----
	reportCache := cache.NewJSONCache(redisClient, "stats", s.cfg.StatsCacheTTL)
	sendLimiter := ratelimit.NewLimiter(redisClient, "send", s.cfg.SendRateLimit, s.cfg.SendRateWindow)

	loc := s.cfg.ReportLocation
	customerService := customersvc.NewCustomerService(customerRepo, loc, logger)
	businessService := businesssvc.NewBusinessService(businessRepo, loc, logger)
	chatService := chatsvc.NewChatService(chatRepo, logger)
	statsService := statssvc.NewStatsService(statsRepo, reportCache, loc, logger)
	escalationService := escalationsvc.NewEscalationService(escalationRepo, statsService, logger)
	exportService := exportsvc.NewExportService(exportRepo, loc, logger)
	whatsappService := whatsappsvc.NewService(
		whatsappsvc.NewClient(s.cfg.WhatsApp.APIURL, s.cfg.WhatsApp.APIKey, s.cfg.WhatsApp.Timeout),
		customerRepo,
		chatRepo,
		sendLimiter,
		s.cfg.WhatsApp.AddressSuffix,
		logger,
	)

	// ----- Router -----
	handlers := &Handlers{
		HealthHandler:     healthHandler.NewHealthHandler(dbWrapper, redisClient),
		StatsHandler:      statsHandler.NewStatsHandler(statsService),
		CustomerHandler:   customerHandler.NewCustomerHandler(customerService),
		ChatHandler:       chatHandler.NewChatHandler(chatService),
		WhatsAppHandler:   whatsappHandler.NewWhatsAppHandler(whatsappService),
		BusinessHandler:   businessHandler.NewBusinessHandler(businessService),
		EscalationHandler: escalationHandler.NewEscalationHandler(escalationService),
		ExportHandler:     exportHandler.NewExportHandler(exportService),
	}
	SetupRouter(s.engine, logger, handlers)

	s.http = &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}
	return nil
}

// Start serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server running",
		zap.String("addr", s.cfg.HTTPAddr),
		zap.String("env", s.cfg.Env),
		zap.String("report_timezone", s.cfg.ReportLocation.String()),
	)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and then releases the pools.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if s.pool != nil {
		s.pool.Close()
	}
	if s.logger != nil {
		_ = s.logger.Sync()
	}

	return errors.Join(errs...)
}

func newLogger(cfg config.AppConfig) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
