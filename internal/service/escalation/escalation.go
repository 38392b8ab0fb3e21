package escalation

import (
	"context"

	"crm-dashboard-service/internal/domain/escalation"
	xerrors "crm-dashboard-service/internal/pkg/errors"
	"crm-dashboard-service/internal/pkg/querybuilder"
	"crm-dashboard-service/internal/repository/postgres"

	"go.uber.org/zap"
)

// ReportInvalidator forgets a cached dashboard report.
type ReportInvalidator interface {
	Invalidate(ctx context.Context)
}

type EscalationService struct {
	escalationRepo *postgres.EscalationRepository
	reports        ReportInvalidator
	logger         *zap.Logger
}

// NewEscalationService builds the service. reports may be nil.
func NewEscalationService(escalationRepo *postgres.EscalationRepository, reports ReportInvalidator, logger *zap.Logger) *EscalationService {
	return &EscalationService{
		escalationRepo: escalationRepo,
		reports:        reports,
		logger:         logger,
	}
}

// ListEscalations returns a page of escalations, most urgent first.
func (s *EscalationService) ListEscalations(ctx context.Context, filters *escalation.EscalationListFilters) (*escalation.EscalationListResponse, error) {
	page, err := querybuilder.ParsePage(filters.Limit, filters.Offset, querybuilder.ListPageRules)
	if err != nil {
		return nil, err
	}

	f := postgres.EscalationFilter{
		Statuses:   querybuilder.SplitValues(filters.StatusFilter),
		Priorities: querybuilder.SplitValues(filters.Priority),
	}

	items, total, err := s.escalationRepo.List(ctx, f, page)
	if err != nil {
		s.logger.Error("failed to list escalations", zap.Error(err))
		return nil, xerrors.Wrap(err, "failed to list escalations")
	}

	return &escalation.EscalationListResponse{
		Escalations: items,
		Total:       total,
		Limit:       page.Limit,
		Offset:      page.Offset,
	}, nil
}

// ResolveEscalation marks an escalation resolved. Resolving twice is a no-op
// that reports the first resolution.
func (s *EscalationService) ResolveEscalation(ctx context.Context, id int64) (*escalation.ResolveResult, error) {
	res, err := s.escalationRepo.Resolve(ctx, id)
	if err != nil {
		if !xerrors.Is(err, xerrors.ErrNotFound) {
			s.logger.Error("failed to resolve escalation", zap.Int64("escalation_id", id), zap.Error(err))
		}
		return nil, err
	}

	if res.AlreadyResolved {
		s.logger.Info("escalation already resolved", zap.Int64("escalation_id", id))
	} else {
		s.logger.Info("escalation resolved",
			zap.Int64("escalation_id", id),
			zap.Float64p("response_time_minutes", res.Escalation.ResponseTimeMinutes),
		)
		// open_escalations just changed
		if s.reports != nil {
			s.reports.Invalidate(ctx)
		}
	}

	return res, nil
}
