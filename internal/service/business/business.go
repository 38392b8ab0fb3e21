package business

import (
	"context"
	"time"

	"crm-dashboard-service/internal/domain/business"
	xerrors "crm-dashboard-service/internal/pkg/errors"
	"crm-dashboard-service/internal/pkg/querybuilder"
	"crm-dashboard-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type BusinessService struct {
	businessRepo *postgres.BusinessRepository
	loc          *time.Location
	logger       *zap.Logger
}

// NewBusinessService evaluates date filters as calendar days in loc.
func NewBusinessService(businessRepo *postgres.BusinessRepository, loc *time.Location, logger *zap.Logger) *BusinessService {
	return &BusinessService{
		businessRepo: businessRepo,
		loc:          loc,
		logger:       logger,
	}
}

func FilterFromQuery(f *business.BusinessListFilters, loc *time.Location) (postgres.BusinessFilter, error) {
	created, err := querybuilder.ParseDateRange(f.DateFrom, f.DateTo, loc)
	if err != nil {
		return postgres.BusinessFilter{}, err
	}
	return postgres.BusinessFilter{
		Search:   f.Search,
		Statuses: querybuilder.SplitValues(f.Status),
		Created:  created,
	}, nil
}

// ListBusinesses returns a page of leads, best scored first.
func (s *BusinessService) ListBusinesses(ctx context.Context, filters *business.BusinessListFilters) (*business.BusinessListResponse, error) {
	page, err := querybuilder.ParsePage(filters.Limit, filters.Offset, querybuilder.ListPageRules)
	if err != nil {
		return nil, err
	}
	f, err := FilterFromQuery(filters, s.loc)
	if err != nil {
		return nil, err
	}

	leads, total, err := s.businessRepo.List(ctx, f, page)
	if err != nil {
		s.logger.Error("failed to list businesses", zap.Error(err))
		return nil, xerrors.Wrap(err, "failed to list businesses")
	}

	return &business.BusinessListResponse{
		Businesses: leads,
		Total:      total,
		Limit:      page.Limit,
		Offset:     page.Offset,
	}, nil
}
