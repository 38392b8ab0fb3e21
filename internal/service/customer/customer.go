// internal/service/customer/customer.go
package customer

import (
	"context"
	"time"

	"crm-dashboard-service/internal/domain/customer"
	xerrors "crm-dashboard-service/internal/pkg/errors"
	"crm-dashboard-service/internal/pkg/querybuilder"
	"crm-dashboard-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type CustomerService struct {
	customerRepo *postgres.CustomerRepository
	loc          *time.Location
	logger       *zap.Logger
}

// NewCustomerService evaluates date filters as calendar days in loc.
func NewCustomerService(customerRepo *postgres.CustomerRepository, loc *time.Location, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		loc:          loc,
		logger:       logger,
	}
}

// FilterFromQuery validates the query-string filter shared by the list and
// the export.
func FilterFromQuery(f *customer.CustomerListFilters, loc *time.Location) (postgres.CustomerFilter, error) {
	created, err := querybuilder.ParseDateRange(f.DateFrom, f.DateTo, loc)
	if err != nil {
		return postgres.CustomerFilter{}, err
	}
	return postgres.CustomerFilter{
		Search:     f.Search,
		Priorities: querybuilder.SplitValues(f.Priority),
		Created:    created,
	}, nil
}

// ListCustomers returns a page of customers, most recently active first.
func (s *CustomerService) ListCustomers(ctx context.Context, filters *customer.CustomerListFilters) (*customer.CustomerListResponse, error) {
	page, err := querybuilder.ParsePage(filters.Limit, filters.Offset, querybuilder.ListPageRules)
	if err != nil {
		return nil, err
	}
	f, err := FilterFromQuery(filters, s.loc)
	if err != nil {
		return nil, err
	}

	customers, total, err := s.customerRepo.List(ctx, f, page)
	if err != nil {
		s.logger.Error("failed to list customers", zap.Error(err))
		return nil, xerrors.Wrap(err, "failed to list customers")
	}

	return &customer.CustomerListResponse{
		Customers: customers,
		Total:     total,
		Limit:     page.Limit,
		Offset:    page.Offset,
	}, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*customer.Customer, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if !xerrors.Is(err, xerrors.ErrNotFound) {
			s.logger.Error("failed to get customer", zap.Int64("customer_id", id), zap.Error(err))
		}
		return nil, err
	}
	return c, nil
}
