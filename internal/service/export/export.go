package export

import (
	"context"
	"time"

	"crm-dashboard-service/internal/domain/business"
	"crm-dashboard-service/internal/domain/customer"
	"crm-dashboard-service/internal/pkg/csvexport"
	xerrors "crm-dashboard-service/internal/pkg/errors"
	"crm-dashboard-service/internal/pkg/querybuilder"
	"crm-dashboard-service/internal/repository/postgres"
	businessservice "crm-dashboard-service/internal/service/business"
	customerservice "crm-dashboard-service/internal/service/customer"

	"go.uber.org/zap"
)

// File is a complete CSV document ready to be served.
type File struct {
	Name string
	Data []byte
	Rows int
}

// ChatExportQuery is the query string of the chat history export.
type ChatExportQuery struct {
	CustomerID *int64 `form:"customer_id"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
}

type ExportService struct {
	exportRepo *postgres.ExportRepository
	loc        *time.Location
	logger     *zap.Logger
}

func NewExportService(exportRepo *postgres.ExportRepository, loc *time.Location, logger *zap.Logger) *ExportService {
	return &ExportService{
		exportRepo: exportRepo,
		loc:        loc,
		logger:     logger,
	}
}

func (s *ExportService) Customers(ctx context.Context, filters *customer.CustomerListFilters) (*File, error) {
	f, err := customerservice.FilterFromQuery(filters, s.loc)
	if err != nil {
		return nil, err
	}
	recs, err := s.exportRepo.Customers(ctx, f)
	return s.encode("customers.csv", recs, err)
}

func (s *ExportService) Businesses(ctx context.Context, filters *business.BusinessListFilters) (*File, error) {
	f, err := businessservice.FilterFromQuery(filters, s.loc)
	if err != nil {
		return nil, err
	}
	recs, err := s.exportRepo.Businesses(ctx, f)
	return s.encode("leads.csv", recs, err)
}

func (s *ExportService) ChatHistory(ctx context.Context, q *ChatExportQuery) (*File, error) {
	if q.CustomerID != nil && *q.CustomerID <= 0 {
		return nil, xerrors.InvalidFilter("customer_id must be a positive integer")
	}
	created, err := querybuilder.ParseDateRange(q.DateFrom, q.DateTo, s.loc)
	if err != nil {
		return nil, err
	}
	recs, err := s.exportRepo.ChatHistory(ctx, postgres.ChatExportFilter{CustomerID: q.CustomerID, Created: created})
	return s.encode("chat_history.csv", recs, err)
}

func (s *ExportService) encode(name string, recs []csvexport.Record, queryErr error) (*File, error) {
	if queryErr != nil {
		s.logger.Error("export query failed", zap.String("file", name), zap.Error(queryErr))
		return nil, xerrors.Wrap(queryErr, "failed to export "+name)
	}

	data, err := csvexport.Encode(recs)
	if err != nil {
		s.logger.Error("export encoding failed", zap.String("file", name), zap.Error(err))
		return nil, xerrors.Wrap(err, "failed to encode "+name)
	}

	s.logger.Info("export generated", zap.String("file", name), zap.Int("rows", len(recs)))
	return &File{Name: name, Data: data, Rows: len(recs)}, nil
}
