package service

import (
	"context"
	"fmt"
	"time"

	"bizledger/internal/ledger"
	"bizledger/internal/model"
)

// --- Interface ---

type ReportService interface {
	GetSummary(ctx context.Context, ownerID string, start, end *time.Time) (model.FinancialSummary, error)
	GetTopSellingProducts(ctx context.Context, ownerID string, limit int) ([]model.ProductRanking, error)
	GetVendorBreakdown(ctx context.Context, ownerID string, start, end *time.Time) ([]model.VendorBreakdownRow, error)
	GetCategoryBreakdown(ctx context.Context, ownerID string, start, end *time.Time) ([]model.CategoryBreakdownRow, error)
	GetDailyBreakdown(ctx context.Context, ownerID string, start, end time.Time) ([]model.DailyBreakdownRow, error)
}

type reportService struct {
	ledgers *ledger.Manager
}

func NewReportService(ledgers *ledger.Manager) ReportService {
	return &reportService{ledgers: ledgers}
}

// --- Implementation ---

func (s *reportService) GetSummary(ctx context.Context, ownerID string, start, end *time.Time) (model.FinancialSummary, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return model.FinancialSummary{}, fmt.Errorf("open ledger: %w", err)
	}
	return led.Summary(start, end), nil
}

func (s *reportService) GetTopSellingProducts(ctx context.Context, ownerID string, limit int) ([]model.ProductRanking, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if limit <= 0 {
		limit = 5
	}
	return led.TopSellingProducts(limit), nil
}

func (s *reportService) GetVendorBreakdown(ctx context.Context, ownerID string, start, end *time.Time) ([]model.VendorBreakdownRow, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return led.VendorBreakdown(start, end), nil
}

func (s *reportService) GetCategoryBreakdown(ctx context.Context, ownerID string, start, end *time.Time) ([]model.CategoryBreakdownRow, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return led.CategoryBreakdown(start, end), nil
}

func (s *reportService) GetDailyBreakdown(ctx context.Context, ownerID string, start, end time.Time) ([]model.DailyBreakdownRow, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return led.DailyBreakdown(start, end), nil
}
