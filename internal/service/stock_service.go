package service

import (
	"context"
	"fmt"
	"time"

	"bizledger/internal/ledger"

	"github.com/google/uuid"
)

// --- DTOs ---

type StockLevelResponse struct {
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name,omitempty"`
	CurrentStock int       `json:"current_stock"`
	LastUpdated  time.Time `json:"last_updated,omitempty"`
}

type SetStockRequest struct {
	Quantity int `json:"quantity"`
}

// --- Interface ---

type StockService interface {
	GetStock(ctx context.Context, ownerID, productID string) (StockLevelResponse, error)
	SetStock(ctx context.Context, ownerID, productID string, quantity int) (StockLevelResponse, error)
	ListStockLevels(ctx context.Context, ownerID string) ([]StockLevelResponse, error)
	GetLowStockProducts(ctx context.Context, ownerID string, threshold int) ([]ProductResponse, error)
}

type stockService struct {
	ledgers *ledger.Manager
}

func NewStockService(ledgers *ledger.Manager) StockService {
	return &stockService{ledgers: ledgers}
}

// --- Implementation ---

// GetStock reports the stock level for a product id. Deleted or unknown
// products report zero; stock is a derived quantity, not an entity lookup.
func (s *stockService) GetStock(ctx context.Context, ownerID, productID string) (StockLevelResponse, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return StockLevelResponse{}, fmt.Errorf("open ledger: %w", err)
	}
	pid, err := uuid.Parse(productID)
	if err != nil {
		return StockLevelResponse{}, fmt.Errorf("%w: invalid product id", ledger.ErrValidation)
	}

	res := StockLevelResponse{
		ProductID:    productID,
		CurrentStock: led.Stock(pid),
	}
	if p, err := led.Product(pid); err == nil {
		res.ProductName = p.Name
	}
	for _, row := range led.StockSummaries() {
		if row.ProductID == pid {
			res.LastUpdated = row.LastUpdated
			break
		}
	}
	return res, nil
}

func (s *stockService) SetStock(ctx context.Context, ownerID, productID string, quantity int) (StockLevelResponse, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return StockLevelResponse{}, fmt.Errorf("open ledger: %w", err)
	}
	pid, err := uuid.Parse(productID)
	if err != nil {
		return StockLevelResponse{}, fmt.Errorf("%w: invalid product id", ledger.ErrValidation)
	}

	row, err := led.SetStock(ctx, pid, quantity)
	if err != nil {
		return StockLevelResponse{}, err
	}

	res := StockLevelResponse{
		ProductID:    productID,
		CurrentStock: row.CurrentStock,
		LastUpdated:  row.LastUpdated,
	}
	if p, err := led.Product(pid); err == nil {
		res.ProductName = p.Name
	}
	return res, nil
}

func (s *stockService) ListStockLevels(ctx context.Context, ownerID string) ([]StockLevelResponse, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	names := make(map[uuid.UUID]string)
	for _, p := range led.Products() {
		names[p.ID] = p.Name
	}

	rows := led.StockSummaries()
	res := make([]StockLevelResponse, 0, len(rows))
	for _, row := range rows {
		res = append(res, StockLevelResponse{
			ProductID:    row.ProductID.String(),
			ProductName:  names[row.ProductID],
			CurrentStock: row.CurrentStock,
			LastUpdated:  row.LastUpdated,
		})
	}
	return res, nil
}

func (s *stockService) GetLowStockProducts(ctx context.Context, ownerID string, threshold int) ([]ProductResponse, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	products := led.LowStockProducts(threshold)
	res := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		res = append(res, toProductResponse(p, led.Stock(p.ID)))
	}
	return res, nil
}
