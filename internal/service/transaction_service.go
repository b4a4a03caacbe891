package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bizledger/internal/ledger"
	"bizledger/internal/model"
	ws "bizledger/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateTransactionRequest struct {
	Type      string          `json:"type" binding:"required,oneof=purchase sale adjustment"`
	ProductID string          `json:"product_id" binding:"required"`
	VendorID  *string         `json:"vendor_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Notes     string          `json:"notes"`
}

type UpdateTransactionRequest struct {
	Quantity  *int             `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Notes     *string          `json:"notes"`
}

type TransactionResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	ProductID   string          `json:"product_id"`
	VendorID    *string         `json:"vendor_id,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TransactionFilter narrows ListTransactions.
type TransactionFilter struct {
	ProductID string
	Type      string
	Start     *time.Time
	End       *time.Time
}

// --- Interface ---

type TransactionService interface {
	CreateTransaction(ctx context.Context, ownerID string, req CreateTransactionRequest) (TransactionResponse, error)
	UpdateTransaction(ctx context.Context, ownerID, id string, req UpdateTransactionRequest) (TransactionResponse, error)
	DeleteTransaction(ctx context.Context, ownerID, id string) error
	GetTransaction(ctx context.Context, ownerID, id string) (TransactionResponse, error)
	ListTransactions(ctx context.Context, ownerID string, filter TransactionFilter) ([]TransactionResponse, error)
}

type transactionService struct {
	ledgers      *ledger.Manager
	entitlements *Entitlements
	hub          *ws.Hub
}

func NewTransactionService(ledgers *ledger.Manager, entitlements *Entitlements, hub *ws.Hub) TransactionService {
	return &transactionService{ledgers: ledgers, entitlements: entitlements, hub: hub}
}

// --- Implementation ---

func (s *transactionService) CreateTransaction(ctx context.Context, ownerID string, req CreateTransactionRequest) (TransactionResponse, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return TransactionResponse{}, fmt.Errorf("open ledger: %w", err)
	}

	_, _, transactions := led.Counts()
	if err := s.entitlements.CheckQuota(ctx, ownerID, transactions, FreeMaxTransactions, "transaction"); err != nil {
		return TransactionResponse{}, err
	}

	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return TransactionResponse{}, fmt.Errorf("%w: invalid product id", ledger.ErrValidation)
	}
	vendorID, err := parseOptionalID(req.VendorID)
	if err != nil {
		return TransactionResponse{}, err
	}

	tx, err := led.AddTransaction(ctx, ledger.TransactionInput{
		Type:      req.Type,
		ProductID: pid,
		VendorID:  vendorID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Notes:     req.Notes,
	})
	if err != nil {
		return TransactionResponse{}, err
	}

	if s.hub != nil {
		newStock := led.Stock(pid)
		go func() {
			msg, _ := json.Marshal(map[string]any{
				"event": "stock_update",
				"data": map[string]any{
					"transaction_id": tx.ID.String(),
					"type":           tx.Type,
					"product_id":     tx.ProductID.String(),
					"quantity":       tx.Quantity,
					"new_stock":      newStock,
				},
			})
			s.hub.Broadcast <- msg
		}()
	}

	return toTransactionResponse(tx), nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, ownerID, id string, req UpdateTransactionRequest) (TransactionResponse, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return TransactionResponse{}, fmt.Errorf("open ledger: %w", err)
	}
	tid, err := uuid.Parse(id)
	if err != nil {
		return TransactionResponse{}, fmt.Errorf("%w: invalid transaction id", ledger.ErrValidation)
	}

	tx, err := led.UpdateTransaction(ctx, tid, ledger.TransactionPatch{
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Notes:     req.Notes,
	})
	if err != nil {
		return TransactionResponse{}, err
	}
	return toTransactionResponse(tx), nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	tid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid transaction id", ledger.ErrValidation)
	}
	return led.DeleteTransaction(ctx, tid)
}

func (s *transactionService) GetTransaction(ctx context.Context, ownerID, id string) (TransactionResponse, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return TransactionResponse{}, fmt.Errorf("open ledger: %w", err)
	}
	tid, err := uuid.Parse(id)
	if err != nil {
		return TransactionResponse{}, fmt.Errorf("%w: invalid transaction id", ledger.ErrValidation)
	}

	tx, err := led.Transaction(tid)
	if err != nil {
		return TransactionResponse{}, err
	}
	return toTransactionResponse(tx), nil
}

func (s *transactionService) ListTransactions(ctx context.Context, ownerID string, filter TransactionFilter) ([]TransactionResponse, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	var txs []model.Transaction
	switch {
	case filter.ProductID != "":
		pid, err := uuid.Parse(filter.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid product id", ledger.ErrValidation)
		}
		txs = led.TransactionsByProduct(pid)
	case filter.Start != nil && filter.End != nil:
		txs = led.TransactionsByDateRange(*filter.Start, *filter.End)
	default:
		txs = led.Transactions()
	}

	res := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if !inFilterRange(tx.CreatedAt, filter.Start, filter.End) {
			continue
		}
		res = append(res, toTransactionResponse(tx))
	}
	return res, nil
}

func inFilterRange(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}

func toTransactionResponse(tx model.Transaction) TransactionResponse {
	var vendorID *string
	if tx.VendorID != nil {
		v := tx.VendorID.String()
		vendorID = &v
	}
	return TransactionResponse{
		ID:          tx.ID.String(),
		Type:        tx.Type,
		ProductID:   tx.ProductID.String(),
		VendorID:    vendorID,
		Quantity:    tx.Quantity,
		UnitPrice:   tx.UnitPrice,
		TotalAmount: tx.TotalAmount,
		Notes:       tx.Notes,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}
