package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bizledger/internal/ledger"
	"bizledger/internal/model"
	ws "bizledger/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	VendorID     *string         `json:"vendor_id"`
}

type UpdateProductRequest struct {
	Name         *string          `json:"name"`
	Category     *string          `json:"category"`
	Unit         *string          `json:"unit"`
	CurrentPrice *decimal.Decimal `json:"current_price"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	VendorID     *string          `json:"vendor_id"` // "" clears the vendor reference
	IsActive     *bool            `json:"is_active"`
}

type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	VendorID     *string         `json:"vendor_id,omitempty"`
	IsActive     bool            `json:"is_active"`
	CurrentStock int             `json:"current_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// --- Interface ---

type ProductService interface {
	CreateProduct(ctx context.Context, ownerID string, req CreateProductRequest) (ProductResponse, error)
	UpdateProduct(ctx context.Context, ownerID, id string, req UpdateProductRequest) (ProductResponse, error)
	DeleteProduct(ctx context.Context, ownerID, id string) error
	GetProduct(ctx context.Context, ownerID, id string) (ProductResponse, error)
	ListProducts(ctx context.Context, ownerID, vendorID, category, search string) ([]ProductResponse, error)
	GetCostHistory(ctx context.Context, ownerID, id string) ([]model.CostPriceEntry, error)
}

type productService struct {
	ledgers      *ledger.Manager
	entitlements *Entitlements
	hub          *ws.Hub
}

func NewProductService(ledgers *ledger.Manager, entitlements *Entitlements, hub *ws.Hub) ProductService {
	return &productService{ledgers: ledgers, entitlements: entitlements, hub: hub}
}

// --- Implementation ---

func (s *productService) CreateProduct(ctx context.Context, ownerID string, req CreateProductRequest) (ProductResponse, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("open ledger: %w", err)
	}

	products, _, _ := led.Counts()
	if err := s.entitlements.CheckQuota(ctx, ownerID, products, FreeMaxProducts, "product"); err != nil {
		return ProductResponse{}, err
	}

	vendorID, err := parseOptionalID(req.VendorID)
	if err != nil {
		return ProductResponse{}, err
	}

	p, err := led.AddProduct(ctx, ledger.ProductInput{
		Name:         req.Name,
		Category:     req.Category,
		Unit:         req.Unit,
		CurrentPrice: req.CurrentPrice,
		CostPrice:    req.CostPrice,
		VendorID:     vendorID,
	})
	if err != nil {
		return ProductResponse{}, err
	}

	s.broadcast("product_created", map[string]any{
		"product_id": p.ID.String(),
		"name":       p.Name,
	})
	return toProductResponse(p, 0), nil
}

func (s *productService) UpdateProduct(ctx context.Context, ownerID, id string, req UpdateProductRequest) (ProductResponse, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("open ledger: %w", err)
	}
	pid, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("%w: invalid product id", ledger.ErrValidation)
	}

	patch := ledger.ProductPatch{
		Name:         req.Name,
		Category:     req.Category,
		Unit:         req.Unit,
		CurrentPrice: req.CurrentPrice,
		CostPrice:    req.CostPrice,
		IsActive:     req.IsActive,
	}
	if req.VendorID != nil {
		if *req.VendorID == "" {
			patch.ClearVendor = true
		} else {
			vendorID, err := parseOptionalID(req.VendorID)
			if err != nil {
				return ProductResponse{}, err
			}
			patch.VendorID = vendorID
		}
	}

	p, err := led.UpdateProduct(ctx, pid, patch)
	if err != nil {
		return ProductResponse{}, err
	}

	s.broadcast("product_updated", map[string]any{
		"product_id": p.ID.String(),
		"name":       p.Name,
	})
	return toProductResponse(p, led.Stock(p.ID)), nil
}

func (s *productService) DeleteProduct(ctx context.Context, ownerID, id string) error {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	pid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid product id", ledger.ErrValidation)
	}

	if err := led.DeleteProduct(ctx, pid); err != nil {
		return err
	}

	s.broadcast("product_deleted", map[string]any{"product_id": id})
	return nil
}

func (s *productService) GetProduct(ctx context.Context, ownerID, id string) (ProductResponse, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("open ledger: %w", err)
	}
	pid, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("%w: invalid product id", ledger.ErrValidation)
	}

	p, err := led.Product(pid)
	if err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(p, led.Stock(p.ID)), nil
}

func (s *productService) ListProducts(ctx context.Context, ownerID, vendorID, category, search string) ([]ProductResponse, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	var products []model.Product
	if vendorID != "" {
		vid, err := uuid.Parse(vendorID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid vendor id", ledger.ErrValidation)
		}
		products = led.ProductsByVendor(vid)
	} else {
		products = led.Products()
	}

	search = strings.ToLower(search)
	res := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		res = append(res, toProductResponse(p, led.Stock(p.ID)))
	}
	return res, nil
}

func (s *productService) GetCostHistory(ctx context.Context, ownerID, id string) ([]model.CostPriceEntry, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid product id", ledger.ErrValidation)
	}
	if _, err := led.Product(pid); err != nil {
		return nil, err
	}
	return led.CostHistory(pid), nil
}

func (s *productService) broadcast(event string, data map[string]any) {
	if s.hub == nil {
		return
	}
	go func() {
		msg, _ := json.Marshal(map[string]any{"event": event, "data": data})
		s.hub.Broadcast <- msg
	}()
}

// --- helpers ---

func parseOptionalID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", ledger.ErrValidation, *raw)
	}
	return &id, nil
}

func toProductResponse(p model.Product, stock int) ProductResponse {
	var vendorID *string
	if p.VendorID != nil {
		v := p.VendorID.String()
		vendorID = &v
	}
	return ProductResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Category:     p.Category,
		Unit:         p.Unit,
		CurrentPrice: p.CurrentPrice,
		CostPrice:    p.CostPrice,
		VendorID:     vendorID,
		IsActive:     p.IsActive,
		CurrentStock: stock,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
