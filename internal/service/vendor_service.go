package service

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"bizledger/internal/ledger"
	"bizledger/internal/model"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateVendorRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

type UpdateVendorRequest struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	IsActive      *bool   `json:"is_active"`
}

type VendorResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	IsActive      bool      `json:"is_active"`
	ProductCount  int       `json:"product_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// --- Interface ---

type VendorService interface {
	CreateVendor(ctx context.Context, ownerID string, req CreateVendorRequest) (VendorResponse, error)
	UpdateVendor(ctx context.Context, ownerID, id string, req UpdateVendorRequest) (VendorResponse, error)
	DeleteVendor(ctx context.Context, ownerID, id string) error
	GetVendor(ctx context.Context, ownerID, id string) (VendorResponse, error)
	ListVendors(ctx context.Context, ownerID string) ([]VendorResponse, error)
}

type vendorService struct {
	ledgers      *ledger.Manager
	entitlements *Entitlements
}

func NewVendorService(ledgers *ledger.Manager, entitlements *Entitlements) VendorService {
	return &vendorService{ledgers: ledgers, entitlements: entitlements}
}

// --- Implementation ---

func (s *vendorService) CreateVendor(ctx context.Context, ownerID string, req CreateVendorRequest) (VendorResponse, error) {
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return VendorResponse{}, fmt.Errorf("%w: invalid email format", ledger.ErrValidation)
		}
	}

	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return VendorResponse{}, fmt.Errorf("open ledger: %w", err)
	}

	_, vendors, _ := led.Counts()
	if err := s.entitlements.CheckQuota(ctx, ownerID, vendors, FreeMaxVendors, "vendor"); err != nil {
		return VendorResponse{}, err
	}

	v, err := led.AddVendor(ctx, ledger.VendorInput{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
	})
	if err != nil {
		return VendorResponse{}, err
	}
	return toVendorResponse(v, 0), nil
}

func (s *vendorService) UpdateVendor(ctx context.Context, ownerID, id string, req UpdateVendorRequest) (VendorResponse, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return VendorResponse{}, fmt.Errorf("open ledger: %w", err)
	}
	vid, err := uuid.Parse(id)
	if err != nil {
		return VendorResponse{}, fmt.Errorf("%w: invalid vendor id", ledger.ErrValidation)
	}
	if req.Email != nil && *req.Email != "" {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			return VendorResponse{}, fmt.Errorf("%w: invalid email format", ledger.ErrValidation)
		}
	}

	v, err := led.UpdateVendor(ctx, vid, ledger.VendorPatch{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		IsActive:      req.IsActive,
	})
	if err != nil {
		return VendorResponse{}, err
	}
	return toVendorResponse(v, len(led.ProductsByVendor(v.ID))), nil
}

func (s *vendorService) DeleteVendor(ctx context.Context, ownerID, id string) error {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	vid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid vendor id", ledger.ErrValidation)
	}
	return led.DeleteVendor(ctx, vid)
}

func (s *vendorService) GetVendor(ctx context.Context, ownerID, id string) (VendorResponse, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return VendorResponse{}, fmt.Errorf("open ledger: %w", err)
	}
	vid, err := uuid.Parse(id)
	if err != nil {
		return VendorResponse{}, fmt.Errorf("%w: invalid vendor id", ledger.ErrValidation)
	}

	v, err := led.Vendor(vid)
	if err != nil {
		return VendorResponse{}, err
	}
	return toVendorResponse(v, len(led.ProductsByVendor(v.ID))), nil
}

func (s *vendorService) ListVendors(ctx context.Context, ownerID string) ([]VendorResponse, error) {
	led, err := s.ledgers.Open(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	vendors := led.Vendors()
	res := make([]VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		res = append(res, toVendorResponse(v, len(led.ProductsByVendor(v.ID))))
	}
	return res, nil
}

func toVendorResponse(v model.Vendor, productCount int) VendorResponse {
	return VendorResponse{
		ID:            v.ID.String(),
		Name:          v.Name,
		ContactPerson: v.ContactPerson,
		Phone:         v.Phone,
		Email:         v.Email,
		Address:       v.Address,
		IsActive:      v.IsActive,
		ProductCount:  productCount,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}
