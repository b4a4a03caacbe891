package ledger

import (
	"context"
	"fmt"
	"time"

	"bizledger/internal/model"

	"github.com/google/uuid"
)

// VendorInput carries the caller-supplied fields for a new vendor.
type VendorInput struct {
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
}

// VendorPatch updates a subset of vendor fields; nil means "leave as is".
type VendorPatch struct {
	Name          *string
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
	IsActive      *bool
}

// AddVendor creates a vendor.
func (l *Ledger) AddVendor(_ context.Context, in VendorInput) (model.Vendor, error) {
	if in.Name == "" {
		return model.Vendor{}, fmt.Errorf("%w: name is required", ErrValidation)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now().UTC()
	v := model.Vendor{
		ID:            uuid.New(),
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Phone:         in.Phone,
		Email:         in.Email,
		Address:       in.Address,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	l.vendors = append(l.vendors, v)

	l.persistLocked()
	return v, nil
}

// UpdateVendor merges the patch into the vendor and refreshes UpdatedAt.
func (l *Ledger) UpdateVendor(_ context.Context, id uuid.UUID, patch VendorPatch) (model.Vendor, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.vendorIndexLocked(id)
	if idx < 0 {
		return model.Vendor{}, fmt.Errorf("vendor %s: %w", id, ErrNotFound)
	}
	v := l.vendors[idx]

	if patch.Name != nil {
		if *patch.Name == "" {
			return model.Vendor{}, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		v.Name = *patch.Name
	}
	if patch.ContactPerson != nil {
		v.ContactPerson = *patch.ContactPerson
	}
	if patch.Phone != nil {
		v.Phone = *patch.Phone
	}
	if patch.Email != nil {
		v.Email = *patch.Email
	}
	if patch.Address != nil {
		v.Address = *patch.Address
	}
	if patch.IsActive != nil {
		v.IsActive = *patch.IsActive
	}
	v.UpdatedAt = time.Now().UTC()
	l.vendors[idx] = v

	l.persistLocked()
	return v, nil
}

// DeleteVendor removes the vendor. Deletion is refused with ErrVendorInUse
// while any product still references it; callers must reassign or delete
// those products first. Referential integrity is enforced here at the data
// layer, not left to UI confirmation.
func (l *Ledger) DeleteVendor(_ context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.vendorIndexLocked(id)
	if idx < 0 {
		return fmt.Errorf("vendor %s: %w", id, ErrNotFound)
	}
	for _, p := range l.products {
		if p.VendorID != nil && *p.VendorID == id {
			return fmt.Errorf("vendor %s: %w", id, ErrVendorInUse)
		}
	}
	l.vendors = append(l.vendors[:idx], l.vendors[idx+1:]...)

	l.persistLocked()
	return nil
}

// Vendor returns the vendor with the given id.
func (l *Ledger) Vendor(id uuid.UUID) (model.Vendor, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx := l.vendorIndexLocked(id)
	if idx < 0 {
		return model.Vendor{}, fmt.Errorf("vendor %s: %w", id, ErrNotFound)
	}
	return l.vendors[idx], nil
}

// Vendors returns all vendors in insertion order.
func (l *Ledger) Vendors() []model.Vendor {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Vendor, len(l.vendors))
	copy(out, l.vendors)
	return out
}

func (l *Ledger) vendorIndexLocked(id uuid.UUID) int {
	for i, v := range l.vendors {
		if v.ID == id {
			return i
		}
	}
	return -1
}
