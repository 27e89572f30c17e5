package item

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/slateworks/matbook/internal/repository"
)

// Service handles item business logic.
type Service struct {
	items    Repository
	versions VersionRepository
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the timestamp source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new item service.
func NewService(items Repository, versions VersionRepository, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		items:    items,
		versions: versions,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequest describes a new line item. Numeric fields arrive as the raw
// strings the user typed; blank means unset. If both markup and unit price
// are supplied, the explicit price wins and markup is derived from it.
type CreateRequest struct {
	SheetID    string
	Category   string
	Name       string
	Quantity   string
	UnitLength string
	UnitCost   string
	Markup     string
	UnitPrice  string
	Taxable    bool
	Notes      string
	SortOrder  int
}

// EditFieldRequest targets one numeric field of one item.
type EditFieldRequest struct {
	ItemID string
	Field  Field
	Value  string
}

// UpdateDetailsRequest carries optional non-numeric edits.
type UpdateDetailsRequest struct {
	ItemID     string
	Category   *string
	Name       *string
	UnitLength *string
	Notes      *string
	Taxable    *bool
	SortOrder  *int
}

// Create validates and stores a new item with derived fields computed.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	if strings.TrimSpace(req.SheetID) == "" || strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}
	if err := s.ensureMutable(ctx, req.SheetID); err != nil {
		return nil, err
	}

	qty, err := ParseAmount(req.Quantity)
	if err != nil {
		return nil, err
	}
	cost, err := ParseAmount(req.UnitCost)
	if err != nil {
		return nil, err
	}
	markup, err := ParseMarkupPercent(req.Markup)
	if err != nil {
		return nil, err
	}
	price, err := ParseAmount(req.UnitPrice)
	if err != nil {
		return nil, err
	}

	now := s.now()
	it := Item{
		ID:         uuid.NewString(),
		SheetID:    req.SheetID,
		Category:   req.Category,
		Name:       req.Name,
		Quantity:   qty,
		UnitLength: req.UnitLength,
		UnitCost:   cost,
		Taxable:    req.Taxable,
		Status:     StatusNotOrdered,
		Notes:      req.Notes,
		SortOrder:  req.SortOrder,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	it = Recompute(it, FieldUnitCost)
	if markup != nil {
		it.Markup = markup
		it = Recompute(it, FieldMarkup)
	}
	if price != nil {
		it.UnitPrice = price
		it = Recompute(it, FieldUnitPrice)
	}

	if err := s.items.Create(ctx, &it); err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return &it, nil
}

// EditField applies a single numeric edit and recomputes the dependent
// fields. The owning workbook version must still be working.
func (s *Service) EditField(ctx context.Context, req EditFieldRequest) (*Item, error) {
	if req.ItemID == "" {
		return nil, ErrInvalidInput
	}

	current, err := s.get(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureMutable(ctx, current.SheetID); err != nil {
		return nil, err
	}

	updated := *current
	switch req.Field {
	case FieldQuantity:
		val, err := ParseAmount(req.Value)
		if err != nil {
			return nil, err
		}
		updated.Quantity = val
	case FieldUnitCost:
		val, err := ParseAmount(req.Value)
		if err != nil {
			return nil, err
		}
		updated.UnitCost = val
	case FieldMarkup:
		val, err := ParseMarkupPercent(req.Value)
		if err != nil {
			return nil, err
		}
		updated.Markup = val
	case FieldUnitPrice:
		val, err := ParseAmount(req.Value)
		if err != nil {
			return nil, err
		}
		updated.UnitPrice = val
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidField, req.Field)
	}

	updated = Recompute(updated, req.Field)
	updated.UpdatedAt = s.now()

	if err := s.items.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	return &updated, nil
}

// SetStatus sets the tracking status of a single item.
func (s *Service) SetStatus(ctx context.Context, itemID string, status Status) (*Item, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	current, err := s.get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureMutable(ctx, current.SheetID); err != nil {
		return nil, err
	}

	updated := *current
	updated.Status = status
	updated.UpdatedAt = s.now()

	if err := s.items.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("updating item status: %w", err)
	}
	return &updated, nil
}

// UpdateDetails applies non-numeric edits. Nil fields are left untouched.
func (s *Service) UpdateDetails(ctx context.Context, req UpdateDetailsRequest) (*Item, error) {
	if req.ItemID == "" {
		return nil, ErrInvalidInput
	}

	current, err := s.get(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureMutable(ctx, current.SheetID); err != nil {
		return nil, err
	}

	updated := *current
	if req.Category != nil {
		updated.Category = *req.Category
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrInvalidInput
		}
		updated.Name = *req.Name
	}
	if req.UnitLength != nil {
		updated.UnitLength = *req.UnitLength
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}
	if req.Taxable != nil {
		updated.Taxable = *req.Taxable
	}
	if req.SortOrder != nil {
		updated.SortOrder = *req.SortOrder
	}
	updated.UpdatedAt = s.now()

	if err := s.items.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("updating item details: %w", err)
	}
	return &updated, nil
}

// Delete removes an item from a working version. Bundle membership rows go
// with it through the storage cascade.
func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ensureMutable(ctx, current.SheetID); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, current.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// Get returns an item by ID.
func (s *Service) Get(ctx context.Context, id string) (*Item, error) {
	return s.get(ctx, id)
}

// ListBySheet returns the items of a sheet in display order.
func (s *Service) ListBySheet(ctx context.Context, sheetID string) ([]Item, error) {
	return s.items.ListBySheet(ctx, sheetID)
}

func (s *Service) get(ctx context.Context, id string) (*Item, error) {
	it, err := s.items.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return it, nil
}

func (s *Service) ensureMutable(ctx context.Context, sheetID string) error {
	locked, err := s.versions.IsSheetLocked(ctx, sheetID)
	if err != nil {
		return fmt.Errorf("checking version status: %w", err)
	}
	if locked {
		return ErrVersionLocked
	}
	return nil
}
