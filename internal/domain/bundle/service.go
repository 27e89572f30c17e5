package bundle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/slateworks/matbook/internal/domain/activity"
	"github.com/slateworks/matbook/internal/domain/item"
	"github.com/slateworks/matbook/internal/repository"
)

// Service handles bundle (shippable package) operations.
type Service struct {
	bundles    Repository
	items      ItemRepository
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the timestamp source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new bundle service.
func NewService(bundles Repository, items ItemRepository, activities ActivityRepository, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		bundles:    bundles,
		items:      items,
		activities: activities,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequest describes a new bundle.
type CreateRequest struct {
	JobID       string
	Name        string
	Description string
	ItemIDs     []string
}

// Create validates and stores a new bundle referencing the given items.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Bundle, error) {
	if strings.TrimSpace(req.JobID) == "" || strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}
	itemIDs := dedupe(req.ItemIDs)
	if len(itemIDs) == 0 {
		return nil, ErrInvalidInput
	}

	now := s.now()
	b := Bundle{
		ID:          uuid.NewString(),
		JobID:       req.JobID,
		Name:        req.Name,
		Description: req.Description,
		Status:      item.StatusNotOrdered,
		ItemIDs:     itemIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.bundles.Create(ctx, &b); err != nil {
		return nil, fmt.Errorf("creating bundle: %w", err)
	}

	if s.activities != nil {
		_ = s.activities.Log(ctx, &activity.Entry{
			JobID:     b.JobID,
			EntityID:  &b.ID,
			Type:      activity.TypeBundleCreated,
			Summary:   fmt.Sprintf("created bundle %q with %d items", b.Name, len(b.ItemIDs)),
			CreatedAt: now,
		})
	}
	return &b, nil
}

// SetStatus sets the bundle status and fans it out to every currently
// referenced item. This is the one bulk path for status writes.
func (s *Service) SetStatus(ctx context.Context, bundleID string, status item.Status) (*Bundle, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	current, err := s.get(ctx, bundleID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.bundles.UpdateStatus(ctx, bundleID, status, now); err != nil {
		return nil, fmt.Errorf("updating bundle status: %w", err)
	}
	if len(current.ItemIDs) > 0 {
		if err := s.items.UpdateStatusBulk(ctx, current.ItemIDs, status, now); err != nil {
			return nil, fmt.Errorf("propagating status to items: %w", err)
		}
	}

	updated := *current
	updated.Status = status
	updated.UpdatedAt = now

	if s.activities != nil {
		_ = s.activities.Log(ctx, &activity.Entry{
			JobID:     updated.JobID,
			EntityID:  &updated.ID,
			Type:      activity.TypeBundleStatusSet,
			Summary:   fmt.Sprintf("set bundle %q and %d items to %s", updated.Name, len(updated.ItemIDs), status),
			CreatedAt: now,
		})
	}
	if s.logger != nil {
		s.logger.Info("bundle status propagated",
			"bundle_id", updated.ID,
			"status", status,
			"items", len(updated.ItemIDs),
		)
	}
	return &updated, nil
}

// AddItems adds items to a bundle. Adding an already present item is a
// no-op, reported in Skipped rather than failing the bulk action.
func (s *Service) AddItems(ctx context.Context, bundleID string, itemIDs []string) (*MembershipResult, error) {
	current, err := s.get(ctx, bundleID)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(current.ItemIDs))
	for _, id := range current.ItemIDs {
		existing[id] = true
	}

	var added, skipped []string
	for _, id := range dedupe(itemIDs) {
		if existing[id] {
			skipped = append(skipped, id)
		} else {
			added = append(added, id)
		}
	}

	if len(added) > 0 {
		if err := s.bundles.AddItems(ctx, bundleID, added); err != nil {
			return nil, fmt.Errorf("adding bundle items: %w", err)
		}
		current.ItemIDs = append(current.ItemIDs, added...)
		current.UpdatedAt = s.now()
	}

	return &MembershipResult{Bundle: current, Applied: added, Skipped: skipped}, nil
}

// RemoveItems removes items from a bundle. Removing an absent item is a
// no-op, reported in Skipped.
func (s *Service) RemoveItems(ctx context.Context, bundleID string, itemIDs []string) (*MembershipResult, error) {
	current, err := s.get(ctx, bundleID)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(current.ItemIDs))
	for _, id := range current.ItemIDs {
		existing[id] = true
	}

	var removed, skipped []string
	for _, id := range dedupe(itemIDs) {
		if existing[id] {
			removed = append(removed, id)
		} else {
			skipped = append(skipped, id)
		}
	}

	if len(removed) > 0 {
		if err := s.bundles.RemoveItems(ctx, bundleID, removed); err != nil {
			return nil, fmt.Errorf("removing bundle items: %w", err)
		}
		gone := make(map[string]bool, len(removed))
		for _, id := range removed {
			gone[id] = true
		}
		kept := current.ItemIDs[:0]
		for _, id := range current.ItemIDs {
			if !gone[id] {
				kept = append(kept, id)
			}
		}
		current.ItemIDs = kept
		current.UpdatedAt = s.now()
	}

	return &MembershipResult{Bundle: current, Applied: removed, Skipped: skipped}, nil
}

// Get returns a bundle with live membership.
func (s *Service) Get(ctx context.Context, id string) (*Bundle, error) {
	return s.get(ctx, id)
}

// ListByJob returns a job's bundles.
func (s *Service) ListByJob(ctx context.Context, jobID string) ([]Bundle, error) {
	return s.bundles.ListByJob(ctx, jobID)
}

func (s *Service) get(ctx context.Context, id string) (*Bundle, error) {
	b, err := s.bundles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBundleNotFound
		}
		return nil, fmt.Errorf("getting bundle: %w", err)
	}
	return b, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
