package sheet

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

// Service handles sheet directory operations.
type Service struct {
	sheets   Repository
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

// NewService creates a new sheet service.
func NewService(sheets Repository, versions VersionRepository, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		sheets:   sheets,
		versions: versions,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create adds a named sheet to a working version.
func (s *Service) Create(ctx context.Context, versionID, name string, sortOrder int) (*Sheet, error) {
	if strings.TrimSpace(versionID) == "" || strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}
	if err := s.ensureMutable(ctx, versionID); err != nil {
		return nil, err
	}

	now := s.now()
	sh := Sheet{
		ID:        uuid.NewString(),
		VersionID: versionID,
		Name:      name,
		SortOrder: sortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sheets.Create(ctx, &sh); err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	return &sh, nil
}

// Rename changes a sheet's display name.
//
// Comparisons match sheets by name, so renaming a working-version sheet
// detaches it from its proposal counterpart.
func (s *Service) Rename(ctx context.Context, id, name string) (*Sheet, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}

	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureMutable(ctx, current.VersionID); err != nil {
		return nil, err
	}

	updated := *current
	updated.Name = name
	updated.UpdatedAt = s.now()
	if err := s.sheets.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	return &updated, nil
}

// Reorder changes a sheet's position among its version's sheets.
func (s *Service) Reorder(ctx context.Context, id string, sortOrder int) (*Sheet, error) {
	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureMutable(ctx, current.VersionID); err != nil {
		return nil, err
	}

	updated := *current
	updated.SortOrder = sortOrder
	updated.UpdatedAt = s.now()
	if err := s.sheets.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("reordering sheet: %w", err)
	}
	return &updated, nil
}

// Get returns a sheet by ID.
func (s *Service) Get(ctx context.Context, id string) (*Sheet, error) {
	return s.get(ctx, id)
}

// ListByVersion returns a version's sheets in display order.
func (s *Service) ListByVersion(ctx context.Context, versionID string) ([]Sheet, error) {
	return s.sheets.ListByVersion(ctx, versionID)
}

func (s *Service) get(ctx context.Context, id string) (*Sheet, error) {
	sh, err := s.sheets.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSheetNotFound
		}
		return nil, fmt.Errorf("getting sheet: %w", err)
	}
	return sh, nil
}

func (s *Service) ensureMutable(ctx context.Context, versionID string) error {
	locked, err := s.versions.IsVersionLocked(ctx, versionID)
	if err != nil {
		return fmt.Errorf("checking version status: %w", err)
	}
	if locked {
		return ErrVersionLocked
	}
	return nil
}
