package workbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/slateworks/matbook/internal/domain/activity"
	"github.com/slateworks/matbook/internal/domain/item"
	"github.com/slateworks/matbook/internal/repository"
)

// Service handles the workbook version lifecycle.
type Service struct {
	versions   Repository
	sheets     SheetRepository
	items      ItemRepository
	labor      LaborRepository
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

// NewService creates a new workbook service.
func NewService(
	versions Repository,
	sheets SheetRepository,
	items ItemRepository,
	labor LaborRepository,
	activities ActivityRepository,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		versions:   versions,
		sheets:     sheets,
		items:      items,
		labor:      labor,
		activities: activities,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInitialVersion creates version 1 for a job with no versions yet.
// Once a job has any version, new working versions only come out of
// LockAndFork.
func (s *Service) CreateInitialVersion(ctx context.Context, jobID string) (*Version, error) {
	existing, err := s.versions.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("listing job versions: %w", err)
	}
	if len(existing) > 0 {
		return nil, ErrVersionExists
	}

	v := &Version{
		ID:        uuid.NewString(),
		JobID:     jobID,
		Number:    1,
		Status:    StatusWorking,
		CreatedAt: s.now(),
	}
	if err := s.versions.CreateVersion(ctx, v); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrVersionExists
		}
		return nil, fmt.Errorf("creating initial version: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("created initial workbook version", "job_id", jobID, "version_id", v.ID)
	}
	return v, nil
}

// GetWorkingVersion returns the single working version for a job.
//
// Finding more than one working row means the storage-level uniqueness
// constraint was bypassed; that is surfaced as a hard failure rather than
// picking one arbitrarily.
func (s *Service) GetWorkingVersion(ctx context.Context, jobID string) (*Version, error) {
	working, err := s.versions.ListWorkingVersions(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("listing working versions: %w", err)
	}
	switch len(working) {
	case 0:
		return nil, ErrNoWorkingVersion
	case 1:
		return &working[0], nil
	default:
		if s.logger != nil {
			s.logger.Error("job has multiple working versions", "job_id", jobID, "count", len(working))
		}
		return nil, ErrVersionStateCorrupt
	}
}

// GetProposalVersion returns the oldest locked version for a job: the
// comparison baseline.
func (s *Service) GetProposalVersion(ctx context.Context, jobID string) (*Version, error) {
	proposal, err := s.versions.GetProposalVersion(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoBaseline
		}
		return nil, fmt.Errorf("getting proposal version: %w", err)
	}
	return proposal, nil
}

// GetVersion returns a version by ID.
func (s *Service) GetVersion(ctx context.Context, id string) (*Version, error) {
	v, err := s.versions.GetVersion(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, fmt.Errorf("getting version: %w", err)
	}
	return v, nil
}

// GetVersionTree loads a version with all of its sheets, items, and labor
// rows.
func (s *Service) GetVersionTree(ctx context.Context, id string) (*VersionTree, error) {
	v, err := s.GetVersion(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.loadTree(ctx, v)
}

// LockAndFork freezes the job's working version and deep-copies it into a
// fresh working version with the next version number. The copy preserves
// names, order, and every item field verbatim; only identifiers and
// timestamps are new. The whole operation commits or rolls back as one
// transaction, so a failed copy never leaves the version half-locked.
func (s *Service) LockAndFork(ctx context.Context, jobID string) (*LockAndForkResult, error) {
	working, err := s.GetWorkingVersion(ctx, jobID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	// The repo reads the tree inside the same transaction that locks the
	// version, so the copy can never miss an item edit committed after an
	// earlier read.
	fork, err := s.versions.LockAndFork(ctx, working.ID, now, func(tree *VersionTree) *VersionTree {
		return forkTree(tree, now)
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Lost the race: the version was locked since we loaded it.
			return nil, ErrNoWorkingVersion
		}
		return nil, fmt.Errorf("lock and fork version %d: %w", working.Number, err)
	}

	locked := *working
	locked.Status = StatusLocked
	locked.LockedAt = &now

	if s.activities != nil {
		_ = s.activities.Log(ctx, &activity.Entry{
			JobID:     jobID,
			EntityID:  &locked.ID,
			Type:      activity.TypeVersionLocked,
			Summary:   fmt.Sprintf("locked version %d, forked version %d", locked.Number, fork.Version.Number),
			CreatedAt: now,
		})
	}
	if s.logger != nil {
		s.logger.Info("locked and forked workbook version",
			"job_id", jobID,
			"locked_version", locked.Number,
			"working_version", fork.Version.Number,
			"sheets", len(fork.Sheets),
		)
	}

	return &LockAndForkResult{Locked: &locked, Working: &fork.Version}, nil
}

// LaborRequest describes a labor estimate row. Hours and rate arrive as the
// raw strings the user typed; blank means unset.
type LaborRequest struct {
	SheetID     string
	Description string
	Hours       string
	Rate        string
}

// AddLaborEstimate adds a labor row to a sheet of a working version. The
// extended cost is derived from hours and rate and is null unless both are
// present.
func (s *Service) AddLaborEstimate(ctx context.Context, req LaborRequest) (*LaborEstimate, error) {
	if err := s.ensureSheetMutable(ctx, req.SheetID); err != nil {
		return nil, err
	}

	hours, err := item.ParseAmount(req.Hours)
	if err != nil {
		return nil, err
	}
	rate, err := item.ParseAmount(req.Rate)
	if err != nil {
		return nil, err
	}

	now := s.now()
	le := LaborEstimate{
		ID:           uuid.NewString(),
		SheetID:      req.SheetID,
		Description:  req.Description,
		Hours:        hours,
		Rate:         rate,
		ExtendedCost: laborExtended(hours, rate),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.labor.Create(ctx, &le); err != nil {
		return nil, fmt.Errorf("creating labor estimate: %w", err)
	}
	return &le, nil
}

// UpdateLaborEstimate replaces a labor row's description, hours, and rate.
// The locked guard runs against the sheet the stored row belongs to, never a
// caller-supplied sheet, so a labor row on a locked version stays frozen no
// matter what the request claims.
func (s *Service) UpdateLaborEstimate(ctx context.Context, id string, req LaborRequest) (*LaborEstimate, error) {
	current, err := s.labor.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLaborNotFound
		}
		return nil, fmt.Errorf("getting labor estimate: %w", err)
	}
	if req.SheetID != "" && req.SheetID != current.SheetID {
		return nil, fmt.Errorf("%w: labor estimate belongs to another sheet", ErrInvalidInput)
	}
	if err := s.ensureSheetMutable(ctx, current.SheetID); err != nil {
		return nil, err
	}

	hours, err := item.ParseAmount(req.Hours)
	if err != nil {
		return nil, err
	}
	rate, err := item.ParseAmount(req.Rate)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.Description = req.Description
	updated.Hours = hours
	updated.Rate = rate
	updated.ExtendedCost = laborExtended(hours, rate)
	updated.UpdatedAt = s.now()

	if err := s.labor.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLaborNotFound
		}
		return nil, fmt.Errorf("updating labor estimate: %w", err)
	}
	return &updated, nil
}

func laborExtended(hours, rate *float64) *float64 {
	if hours == nil || rate == nil {
		return nil
	}
	val := *hours * *rate
	return &val
}

func (s *Service) ensureSheetMutable(ctx context.Context, sheetID string) error {
	locked, err := s.versions.IsSheetLocked(ctx, sheetID)
	if err != nil {
		return fmt.Errorf("checking version status: %w", err)
	}
	if locked {
		return ErrVersionLocked
	}
	return nil
}

func (s *Service) loadTree(ctx context.Context, v *Version) (*VersionTree, error) {
	sheets, err := s.sheets.ListByVersion(ctx, v.ID)
	if err != nil {
		return nil, fmt.Errorf("listing sheets: %w", err)
	}

	tree := &VersionTree{Version: *v, Sheets: make([]SheetTree, 0, len(sheets))}
	for _, sh := range sheets {
		items, err := s.items.ListBySheet(ctx, sh.ID)
		if err != nil {
			return nil, fmt.Errorf("listing items for sheet %q: %w", sh.Name, err)
		}
		labor, err := s.labor.ListBySheet(ctx, sh.ID)
		if err != nil {
			return nil, fmt.Errorf("listing labor for sheet %q: %w", sh.Name, err)
		}
		tree.Sheets = append(tree.Sheets, SheetTree{Sheet: sh, Items: items, Labor: labor})
	}
	return tree, nil
}
