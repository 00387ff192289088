// Package memory provides in-process repository implementations used when
// no database is configured and as fakes in tests. They mirror the Postgres
// repositories' error contract: pgx.ErrNoRows for missing rows and
// repository.ErrVersionConflict for stale updates.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/benefits-service/internal/domain"
	"github.com/spec-kit/benefits-service/internal/repository"
)

// CaseRepository is a mutex-guarded map of cases.
type CaseRepository struct {
	mu    sync.RWMutex
	cases map[string]domain.Case
	now   func() time.Time
}

// NewCaseRepository builds an empty store.
func NewCaseRepository() *CaseRepository {
	return &CaseRepository{cases: make(map[string]domain.Case), now: time.Now}
}

var _ repository.CaseRepository = (*CaseRepository)(nil)

func (r *CaseRepository) Create(_ context.Context, c *domain.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := r.now()
	c.ID = uuid.NewString()
	c.Version = 1
	c.CreatedAt = ts
	c.UpdatedAt = ts
	r.cases[c.ID] = cloneCase(*c)
	return nil
}

func (r *CaseRepository) Update(_ context.Context, c *domain.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.cases[c.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != c.Version {
		return repository.ErrVersionConflict
	}

	stored.Status = c.Status
	stored.Stage = c.Stage
	stored.DetailedAdminStatus = c.DetailedAdminStatus
	stored.RejectionReason = c.RejectionReason
	stored.ApprovedBenefits = c.ApprovedBenefits
	stored.AdminConfirmedCompleted = c.AdminConfirmedCompleted
	stored.IsRenewed = c.IsRenewed
	stored.Version++
	stored.UpdatedAt = r.now()
	r.cases[c.ID] = cloneCase(stored)

	c.Version = stored.Version
	c.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *CaseRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cases[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.cases, id)
	return nil
}

func (r *CaseRepository) GetByID(_ context.Context, id string) (*domain.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cases[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := cloneCase(c)
	return &out, nil
}

func (r *CaseRepository) List(_ context.Context, filter repository.CaseFilter) ([]domain.Case, error) {
	r.mu.RLock()
	result := make([]domain.Case, 0, len(r.cases))
	for _, c := range r.cases {
		if matchesCase(c, filter) {
			result = append(result, cloneCase(c))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Limit > 0 {
		start := filter.Offset
		if start < 0 {
			start = 0
		}
		if start > len(result) {
			start = len(result)
		}
		end := start + filter.Limit
		if end > len(result) {
			end = len(result)
		}
		result = result[start:end]
	}
	return result, nil
}

// SetClock overrides the timestamp source; tests use it for deterministic ordering.
func (r *CaseRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func matchesCase(c domain.Case, filter repository.CaseFilter) bool {
	if filter.OwnerID != nil && c.OwnerID != *filter.OwnerID {
		return false
	}
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, c.Status) {
		return false
	}
	if len(filter.BenefitTypes) > 0 && !containsBenefit(filter.BenefitTypes, c.BenefitType) {
		return false
	}
	return true
}

func containsStatus(list []domain.CaseStatus, s domain.CaseStatus) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}

func containsBenefit(list []domain.BenefitType, b domain.BenefitType) bool {
	for _, candidate := range list {
		if candidate == b {
			return true
		}
	}
	return false
}

func cloneCase(c domain.Case) domain.Case {
	out := c
	if c.RejectionReason != nil {
		v := *c.RejectionReason
		out.RejectionReason = &v
	}
	if c.ApprovedBenefits != nil {
		b := *c.ApprovedBenefits
		out.ApprovedBenefits = &b
	}
	if c.RenewalDate != nil {
		d := *c.RenewalDate
		out.RenewalDate = &d
	}
	if c.Details != nil {
		out.Details = make(map[string]any, len(c.Details))
		for k, v := range c.Details {
			out.Details[k] = v
		}
	}
	if c.Attachments != nil {
		out.Attachments = append([]string(nil), c.Attachments...)
	}
	return out
}
