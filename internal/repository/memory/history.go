package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/benefits-service/internal/domain"
	"github.com/spec-kit/benefits-service/internal/repository"
)

var errDuplicateEmail = errors.New("duplicate key value violates unique constraint \"users_email_key\"")

// CaseHistoryRepository keeps audit entries in insertion order.
type CaseHistoryRepository struct {
	mu      sync.RWMutex
	entries []domain.CaseHistory
}

// NewCaseHistoryRepository builds an empty store.
func NewCaseHistoryRepository() *CaseHistoryRepository {
	return &CaseHistoryRepository{}
}

var _ repository.CaseHistoryRepository = (*CaseHistoryRepository)(nil)

func (r *CaseHistoryRepository) Create(_ context.Context, entry *domain.CaseHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *CaseHistoryRepository) ListByCase(_ context.Context, caseID string) ([]domain.CaseHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.CaseHistory
	for _, entry := range r.entries {
		if entry.CaseID == caseID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (r *CaseHistoryRepository) DeleteByCase(_ context.Context, caseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	for _, entry := range r.entries {
		if entry.CaseID != caseID {
			kept = append(kept, entry)
		}
	}
	r.entries = kept
	return nil
}
