package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/benefits-service/internal/domain"
)

// CaseHistoryRepository stores the audit trail of admin mutations.
type CaseHistoryRepository interface {
	Create(ctx context.Context, entry *domain.CaseHistory) error
	ListByCase(ctx context.Context, caseID string) ([]domain.CaseHistory, error)
	DeleteByCase(ctx context.Context, caseID string) error
}

type caseHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewCaseHistoryRepository builds repository.
func NewCaseHistoryRepository(pool *pgxpool.Pool) CaseHistoryRepository {
	return &caseHistoryRepository{pool: pool}
}

func (r *caseHistoryRepository) Create(ctx context.Context, entry *domain.CaseHistory) error {
	const query = `
        INSERT INTO case_history (case_id, actor_id, change_type, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.CaseID,
		entry.ActorID,
		entry.ChangeType,
		entry.OldValue,
		entry.NewValue,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *caseHistoryRepository) ListByCase(ctx context.Context, caseID string) ([]domain.CaseHistory, error) {
	const query = `
        SELECT id, case_id, actor_id, change_type, old_value, new_value, created_at
        FROM case_history WHERE case_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CaseHistory
	for rows.Next() {
		var entry domain.CaseHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.CaseID,
			&entry.ActorID,
			&entry.ChangeType,
			&entry.OldValue,
			&entry.NewValue,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// DeleteByCase is a no-op once the case row is gone, since the foreign key
// cascades; it keeps stores without cascades consistent.
func (r *caseHistoryRepository) DeleteByCase(ctx context.Context, caseID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM case_history WHERE case_id=$1`, caseID)
	return err
}
