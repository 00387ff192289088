package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/benefits-service/internal/domain"
)

// CaseFilter captures listing parameters.
type CaseFilter struct {
	OwnerID      *string
	Statuses     []domain.CaseStatus
	BenefitTypes []domain.BenefitType
	Limit        int
	Offset       int
}

// CaseRepository encapsulates case persistence.
type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	// Update writes the admin-controlled fields when c.Version matches the
	// stored version, then bumps c.Version.
	Update(ctx context.Context, c *domain.Case) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Case, error)
	List(ctx context.Context, filter CaseFilter) ([]domain.Case, error)
}

type caseRepository struct {
	pool *pgxpool.Pool
}

// NewCaseRepository instantiates repository.
func NewCaseRepository(pool *pgxpool.Pool) CaseRepository {
	return &caseRepository{pool: pool}
}

const caseColumns = `id, owner_id, benefit_type, status, processing_stage, detailed_admin_status,
        rejection_reason, approved_benefits, renewal_date, admin_confirmed_completed, is_renewed,
        user_name, user_email, user_phone, address, details, attachments,
        signatory_name, signature_image, document_type, version, created_at, updated_at`

func (r *caseRepository) Create(ctx context.Context, c *domain.Case) error {
	const query = `
        INSERT INTO cases (owner_id, benefit_type, status, processing_stage, detailed_admin_status,
            renewal_date, user_name, user_email, user_phone, address, details, attachments,
            signatory_name, signature_image, document_type)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, version, created_at, updated_at`
	details := c.Details
	if details == nil {
		details = map[string]any{}
	}
	attachments := c.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		c.OwnerID,
		c.BenefitType,
		c.Status,
		c.Stage,
		c.DetailedAdminStatus,
		c.RenewalDate,
		c.UserName,
		c.UserEmail,
		c.UserPhone,
		c.Address,
		details,
		attachments,
		c.SignatoryName,
		c.SignatureImage,
		c.DocumentType,
	).Scan(&c.ID, &c.Version, &c.CreatedAt, &c.UpdatedAt)
}

func (r *caseRepository) Update(ctx context.Context, c *domain.Case) error {
	const query = `
        UPDATE cases SET status=$1, processing_stage=$2, detailed_admin_status=$3, rejection_reason=$4,
            approved_benefits=$5, admin_confirmed_completed=$6, is_renewed=$7,
            version=version+1, updated_at=NOW()
        WHERE id=$8 AND version=$9
        RETURNING version, updated_at`
	err := r.pool.QueryRow(ctx, query,
		c.Status,
		c.Stage,
		c.DetailedAdminStatus,
		c.RejectionReason,
		c.ApprovedBenefits,
		c.AdminConfirmedCompleted,
		c.IsRenewed,
		c.ID,
		c.Version,
	).Scan(&c.Version, &c.UpdatedAt)
	if err == nil {
		return nil
	}
	if err != pgx.ErrNoRows {
		return err
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM cases WHERE id=$1)`, c.ID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrVersionConflict
	}
	return pgx.ErrNoRows
}

func (r *caseRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cases WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *caseRepository) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id=$1`
	c, err := scanCase(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepository) List(ctx context.Context, filter CaseFilter) ([]domain.Case, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.BenefitTypes) > 0 {
		placeholders := make([]string, len(filter.BenefitTypes))
		for i, bt := range filter.BenefitTypes {
			args = append(args, bt)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("benefit_type IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf(`SELECT %s FROM cases WHERE %s ORDER BY created_at DESC`, caseColumns, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func scanCase(row pgx.Row) (domain.Case, error) {
	var c domain.Case
	err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&c.BenefitType,
		&c.Status,
		&c.Stage,
		&c.DetailedAdminStatus,
		&c.RejectionReason,
		&c.ApprovedBenefits,
		&c.RenewalDate,
		&c.AdminConfirmedCompleted,
		&c.IsRenewed,
		&c.UserName,
		&c.UserEmail,
		&c.UserPhone,
		&c.Address,
		&c.Details,
		&c.Attachments,
		&c.SignatoryName,
		&c.SignatureImage,
		&c.DocumentType,
		&c.Version,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}
