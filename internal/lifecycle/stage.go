package lifecycle

import (
	"strings"

	"github.com/spec-kit/benefits-service/internal/domain"
	apperrors "github.com/spec-kit/benefits-service/pkg/util/errorutil"
)

// StageExtra carries the payload for terminal stage transitions.
type StageExtra struct {
	RejectionReason  string
	ApprovedBenefits *domain.ApprovedBenefits
	// Force lets an admin move a case out of a terminal stage.
	Force bool
}

// AdvanceStage applies a processing-stage transition to a copy of c.
// Ordering between non-terminal stages is not enforced. Status is never
// touched. On error the returned case is c unchanged.
func AdvanceStage(c domain.Case, target domain.Stage, extra StageExtra) (domain.Case, error) {
	if !target.Valid() {
		return c, apperrors.NewValidationError("stage must be between 1 and 5", map[string]any{"stage": int(target)})
	}

	reason := strings.TrimSpace(extra.RejectionReason)
	if target == domain.StageClosedByGovernment && reason == "" {
		return c, apperrors.NewValidationError("rejection reason is required to close a case", map[string]any{"stage": int(target)})
	}

	if c.Stage.Terminal() && c.Stage != target && !extra.Force {
		return c, apperrors.NewConflict("case already reached a terminal stage", map[string]any{
			"current_stage": int(c.Stage),
			"target_stage":  int(target),
		})
	}

	next := c
	next.Stage = target
	next.DetailedAdminStatus = target.Label()

	switch target {
	case domain.StageClosedByGovernment:
		next.RejectionReason = &reason
		next.ApprovedBenefits = nil
	case domain.StageApprovedByGovernment:
		next.RejectionReason = nil
		next.ApprovedBenefits = normalizeBenefits(extra.ApprovedBenefits)
	default:
		next.RejectionReason = nil
		next.ApprovedBenefits = nil
	}
	return next, nil
}

// normalizeBenefits trims provided fields and keeps absent ones nil.
func normalizeBenefits(in *domain.ApprovedBenefits) *domain.ApprovedBenefits {
	if in == nil {
		return nil
	}
	out := &domain.ApprovedBenefits{
		RentAssistance: trimmed(in.RentAssistance),
		FoodStamps:     trimmed(in.FoodStamps),
		FinancialAid:   trimmed(in.FinancialAid),
		TotalDeposited: trimmed(in.TotalDeposited),
	}
	if out.RentAssistance == nil && out.FoodStamps == nil && out.FinancialAid == nil && out.TotalDeposited == nil {
		return nil
	}
	return out
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
