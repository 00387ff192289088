package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/benefits-service/internal/api/dto"
	"github.com/spec-kit/benefits-service/internal/auth"
	"github.com/spec-kit/benefits-service/internal/domain"
	"github.com/spec-kit/benefits-service/internal/lifecycle"
	"github.com/spec-kit/benefits-service/internal/service"
	apperrors "github.com/spec-kit/benefits-service/pkg/util/errorutil"
)

func currentUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("user required")
	}
	return principal.User, nil
}

func userResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		DemotedAt: u.DemotedAt,
		CreatedAt: u.CreatedAt,
	}
}

func sessionResponse(s *service.Session) dto.SessionResponse {
	return dto.SessionResponse{
		User: userResponse(s.User),
		Auth: dto.AuthResponse{Token: s.Token, ExpiresAt: s.ExpiresAt},
	}
}

func clientStatusResponse(v lifecycle.ClientView) dto.ClientStatusResponse {
	timeline := make([]dto.TimelineStepResponse, 0, len(v.Timeline))
	for _, step := range v.Timeline {
		timeline = append(timeline, dto.TimelineStepResponse{Key: step.Key, State: step.State})
	}
	return dto.ClientStatusResponse{
		Status:           v.Status,
		Label:            v.Label,
		RejectionReason:  v.RejectionReason,
		ApprovedBenefits: v.ApprovedBenefits,
		Timeline:         timeline,
		RenewalDate:      v.RenewalDate,
		RenewalTier:      v.RenewalTier,
	}
}

func myCaseResponse(v service.CaseView) dto.MyCaseResponse {
	return dto.MyCaseResponse{
		ID:           v.Case.ID,
		BenefitType:  v.Case.BenefitType,
		Address:      v.Case.Address,
		RenewalDate:  v.Case.RenewalDate,
		CreatedAt:    v.Case.CreatedAt,
		UpdatedAt:    v.Case.UpdatedAt,
		ClientStatus: clientStatusResponse(v.View),
	}
}

func adminCaseResponse(v service.AdminCaseView) dto.AdminCaseResponse {
	c := v.Case
	return dto.AdminCaseResponse{
		ID:                      c.ID,
		OwnerID:                 c.OwnerID,
		BenefitType:             c.BenefitType,
		Status:                  c.Status,
		ProcessingStage:         int(c.Stage),
		DetailedAdminStatus:     c.DetailedAdminStatus,
		RejectionReason:         c.RejectionReason,
		ApprovedBenefits:        c.ApprovedBenefits,
		RenewalDate:             c.RenewalDate,
		RenewalTier:             v.Tier,
		AdminConfirmedCompleted: c.AdminConfirmedCompleted,
		IsRenewed:               c.IsRenewed,
		UserName:                c.UserName,
		UserEmail:               c.UserEmail,
		UserPhone:               c.UserPhone,
		Address:                 c.Address,
		Details:                 c.Details,
		Attachments:             c.Attachments,
		SignatoryName:           c.SignatoryName,
		SignatureImage:          c.SignatureImage,
		DocumentType:            c.DocumentType,
		Version:                 c.Version,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
		ClientStatus:            clientStatusResponse(v.View),
	}
}

func summaryResponse(s lifecycle.RenewalSummary) dto.RenewalSummaryResponse {
	return dto.RenewalSummaryResponse{
		NeedsRenewalNow:     s.NeedsRenewalNow,
		PendingConfirmation: s.PendingConfirmation,
		Immediate:           s.Immediate,
		RenewalIn6Months:    s.RenewalIn6Months,
		OK:                  s.OK,
		Renewed:             s.Renewed,
	}
}

func historyResponses(entries []domain.CaseHistory) []dto.CaseHistoryResponse {
	resp := make([]dto.CaseHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.CaseHistoryResponse{
			ID:         entry.ID,
			ActorID:    entry.ActorID,
			ChangeType: entry.ChangeType,
			OldValue:   entry.OldValue,
			NewValue:   entry.NewValue,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return resp
}
