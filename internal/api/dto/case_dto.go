package dto

import (
	"time"

	"github.com/spec-kit/benefits-service/internal/domain"
	"github.com/spec-kit/benefits-service/internal/lifecycle"
)

// CreateCaseRequest is the citizen's application form.
type CreateCaseRequest struct {
	BenefitType    domain.BenefitType `json:"benefitType"`
	Phone          string             `json:"phone"`
	Address        string             `json:"address"`
	Details        map[string]any     `json:"details"`
	Attachments    []string           `json:"attachments"`
	SignatoryName  string             `json:"signatoryName"`
	SignatureImage string             `json:"signatureImage"`
	DocumentType   string             `json:"documentType"`
}

// SetStatusRequest payload for PATCH /admin/cases/:id.
type SetStatusRequest struct {
	Status domain.CaseStatus `json:"status"`
}

// ProcessingRequest payload for PATCH /admin/cases/:id/processing.
type ProcessingRequest struct {
	Stage            int                      `json:"stage"`
	RejectionReason  string                   `json:"rejectionReason"`
	ApprovedBenefits *domain.ApprovedBenefits `json:"approvedBenefits"`
	Force            bool                     `json:"force"`
}

// TimelineStepResponse is one timeline entry.
type TimelineStepResponse struct {
	Key   int                 `json:"key"`
	State lifecycle.StepState `json:"state"`
}

// ClientStatusResponse is the citizen-facing projection.
type ClientStatusResponse struct {
	Status           lifecycle.ClientStatus   `json:"status"`
	Label            string                   `json:"label"`
	RejectionReason  *string                  `json:"rejectionReason,omitempty"`
	ApprovedBenefits *domain.ApprovedBenefits `json:"approvedBenefits,omitempty"`
	Timeline         []TimelineStepResponse   `json:"timeline"`
	RenewalDate      *time.Time               `json:"renewalDate,omitempty"`
	RenewalTier      lifecycle.RenewalTier    `json:"renewalTier"`
}

// MyCaseResponse is what a citizen sees of their own case.
type MyCaseResponse struct {
	ID           string               `json:"id"`
	BenefitType  domain.BenefitType   `json:"benefitType"`
	Address      string               `json:"address,omitempty"`
	RenewalDate  *time.Time           `json:"renewalDate,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
	ClientStatus ClientStatusResponse `json:"clientStatus"`
}

// AdminCaseResponse is the full admin record.
type AdminCaseResponse struct {
	ID                      string                   `json:"id"`
	OwnerID                 string                   `json:"ownerId"`
	BenefitType             domain.BenefitType       `json:"benefitType"`
	Status                  domain.CaseStatus        `json:"status"`
	ProcessingStage         int                      `json:"processingStage"`
	DetailedAdminStatus     string                   `json:"detailedAdminStatus"`
	RejectionReason         *string                  `json:"rejectionReason,omitempty"`
	ApprovedBenefits        *domain.ApprovedBenefits `json:"approvedBenefits,omitempty"`
	RenewalDate             *time.Time               `json:"renewalDate,omitempty"`
	RenewalTier             lifecycle.RenewalTier    `json:"renewalTier"`
	AdminConfirmedCompleted bool                     `json:"adminConfirmedCompleted"`
	IsRenewed               bool                     `json:"isRenewed"`
	UserName                string                   `json:"userName"`
	UserEmail               string                   `json:"userEmail"`
	UserPhone               string                   `json:"userPhone"`
	Address                 string                   `json:"address"`
	Details                 map[string]any           `json:"details,omitempty"`
	Attachments             []string                 `json:"attachments,omitempty"`
	SignatoryName           string                   `json:"signatoryName,omitempty"`
	SignatureImage          string                   `json:"signatureImage,omitempty"`
	DocumentType            string                   `json:"documentType,omitempty"`
	Version                 int64                    `json:"version"`
	CreatedAt               time.Time                `json:"createdAt"`
	UpdatedAt               time.Time                `json:"updatedAt"`
	ClientStatus            ClientStatusResponse     `json:"clientStatus"`
}

// RenewalSummaryResponse carries the dashboard counters.
type RenewalSummaryResponse struct {
	NeedsRenewalNow     int `json:"needsRenewalNow"`
	PendingConfirmation int `json:"pendingConfirmation"`
	Immediate           int `json:"immediate"`
	RenewalIn6Months    int `json:"renewalIn6Months"`
	OK                  int `json:"ok"`
	Renewed             int `json:"renewed"`
}

// AdminCaseListResponse is the dashboard payload.
type AdminCaseListResponse struct {
	Cases   []AdminCaseResponse    `json:"cases"`
	Summary RenewalSummaryResponse `json:"summary"`
}

// CaseHistoryResponse is one audit entry.
type CaseHistoryResponse struct {
	ID         string                `json:"id"`
	ActorID    string                `json:"actorId"`
	ChangeType domain.CaseChangeType `json:"changeType"`
	OldValue   map[string]any        `json:"oldValue"`
	NewValue   map[string]any        `json:"newValue"`
	CreatedAt  time.Time             `json:"createdAt"`
}

// BenefitResponse is one catalogue entry.
type BenefitResponse struct {
	Type        domain.BenefitType `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
}

// ReminderResponse carries the calendar link.
type ReminderResponse struct {
	CalendarURL string `json:"calendarUrl"`
}
