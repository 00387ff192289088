package lifecycle

import (
	"strings"
	"time"

	"github.com/spec-kit/benefits-service/internal/domain"
)

// ClientStatus is the single status a citizen sees for a case.
type ClientStatus string

const (
	ClientClosedRejected          ClientStatus = "closed_rejected"
	ClientNeedsRenewal            ClientStatus = "needs_renewal"
	ClientFormsSubmittedAwaitGov  ClientStatus = "forms_submitted_awaiting_government"
	ClientInApprovalProcess       ClientStatus = "in_approval_process"
	ClientApprovedAwaitingDeposit ClientStatus = "approved_awaiting_deposit"
	ClientInProgress              ClientStatus = "in_progress"
)

var clientLabels = map[ClientStatus]string{
	ClientClosedRejected:          "Case closed / rejected",
	ClientNeedsRenewal:            "Needs renewal",
	ClientFormsSubmittedAwaitGov:  "Forms submitted, awaiting government",
	ClientInApprovalProcess:       "Case in approval process",
	ClientApprovedAwaitingDeposit: "Approved, awaiting government deposit",
	ClientInProgress:              "In progress",
}

// Label returns the display text for the client status.
func (s ClientStatus) Label() string {
	return clientLabels[s]
}

// StepState is the rendering state of one timeline step.
type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepFuture    StepState = "future"
)

// TimelineStep is one entry of the case-status timeline.
type TimelineStep struct {
	Key   int
	State StepState
}

// ClientView is the read-only projection of a case for its owner.
type ClientView struct {
	Status           ClientStatus
	Label            string
	RejectionReason  *string
	ApprovedBenefits *domain.ApprovedBenefits
	Timeline         []TimelineStep
	RenewalDate      *time.Time
	RenewalTier      RenewalTier
}

type projectionRule struct {
	status ClientStatus
	match  func(c domain.Case) bool
}

// projectionRules is evaluated top-down; the first match wins. Terminal
// outcomes beat in-progress signals and confirmation beats raw status.
var projectionRules = []projectionRule{
	{ClientClosedRejected, func(c domain.Case) bool { return c.Status.Terminal() }},
	{ClientNeedsRenewal, func(c domain.Case) bool { return c.AdminConfirmedCompleted }},
	{ClientFormsSubmittedAwaitGov, func(c domain.Case) bool { return c.Stage == domain.StageFormsSubmitted }},
	{ClientInApprovalProcess, func(c domain.Case) bool {
		return c.Stage == domain.StageOpened || c.Stage == domain.StageInterviewed
	}},
	{ClientApprovedAwaitingDeposit, isApproved},
	{ClientInProgress, func(c domain.Case) bool { return c.Status == domain.CaseStatusPending }},
}

func isApproved(c domain.Case) bool {
	return c.Status == domain.CaseStatusApproved || c.Stage == domain.StageApprovedByGovernment
}

// ClientStatusOf returns the client status without building the full view.
func ClientStatusOf(c domain.Case) ClientStatus {
	for _, rule := range projectionRules {
		if rule.match(c) {
			return rule.status
		}
	}
	return ClientInApprovalProcess
}

// ProjectClientStatus derives the citizen-facing view of c. It is total over
// any case snapshot and never persists anything.
func ProjectClientStatus(c domain.Case, now time.Time) ClientView {
	status := ClientStatusOf(c)
	view := ClientView{
		Status:      status,
		Label:       status.Label(),
		Timeline:    Timeline(c),
		RenewalDate: c.RenewalDate,
		RenewalTier: ClassifyCase(c, now),
	}
	switch status {
	case ClientClosedRejected:
		if c.RejectionReason != nil && strings.TrimSpace(*c.RejectionReason) != "" {
			reason := *c.RejectionReason
			view.RejectionReason = &reason
		}
	case ClientApprovedAwaitingDeposit:
		view.ApprovedBenefits = visibleBenefits(c.ApprovedBenefits)
	}
	return view
}

// Timeline renders the status timeline: two completed steps for closed
// cases, three steps otherwise.
func Timeline(c domain.Case) []TimelineStep {
	if c.Status.Terminal() {
		return []TimelineStep{{Key: 1, State: StepCompleted}, {Key: 2, State: StepCompleted}}
	}

	submitted := c.Status == domain.CaseStatusSubmitted

	step1 := StepCompleted
	if submitted {
		step1 = StepCurrent
	}

	var step2 StepState
	switch {
	case submitted:
		step2 = StepFuture
	case c.Status == domain.CaseStatusPending || c.Stage == domain.StageFormsSubmitted:
		step2 = StepCurrent
	default:
		step2 = StepCompleted
	}

	step3 := StepFuture
	if isApproved(c) {
		step3 = StepCompleted
	}

	return []TimelineStep{{Key: 1, State: step1}, {Key: 2, State: step2}, {Key: 3, State: step3}}
}

// visibleBenefits keeps only benefit fields with displayable content.
func visibleBenefits(in *domain.ApprovedBenefits) *domain.ApprovedBenefits {
	if in == nil {
		return nil
	}
	out := &domain.ApprovedBenefits{
		RentAssistance: nonBlank(in.RentAssistance),
		FoodStamps:     nonBlank(in.FoodStamps),
		FinancialAid:   nonBlank(in.FinancialAid),
		TotalDeposited: nonBlank(in.TotalDeposited),
	}
	if out.RentAssistance == nil && out.FoodStamps == nil && out.FinancialAid == nil && out.TotalDeposited == nil {
		return nil
	}
	return out
}

func nonBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}
