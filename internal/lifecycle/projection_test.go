package lifecycle

import (
	"testing"

	"github.com/spec-kit/benefits-service/internal/domain"
)

func TestClientStatusPrecedence(t *testing.T) {
	cases := []struct {
		name string
		c    domain.Case
		want ClientStatus
	}{
		{
			name: "rejected beats stage",
			c:    domain.Case{Status: domain.CaseStatusRejected, Stage: domain.StageInterviewed},
			want: ClientClosedRejected,
		},
		{
			name: "closed beats confirmation",
			c:    domain.Case{Status: domain.CaseStatusClosed, AdminConfirmedCompleted: true},
			want: ClientClosedRejected,
		},
		{
			name: "confirmation beats approval",
			c:    domain.Case{Status: domain.CaseStatusApproved, AdminConfirmedCompleted: true},
			want: ClientNeedsRenewal,
		},
		{
			name: "forms submitted",
			c:    domain.Case{Status: domain.CaseStatusApproved, Stage: domain.StageFormsSubmitted},
			want: ClientFormsSubmittedAwaitGov,
		},
		{
			name: "early stages",
			c:    domain.Case{Status: domain.CaseStatusApproved, Stage: domain.StageOpened},
			want: ClientInApprovalProcess,
		},
		{
			name: "approved status with unset stage",
			c:    domain.Case{Status: domain.CaseStatusApproved},
			want: ClientApprovedAwaitingDeposit,
		},
		{
			name: "approved stage",
			c:    domain.Case{Status: domain.CaseStatusPending, Stage: domain.StageApprovedByGovernment},
			want: ClientApprovedAwaitingDeposit,
		},
		{
			name: "pending",
			c:    domain.Case{Status: domain.CaseStatusPending},
			want: ClientInProgress,
		},
		{
			name: "government closed without status change",
			c:    domain.Case{Status: domain.CaseStatusPending, Stage: domain.StageClosedByGovernment},
			want: ClientInProgress,
		},
		{
			name: "fresh submission",
			c:    domain.Case{Status: domain.CaseStatusSubmitted},
			want: ClientInApprovalProcess,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClientStatusOf(tc.c); got != tc.want {
				t.Fatalf("ClientStatusOf()=%q want=%q", got, tc.want)
			}
		})
	}
}

func TestProjectionAttachesApprovedBenefits(t *testing.T) {
	c, err := AdvanceStage(domain.Case{Status: domain.CaseStatusPending}, domain.StageApprovedByGovernment, StageExtra{
		ApprovedBenefits: &domain.ApprovedBenefits{RentAssistance: strPtr("500"), FoodStamps: strPtr("  ")},
	})
	if err != nil {
		t.Fatalf("AdvanceStage: %v", err)
	}

	view := ProjectClientStatus(c, refNow)
	if view.Status != ClientApprovedAwaitingDeposit {
		t.Fatalf("status: got %q", view.Status)
	}
	if view.Label != "Approved, awaiting government deposit" {
		t.Fatalf("label: got %q", view.Label)
	}
	b := view.ApprovedBenefits
	if b == nil || b.RentAssistance == nil || *b.RentAssistance != "500" {
		t.Fatalf("rent assistance missing: %+v", b)
	}
	if b.FoodStamps != nil || b.FinancialAid != nil || b.TotalDeposited != nil {
		t.Fatalf("only rent assistance should be visible: %+v", b)
	}
}

func TestProjectionSurfacesRejectionReason(t *testing.T) {
	reason := "gov closed file"
	view := ProjectClientStatus(domain.Case{Status: domain.CaseStatusRejected, Stage: domain.StageInterviewed, RejectionReason: &reason}, refNow)
	if view.Status != ClientClosedRejected {
		t.Fatalf("status: got %q", view.Status)
	}
	if view.RejectionReason == nil || *view.RejectionReason != reason {
		t.Fatalf("reason: got %v", view.RejectionReason)
	}
	if view.ApprovedBenefits != nil {
		t.Fatalf("no benefits expected on a closed case")
	}
}

func TestTimeline(t *testing.T) {
	states := func(steps []TimelineStep) []StepState {
		out := make([]StepState, len(steps))
		for i, s := range steps {
			out[i] = s.State
		}
		return out
	}

	cases := []struct {
		name string
		c    domain.Case
		want []StepState
	}{
		{"rejected", domain.Case{Status: domain.CaseStatusRejected}, []StepState{StepCompleted, StepCompleted}},
		{"submitted", domain.Case{Status: domain.CaseStatusSubmitted, Stage: domain.StageFormsSubmitted}, []StepState{StepCurrent, StepFuture, StepFuture}},
		{"pending", domain.Case{Status: domain.CaseStatusPending}, []StepState{StepCompleted, StepCurrent, StepFuture}},
		{"approved", domain.Case{Status: domain.CaseStatusApproved}, []StepState{StepCompleted, StepCompleted, StepCompleted}},
		{"approved stage while pending", domain.Case{Status: domain.CaseStatusPending, Stage: domain.StageApprovedByGovernment}, []StepState{StepCompleted, StepCurrent, StepCompleted}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := states(Timeline(tc.c))
			if len(got) != len(tc.want) {
				t.Fatalf("steps: got %v want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("step %d: got %v want %v", i+1, got, tc.want)
				}
			}
		})
	}
}
