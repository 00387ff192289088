package events

import (
	"time"

	"github.com/spec-kit/benefits-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCaseCreated            EventType = "case_created"
	EventCaseStatusChanged      EventType = "case_status_changed"
	EventCaseStageChanged       EventType = "case_stage_changed"
	EventCaseConfirmedCompleted EventType = "case_confirmed_completed"
	EventCaseRenewed            EventType = "case_renewed"
	EventCaseDeleted            EventType = "case_deleted"
	EventUserDemoted            EventType = "user_demoted"
	EventRenewalDue             EventType = "renewal_due"
)

// AllEventTypes lists every event type, for subscribers that want them all.
func AllEventTypes() []EventType {
	return []EventType{
		EventCaseCreated,
		EventCaseStatusChanged,
		EventCaseStageChanged,
		EventCaseConfirmedCompleted,
		EventCaseRenewed,
		EventCaseDeleted,
		EventUserDemoted,
		EventRenewalDue,
	}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	CaseID    string      `json:"case_id,omitempty"`
	UserID    string      `json:"user_id,omitempty"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// CaseCreatedPayload payload.
type CaseCreatedPayload struct {
	BenefitType domain.BenefitType `json:"benefit_type"`
	RenewalDate *time.Time         `json:"renewal_date,omitempty"`
}

// CaseStatusChangedPayload payload.
type CaseStatusChangedPayload struct {
	OldStatus domain.CaseStatus `json:"old_status"`
	NewStatus domain.CaseStatus `json:"new_status"`
}

// CaseStageChangedPayload payload.
type CaseStageChangedPayload struct {
	OldStage domain.Stage `json:"old_stage"`
	NewStage domain.Stage `json:"new_stage"`
	Label    string       `json:"label"`
	Forced   bool         `json:"forced,omitempty"`
}

// RenewalDuePayload payload.
type RenewalDuePayload struct {
	Tier        string     `json:"tier"`
	RenewalDate *time.Time `json:"renewal_date,omitempty"`
	OwnerEmail  string     `json:"owner_email,omitempty"`
}
