package domain

import "time"

// CaseChangeType captures what an admin changed on a case.
type CaseChangeType string

const (
	ChangeTypeStatus    CaseChangeType = "STATUS_CHANGE"
	ChangeTypeStage     CaseChangeType = "STAGE_CHANGE"
	ChangeTypeConfirmed CaseChangeType = "CONFIRMED_COMPLETED"
	ChangeTypeRenewed   CaseChangeType = "MARKED_RENEWED"
)

// CaseHistory is an immutable audit trail entry.
type CaseHistory struct {
	ID         string
	CaseID     string
	ActorID    string
	ChangeType CaseChangeType
	OldValue   map[string]any
	NewValue   map[string]any
	CreatedAt  time.Time
}
