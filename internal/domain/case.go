package domain

import "time"

// BenefitType identifies which benefit track a case was submitted under.
type BenefitType string

const (
	BenefitFamily     BenefitType = "family"
	BenefitIndividual BenefitType = "individual"
	BenefitMinor      BenefitType = "minor"
)

// Valid reports whether b is one of the known benefit types.
func (b BenefitType) Valid() bool {
	switch b {
	case BenefitFamily, BenefitIndividual, BenefitMinor:
		return true
	}
	return false
}

// CaseStatus is the coarse, admin-settable status of a case.
type CaseStatus string

const (
	CaseStatusSubmitted CaseStatus = "submitted"
	CaseStatusPending   CaseStatus = "pending"
	CaseStatusApproved  CaseStatus = "approved"
	CaseStatusRejected  CaseStatus = "rejected"
	CaseStatusClosed    CaseStatus = "closed"
)

// Valid reports whether s is one of the enumerated statuses.
func (s CaseStatus) Valid() bool {
	switch s {
	case CaseStatusSubmitted, CaseStatusPending, CaseStatusApproved, CaseStatusRejected, CaseStatusClosed:
		return true
	}
	return false
}

// Terminal reports whether the status ends the case from the client's view.
func (s CaseStatus) Terminal() bool {
	return s == CaseStatusRejected || s == CaseStatusClosed
}

// ApprovedBenefits holds the grants attached when the government approves a case.
// A nil field means the amount is not known yet.
type ApprovedBenefits struct {
	RentAssistance *string `json:"rentAssistance,omitempty"`
	FoodStamps     *string `json:"foodStamps,omitempty"`
	FinancialAid   *string `json:"financialAid,omitempty"`
	TotalDeposited *string `json:"totalDeposited,omitempty"`
}

// Case is the aggregate for one benefit application.
type Case struct {
	ID                      string
	OwnerID                 string
	BenefitType             BenefitType
	Status                  CaseStatus
	Stage                   Stage
	DetailedAdminStatus     string
	RejectionReason         *string
	ApprovedBenefits        *ApprovedBenefits
	RenewalDate             *time.Time
	AdminConfirmedCompleted bool
	IsRenewed               bool
	UserName                string
	UserEmail               string
	UserPhone               string
	Address                 string
	Details                 map[string]any
	Attachments             []string
	SignatoryName           string
	SignatureImage          string
	DocumentType            string
	Version                 int64
	CreatedAt               time.Time
	UpdatedAt               time.Time
}
