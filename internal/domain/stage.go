package domain

// Stage is the position of a case in the administrative processing workflow.
type Stage int

const (
	// StageUnset marks a case no admin has staged yet. It carries no label.
	StageUnset Stage = iota
	StageOpened
	StageInterviewed
	StageFormsSubmitted
	StageClosedByGovernment
	StageApprovedByGovernment
)

var stageNames = map[Stage]string{
	StageUnset:                "unset",
	StageOpened:               "opened",
	StageInterviewed:          "interviewed",
	StageFormsSubmitted:       "forms_submitted",
	StageClosedByGovernment:   "closed_by_government",
	StageApprovedByGovernment: "approved_by_government",
}

var stageLabels = map[Stage]string{
	StageOpened:               "Case opened, awaiting personal interview",
	StageInterviewed:          "Interview done, awaiting form submission",
	StageFormsSubmitted:       "Forms submitted, awaiting government decision",
	StageClosedByGovernment:   "Government closed the case",
	StageApprovedByGovernment: "Approved by the government",
}

// Valid reports whether s is a settable stage (1..5).
func (s Stage) Valid() bool {
	return s >= StageOpened && s <= StageApprovedByGovernment
}

// Terminal reports whether s ends the processing workflow.
func (s Stage) Terminal() bool {
	return s == StageClosedByGovernment || s == StageApprovedByGovernment
}

// Label returns the canonical display text for the stage.
func (s Stage) Label() string {
	return stageLabels[s]
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// Stages lists every settable stage in workflow order.
func Stages() []Stage {
	return []Stage{StageOpened, StageInterviewed, StageFormsSubmitted, StageClosedByGovernment, StageApprovedByGovernment}
}
