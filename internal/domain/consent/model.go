package consent

import "time"

// ConsentStatus tracks where consent documentation stands for an encounter.
type ConsentStatus string

const (
	StatusPending    ConsentStatus = "pending"
	StatusObtained   ConsentStatus = "obtained"
	StatusIncomplete ConsentStatus = "incomplete"
	StatusDeclined   ConsentStatus = "declined"
)

// ConsentResult is the outcome of documenting a consent submission. Status is
// StatusObtained only when every applicable jurisdiction rule is satisfied;
// otherwise MissingElements enumerates each unmet rule so a UI can prompt the
// clinician to remediate.
type ConsentResult struct {
	Status          ConsentStatus `json:"status"`
	MissingElements []string      `json:"missing_elements,omitempty"`
	Notes           []string      `json:"notes,omitempty"`
}

// ComplianceResult is the outcome of re-validating jurisdiction rules at
// transcript-processing time. Compliant is true iff Issues is empty; Warnings
// carry advisories that never block.
type ComplianceResult struct {
	Compliant bool     `json:"compliant"`
	Issues    []string `json:"issues,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// EncounterFacts carries the patient-specific facts a jurisdiction rule is
// merged against. The encounter package owns the encounter record; this
// narrow view keeps the evaluator free of that dependency.
type EncounterFacts struct {
	Jurisdiction       string
	ConsentStatus      ConsentStatus
	EstablishedPatient bool
	PriorInPersonVisit *time.Time
	InsuranceType      string
}
