package encounter

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/telecare/telecare/internal/domain/consent"
	"github.com/telecare/telecare/internal/domain/followup"
	"github.com/telecare/telecare/internal/domain/inference"
)

// TelehealthEncounter maps to the telehealth_encounter table. One record per
// clinical visit; mutated exclusively by the Service through its pipeline
// steps.
type TelehealthEncounter struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	TenantID     string     `db:"tenant_id" json:"tenant_id"`
	PhysicianRef string     `db:"physician_ref" json:"physician_ref"`
	PatientRef   string     `db:"patient_ref" json:"patient_ref"`
	Specialty    string     `db:"specialty" json:"specialty"`
	Jurisdiction string     `db:"jurisdiction" json:"jurisdiction"`
	Platform     *string    `db:"platform" json:"platform,omitempty"`
	VisitState   VisitState `db:"visit_state" json:"visit_state"`

	ConsentStatus     consent.ConsentStatus `db:"consent_status" json:"consent_status"`
	ConsentMethod     *string               `db:"consent_method" json:"consent_method,omitempty"`
	ConsentTimestamp  *time.Time            `db:"consent_timestamp" json:"consent_timestamp,omitempty"`
	ConsentVerbalText *string               `db:"consent_verbal_text" json:"consent_verbal_text,omitempty"`

	Transcript string              `db:"transcript" json:"transcript,omitempty"`
	Segments   []inference.Segment `db:"segments" json:"segments,omitempty"`
	Inference  *inference.Result   `db:"inference" json:"inference,omitempty"`
	Note       *SOAPNote           `db:"note" json:"note,omitempty"`

	NeedsFollowup   bool             `db:"needs_followup" json:"needs_followup"`
	FollowupUrgency followup.Urgency `db:"followup_urgency" json:"followup_urgency,omitempty"`
	FollowupReason  *string          `db:"followup_reason" json:"followup_reason,omitempty"`
	Recommendations []string         `db:"recommendations" json:"recommendations,omitempty"`

	EligibilityIssues []string `db:"eligibility_issues" json:"eligibility_issues,omitempty"`
	ComplianceIssues  []string `db:"compliance_issues" json:"compliance_issues,omitempty"`

	EstablishedPatient    bool       `db:"established_patient" json:"established_patient"`
	PriorInPersonVisit    *time.Time `db:"prior_inperson_visit" json:"prior_inperson_visit,omitempty"`
	InsuranceType         *string    `db:"insurance_type" json:"insurance_type,omitempty"`
	GeographicRestriction bool       `db:"geographic_restriction" json:"geographic_restriction"`

	ConnectionQuality *string `db:"connection_quality" json:"connection_quality,omitempty"`

	ScheduledAt     time.Time  `db:"scheduled_at" json:"scheduled_at"`
	StartedAt       *time.Time `db:"started_at" json:"started_at,omitempty"`
	EndedAt         *time.Time `db:"ended_at" json:"ended_at,omitempty"`
	DurationMinutes *int       `db:"duration_minutes" json:"duration_minutes,omitempty"`

	CancelReason   *string `db:"cancel_reason" json:"cancel_reason,omitempty"`
	FailureDetails *string `db:"failure_details" json:"failure_details,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ConsentFacts is the narrow view the consent evaluator works against.
func (e *TelehealthEncounter) ConsentFacts() consent.EncounterFacts {
	return consent.EncounterFacts{
		Jurisdiction:       e.Jurisdiction,
		ConsentStatus:      e.ConsentStatus,
		EstablishedPatient: e.EstablishedPatient,
		PriorInPersonVisit: e.PriorInPersonVisit,
		InsuranceType:      strPtrVal(e.InsuranceType),
	}
}

// ToRecord flattens the encounter into a key/value structure for persistence
// or display by external collaborators.
func (e *TelehealthEncounter) ToRecord() map[string]string {
	record := map[string]string{
		"id":                     e.ID.String(),
		"tenant_id":              e.TenantID,
		"physician_ref":          e.PhysicianRef,
		"patient_ref":            e.PatientRef,
		"specialty":              e.Specialty,
		"jurisdiction":           e.Jurisdiction,
		"visit_state":            string(e.VisitState),
		"consent_status":         string(e.ConsentStatus),
		"needs_followup":         fmt.Sprintf("%t", e.NeedsFollowup),
		"geographic_restriction": fmt.Sprintf("%t", e.GeographicRestriction),
		"established_patient":    fmt.Sprintf("%t", e.EstablishedPatient),
		"scheduled_at":           e.ScheduledAt.UTC().Format(time.RFC3339),
	}
	if e.Platform != nil {
		record["platform"] = *e.Platform
	}
	if e.ConsentMethod != nil {
		record["consent_method"] = *e.ConsentMethod
	}
	if e.ConsentTimestamp != nil {
		record["consent_timestamp"] = e.ConsentTimestamp.UTC().Format(time.RFC3339)
	}
	if e.FollowupUrgency != followup.UrgencyNone {
		record["followup_urgency"] = string(e.FollowupUrgency)
	}
	if e.FollowupReason != nil {
		record["followup_reason"] = *e.FollowupReason
	}
	if len(e.Recommendations) > 0 {
		record["recommendations"] = strings.Join(e.Recommendations, "; ")
	}
	if len(e.EligibilityIssues) > 0 {
		record["eligibility_issues"] = strings.Join(e.EligibilityIssues, "; ")
	}
	if len(e.ComplianceIssues) > 0 {
		record["compliance_issues"] = strings.Join(e.ComplianceIssues, "; ")
	}
	if e.InsuranceType != nil {
		record["insurance_type"] = *e.InsuranceType
	}
	if e.PriorInPersonVisit != nil {
		record["prior_inperson_visit"] = e.PriorInPersonVisit.UTC().Format(time.RFC3339)
	}
	if e.StartedAt != nil {
		record["started_at"] = e.StartedAt.UTC().Format(time.RFC3339)
	}
	if e.EndedAt != nil {
		record["ended_at"] = e.EndedAt.UTC().Format(time.RFC3339)
	}
	if e.DurationMinutes != nil {
		record["duration_minutes"] = fmt.Sprintf("%d", *e.DurationMinutes)
	}
	if e.Note != nil {
		record["note_subjective"] = e.Note.Subjective
		record["note_objective"] = e.Note.Objective
		record["note_assessment"] = e.Note.Assessment
		record["note_plan"] = e.Note.Plan
	}
	if e.Inference != nil {
		record["inference_confidence"] = fmt.Sprintf("%.2f", e.Inference.Confidence)
	}
	if e.CancelReason != nil {
		record["cancel_reason"] = *e.CancelReason
	}
	if e.FailureDetails != nil {
		record["failure_details"] = *e.FailureDetails
	}
	return record
}

// StatusChange maps to the encounter_status_history table.
type StatusChange struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	EncounterID uuid.UUID  `db:"encounter_id" json:"encounter_id"`
	FromState   VisitState `db:"from_state" json:"from_state"`
	ToState     VisitState `db:"to_state" json:"to_state"`
	ChangedAt   time.Time  `db:"changed_at" json:"changed_at"`
}

func strPtrVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string { return &s }
