package encounter

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/telecare/telecare/internal/domain/consent"
	"github.com/telecare/telecare/internal/domain/followup"
)

func TestToRecord(t *testing.T) {
	started := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	ended := started.Add(22 * time.Minute)
	minutes := 22
	enc := &TelehealthEncounter{
		ID:              uuid.New(),
		TenantID:        "clinic_west",
		PhysicianRef:    "physician-001",
		PatientRef:      "patient-001",
		Specialty:       "cardiology",
		Jurisdiction:    "TX",
		Platform:        strPtr("acme-video"),
		VisitState:      StateFlaggedInPerson,
		ConsentStatus:   consent.StatusObtained,
		ConsentMethod:   strPtr("written"),
		NeedsFollowup:   true,
		FollowupUrgency: followup.UrgencyUrgent,
		FollowupReason:  strPtr("chest pain requiring in-person cardiac evaluation"),
		Recommendations: []string{"ECG", "In-person visit"},
		ScheduledAt:     started,
		StartedAt:       &started,
		EndedAt:         &ended,
		DurationMinutes: &minutes,
		Note:            &SOAPNote{Subjective: "s", Objective: "o", Assessment: "a", Plan: "p"},
	}

	record := enc.ToRecord()

	want := map[string]string{
		"tenant_id":        "clinic_west",
		"jurisdiction":     "TX",
		"visit_state":      "flagged_inperson",
		"consent_status":   "obtained",
		"consent_method":   "written",
		"needs_followup":   "true",
		"followup_urgency": "urgent",
		"recommendations":  "ECG; In-person visit",
		"duration_minutes": "22",
		"note_plan":        "p",
	}
	for key, val := range want {
		if record[key] != val {
			t.Errorf("record[%q] = %q, want %q", key, record[key], val)
		}
	}
	if record["id"] != enc.ID.String() {
		t.Errorf("record id mismatch: %q", record["id"])
	}
	if record["started_at"] != "2026-03-14T10:00:00Z" {
		t.Errorf("unexpected started_at: %q", record["started_at"])
	}
}

func TestToRecord_OmitsEmptyOptionals(t *testing.T) {
	enc := &TelehealthEncounter{
		ID:            uuid.New(),
		PatientRef:    "patient-001",
		PhysicianRef:  "physician-001",
		Jurisdiction:  "OH",
		VisitState:    StateConsentPending,
		ConsentStatus: consent.StatusPending,
		ScheduledAt:   time.Now(),
	}

	record := enc.ToRecord()

	for _, key := range []string{
		"consent_method", "followup_urgency", "followup_reason",
		"recommendations", "note_plan", "cancel_reason", "failure_details",
	} {
		if _, ok := record[key]; ok {
			t.Errorf("record should omit empty %q", key)
		}
	}
}

func TestConsentFacts(t *testing.T) {
	prior := time.Now().AddDate(0, -3, 0)
	enc := &TelehealthEncounter{
		Jurisdiction:       "NY",
		ConsentStatus:      consent.StatusObtained,
		EstablishedPatient: true,
		PriorInPersonVisit: &prior,
		InsuranceType:      strPtr("medicaid"),
	}

	facts := enc.ConsentFacts()
	if facts.Jurisdiction != "NY" || facts.ConsentStatus != consent.StatusObtained {
		t.Errorf("unexpected facts: %+v", facts)
	}
	if !facts.EstablishedPatient || facts.PriorInPersonVisit != &prior {
		t.Errorf("patient facts not carried over: %+v", facts)
	}
	if facts.InsuranceType != "medicaid" {
		t.Errorf("insurance type not carried over: %q", facts.InsuranceType)
	}
}
