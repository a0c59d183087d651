package encounter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/telecare/telecare/internal/domain/followup"
	"github.com/telecare/telecare/internal/domain/inference"
)

// SOAPNote is the structured clinical note emitted for a finished encounter.
type SOAPNote struct {
	Subjective string `json:"subjective"`
	Objective  string `json:"objective"`
	Assessment string `json:"assessment"`
	Plan       string `json:"plan"`
}

// remoteLimitation describes what a video visit cannot examine for one body
// system. The objective section always ends with this fixed enumeration so
// the note is explicit about the modality's limits.
type remoteLimitation struct {
	system      string
	description string
}

var remoteLimitations = []remoteLimitation{
	{inference.SystemCardiovascular, "cardiac auscultation, peripheral pulses, and jugular venous pressure could not be assessed"},
	{inference.SystemRespiratory, "lung auscultation and percussion could not be performed"},
	{inference.SystemGastrointestinal, "abdominal palpation and bowel auscultation could not be performed"},
	{inference.SystemNeurological, "reflexes, muscle tone, and formal gait testing could not be assessed"},
	{inference.SystemMusculoskeletal, "joint palpation and range-of-motion testing could not be performed"},
	{inference.SystemHEENT, "otoscopic, fundoscopic, and oropharyngeal examination could not be performed"},
	{inference.SystemDermatological, "tactile skin examination and dermoscopy could not be performed"},
}

// Vitals in the objective section follow a fixed clinical ordering.
var vitalOrder = []struct{ key, label string }{
	{"blood_pressure", "Blood pressure"},
	{"heart_rate", "Heart rate"},
	{"temperature", "Temperature"},
	{"respiratory_rate", "Respiratory rate"},
	{"oxygen_saturation", "Oxygen saturation"},
	{"weight", "Weight"},
}

// buildNote assembles the four-section note from the encounter metadata and
// the inference result. The follow-up block and compliance notes are appended
// to the plan afterwards by the orchestrator.
func buildNote(enc *TelehealthEncounter, inf inference.Result) *SOAPNote {
	return &SOAPNote{
		Subjective: buildSubjective(inf),
		Objective:  buildObjective(enc, inf),
		Assessment: buildAssessment(inf),
		Plan:       "Plan discussed with patient during the telehealth visit.",
	}
}

func buildSubjective(inf inference.Result) string {
	var lines []string
	if inf.ChiefComplaint != "" {
		lines = append(lines, "Chief complaint: "+inf.ChiefComplaint+".")
	}
	if inf.SymptomDuration != "" {
		lines = append(lines, "Symptom duration: "+inf.SymptomDuration+".")
	}
	if len(inf.Severity) > 0 {
		lines = append(lines, "Reported severity: "+strings.Join(inf.Severity, ", ")+".")
	}
	for _, f := range inf.Findings {
		lines = append(lines, f+".")
	}
	if len(lines) == 0 {
		lines = append(lines, "History of present illness could not be extracted from the visit transcript.")
	}
	return strings.Join(lines, "\n")
}

func buildObjective(enc *TelehealthEncounter, inf inference.Result) string {
	var lines []string

	// Fixed metadata header.
	platform := "telehealth platform"
	if enc.Platform != nil {
		platform = *enc.Platform
	}
	lines = append(lines, fmt.Sprintf("Visit type: telehealth video visit via %s.", platform))
	if enc.ConsentMethod != nil && enc.ConsentTimestamp != nil {
		lines = append(lines, fmt.Sprintf("Telehealth consent: %s consent obtained %s.",
			*enc.ConsentMethod, enc.ConsentTimestamp.UTC().Format(time.RFC3339)))
	} else {
		lines = append(lines, fmt.Sprintf("Telehealth consent: %s.", enc.ConsentStatus))
	}
	quality := "adequate for clinical assessment"
	if enc.ConnectionQuality != nil {
		quality = *enc.ConnectionQuality
	}
	lines = append(lines, "Connection quality: "+quality+".")

	if len(inf.Vitals) > 0 {
		lines = append(lines, "Patient-reported vitals:")
		for _, v := range vitalOrder {
			if val, ok := inf.Vitals[v.key]; ok {
				lines = append(lines, fmt.Sprintf("  %s: %s", v.label, val))
			}
		}
	}

	if len(inf.SystemsAssessed) > 0 {
		var systems []string
		for _, lim := range remoteLimitations {
			if inf.Assessed(lim.system) {
				systems = append(systems, lim.system)
			}
		}
		var extras []string
		for system := range inf.SystemsAssessed {
			if !limitationSystem(system) {
				extras = append(extras, system)
			}
		}
		sort.Strings(extras)
		systems = append(systems, extras...)
		lines = append(lines, "Systems reviewed by history: "+strings.Join(systems, ", ")+".")
	}

	// Fixed trailer.
	lines = append(lines, "Unable to assess remotely:")
	for _, lim := range remoteLimitations {
		lines = append(lines, fmt.Sprintf("  %s: %s", lim.system, lim.description))
	}
	return strings.Join(lines, "\n")
}

func buildAssessment(inf inference.Result) string {
	var lines []string
	if inf.ChiefComplaint != "" {
		lines = append(lines, "Telehealth evaluation of "+inf.ChiefComplaint+".")
	} else {
		lines = append(lines, "Telehealth evaluation; chief complaint not identified from transcript.")
	}
	for _, flag := range inf.EscalationFlags {
		lines = append(lines, "Transcript raised concern for "+flag+".")
	}
	lines = append(lines, fmt.Sprintf("Documentation confidence: %.2f.", inf.Confidence))
	return strings.Join(lines, "\n")
}

// appendFollowupPlan tags the plan with an urgency block when in-person
// follow-up is required.
func (n *SOAPNote) appendFollowupPlan(res followup.Result) {
	if !res.NeedsFollowup {
		return
	}
	var lines []string
	lines = append(lines, fmt.Sprintf("IN-PERSON FOLLOW-UP REQUIRED (urgency: %s)", res.Urgency))
	lines = append(lines, "Reason: "+res.PrimaryReason)
	lines = append(lines, "Timeframe: "+followup.UrgencyTimeline(res.Urgency))
	for _, rec := range res.Recommendations {
		lines = append(lines, "- "+rec)
	}
	n.Plan += "\n" + strings.Join(lines, "\n")
}

// appendComplianceNotes surfaces consent compliance findings in the plan so
// the clinician reviews them alongside the clinical disposition.
func (n *SOAPNote) appendComplianceNotes(issues, warnings []string) {
	if len(issues) == 0 && len(warnings) == 0 {
		return
	}
	var lines []string
	lines = append(lines, "Consent compliance review:")
	for _, issue := range issues {
		lines = append(lines, "- ISSUE: "+issue)
	}
	for _, w := range warnings {
		lines = append(lines, "- advisory: "+w)
	}
	n.Plan += "\n" + strings.Join(lines, "\n")
}

func limitationSystem(system string) bool {
	for _, lim := range remoteLimitations {
		if lim.system == system {
			return true
		}
	}
	return false
}
