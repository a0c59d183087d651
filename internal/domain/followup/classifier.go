// Package followup classifies completed telehealth encounters into in-person
// follow-up tiers using a strict priority cascade: emergent findings win
// outright, urgent findings are collected together, and routine signals are
// aggregated from several sources before being capped.
package followup

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/telecare/telecare/internal/domain/inference"
)

// Urgency is the follow-up tier assigned to an encounter.
type Urgency string

const (
	UrgencyEmergent Urgency = "emergent"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyRoutine  Urgency = "routine"
	UrgencyNone     Urgency = ""
)

const (
	maxReasons         = 3
	maxRecommendations = 5
)

// Result is the outcome of classifying one encounter.
type Result struct {
	NeedsFollowup   bool     `json:"needs_followup"`
	Urgency         Urgency  `json:"urgency,omitempty"`
	PrimaryReason   string   `json:"primary_reason,omitempty"`
	Reasons         []string `json:"reasons,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	// TriggeredFlags is the uncapped audit trail of every reason that fired,
	// including those dropped by the reason cap.
	TriggeredFlags []string `json:"triggered_flags,omitempty"`
}

// Classifier applies the triage cascade. It is stateless and safe for
// concurrent use.
type Classifier struct {
	logger zerolog.Logger
}

func NewClassifier(logger zerolog.Logger) *Classifier {
	return &Classifier{logger: logger.With().Str("component", "followup").Logger()}
}

// Classify runs the priority cascade over the raw transcript and the exam
// inference result. Tiers are mutually exclusive: the highest tier with any
// match determines the outcome.
func (c *Classifier) Classify(transcript, specialty string, inf inference.Result) Result {
	lower := strings.ToLower(transcript)
	spec := strings.ToLower(strings.TrimSpace(specialty))

	// Tier 1: emergent. First match wins, nothing else is considered.
	for _, rule := range emergentRules {
		if strings.Contains(lower, rule.phrase) {
			c.logger.Warn().Str("reason", rule.reason).Msg("emergent finding")
			return Result{
				NeedsFollowup:   true,
				Urgency:         UrgencyEmergent,
				PrimaryReason:   rule.reason,
				Reasons:         []string{rule.reason},
				Recommendations: []string{rule.recommendation},
				TriggeredFlags:  []string{rule.reason},
			}
		}
	}

	// Tier 2: urgent. All matches are collected.
	var reasons, recs []string
	for _, rule := range urgentRules {
		if strings.Contains(lower, rule.phrase) {
			reasons = append(reasons, rule.reason)
			recs = appendUnique(recs, rule.recommendation)
		}
	}
	if len(reasons) > 0 {
		// Urgent matches are never trimmed; the caps apply to the routine
		// aggregation only.
		return Result{
			NeedsFollowup:   true,
			Urgency:         UrgencyUrgent,
			PrimaryReason:   reasons[0],
			Reasons:         reasons,
			Recommendations: recs,
			TriggeredFlags:  append([]string(nil), reasons...),
		}
	}

	// Tier 3: routine. Four signal sources are aggregated.
	urgency := UrgencyRoutine
	for _, rule := range routineRules {
		if strings.Contains(lower, rule.phrase) {
			reasons = append(reasons, rule.reason)
			recs = appendUnique(recs, rule.recommendation)
		}
	}
	for _, system := range specialtyRelevantSystems[spec] {
		if inf.Assessed(system) || !symptomaticallyRelevant(lower, system) {
			continue
		}
		reasons = append(reasons, fmt.Sprintf("%s system could not be assessed remotely despite suggestive symptoms", system))
		recs = appendUnique(recs, fmt.Sprintf("In-person %s examination", system))
	}
	if override, ok := specialtyOverrides[spec]; ok && !telehealthTolerant[spec] {
		for _, kw := range override.keywords {
			if strings.Contains(lower, kw) {
				reasons = append(reasons, override.reason)
				recs = appendUnique(recs, override.recommendation)
				if override.urgency != UrgencyNone {
					urgency = override.urgency
				}
				break
			}
		}
	}
	for _, flag := range inf.EscalationFlags {
		reasons = append(reasons, flag)
		recs = appendUnique(recs, "In-person evaluation recommended based on reported symptoms")
	}

	if len(reasons) == 0 {
		return Result{NeedsFollowup: false, Urgency: UrgencyNone}
	}
	return capped(urgency, reasons, recs)
}

// AppropriatenessResult is the scheduler-facing verdict on whether a chief
// complaint is suitable for a video visit.
type AppropriatenessResult struct {
	Appropriate bool   `json:"appropriate"`
	Matched     string `json:"matched_keyword,omitempty"`
	Rationale   string `json:"rationale"`
}

// TelehealthAppropriate classifies a chief complaint against both keyword
// catalogues. A match in the inappropriate catalogue always wins;
// an unrecognized complaint is treated as appropriate.
func (c *Classifier) TelehealthAppropriate(chiefComplaint string) AppropriatenessResult {
	lower := strings.ToLower(chiefComplaint)
	for _, kw := range inappropriateComplaints {
		if strings.Contains(lower, kw) {
			return AppropriatenessResult{
				Matched:   kw,
				Rationale: "complaint requires hands-on or emergency evaluation",
			}
		}
	}
	for _, kw := range appropriateComplaints {
		if strings.Contains(lower, kw) {
			return AppropriatenessResult{
				Appropriate: true,
				Matched:     kw,
				Rationale:   "complaint is routinely managed by video visit",
			}
		}
	}
	return AppropriatenessResult{
		Appropriate: true,
		Rationale:   "no contraindicating complaint identified",
	}
}

// UrgencyTimeline renders the patient-facing timeframe for a tier.
func UrgencyTimeline(u Urgency) string {
	switch u {
	case UrgencyEmergent:
		return "Immediately - patient directed to emergency services"
	case UrgencyUrgent:
		return "Within 48-72 hours"
	case UrgencyRoutine:
		return "Within 2-4 weeks"
	default:
		return "No in-person follow-up required"
	}
}

func symptomaticallyRelevant(lowerTranscript, system string) bool {
	for _, cue := range systemSymptomCues[system] {
		if strings.Contains(lowerTranscript, cue) {
			return true
		}
	}
	return false
}

func capped(u Urgency, reasons, recs []string) Result {
	res := Result{
		NeedsFollowup:  true,
		Urgency:        u,
		PrimaryReason:  reasons[0],
		TriggeredFlags: append([]string(nil), reasons...),
	}
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	res.Reasons = reasons
	res.Recommendations = recs
	return res
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
