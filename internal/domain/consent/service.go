package consent

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultMonthLengthDays is the average month length used to convert
// days-since into month-denominated recency windows. Deployments can override
// it through MONTH_LENGTH_DAYS.
const DefaultMonthLengthDays = 30.44

// minVerbalQuoteLen is the shortest verbal confirmation quote accepted as a
// non-trivial record of consent.
const minVerbalQuoteLen = 10

var refusalPhrases = []string{
	"do not consent",
	"don't consent",
	"do not agree",
	"decline",
	"refuse",
}

// Service evaluates jurisdiction consent rules against claimed consent
// submissions and encounter facts. It is stateless and safe for concurrent
// use across encounters.
type Service struct {
	logger          zerolog.Logger
	monthLengthDays float64
}

func NewService(logger zerolog.Logger, monthLengthDays float64) *Service {
	if monthLengthDays <= 0 {
		monthLengthDays = DefaultMonthLengthDays
	}
	return &Service{logger: logger, monthLengthDays: monthLengthDays}
}

// GetRequirements returns the consent requirement for a jurisdiction. Unknown
// jurisdictions degrade to the conservative default and log a warning; the
// lookup never fails.
func (s *Service) GetRequirements(jurisdiction string) StateConsentRequirement {
	code := strings.ToUpper(strings.TrimSpace(jurisdiction))
	req, ok := requirements[code]
	if !ok {
		s.logger.Warn().Str("jurisdiction", jurisdiction).Msg("unknown jurisdiction, applying default consent rule")
		return defaultRequirement
	}
	return req
}

// DocumentConsent validates a claimed consent submission against the
// jurisdiction's rules. Recording-consent rules never block; they surface as
// advisory notes only.
func (s *Service) DocumentConsent(jurisdiction string, modality ConsentModality, verbalText string) ConsentResult {
	req := s.GetRequirements(jurisdiction)

	result := ConsentResult{Status: StatusObtained}

	if modality == ModalityVerbal && containsRefusal(verbalText) {
		return ConsentResult{
			Status: StatusDeclined,
			Notes:  []string{"Patient's confirmation statement indicates refusal of telehealth consent."},
		}
	}

	switch modality {
	case ModalityWritten:
		// Written consent meets or exceeds every modality requirement.
	case ModalityVerbal:
		if req.Modality == ModalityWritten {
			result.MissingElements = append(result.MissingElements,
				fmt.Sprintf("jurisdiction %s requires written consent; verbal consent was supplied", req.Jurisdiction))
		}
		if len(strings.TrimSpace(verbalText)) < minVerbalQuoteLen {
			result.MissingElements = append(result.MissingElements,
				"verbal consent requires a confirmation quote of at least 10 characters")
		}
	default:
		result.MissingElements = append(result.MissingElements,
			fmt.Sprintf("unrecognized consent modality %q", modality))
	}

	if req.Timing == TimingBeforeVisit {
		result.Notes = append(result.Notes,
			fmt.Sprintf("jurisdiction %s requires consent to be captured before the visit begins", req.Jurisdiction))
	}
	if req.Recording == RecordingAllParty {
		result.Notes = append(result.Notes,
			fmt.Sprintf("jurisdiction %s requires all-party consent before recording the visit", req.Jurisdiction))
	}

	if len(result.MissingElements) > 0 {
		result.Status = StatusIncomplete
	}
	return result
}

// VerifyCompliance re-validates, at transcript-processing time, that consent
// was obtained and that the jurisdiction's relationship rules still hold.
// Geographic and recording advisories surface as warnings, never issues.
func (s *Service) VerifyCompliance(facts EncounterFacts) ComplianceResult {
	req := s.GetRequirements(facts.Jurisdiction)

	var result ComplianceResult

	if facts.ConsentStatus != StatusObtained {
		result.Issues = append(result.Issues,
			fmt.Sprintf("consent not documented: status is %q", facts.ConsentStatus))
	}

	if req.EstablishedRelationship && !facts.EstablishedPatient {
		result.Issues = append(result.Issues,
			fmt.Sprintf("jurisdiction %s requires an established patient relationship; none documented", req.Jurisdiction))
	}

	if req.PriorInPerson {
		if issue := s.priorVisitIssue(req, facts.PriorInPersonVisit); issue != "" {
			result.Issues = append(result.Issues, issue)
		}
	}

	if req.GeographicRestriction && strings.EqualFold(facts.InsuranceType, req.RestrictedInsurance) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("jurisdiction %s restricts telehealth originating sites for %s patients; verify patient location", req.Jurisdiction, req.RestrictedInsurance))
	}
	if req.Recording == RecordingAllParty {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("jurisdiction %s is an all-party recording consent state; recording requires explicit consent from all participants", req.Jurisdiction))
	}

	result.Compliant = len(result.Issues) == 0
	return result
}

// EligibilityIssues evaluates the jurisdiction eligibility policy at
// encounter start. Issues are non-fatal annotations; geoRestricted reports
// whether the geographic-restriction flag should be set on the encounter.
func (s *Service) EligibilityIssues(facts EncounterFacts) (issues []string, geoRestricted bool) {
	req := s.GetRequirements(facts.Jurisdiction)

	if req.EstablishedRelationship && !facts.EstablishedPatient {
		issues = append(issues,
			fmt.Sprintf("jurisdiction %s requires an established patient relationship for telehealth; none documented", req.Jurisdiction))
	}

	if req.PriorInPerson {
		if issue := s.priorVisitIssue(req, facts.PriorInPersonVisit); issue != "" {
			issues = append(issues, issue)
		}
	}

	if req.GeographicRestriction && strings.EqualFold(facts.InsuranceType, req.RestrictedInsurance) {
		geoRestricted = true
		issues = append(issues,
			fmt.Sprintf("informational: jurisdiction %s restricts telehealth originating sites for %s patients", req.Jurisdiction, req.RestrictedInsurance))
	}

	if req.Recording == RecordingAllParty {
		issues = append(issues,
			fmt.Sprintf("informational: jurisdiction %s requires explicit consent from all parties before recording", req.Jurisdiction))
	}

	return issues, geoRestricted
}

// MonthsSince converts elapsed time into month units using the configured
// average month length.
func (s *Service) MonthsSince(t time.Time) float64 {
	days := time.Since(t).Hours() / 24
	return days / s.monthLengthDays
}

func (s *Service) priorVisitIssue(req StateConsentRequirement, priorVisit *time.Time) string {
	if priorVisit == nil {
		return fmt.Sprintf("jurisdiction %s requires an in-person visit within the last %d months; none documented",
			req.Jurisdiction, req.PriorInPersonWindowMonths)
	}
	months := s.MonthsSince(*priorVisit)
	if months > float64(req.PriorInPersonWindowMonths) {
		return fmt.Sprintf("jurisdiction %s requires an in-person visit within the last %d months; last visit was %.1f months ago",
			req.Jurisdiction, req.PriorInPersonWindowMonths, months)
	}
	return ""
}

func containsRefusal(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
