package consent

import "strings"

const languagePreamble = "This visit will be conducted by video or telephone rather than in person. " +
	"Telehealth has limitations: your provider cannot perform a hands-on physical examination, " +
	"and you may be asked to come in for an in-person visit if one is clinically necessary. " +
	"You may withdraw consent and stop the visit at any time without affecting your right to future care. " +
	"Technical failures may interrupt the visit; if that happens your provider's office will contact you to reschedule."

// jurisdictionClauses carries the clause appended to the generic preamble for
// jurisdictions whose statute requires specific language.
var jurisdictionClauses = map[string]string{
	"CA": "California law requires all parties to consent before any portion of this visit is recorded.",
	"CT": "Connecticut requires your written or recorded verbal consent at your first telehealth visit, and requires all-party consent for recording.",
	"KY": "Kentucky requires your informed consent to be obtained and documented before telehealth services are provided.",
	"NE": "Nebraska requires that you receive a written statement of your rights before your first telehealth consultation.",
	"NY": "New York payer programs may require that you have been seen in person within the preceding twelve months.",
	"RI": "Rhode Island requires your written consent before telehealth services are provided.",
	"TX": "Texas requires that your provider either has an established relationship with you or establishes one in accordance with state rules, and that you are informed of how to file a complaint with the Texas Medical Board.",
}

// Language returns the human-readable consent script for a jurisdiction: the
// generic preamble plus any jurisdiction-specific clause. Calls through the
// rule table so unknown jurisdictions fall back gracefully.
func (s *Service) Language(jurisdiction string) string {
	req := s.GetRequirements(jurisdiction)

	parts := []string{languagePreamble}
	if clause, ok := jurisdictionClauses[req.Jurisdiction]; ok {
		parts = append(parts, clause)
	}
	switch req.Modality {
	case ModalityWritten:
		parts = append(parts, "Your jurisdiction requires written consent; please review and sign the consent form before the visit begins.")
	case ModalityVerbal:
		parts = append(parts, "Please confirm verbally that you understand and consent to receiving care through telehealth.")
	default:
		parts = append(parts, "Please confirm, verbally or in writing, that you understand and consent to receiving care through telehealth.")
	}
	return strings.Join(parts, " ")
}
