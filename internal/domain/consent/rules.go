package consent

// ConsentModality is how consent was (or must be) captured.
type ConsentModality string

const (
	ModalityWritten ConsentModality = "written"
	ModalityVerbal  ConsentModality = "verbal"
	ModalityEither  ConsentModality = "either"
)

// ConsentTiming is when consent must be captured relative to the visit.
type ConsentTiming string

const (
	TimingBeforeVisit ConsentTiming = "before-visit"
	TimingDuringVisit ConsentTiming = "during-visit"
	TimingEither      ConsentTiming = "either"
)

// RecordingConsent is the recording-consent regime of a jurisdiction.
type RecordingConsent string

const (
	RecordingSingleParty RecordingConsent = "single-party"
	RecordingAllParty    RecordingConsent = "all-party"
)

// StateConsentRequirement describes the telehealth consent rules of one
// jurisdiction. Entries are immutable; the table is loaded once at process
// start and shared read-only across encounters.
type StateConsentRequirement struct {
	Jurisdiction              string           `json:"jurisdiction"`
	Modality                  ConsentModality  `json:"modality"`
	Timing                    ConsentTiming    `json:"timing"`
	EstablishedRelationship   bool             `json:"established_relationship"`
	PriorInPerson             bool             `json:"prior_in_person"`
	PriorInPersonWindowMonths int              `json:"prior_in_person_window_months,omitempty"`
	Recording                 RecordingConsent `json:"recording"`
	GeographicRestriction     bool             `json:"geographic_restriction"`
	RestrictedInsurance       string           `json:"restricted_insurance,omitempty"`
	Notes                     string           `json:"notes,omitempty"`
}

// defaultRequirement is the conservative fallback for unknown jurisdictions:
// verbal consent captured before the visit begins.
var defaultRequirement = StateConsentRequirement{
	Jurisdiction: "default",
	Modality:     ModalityVerbal,
	Timing:       TimingBeforeVisit,
	Recording:    RecordingSingleParty,
	Notes:        "No jurisdiction-specific rule on file; applying conservative default.",
}

// requirements is keyed by upper-cased 2-letter region code.
var requirements = map[string]StateConsentRequirement{
	"AL": {Jurisdiction: "AL", Modality: ModalityVerbal, Timing: TimingEither, Recording: RecordingSingleParty},
	"AK": {Jurisdiction: "AK", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingSingleParty},
	"AZ": {Jurisdiction: "AZ", Modality: ModalityEither, Timing: TimingBeforeVisit, Recording: RecordingSingleParty,
		Notes: "Consent must be documented in the medical record for each episode of care."},
	"AR": {Jurisdiction: "AR", Modality: ModalityVerbal, Timing: TimingBeforeVisit, EstablishedRelationship: true, Recording: RecordingSingleParty,
		Notes: "Professional relationship may be established through the telemedicine encounter itself for most specialties."},
	"CA": {Jurisdiction: "CA", Modality: ModalityEither, Timing: TimingBeforeVisit, Recording: RecordingAllParty,
		Notes: "Verbal or written consent accepted; must be documented in the patient record."},
	"CO": {Jurisdiction: "CO", Modality: ModalityVerbal, Timing: TimingEither, Recording: RecordingSingleParty},
	"CT": {Jurisdiction: "CT", Modality: ModalityWritten, Timing: TimingBeforeVisit, Recording: RecordingAllParty,
		Notes: "Written or recorded verbal consent required at the first telehealth interaction."},
	"DE": {Jurisdiction: "DE", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingAllParty},
	"DC": {Jurisdiction: "DC", Modality: ModalityVerbal, Timing: TimingEither, Recording: RecordingSingleParty},
	"FL": {Jurisdiction: "FL", Modality: ModalityEither, Timing: TimingBeforeVisit, Recording: RecordingAllParty,
		GeographicRestriction: true, RestrictedInsurance: "medicaid",
		Notes: "Medicaid coverage depends on patient location at time of service."},
	"GA": {Jurisdiction: "GA", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingSingleParty},
	"HI": {Jurisdiction: "HI", Modality: ModalityVerbal, Timing: TimingEither, Recording: RecordingSingleParty},
	"ID": {Jurisdiction: "ID", Modality: ModalityVerbal, Timing: TimingBeforeVisit, EstablishedRelationship: true, Recording: RecordingSingleParty},
	"IL": {Jurisdiction: "IL", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingAllParty},
	"IN": {Jurisdiction: "IN", Modality: ModalityVerbal, Timing: TimingEither, Recording: RecordingSingleParty},
	"IA": {Jurisdiction: "IA", Modality: ModalityVerbal, Timing: TimingEither, Recording: RecordingSingleParty},
	"KS": {Jurisdiction: "KS", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingSingleParty},
	"KY": {Jurisdiction: "KY", Modality: ModalityWritten, Timing: TimingBeforeVisit, Recording: RecordingSingleParty,
		Notes: "Informed consent must be obtained and documented before services are rendered."},
	"LA": {Jurisdiction: "LA", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingSingleParty},
	"ME": {Jurisdiction: "ME", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingSingleParty},
	"MD": {Jurisdiction: "MD", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingAllParty},
	"MA": {Jurisdiction: "MA", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingAllParty},
	"MI": {Jurisdiction: "MI", Modality: ModalityVerbal, Timing: TimingEither, Recording: RecordingSingleParty},
	"MN": {Jurisdiction: "MN", Modality: ModalityVerbal, Timing: TimingEither, Recording: RecordingSingleParty},
	"MS": {Jurisdiction: "MS", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingSingleParty},
	"MO": {Jurisdiction: "MO", Modality: ModalityVerbal, Timing: TimingEither, Recording: RecordingSingleParty},
	"MT": {Jurisdiction: "MT", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingAllParty},
	"NE": {Jurisdiction: "NE", Modality: ModalityWritten, Timing: TimingBeforeVisit, Recording: RecordingSingleParty,
		Notes: "Written statement of rights and consent required before the initial telehealth consultation."},
	"NV": {Jurisdiction: "NV", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingAllParty},
	"NH": {Jurisdiction: "NH", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingAllParty},
	"NJ": {Jurisdiction: "NJ", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingSingleParty},
	"NM": {Jurisdiction: "NM", Modality: ModalityVerbal, Timing: TimingEither, Recording: RecordingSingleParty},
	"NY": {Jurisdiction: "NY", Modality: ModalityVerbal, Timing: TimingBeforeVisit, PriorInPerson: true, PriorInPersonWindowMonths: 12, Recording: RecordingSingleParty,
		Notes: "Certain payer programs require an in-person visit within the preceding 12 months."},
	"NC": {Jurisdiction: "NC", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingSingleParty},
	"ND": {Jurisdiction: "ND", Modality: ModalityVerbal, Timing: TimingEither, Recording: RecordingSingleParty},
	"OH": {Jurisdiction: "OH", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingSingleParty},
	"OK": {Jurisdiction: "OK", Modality: ModalityVerbal, Timing: TimingEither, Recording: RecordingSingleParty},
	"OR": {Jurisdiction: "OR", Modality: ModalityVerbal, Timing: TimingEither, Recording: RecordingSingleParty},
	"PA": {Jurisdiction: "PA", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingAllParty},
	"RI": {Jurisdiction: "RI", Modality: ModalityWritten, Timing: TimingBeforeVisit, Recording: RecordingSingleParty},
	"SC": {Jurisdiction: "SC", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingSingleParty},
	"SD": {Jurisdiction: "SD", Modality: ModalityVerbal, Timing: TimingEither, Recording: RecordingSingleParty},
	"TN": {Jurisdiction: "TN", Modality: ModalityVerbal, Timing: TimingEither, Recording: RecordingSingleParty},
	"TX": {Jurisdiction: "TX", Modality: ModalityEither, Timing: TimingBeforeVisit, EstablishedRelationship: true, Recording: RecordingSingleParty,
		GeographicRestriction: true, RestrictedInsurance: "medicaid",
		Notes: "Established patient relationship required for certain prescribing; Medicaid restricts originating sites."},
	"UT": {Jurisdiction: "UT", Modality: ModalityVerbal, Timing: TimingEither, Recording: RecordingSingleParty},
	"VT": {Jurisdiction: "VT", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingSingleParty},
	"VA": {Jurisdiction: "VA", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingSingleParty},
	"WA": {Jurisdiction: "WA", Modality: ModalityVerbal, Timing: TimingBeforeVisit, Recording: RecordingAllParty},
	"WV": {Jurisdiction: "WV", Modality: ModalityVerbal, Timing: TimingBeforeVisit, EstablishedRelationship: true, Recording: RecordingSingleParty},
	"WI": {Jurisdiction: "WI", Modality: ModalityVerbal, Timing: TimingEither, Recording: RecordingSingleParty},
	"WY": {Jurisdiction: "WY", Modality: ModalityVerbal, Timing: TimingEither, Recording: RecordingSingleParty},
}

// Jurisdictions returns the region codes present in the rule table.
func Jurisdictions() []string {
	codes := make([]string, 0, len(requirements))
	for code := range requirements {
		codes = append(codes, code)
	}
	return codes
}
