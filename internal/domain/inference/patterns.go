package inference

import "regexp"

// Body systems the engine can mark as discussed. The catalogue is fixed;
// the specialty-relevance mapping lives with the follow-up classifier.
const (
	SystemCardiovascular   = "cardiovascular"
	SystemRespiratory      = "respiratory"
	SystemGastrointestinal = "gastrointestinal"
	SystemNeurological     = "neurological"
	SystemMusculoskeletal  = "musculoskeletal"
	SystemDermatological   = "dermatological"
	SystemPsychiatric      = "psychiatric"
	SystemHEENT            = "heent"
	SystemGenitourinary    = "genitourinary"
	SystemEndocrine        = "endocrine"
)

// systemKeywords drive the discussed-systems scan. A system with any keyword
// hit in the transcript is considered assessed; confidence is hits * 0.25
// capped at 1.0.
var systemKeywords = map[string][]string{
	SystemCardiovascular:   {"chest pain", "palpitation", "heart", "blood pressure", "shortness of breath", "swelling in my legs", "edema"},
	SystemRespiratory:      {"cough", "wheez", "breathing", "breath", "asthma", "congestion", "phlegm", "sputum"},
	SystemGastrointestinal: {"stomach", "abdominal", "nausea", "vomit", "diarrhea", "constipation", "appetite", "bowel", "heartburn"},
	SystemNeurological:     {"headache", "dizzy", "dizziness", "numbness", "tingling", "weakness", "seizure", "migraine", "memory"},
	SystemMusculoskeletal:  {"joint", "muscle", "back pain", "knee", "shoulder", "stiffness", "sprain", "arthritis"},
	SystemDermatological:   {"rash", "skin", "itch", "mole", "lesion", "acne", "eczema", "hives"},
	SystemPsychiatric:      {"anxiety", "anxious", "depress", "sleep", "insomnia", "stress", "mood", "panic"},
	SystemHEENT:            {"sore throat", "ear", "sinus", "runny nose", "vision", "eye", "hearing", "throat"},
	SystemGenitourinary:    {"urinat", "urine", "bladder", "kidney", "burning when i pee", "uti"},
	SystemEndocrine:        {"diabetes", "blood sugar", "thyroid", "fatigue", "weight gain", "weight loss", "thirst"},
}

// painLocations is scanned against answers that mention pain; when more than
// one matches, the longest keyword wins.
var painLocations = []string{
	"chest", "head", "back", "lower back", "stomach", "abdomen", "throat",
	"ear", "knee", "shoulder", "neck", "arm", "leg", "hip", "joint", "eye",
	"lower abdomen", "upper abdomen", "pelvis", "foot", "hand", "wrist", "ankle",
}

// painCharacters are descriptors collected from pain mentions; all matches
// are reported comma-joined.
var painCharacters = []string{
	"sharp", "dull", "burning", "throbbing", "crushing", "stabbing",
	"aching", "cramping", "radiating", "shooting", "squeezing", "pressure",
}

// affirmativeCues gate fever findings: the word fever alone is not a finding
// unless the patient affirms it.
var affirmativeCues = []string{
	"yes", "yeah", "i have", "i've had", "i had", "i do", "i am", "i'm",
	"running a", "been having", "i feel", "feeling",
}

// deniableSymptoms is the fixed catalogue for negation findings ("no X",
// "don't have X" => "Denies X").
var deniableSymptoms = []string{
	"fever", "chills", "chest pain", "shortness of breath", "nausea",
	"vomiting", "diarrhea", "headache", "dizziness", "rash", "cough",
	"swelling", "bleeding", "numbness", "weight loss",
}

var severityDescriptors = []string{
	"excruciating", "unbearable", "severe", "intense", "moderate", "mild", "slight",
}

// chiefComplaintPatterns are tried in order; the first capture wins.
var chiefComplaintPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:here|calling|seeing you|came in|visit(?:ing)?)\s+(?:today\s+)?(?:for|about|because of|due to)\s+([^.?!\n]+)`),
	regexp.MustCompile(`(?i)(?:my\s+)?(?:main|chief|biggest)\s+(?:concern|complaint|problem|issue)\s+(?:is|has been)\s+([^.?!\n]+)`),
	regexp.MustCompile(`(?i)i(?:'ve| have)\s+been\s+(?:having|experiencing|dealing with)\s+([^.?!\n]+)`),
	regexp.MustCompile(`(?i)i\s+(?:have|am having|got)\s+(?:a|an|some|this|these)\s+([^.?!\n]+)`),
}

// symptomWords back the chief-complaint fallback: the first sentence
// containing any of them becomes the complaint.
var symptomWords = []string{
	"pain", "ache", "fever", "cough", "rash", "nausea", "dizzy", "fatigue",
	"swelling", "bleeding", "vomiting", "diarrhea", "headache", "sore",
	"itch", "numb", "weak", "tired", "anxious", "depressed",
}

var durationPattern = regexp.MustCompile(
	`(?i)(?:for|over|past|last)\s+(?:the\s+)?(?:about\s+)?(a|an|one|two|three|four|five|six|seven|eight|nine|ten|couple(?:\s+of)?|few|several|\d+)\s+(hour|hours|day|days|week|weeks|month|months|year|years)`)

// redFlag maps a transcript phrase to the escalation reason it evidences.
// Table order is the report order; reasons are deduplicated.
type redFlag struct {
	phrase string
	reason string
}

var redFlags = []redFlag{
	{"crushing chest pain", "possible acute coronary syndrome"},
	{"chest pain radiating", "possible acute coronary syndrome"},
	{"pain radiating to my arm", "possible acute coronary syndrome"},
	{"pain radiating to my jaw", "possible acute coronary syndrome"},
	{"worst headache of my life", "possible subarachnoid hemorrhage"},
	{"thunderclap headache", "possible subarachnoid hemorrhage"},
	{"can't breathe", "acute respiratory distress"},
	{"cannot breathe", "acute respiratory distress"},
	{"struggling to breathe", "acute respiratory distress"},
	{"face drooping", "possible stroke"},
	{"slurred speech", "possible stroke"},
	{"one side of my body", "possible stroke"},
	{"coughing up blood", "hemoptysis"},
	{"vomiting blood", "gastrointestinal bleeding"},
	{"blood in my stool", "gastrointestinal bleeding"},
	{"black tarry stool", "gastrointestinal bleeding"},
	{"want to hurt myself", "suicidal ideation"},
	{"want to end my life", "suicidal ideation"},
	{"suicidal", "suicidal ideation"},
	{"fainted", "syncope"},
	{"passed out", "syncope"},
	{"stiff neck and fever", "possible meningitis"},
	{"worst abdominal pain", "acute abdomen"},
	{"severe abdominal pain", "acute abdomen"},
}
