package followup

import "github.com/telecare/telecare/internal/domain/inference"

// triageRule maps a transcript phrase to the escalation reason it evidences
// and the recommended action. Tables are evaluated in definition order.
type triageRule struct {
	phrase         string
	reason         string
	recommendation string
}

// emergentRules are scanned first; the first match wins outright and is never
// aggregated with lower-priority findings.
var emergentRules = []triageRule{
	{"crushing chest pain", "possible acute coronary syndrome", "Direct patient to call 911 or go to the nearest emergency department immediately"},
	{"chest pain radiating", "possible acute coronary syndrome", "Direct patient to call 911 or go to the nearest emergency department immediately"},
	{"can't breathe", "acute respiratory distress", "Direct patient to call 911 immediately"},
	{"cannot breathe", "acute respiratory distress", "Direct patient to call 911 immediately"},
	{"throat is closing", "possible anaphylaxis", "Direct patient to call 911 immediately; epinephrine if available"},
	{"face drooping", "possible stroke", "Activate emergency services; note time of symptom onset"},
	{"slurred speech", "possible stroke", "Activate emergency services; note time of symptom onset"},
	{"worst headache of my life", "possible subarachnoid hemorrhage", "Direct patient to the emergency department for urgent imaging"},
	{"vomiting blood", "upper gastrointestinal bleeding", "Direct patient to the emergency department immediately"},
	{"coughing up blood", "hemoptysis", "Direct patient to the emergency department immediately"},
	{"want to end my life", "active suicidal ideation", "Initiate crisis protocol; do not end the visit until a safety plan is in place"},
	{"want to hurt myself", "active suicidal ideation", "Initiate crisis protocol; do not end the visit until a safety plan is in place"},
	{"suicidal", "active suicidal ideation", "Initiate crisis protocol; do not end the visit until a safety plan is in place"},
	{"overdose", "possible overdose", "Direct patient to call poison control or 911 immediately"},
}

// urgentRules are scanned second; all matches are collected.
var urgentRules = []triageRule{
	{"chest pain", "chest pain requiring in-person cardiac evaluation", "In-person visit within 48-72 hours; consider ECG"},
	{"shortness of breath", "dyspnea requiring in-person evaluation", "In-person visit within 48-72 hours; pulse oximetry and lung exam"},
	{"irregular heartbeat", "palpitations requiring rhythm assessment", "In-person visit within 48-72 hours; ECG and rhythm strip"},
	{"severe headache", "severe headache requiring neurological evaluation", "In-person neurological examination within 48-72 hours"},
	{"blood in my stool", "rectal bleeding requiring examination", "In-person visit within 48-72 hours; consider colonoscopy referral"},
	{"blood in my urine", "hematuria requiring workup", "In-person visit within 48-72 hours; urinalysis"},
	{"high fever", "high fever requiring assessment", "In-person visit within 48 hours if fever persists"},
	{"fainted", "syncope requiring cardiac and neurological workup", "In-person visit within 48-72 hours"},
	{"passed out", "syncope requiring cardiac and neurological workup", "In-person visit within 48-72 hours"},
	{"getting worse", "symptom progression despite treatment", "In-person reassessment within 72 hours"},
}

// routineRules are scanned third and aggregated with the other routine-tier
// signal sources.
var routineRules = []triageRule{
	{"new mole", "new skin lesion requiring dermoscopic examination", "In-person skin examination within 2-4 weeks"},
	{"mole that has changed", "changing skin lesion requiring dermoscopic examination", "In-person skin examination within 2-4 weeks"},
	{"persistent rash", "persistent rash requiring visual and tactile examination", "In-person dermatologic evaluation"},
	{"lump", "palpable mass requiring physical examination", "In-person examination of the reported mass"},
	{"joint pain", "joint complaint requiring musculoskeletal examination", "In-person musculoskeletal examination"},
	{"hearing loss", "hearing complaint requiring otoscopic examination", "In-person otoscopic examination and audiometry"},
	{"vision changes", "visual complaint requiring ophthalmic examination", "In-person ophthalmic examination"},
}

// specialtyRelevantSystems restricts which not-assessed body systems are even
// considered for the critical-unassessed check, so a pure dermatology visit
// is not flagged for a missing cardiovascular exam.
var specialtyRelevantSystems = map[string][]string{
	"cardiology":        {inference.SystemCardiovascular, inference.SystemRespiratory},
	"pulmonology":       {inference.SystemRespiratory, inference.SystemCardiovascular},
	"neurology":         {inference.SystemNeurological, inference.SystemCardiovascular},
	"gastroenterology":  {inference.SystemGastrointestinal},
	"dermatology":       {inference.SystemDermatological},
	"psychiatry":        {inference.SystemPsychiatric},
	"endocrinology":     {inference.SystemEndocrine},
	"urology":           {inference.SystemGenitourinary},
	"orthopedics":       {inference.SystemMusculoskeletal},
	"family medicine":   {inference.SystemCardiovascular, inference.SystemRespiratory, inference.SystemNeurological},
	"internal medicine": {inference.SystemCardiovascular, inference.SystemRespiratory, inference.SystemNeurological},
}

// systemSymptomCues gate the critical-unassessed check: a not-assessed system
// is only flagged when the transcript independently suggests it is
// symptomatically relevant.
var systemSymptomCues = map[string][]string{
	inference.SystemCardiovascular:   {"chest", "heart", "palpitation", "short of breath", "shortness of breath"},
	inference.SystemRespiratory:      {"breath", "cough", "wheez", "lung"},
	inference.SystemNeurological:     {"headache", "dizzy", "numb", "tingling", "weakness"},
	inference.SystemGastrointestinal: {"stomach", "abdominal", "nausea", "bowel"},
	inference.SystemDermatological:   {"rash", "mole", "skin", "lesion"},
	inference.SystemPsychiatric:      {"anxiety", "depress", "mood", "panic"},
	inference.SystemEndocrine:        {"blood sugar", "thyroid", "thirst"},
	inference.SystemGenitourinary:    {"urine", "urinat", "bladder"},
	inference.SystemMusculoskeletal:  {"joint", "knee", "shoulder", "back"},
}

// specialtyOverride lowers the escalation threshold for specialties where a
// remote exam misses too much. Matching any keyword forces follow-up with the
// override's urgency.
type specialtyOverride struct {
	keywords       []string
	urgency        Urgency
	reason         string
	recommendation string
}

var specialtyOverrides = map[string]specialtyOverride{
	"cardiology": {
		keywords:       []string{"chest pain", "palpitation", "shortness of breath", "edema", "leg swelling"},
		urgency:        UrgencyUrgent,
		reason:         "cardiology protocol requires in-person evaluation for reported cardiac symptoms",
		recommendation: "In-person cardiac examination with auscultation and ECG",
	},
	"neurology": {
		keywords:       []string{"headache", "numbness", "weakness", "dizziness", "tremor"},
		urgency:        UrgencyUrgent,
		reason:         "neurology protocol requires in-person evaluation for reported neurological symptoms",
		recommendation: "In-person neurological examination including reflex and gait testing",
	},
	"oncology": {
		keywords:       []string{"new lump", "unexplained weight loss", "night sweats"},
		urgency:        UrgencyRoutine,
		reason:         "oncology protocol requires in-person evaluation of constitutional symptoms",
		recommendation: "In-person oncologic assessment",
	},
}

// telehealthTolerant marks specialties whose standard of care is met
// remotely; specialty overrides do not apply to them.
var telehealthTolerant = map[string]bool{
	"psychiatry": true,
	"psychology": true,
	"counseling": true,
}

// Visit-type appropriateness catalogues. When both match, inappropriate wins.
var inappropriateComplaints = []string{
	"chest pain", "difficulty breathing", "severe bleeding", "head injury",
	"broken bone", "fracture", "laceration", "severe abdominal pain",
	"overdose", "allergic reaction", "suicidal",
}

var appropriateComplaints = []string{
	"medication refill", "follow-up", "rash", "cold symptoms", "allergies",
	"anxiety", "depression", "insomnia", "birth control", "lab results",
	"sinus", "pink eye", "urinary tract infection",
}
