package inference

// Speaker role tokens for labeled transcript segments.
const (
	SpeakerPhysician = "physician"
	SpeakerPatient   = "patient"
)

// Segment is one speaker-labeled utterance of the transcript.
type Segment struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// QAPair is one physician question paired with the patient's answer.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Result is what the engine infers from one transcript. It is produced once
// per transcript and never mutated afterwards. Absent data yields empty
// fields, never an error.
type Result struct {
	QAPairs         []QAPair           `json:"qa_pairs,omitempty"`
	SystemsAssessed map[string]float64 `json:"systems_assessed,omitempty"`
	Findings        []string           `json:"findings,omitempty"`
	EscalationFlags []string           `json:"escalation_flags,omitempty"`
	Vitals          map[string]string  `json:"vitals,omitempty"`
	ChiefComplaint  string             `json:"chief_complaint,omitempty"`
	SymptomDuration string             `json:"symptom_duration,omitempty"`
	Severity        []string           `json:"severity,omitempty"`
	Confidence      float64            `json:"confidence"`
}

// Assessed reports whether a body system had any keyword discussion.
func (r *Result) Assessed(system string) bool {
	_, ok := r.SystemsAssessed[system]
	return ok
}

// Analyzer is the narrow extraction interface. The shipped implementation is
// the deterministic pattern engine; a statistical or model-backed extractor
// can be substituted without touching the orchestrator or classifier.
type Analyzer interface {
	Analyze(transcript, specialty string, segments []Segment) Result
}
