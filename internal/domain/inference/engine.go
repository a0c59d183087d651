package inference

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Engine is the deterministic pattern-based extractor. It holds no state, so
// one instance can serve every encounter pipeline concurrently.
type Engine struct{}

func New() *Engine {
	return &Engine{}
}

var speakerLabelPattern = regexp.MustCompile(`(?i)\b(?:doctor|dr|physician|provider|patient|pt)\s*:\s*`)

// Analyze infers clinical content from a transcript. It never fails on
// malformed input; missing data simply yields empty fields and a lower
// confidence score.
func (e *Engine) Analyze(transcript, specialty string, segments []Segment) Result {
	result := Result{
		SystemsAssessed: make(map[string]float64),
	}

	plain := speakerLabelPattern.ReplaceAllString(transcript, "")
	lower := strings.ToLower(plain)

	if len(segments) > 0 {
		result.QAPairs = pairFromSegments(segments)
	} else {
		result.QAPairs = pairFromText(plain)
	}

	for system, keywords := range systemKeywords {
		hits := 0
		for _, kw := range keywords {
			hits += strings.Count(lower, kw)
		}
		if hits > 0 {
			result.SystemsAssessed[system] = math.Min(1.0, float64(hits)*0.25)
		}
	}

	for _, qa := range result.QAPairs {
		result.Findings = append(result.Findings, findingsFromAnswer(qa.Answer)...)
	}

	result.Severity = severityIn(lower)
	result.ChiefComplaint = extractChiefComplaint(plain)
	result.SymptomDuration = extractDuration(plain)
	result.Vitals = extractVitals(plain)
	result.EscalationFlags = scanRedFlags(lower)
	result.Confidence = scoreConfidence(&result)

	return result
}

// -- Q/A extraction --

func isPhysician(speaker string) bool {
	switch strings.ToLower(strings.TrimSpace(speaker)) {
	case "physician", "doctor", "dr", "provider":
		return true
	}
	return false
}

func isPatient(speaker string) bool {
	switch strings.ToLower(strings.TrimSpace(speaker)) {
	case "patient", "pt":
		return true
	}
	return false
}

// pairFromSegments pairs each physician utterance ending in "?" with the
// immediately following contiguous patient utterances.
func pairFromSegments(segments []Segment) []QAPair {
	var pairs []QAPair
	for i, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if !isPhysician(seg.Speaker) || !strings.HasSuffix(text, "?") {
			continue
		}
		var answer []string
		for j := i + 1; j < len(segments); j++ {
			if !isPatient(segments[j].Speaker) {
				break
			}
			answer = append(answer, strings.TrimSpace(segments[j].Text))
		}
		if len(answer) > 0 {
			pairs = append(pairs, QAPair{Question: text, Answer: strings.Join(answer, " ")})
		}
	}
	return pairs
}

var sentenceEndPattern = regexp.MustCompile(`[.!?]`)

// pairFromText is the fallback when no speaker labels are available: split on
// "?" and treat the sentence before each question mark as the question and
// the following sentence as the answer.
func pairFromText(text string) []QAPair {
	var pairs []QAPair
	chunks := strings.Split(text, "?")
	for i := 0; i < len(chunks)-1; i++ {
		question := lastSentence(chunks[i]) + "?"
		answer := firstSentence(chunks[i+1])
		if strings.TrimSpace(question) == "?" || answer == "" {
			continue
		}
		pairs = append(pairs, QAPair{Question: strings.TrimSpace(question), Answer: answer})
	}
	return pairs
}

func lastSentence(text string) string {
	parts := sentenceEndPattern.Split(text, -1)
	return strings.TrimSpace(parts[len(parts)-1])
}

func firstSentence(text string) string {
	parts := sentenceEndPattern.Split(text, -1)
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			return s
		}
	}
	return ""
}

// -- Finding rules --

func findingsFromAnswer(answer string) []string {
	lower := strings.ToLower(answer)
	var findings []string

	if strings.Contains(lower, "pain") || strings.Contains(lower, "hurts") || strings.Contains(lower, "aches") {
		if f := painFinding(lower); f != "" {
			findings = append(findings, f)
		}
	}

	if strings.Contains(lower, "fever") && !isNegated(lower, "fever") && hasAffirmativeCue(lower) {
		findings = append(findings, "Reports fever")
	}

	for _, symptom := range deniableSymptoms {
		if isNegated(lower, symptom) {
			findings = append(findings, "Denies "+symptom)
		}
	}

	for _, adj := range severityDescriptors {
		if strings.Contains(lower, adj) {
			findings = append(findings, "Symptom severity described as "+adj)
			break
		}
	}

	return findings
}

// painFinding extracts a body location (longest keyword wins on ties) and all
// matching character descriptors, comma-joined.
func painFinding(lower string) string {
	location := ""
	for _, loc := range painLocations {
		if strings.Contains(lower, loc) && len(loc) > len(location) {
			location = loc
		}
	}

	// A negated pain mention is handled by the denial rule, not here.
	if isNegated(lower, "pain") || (location != "" && isNegated(lower, location+" pain")) {
		return ""
	}

	var characters []string
	for _, ch := range painCharacters {
		if strings.Contains(lower, ch) {
			characters = append(characters, ch)
		}
	}

	finding := "Reports pain"
	if location != "" {
		finding = "Reports " + location + " pain"
	}
	if len(characters) > 0 {
		finding += " (" + strings.Join(characters, ", ") + ")"
	}
	return finding
}

var negationTemplates = []string{
	"no %s", "don't have %s", "do not have %s", "denies %s",
	"haven't had %s", "not had any %s", "without %s",
}

func isNegated(lower, symptom string) bool {
	for _, tmpl := range negationTemplates {
		if strings.Contains(lower, fmt.Sprintf(tmpl, symptom)) {
			return true
		}
	}
	return false
}

func hasAffirmativeCue(lower string) bool {
	for _, cue := range affirmativeCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

func severityIn(lower string) []string {
	var found []string
	for _, adj := range severityDescriptors {
		if strings.Contains(lower, adj) {
			found = append(found, adj)
		}
	}
	return found
}

// -- Chief complaint, duration, red flags --

func extractChiefComplaint(text string) string {
	for _, pattern := range chiefComplaintPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return trimComplaint(m[1])
		}
	}

	// Fall back to the first sentence mentioning a known symptom word.
	for _, sentence := range sentenceEndPattern.Split(text, -1) {
		lower := strings.ToLower(sentence)
		for _, word := range symptomWords {
			if strings.Contains(lower, word) {
				return trimComplaint(sentence)
			}
		}
	}
	return ""
}

func trimComplaint(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 100 {
		s = strings.TrimSpace(s[:100])
	}
	return s
}

func extractDuration(text string) string {
	if m := durationPattern.FindStringSubmatch(text); m != nil {
		return strings.ToLower(m[1] + " " + m[2])
	}
	return ""
}

// scanRedFlags collects matching red-flag reasons, deduplicated, in table
// definition order.
func scanRedFlags(lower string) []string {
	var reasons []string
	seen := make(map[string]bool)
	for _, rf := range redFlags {
		if seen[rf.reason] {
			continue
		}
		if strings.Contains(lower, rf.phrase) {
			seen[rf.reason] = true
			reasons = append(reasons, rf.reason)
		}
	}
	return reasons
}

// -- Confidence --

// scoreConfidence folds the richness of the extraction into one [0,1] score.
// Each signal is capped so no single source saturates the total.
func scoreConfidence(r *Result) float64 {
	score := math.Min(float64(len(r.QAPairs))*0.1, 0.3)
	score += math.Min(float64(len(r.SystemsAssessed))*0.1, 0.2)
	score += math.Min(float64(len(r.Vitals))*0.1, 0.2)
	if r.ChiefComplaint != "" {
		score += 0.15
	}
	score += math.Min(float64(len(r.Findings))*0.05, 0.15)
	return math.Min(math.Max(score, 0), 1)
}
