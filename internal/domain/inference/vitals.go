package inference

import (
	"fmt"
	"regexp"
	"strconv"
)

// Patient-reported vitals are extracted with physiologic plausibility filters
// so that phone numbers, dates, and medication doses are not mistaken for
// measurements.

var (
	bpPattern     = regexp.MustCompile(`\b(\d{2,3})\s*(?:/|over)\s*(\d{2,3})\b`)
	tempPattern   = regexp.MustCompile(`(?i)(?:temp(?:erature)?|fever)(?:\s+(?:is|was|of|at))?\s+(?:about\s+|around\s+)?(\d{2,3}(?:\.\d)?)|(\d{2,3}(?:\.\d)?)\s*(?:degrees|°)`)
	hrPattern     = regexp.MustCompile(`(?i)(?:heart\s*rate|pulse)(?:\s+(?:is|was|of|at))?\s+(?:about\s+|around\s+)?(\d{2,3})`)
	o2Pattern     = regexp.MustCompile(`(?i)(?:oxygen(?:\s+saturation)?|o2|sat(?:uration)?s?)(?:\s+(?:level|reading))?(?:\s+(?:is|was|of|at))?\s+(?:about\s+|around\s+)?(\d{2,3})\s*(?:%|percent)?`)
	rrPattern     = regexp.MustCompile(`(?i)(?:respiratory\s*rate|breathing\s*rate|resp\s*rate)(?:\s+(?:is|was|of|at))?\s+(?:about\s+|around\s+)?(\d{1,2})`)
	weightPattern = regexp.MustCompile(`(?i)\b(\d{2,3}(?:\.\d)?)\s*(?:pounds|lbs)\b`)
)

func extractVitals(transcript string) map[string]string {
	vitals := make(map[string]string)

	if m := bpPattern.FindStringSubmatch(transcript); m != nil {
		sys, _ := strconv.Atoi(m[1])
		dia, _ := strconv.Atoi(m[2])
		if sys >= 70 && sys <= 250 && dia >= 40 && dia <= 150 && sys > dia {
			vitals["blood_pressure"] = fmt.Sprintf("%d/%d mmHg", sys, dia)
		}
	}

	if m := tempPattern.FindStringSubmatch(transcript); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		if t, err := strconv.ParseFloat(raw, 64); err == nil && t >= 93 && t <= 108 {
			vitals["temperature"] = fmt.Sprintf("%s F", raw)
		}
	}

	if m := hrPattern.FindStringSubmatch(transcript); m != nil {
		if hr, err := strconv.Atoi(m[1]); err == nil && hr >= 30 && hr <= 220 {
			vitals["heart_rate"] = fmt.Sprintf("%d bpm", hr)
		}
	}

	if m := o2Pattern.FindStringSubmatch(transcript); m != nil {
		if sat, err := strconv.Atoi(m[1]); err == nil && sat >= 70 && sat <= 100 {
			vitals["oxygen_saturation"] = fmt.Sprintf("%d%%", sat)
		}
	}

	if m := rrPattern.FindStringSubmatch(transcript); m != nil {
		if rr, err := strconv.Atoi(m[1]); err == nil && rr >= 8 && rr <= 60 {
			vitals["respiratory_rate"] = fmt.Sprintf("%d breaths/min", rr)
		}
	}

	if m := weightPattern.FindStringSubmatch(transcript); m != nil {
		if w, err := strconv.ParseFloat(m[1], 64); err == nil && w >= 50 && w <= 700 {
			vitals["weight"] = fmt.Sprintf("%s lbs", m[1])
		}
	}

	return vitals
}
