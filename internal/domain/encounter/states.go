package encounter

// VisitState is the lifecycle state of a telehealth encounter.
type VisitState string

const (
	StateScheduled        VisitState = "scheduled"
	StateConsentPending   VisitState = "consent_pending"
	StateInProgress       VisitState = "in_progress"
	StateGenerating       VisitState = "generating"
	StateComplete         VisitState = "complete"
	StateFlaggedInPerson  VisitState = "flagged_inperson"
	StateCancelled        VisitState = "cancelled"
	StateTechnicalFailure VisitState = "technical_failure"
)

// transitions is the single source of truth for the state machine. Every
// state change goes through CanTransitionTo; there are no ad hoc state checks
// elsewhere.
var transitions = map[VisitState][]VisitState{
	StateScheduled:      {StateConsentPending, StateCancelled},
	StateConsentPending: {StateInProgress, StateCancelled},
	StateInProgress:     {StateGenerating, StateCancelled, StateTechnicalFailure},
	StateGenerating:     {StateComplete, StateFlaggedInPerson, StateCancelled, StateTechnicalFailure},
	// Terminal states have no outgoing transitions.
	StateComplete:         {},
	StateFlaggedInPerson:  {},
	StateCancelled:        {},
	StateTechnicalFailure: {},
}

var validStates = map[VisitState]bool{
	StateScheduled:        true,
	StateConsentPending:   true,
	StateInProgress:       true,
	StateGenerating:       true,
	StateComplete:         true,
	StateFlaggedInPerson:  true,
	StateCancelled:        true,
	StateTechnicalFailure: true,
}

// Terminal reports whether the state admits no further transitions.
func (s VisitState) Terminal() bool {
	return len(transitions[s]) == 0 && validStates[s]
}

// CanTransitionTo reports whether the state machine permits moving to next.
func (s VisitState) CanTransitionTo(next VisitState) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
