package encounter

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/telecare/telecare/internal/domain/consent"
	"github.com/telecare/telecare/internal/domain/followup"
	"github.com/telecare/telecare/internal/domain/inference"
)

// Service owns the encounter state machine and sequences the documentation
// pipeline: consent evaluation, transcript inference, follow-up
// classification, and the final compliance re-check.
type Service struct {
	repo       Repository
	consent    *consent.Service
	analyzer   inference.Analyzer
	classifier *followup.Classifier
	logger     zerolog.Logger

	mu       sync.Mutex
	inflight map[uuid.UUID]bool
}

func NewService(repo Repository, consentSvc *consent.Service, analyzer inference.Analyzer, classifier *followup.Classifier, logger zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		consent:    consentSvc,
		analyzer:   analyzer,
		classifier: classifier,
		logger:     logger.With().Str("component", "encounter").Logger(),
		inflight:   make(map[uuid.UUID]bool),
	}
}

// StartRequest carries the creation metadata supplied by the scheduling
// collaborator.
type StartRequest struct {
	TenantID           string     `json:"tenant_id"`
	PhysicianRef       string     `json:"physician_ref"`
	PatientRef         string     `json:"patient_ref"`
	Specialty          string     `json:"specialty"`
	Jurisdiction       string     `json:"jurisdiction"`
	Platform           string     `json:"platform,omitempty"`
	EstablishedPatient bool       `json:"established_patient"`
	PriorInPersonVisit *time.Time `json:"prior_inperson_visit,omitempty"`
	InsuranceType      string     `json:"insurance_type,omitempty"`
	ScheduledAt        time.Time  `json:"scheduled_at,omitempty"`
}

// StartEncounter creates an encounter in consent_pending. Jurisdiction
// eligibility is evaluated once here; issues are recorded as non-fatal
// annotations and never block creation.
func (s *Service) StartEncounter(ctx context.Context, req StartRequest) (*TelehealthEncounter, error) {
	if req.PatientRef == "" {
		return nil, fmt.Errorf("patient_ref is required")
	}
	if req.PhysicianRef == "" {
		return nil, fmt.Errorf("physician_ref is required")
	}
	if req.Jurisdiction == "" {
		return nil, fmt.Errorf("jurisdiction is required")
	}

	now := time.Now().UTC()
	scheduled := req.ScheduledAt
	if scheduled.IsZero() {
		scheduled = now
	}
	enc := &TelehealthEncounter{
		ID:                 uuid.New(),
		TenantID:           req.TenantID,
		PhysicianRef:       req.PhysicianRef,
		PatientRef:         req.PatientRef,
		Specialty:          strings.ToLower(strings.TrimSpace(req.Specialty)),
		Jurisdiction:       strings.ToUpper(strings.TrimSpace(req.Jurisdiction)),
		VisitState:         StateScheduled,
		ConsentStatus:      consent.StatusPending,
		EstablishedPatient: req.EstablishedPatient,
		PriorInPersonVisit: req.PriorInPersonVisit,
		ScheduledAt:        scheduled,
	}
	if req.Platform != "" {
		enc.Platform = strPtr(req.Platform)
	}
	if req.InsuranceType != "" {
		enc.InsuranceType = strPtr(req.InsuranceType)
	}

	issues, geoRestricted := s.consent.EligibilityIssues(enc.ConsentFacts())
	enc.EligibilityIssues = issues
	enc.GeographicRestriction = geoRestricted

	if err := s.repo.Create(ctx, enc); err != nil {
		return nil, err
	}
	if err := s.transition(ctx, enc, StateConsentPending); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, enc); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("encounter_id", enc.ID.String()).
		Str("jurisdiction", enc.Jurisdiction).
		Int("eligibility_issues", len(issues)).
		Msg("encounter started")
	return enc, nil
}

// DocumentConsent records a consent submission. On anything short of obtained
// the missing elements become compliance issues and transcript eligibility
// does not advance.
func (s *Service) DocumentConsent(ctx context.Context, id uuid.UUID, modality consent.ConsentModality, verbalText string) (*consent.ConsentResult, error) {
	enc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if enc.VisitState != StateConsentPending {
		return nil, fmt.Errorf("%w: consent cannot be documented in state %s", ErrInvalidStateTransition, enc.VisitState)
	}

	res := s.consent.DocumentConsent(enc.Jurisdiction, modality, verbalText)
	enc.ConsentStatus = res.Status
	switch res.Status {
	case consent.StatusObtained:
		now := time.Now().UTC()
		enc.ConsentMethod = strPtr(string(modality))
		enc.ConsentTimestamp = &now
		if verbalText != "" {
			enc.ConsentVerbalText = strPtr(verbalText)
		}
	case consent.StatusDeclined:
		enc.ComplianceIssues = append(enc.ComplianceIssues, "consent: declined by patient")
	default:
		for _, missing := range res.MissingElements {
			enc.ComplianceIssues = append(enc.ComplianceIssues, "consent: "+missing)
		}
	}

	if err := s.repo.Update(ctx, enc); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("encounter_id", id.String()).
		Str("consent_status", string(res.Status)).
		Msg("consent documented")
	return &res, nil
}

// BeginVisit moves the encounter to in_progress and stamps the start time.
func (s *Service) BeginVisit(ctx context.Context, id uuid.UUID) (*TelehealthEncounter, error) {
	enc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if enc.ConsentStatus != consent.StatusObtained {
		return nil, ErrConsentNotDocumented
	}
	if err := s.transition(ctx, enc, StateInProgress); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	enc.StartedAt = &now
	if err := s.repo.Update(ctx, enc); err != nil {
		return nil, err
	}
	return enc, nil
}

// ProcessTranscript runs the full documentation pipeline exactly once per
// encounter: inference, note assembly, follow-up classification, and the
// final compliance re-check, then settles the encounter in a terminal state.
// At most one call may be in flight per encounter id.
func (s *Service) ProcessTranscript(ctx context.Context, id uuid.UUID, transcript string, segments []inference.Segment, connectionQuality string) (*TelehealthEncounter, error) {
	s.mu.Lock()
	if s.inflight[id] {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: transcript processing already in flight for encounter %s", ErrInvalidStateTransition, id)
	}
	s.inflight[id] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inflight, id)
		s.mu.Unlock()
	}()

	enc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if enc.ConsentStatus != consent.StatusObtained {
		return nil, ErrConsentNotDocumented
	}
	if err := s.transition(ctx, enc, StateGenerating); err != nil {
		return nil, err
	}
	enc.Transcript = transcript
	enc.Segments = segments
	if connectionQuality != "" {
		enc.ConnectionQuality = strPtr(connectionQuality)
	}
	if err := s.repo.Update(ctx, enc); err != nil {
		return nil, err
	}

	inf := s.analyzer.Analyze(transcript, enc.Specialty, segments)
	enc.Inference = &inf
	enc.Note = buildNote(enc, inf)

	fu := s.classifier.Classify(transcript, enc.Specialty, inf)
	enc.NeedsFollowup = fu.NeedsFollowup
	enc.FollowupUrgency = fu.Urgency
	if fu.PrimaryReason != "" {
		enc.FollowupReason = strPtr(fu.PrimaryReason)
	}
	enc.Recommendations = fu.Recommendations
	enc.Note.appendFollowupPlan(fu)

	comp := s.consent.VerifyCompliance(enc.ConsentFacts())
	enc.ComplianceIssues = append(enc.ComplianceIssues, comp.Issues...)
	enc.Note.appendComplianceNotes(comp.Issues, comp.Warnings)

	now := time.Now().UTC()
	enc.EndedAt = &now
	if enc.StartedAt != nil {
		minutes := int(now.Sub(*enc.StartedAt).Minutes())
		enc.DurationMinutes = &minutes
	}

	final := StateComplete
	if fu.NeedsFollowup {
		final = StateFlaggedInPerson
	}
	if err := s.transition(ctx, enc, final); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, enc); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("encounter_id", id.String()).
		Str("final_state", string(final)).
		Str("urgency", string(fu.Urgency)).
		Float64("confidence", inf.Confidence).
		Msg("transcript processed")
	return enc, nil
}

// CancelEncounter is best-effort: terminal encounters are left untouched and
// the call never fails on state grounds.
func (s *Service) CancelEncounter(ctx context.Context, id uuid.UUID, reason string) (*TelehealthEncounter, error) {
	enc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if enc.VisitState.Terminal() {
		return enc, nil
	}
	if err := s.transition(ctx, enc, StateCancelled); err != nil {
		// Unreachable for non-terminal states, but a cancel must not raise.
		s.logger.Warn().Err(err).Str("encounter_id", id.String()).Msg("cancel transition refused")
		return enc, nil
	}
	if reason != "" {
		enc.CancelReason = strPtr(reason)
	}
	if err := s.repo.Update(ctx, enc); err != nil {
		return nil, err
	}
	return enc, nil
}

// ReportTechnicalFailure annotates a dropped visit. Only active visit states
// can fail technically; anywhere else the call is a no-op.
func (s *Service) ReportTechnicalFailure(ctx context.Context, id uuid.UUID, details string) (*TelehealthEncounter, error) {
	enc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !enc.VisitState.CanTransitionTo(StateTechnicalFailure) {
		return enc, nil
	}
	if err := s.transition(ctx, enc, StateTechnicalFailure); err != nil {
		return enc, nil
	}
	if details != "" {
		enc.FailureDetails = strPtr(details)
	}
	if err := s.repo.Update(ctx, enc); err != nil {
		return nil, err
	}
	return enc, nil
}

func (s *Service) GetEncounter(ctx context.Context, id uuid.UUID) (*TelehealthEncounter, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListEncounters(ctx context.Context, limit, offset int) ([]*TelehealthEncounter, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListEncountersByPatient(ctx context.Context, patientRef string, limit, offset int) ([]*TelehealthEncounter, int, error) {
	return s.repo.ListByPatient(ctx, patientRef, limit, offset)
}

func (s *Service) ListEncountersByState(ctx context.Context, state VisitState, limit, offset int) ([]*TelehealthEncounter, int, error) {
	if !validStates[state] {
		return nil, 0, fmt.Errorf("invalid visit state: %s", state)
	}
	return s.repo.ListByState(ctx, state, limit, offset)
}

func (s *Service) GetStatusHistory(ctx context.Context, id uuid.UUID) ([]*StatusChange, error) {
	return s.repo.GetStatusHistory(ctx, id)
}

// ConsentRequirements exposes the jurisdiction rule for display.
// CheckAppropriateness classifies a chief complaint for visit scheduling.
func (s *Service) CheckAppropriateness(chiefComplaint string) followup.AppropriatenessResult {
	return s.classifier.TelehealthAppropriate(chiefComplaint)
}

func (s *Service) ConsentRequirements(jurisdiction string) consent.StateConsentRequirement {
	return s.consent.GetRequirements(jurisdiction)
}

// ConsentLanguage returns the script a clinician reads aloud or presents for
// signature.
func (s *Service) ConsentLanguage(jurisdiction string) string {
	return s.consent.Language(jurisdiction)
}

// transition validates a state change against the transition table and
// records it in the status history trail.
func (s *Service) transition(ctx context.Context, enc *TelehealthEncounter, next VisitState) error {
	if !enc.VisitState.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, enc.VisitState, next)
	}
	change := &StatusChange{
		EncounterID: enc.ID,
		FromState:   enc.VisitState,
		ToState:     next,
		ChangedAt:   time.Now().UTC(),
	}
	if err := s.repo.AddStatusChange(ctx, change); err != nil {
		return fmt.Errorf("record status change: %w", err)
	}
	enc.VisitState = next
	return nil
}
