package encounter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/telecare/telecare/internal/domain/inference"
	"github.com/telecare/telecare/internal/platform/db"
)

// repoPG persists encounters durably. It is opt-in: deployments that must not
// retain transcript text stay on the memory repository.
type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const encCols = `id, tenant_id, physician_ref, patient_ref, specialty, jurisdiction, platform,
	visit_state, consent_status, consent_method, consent_timestamp, consent_verbal_text,
	transcript, segments, inference, note,
	needs_followup, followup_urgency, followup_reason, recommendations,
	eligibility_issues, compliance_issues,
	established_patient, prior_inperson_visit, insurance_type, geographic_restriction,
	connection_quality, scheduled_at, started_at, ended_at, duration_minutes,
	cancel_reason, failure_details, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, enc *TelehealthEncounter) error {
	if enc.ID == uuid.Nil {
		enc.ID = uuid.New()
	}
	segments, infJSON, noteJSON, err := marshalDocs(enc)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO telehealth_encounter (
			id, tenant_id, physician_ref, patient_ref, specialty, jurisdiction, platform,
			visit_state, consent_status, consent_method, consent_timestamp, consent_verbal_text,
			transcript, segments, inference, note,
			needs_followup, followup_urgency, followup_reason, recommendations,
			eligibility_issues, compliance_issues,
			established_patient, prior_inperson_visit, insurance_type, geographic_restriction,
			connection_quality, scheduled_at, started_at, ended_at, duration_minutes,
			cancel_reason, failure_details
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,
			$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
			$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,
			$31,$32,$33
		)`,
		enc.ID, enc.TenantID, enc.PhysicianRef, enc.PatientRef, enc.Specialty, enc.Jurisdiction, enc.Platform,
		enc.VisitState, enc.ConsentStatus, enc.ConsentMethod, enc.ConsentTimestamp, enc.ConsentVerbalText,
		enc.Transcript, segments, infJSON, noteJSON,
		enc.NeedsFollowup, enc.FollowupUrgency, enc.FollowupReason, enc.Recommendations,
		enc.EligibilityIssues, enc.ComplianceIssues,
		enc.EstablishedPatient, enc.PriorInPersonVisit, enc.InsuranceType, enc.GeographicRestriction,
		enc.ConnectionQuality, enc.ScheduledAt, enc.StartedAt, enc.EndedAt, enc.DurationMinutes,
		enc.CancelReason, enc.FailureDetails,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*TelehealthEncounter, error) {
	enc, err := scanEnc(r.conn(ctx).QueryRow(ctx, `SELECT `+encCols+` FROM telehealth_encounter WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return enc, err
}

func (r *repoPG) Update(ctx context.Context, enc *TelehealthEncounter) error {
	segments, infJSON, noteJSON, err := marshalDocs(enc)
	if err != nil {
		return err
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE telehealth_encounter SET
			visit_state=$2, consent_status=$3, consent_method=$4, consent_timestamp=$5, consent_verbal_text=$6,
			transcript=$7, segments=$8, inference=$9, note=$10,
			needs_followup=$11, followup_urgency=$12, followup_reason=$13, recommendations=$14,
			eligibility_issues=$15, compliance_issues=$16,
			established_patient=$17, prior_inperson_visit=$18, insurance_type=$19, geographic_restriction=$20,
			connection_quality=$21, started_at=$22, ended_at=$23, duration_minutes=$24,
			cancel_reason=$25, failure_details=$26, updated_at=NOW()
		WHERE id = $1`,
		enc.ID, enc.VisitState, enc.ConsentStatus, enc.ConsentMethod, enc.ConsentTimestamp, enc.ConsentVerbalText,
		enc.Transcript, segments, infJSON, noteJSON,
		enc.NeedsFollowup, enc.FollowupUrgency, enc.FollowupReason, enc.Recommendations,
		enc.EligibilityIssues, enc.ComplianceIssues,
		enc.EstablishedPatient, enc.PriorInPersonVisit, enc.InsuranceType, enc.GeographicRestriction,
		enc.ConnectionQuality, enc.StartedAt, enc.EndedAt, enc.DurationMinutes,
		enc.CancelReason, enc.FailureDetails,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*TelehealthEncounter, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM telehealth_encounter`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+encCols+` FROM telehealth_encounter ORDER BY scheduled_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectEncs(rows, total)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientRef string, limit, offset int) ([]*TelehealthEncounter, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM telehealth_encounter WHERE patient_ref = $1`, patientRef).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+encCols+` FROM telehealth_encounter WHERE patient_ref = $1 ORDER BY scheduled_at DESC LIMIT $2 OFFSET $3`,
		patientRef, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectEncs(rows, total)
}

func (r *repoPG) ListByState(ctx context.Context, state VisitState, limit, offset int) ([]*TelehealthEncounter, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM telehealth_encounter WHERE visit_state = $1`, state).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+encCols+` FROM telehealth_encounter WHERE visit_state = $1 ORDER BY scheduled_at DESC LIMIT $2 OFFSET $3`,
		state, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectEncs(rows, total)
}

// Status History

func (r *repoPG) AddStatusChange(ctx context.Context, sc *StatusChange) error {
	if sc.ID == uuid.Nil {
		sc.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO encounter_status_history (id, encounter_id, from_state, to_state, changed_at)
		VALUES ($1,$2,$3,$4,$5)`,
		sc.ID, sc.EncounterID, sc.FromState, sc.ToState, sc.ChangedAt,
	)
	return err
}

func (r *repoPG) GetStatusHistory(ctx context.Context, encounterID uuid.UUID) ([]*StatusChange, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, encounter_id, from_state, to_state, changed_at
		FROM encounter_status_history WHERE encounter_id = $1 ORDER BY changed_at`, encounterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []*StatusChange
	for rows.Next() {
		var sc StatusChange
		if err := rows.Scan(&sc.ID, &sc.EncounterID, &sc.FromState, &sc.ToState, &sc.ChangedAt); err != nil {
			return nil, err
		}
		history = append(history, &sc)
	}
	return history, rows.Err()
}

func marshalDocs(enc *TelehealthEncounter) (segments, inf, note []byte, err error) {
	if len(enc.Segments) > 0 {
		if segments, err = json.Marshal(enc.Segments); err != nil {
			return nil, nil, nil, fmt.Errorf("marshal segments: %w", err)
		}
	}
	if enc.Inference != nil {
		if inf, err = json.Marshal(enc.Inference); err != nil {
			return nil, nil, nil, fmt.Errorf("marshal inference: %w", err)
		}
	}
	if enc.Note != nil {
		if note, err = json.Marshal(enc.Note); err != nil {
			return nil, nil, nil, fmt.Errorf("marshal note: %w", err)
		}
	}
	return segments, inf, note, nil
}

func scanEnc(row pgx.Row) (*TelehealthEncounter, error) {
	var e TelehealthEncounter
	var segments, infJSON, noteJSON []byte
	err := row.Scan(
		&e.ID, &e.TenantID, &e.PhysicianRef, &e.PatientRef, &e.Specialty, &e.Jurisdiction, &e.Platform,
		&e.VisitState, &e.ConsentStatus, &e.ConsentMethod, &e.ConsentTimestamp, &e.ConsentVerbalText,
		&e.Transcript, &segments, &infJSON, &noteJSON,
		&e.NeedsFollowup, &e.FollowupUrgency, &e.FollowupReason, &e.Recommendations,
		&e.EligibilityIssues, &e.ComplianceIssues,
		&e.EstablishedPatient, &e.PriorInPersonVisit, &e.InsuranceType, &e.GeographicRestriction,
		&e.ConnectionQuality, &e.ScheduledAt, &e.StartedAt, &e.EndedAt, &e.DurationMinutes,
		&e.CancelReason, &e.FailureDetails, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalDocs(&e, segments, infJSON, noteJSON); err != nil {
		return nil, err
	}
	return &e, nil
}

func collectEncs(rows pgx.Rows, total int) ([]*TelehealthEncounter, int, error) {
	var encs []*TelehealthEncounter
	for rows.Next() {
		enc, err := scanEnc(rows)
		if err != nil {
			return nil, 0, err
		}
		encs = append(encs, enc)
	}
	return encs, total, rows.Err()
}

func unmarshalDocs(e *TelehealthEncounter, segments, infJSON, noteJSON []byte) error {
	if len(segments) > 0 {
		if err := json.Unmarshal(segments, &e.Segments); err != nil {
			return fmt.Errorf("unmarshal segments: %w", err)
		}
	}
	if len(infJSON) > 0 {
		var inf inference.Result
		if err := json.Unmarshal(infJSON, &inf); err != nil {
			return fmt.Errorf("unmarshal inference: %w", err)
		}
		e.Inference = &inf
	}
	if len(noteJSON) > 0 {
		var note SOAPNote
		if err := json.Unmarshal(noteJSON, &note); err != nil {
			return fmt.Errorf("unmarshal note: %w", err)
		}
		e.Note = &note
	}
	return nil
}
