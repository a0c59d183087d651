package encounter

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, enc *TelehealthEncounter) error
	GetByID(ctx context.Context, id uuid.UUID) (*TelehealthEncounter, error)
	Update(ctx context.Context, enc *TelehealthEncounter) error
	List(ctx context.Context, limit, offset int) ([]*TelehealthEncounter, int, error)
	ListByPatient(ctx context.Context, patientRef string, limit, offset int) ([]*TelehealthEncounter, int, error)
	ListByState(ctx context.Context, state VisitState, limit, offset int) ([]*TelehealthEncounter, int, error)

	// Status History
	AddStatusChange(ctx context.Context, sc *StatusChange) error
	GetStatusHistory(ctx context.Context, encounterID uuid.UUID) ([]*StatusChange, error)
}
