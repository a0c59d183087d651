package encounter

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/telecare/telecare/internal/domain/inference"
)

// repoMemory is the default store. Encounters live only for the lifetime of
// the process, which keeps protected health information out of durable
// storage unless a deployment opts into the Postgres repository.
type repoMemory struct {
	mu         sync.RWMutex
	encounters map[uuid.UUID]*TelehealthEncounter
	history    map[uuid.UUID][]*StatusChange
}

func NewMemoryRepo() Repository {
	return &repoMemory{
		encounters: make(map[uuid.UUID]*TelehealthEncounter),
		history:    make(map[uuid.UUID][]*StatusChange),
	}
}

func (r *repoMemory) Create(_ context.Context, enc *TelehealthEncounter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if enc.ID == uuid.Nil {
		enc.ID = uuid.New()
	}
	if _, exists := r.encounters[enc.ID]; exists {
		return fmt.Errorf("encounter %s already exists", enc.ID)
	}
	now := time.Now().UTC()
	enc.CreatedAt = now
	enc.UpdatedAt = now
	r.encounters[enc.ID] = cloneEncounter(enc)
	return nil
}

func (r *repoMemory) GetByID(_ context.Context, id uuid.UUID) (*TelehealthEncounter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	enc, ok := r.encounters[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneEncounter(enc), nil
}

func (r *repoMemory) Update(_ context.Context, enc *TelehealthEncounter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.encounters[enc.ID]; !ok {
		return ErrNotFound
	}
	enc.UpdatedAt = time.Now().UTC()
	r.encounters[enc.ID] = cloneEncounter(enc)
	return nil
}

func (r *repoMemory) List(_ context.Context, limit, offset int) ([]*TelehealthEncounter, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.page(r.all(), limit, offset)
}

func (r *repoMemory) ListByPatient(_ context.Context, patientRef string, limit, offset int) ([]*TelehealthEncounter, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*TelehealthEncounter
	for _, enc := range r.all() {
		if enc.PatientRef == patientRef {
			matched = append(matched, enc)
		}
	}
	return r.page(matched, limit, offset)
}

func (r *repoMemory) ListByState(_ context.Context, state VisitState, limit, offset int) ([]*TelehealthEncounter, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*TelehealthEncounter
	for _, enc := range r.all() {
		if enc.VisitState == state {
			matched = append(matched, enc)
		}
	}
	return r.page(matched, limit, offset)
}

func (r *repoMemory) AddStatusChange(_ context.Context, sc *StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sc.ID == uuid.Nil {
		sc.ID = uuid.New()
	}
	copied := *sc
	r.history[sc.EncounterID] = append(r.history[sc.EncounterID], &copied)
	return nil
}

func (r *repoMemory) GetStatusHistory(_ context.Context, encounterID uuid.UUID) ([]*StatusChange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	changes := r.history[encounterID]
	out := make([]*StatusChange, len(changes))
	for i, sc := range changes {
		copied := *sc
		out[i] = &copied
	}
	return out, nil
}

// all returns clones sorted by scheduled time, newest first. Caller holds the
// lock.
func (r *repoMemory) all() []*TelehealthEncounter {
	encs := make([]*TelehealthEncounter, 0, len(r.encounters))
	for _, enc := range r.encounters {
		encs = append(encs, cloneEncounter(enc))
	}
	sort.Slice(encs, func(i, j int) bool {
		return encs[i].ScheduledAt.After(encs[j].ScheduledAt)
	})
	return encs
}

func (r *repoMemory) page(encs []*TelehealthEncounter, limit, offset int) ([]*TelehealthEncounter, int, error) {
	total := len(encs)
	if offset >= total {
		return nil, total, nil
	}
	encs = encs[offset:]
	if limit > 0 && limit < len(encs) {
		encs = encs[:limit]
	}
	return encs, total, nil
}

func cloneEncounter(enc *TelehealthEncounter) *TelehealthEncounter {
	copied := *enc
	copied.Segments = append([]inference.Segment(nil), enc.Segments...)
	copied.Recommendations = append([]string(nil), enc.Recommendations...)
	copied.EligibilityIssues = append([]string(nil), enc.EligibilityIssues...)
	copied.ComplianceIssues = append([]string(nil), enc.ComplianceIssues...)
	if enc.Inference != nil {
		inf := *enc.Inference
		copied.Inference = &inf
	}
	if enc.Note != nil {
		note := *enc.Note
		copied.Note = &note
	}
	return &copied
}
