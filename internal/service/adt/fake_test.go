package adt

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

// fakeRepo is an in-memory ADT store. WithTx serializes transactions and
// only keeps the changes of a callback that returns nil.
type fakeRepo struct {
	mu    sync.Mutex
	state *fakeState
}

type fakeState struct {
	patients   map[uuid.UUID]*model.Patient
	wards      map[uuid.UUID]*model.Ward
	beds       map[uuid.UUID]*model.Bed
	admissions map[uuid.UUID]*model.Admission
	transfers  []*model.Transfer
	discharges []*model.Discharge
	events     []*model.OutboxEvent
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{state: &fakeState{
		patients:   map[uuid.UUID]*model.Patient{},
		wards:      map[uuid.UUID]*model.Ward{},
		beds:       map[uuid.UUID]*model.Bed{},
		admissions: map[uuid.UUID]*model.Admission{},
	}}
}

func (s *fakeState) clone() *fakeState {
	c := &fakeState{
		patients:   s.patients,
		wards:      s.wards,
		beds:       s.beds,
		admissions: make(map[uuid.UUID]*model.Admission, len(s.admissions)),
		transfers:  append([]*model.Transfer(nil), s.transfers...),
		discharges: append([]*model.Discharge(nil), s.discharges...),
		events:     append([]*model.OutboxEvent(nil), s.events...),
	}
	for id, a := range s.admissions {
		cp := *a
		c.admissions[id] = &cp
	}
	return c
}

func (r *fakeRepo) addPatient(first, last string) *model.Patient {
	p := &model.Patient{Base: model.Base{ID: uuid.New()}, MRN: uuid.NewString()[:8], FirstName: first, LastName: last}
	r.state.patients[p.ID] = p
	return p
}

func (r *fakeRepo) addWard(name string) *model.Ward {
	w := &model.Ward{Base: model.Base{ID: uuid.New()}, Name: name, Type: model.WardTypeGeneral}
	r.state.wards[w.ID] = w
	return w
}

func (r *fakeRepo) addBed(ward *model.Ward, number string) *model.Bed {
	b := &model.Bed{Base: model.Base{ID: uuid.New()}, WardID: ward.ID, Number: number}
	r.state.beds[b.ID] = b
	return b
}

// openOn returns the open admissions referencing bedID.
func (s *fakeState) openOn(bedID uuid.UUID) []*model.Admission {
	var out []*model.Admission
	for _, a := range s.admissions {
		if a.IsOpen() && a.BedID != nil && *a.BedID == bedID {
			out = append(out, a)
		}
	}
	return out
}

func (r *fakeRepo) occupied(bedID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.state.openOn(bedID)) > 0
}

func (r *fakeRepo) WithTx(ctx context.Context, fn func(tx repository.ADTTx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	work := r.state.clone()
	if err := fn(&fakeTx{s: work}); err != nil {
		return err
	}
	r.state = work
	return nil
}

func (r *fakeRepo) GetAdmission(ctx context.Context, id uuid.UUID) (*model.Admission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.state.admissions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeRepo) ListAdmissions(ctx context.Context, filters *model.AdmissionFilters) ([]*model.Admission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Admission
	for _, a := range r.state.admissions {
		if filters.OpenOnly && !a.IsOpen() {
			continue
		}
		if filters.WardID != nil && a.WardID != *filters.WardID {
			continue
		}
		if filters.PatientID != nil && a.PatientID != *filters.PatientID {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRepo) ListTransfers(ctx context.Context, admissionID *uuid.UUID) ([]*model.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Transfer
	for _, t := range r.state.transfers {
		if admissionID == nil || t.AdmissionID == *admissionID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListDischarges(ctx context.Context, filters *model.DischargeFilters) ([]*model.Discharge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*model.Discharge(nil), r.state.discharges...), nil
}

func (r *fakeRepo) Census(ctx context.Context) ([]*model.WardCensus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.WardCensus
	for _, w := range r.state.wards {
		c := &model.WardCensus{WardID: w.ID, WardName: w.Name, WardType: w.Type}
		for _, b := range r.state.beds {
			if b.WardID != w.ID {
				continue
			}
			c.TotalBeds++
			if len(r.state.openOn(b.ID)) > 0 {
				c.OccupiedBeds++
			}
		}
		c.FreeBeds = c.TotalBeds - c.OccupiedBeds
		out = append(out, c)
	}
	return out, nil
}

type fakeTx struct {
	s *fakeState
}

func (t *fakeTx) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	p, ok := t.s.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (t *fakeTx) GetWard(ctx context.Context, id uuid.UUID) (*model.Ward, error) {
	w, ok := t.s.wards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return w, nil
}

func (t *fakeTx) LockBed(ctx context.Context, id uuid.UUID) (*model.Bed, error) {
	b, ok := t.s.beds[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	if open := t.s.openOn(id); len(open) > 0 {
		cp.Occupied = true
		cp.AdmissionID = &open[0].ID
	}
	return &cp, nil
}

func (t *fakeTx) LockAdmission(ctx context.Context, id uuid.UUID) (*model.Admission, error) {
	a, ok := t.s.admissions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

// checkIndexes mirrors the partial unique indexes on open admissions.
func (t *fakeTx) checkIndexes(a *model.Admission) error {
	if !a.IsOpen() {
		return nil
	}
	for _, other := range t.s.admissions {
		if other.ID == a.ID || !other.IsOpen() {
			continue
		}
		if a.BedID != nil && other.BedID != nil && *a.BedID == *other.BedID {
			return repository.ErrBedOccupied
		}
		if other.PatientID == a.PatientID {
			return repository.ErrPatientAdmitted
		}
	}
	return nil
}

func (t *fakeTx) CreateAdmission(ctx context.Context, admission *model.Admission) error {
	if err := t.checkIndexes(admission); err != nil {
		return err
	}
	cp := *admission
	t.s.admissions[admission.ID] = &cp
	return nil
}

func (t *fakeTx) UpdateAdmission(ctx context.Context, admission *model.Admission) error {
	if _, ok := t.s.admissions[admission.ID]; !ok {
		return repository.ErrNotFound
	}
	if err := t.checkIndexes(admission); err != nil {
		return err
	}
	cp := *admission
	t.s.admissions[admission.ID] = &cp
	return nil
}

func (t *fakeTx) LatestTransferDate(ctx context.Context, admissionID uuid.UUID) (*time.Time, error) {
	var latest *time.Time
	for _, tr := range t.s.transfers {
		if tr.AdmissionID != admissionID {
			continue
		}
		if latest == nil || tr.TransferDate.After(*latest) {
			at := tr.TransferDate
			latest = &at
		}
	}
	return latest, nil
}

func (t *fakeTx) CreateTransfer(ctx context.Context, transfer *model.Transfer) error {
	t.s.transfers = append(t.s.transfers, transfer)
	return nil
}

func (t *fakeTx) CreateDischarge(ctx context.Context, discharge *model.Discharge) error {
	for _, d := range t.s.discharges {
		if d.AdmissionID == discharge.AdmissionID {
			return repository.ErrDuplicate
		}
	}
	t.s.discharges = append(t.s.discharges, discharge)
	return nil
}

func (t *fakeTx) EnqueueEvent(ctx context.Context, event *model.OutboxEvent) error {
	t.s.events = append(t.s.events, event)
	return nil
}
