package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/adilnd/portfolio-api/internal/mailer"
	"github.com/adilnd/portfolio-api/internal/model"
	"github.com/adilnd/portfolio-api/internal/repository"
)

// fakeStore is an in-memory stand-in for the pgx repositories. It mirrors
// the repository semantics closely enough to exercise the workflow rules:
// capacity and duplicate checks, single-use tokens, cancel bookkeeping.
type fakeStore struct {
	mu         sync.Mutex
	formations map[string]*model.Formation
	regs       map[string]*model.Registration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		formations: map[string]*model.Formation{},
		regs:       map[string]*model.Registration{},
	}
}

func (f *fakeStore) addFormation(m *model.Formation) {
	f.formations[m.ID] = m
}

// fakeFormations is the formation-side view over the shared fakeStore. It
// satisfies both FormationGetter and FormationStore.
type fakeFormations struct {
	s *fakeStore
}

func (f *fakeFormations) GetByID(_ context.Context, id string) (*model.Formation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	fm, ok := f.s.formations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *fm
	return &cp, nil
}

func (f *fakeFormations) Create(_ context.Context, req model.CreateFormationRequest) (*model.Formation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	fm := &model.Formation{
		ID:              "f-" + req.Title,
		Title:           req.Title,
		Category:        req.Category,
		Level:           req.Level,
		Status:          req.Status,
		MaxParticipants: req.MaxParticipants,
		CreatedAt:       time.Now().UTC(),
	}
	f.s.formations[fm.ID] = fm
	cp := *fm
	return &cp, nil
}

func (f *fakeFormations) List(_ context.Context, _ model.FormationFilter) ([]model.Formation, int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []model.Formation
	for _, fm := range f.s.formations {
		out = append(out, *fm)
	}
	return out, len(out), nil
}

func (f *fakeFormations) IncrementViews(_ context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	fm, ok := f.s.formations[id]
	if !ok {
		return repository.ErrNotFound
	}
	fm.Views++
	return nil
}

func (f *fakeFormations) Update(_ context.Context, id string, patch model.FormationPatch) (*model.Formation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	fm, ok := f.s.formations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Title != nil {
		fm.Title = *patch.Title
	}
	if patch.MaxParticipants != nil {
		fm.MaxParticipants = *patch.MaxParticipants
	}
	if patch.Status != nil {
		fm.Status = *patch.Status
	}
	cp := *fm
	return &cp, nil
}

func (f *fakeFormations) Delete(_ context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.formations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.s.formations, id)
	// Mirror the FK cascade: registrations go with their formation.
	for rid, reg := range f.s.regs {
		if reg.FormationID == id {
			delete(f.s.regs, rid)
		}
	}
	return nil
}

// RegistrationStore

func (f *fakeStore) Register(_ context.Context, reg *model.Registration) (*model.Formation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fm, ok := f.formations[reg.FormationID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, existing := range f.regs {
		if existing.FormationID == reg.FormationID &&
			existing.Email == reg.Email &&
			existing.Status != model.RegistrationCancelled {
			return nil, repository.ErrDuplicateRegistration
		}
	}
	if fm.IsFull() {
		return nil, repository.ErrCapacityExceeded
	}

	fm.CurrentParticipants++
	cp := *reg
	f.regs[reg.ID] = &cp
	fmCopy := *fm
	return &fmCopy, nil
}

func (f *fakeStore) Verify(_ context.Context, token string) (*model.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now().UTC()
	for _, reg := range f.regs {
		if reg.VerificationToken != nil && *reg.VerificationToken == token &&
			!reg.IsVerified &&
			reg.VerificationTokenExpires != nil && reg.VerificationTokenExpires.After(now) {
			reg.IsVerified = true
			reg.Status = model.RegistrationConfirmed
			reg.ConfirmedAt = &now
			reg.VerificationToken = nil
			reg.VerificationTokenExpires = nil
			cp := *reg
			return &cp, nil
		}
	}
	return nil, repository.ErrInvalidToken
}

func (f *fakeStore) FindPending(_ context.Context, email, formationID string) (*model.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now().UTC()
	for _, reg := range f.regs {
		if reg.Email == email && reg.FormationID == formationID &&
			!reg.IsVerified &&
			reg.VerificationToken != nil &&
			reg.VerificationTokenExpires != nil && reg.VerificationTokenExpires.After(now) {
			cp := *reg
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*model.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.regs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *reg
	return &cp, nil
}

func (f *fakeStore) Cancel(_ context.Context, id, email, reason string) (*model.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reg, ok := f.regs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !strings.EqualFold(reg.Email, email) {
		return nil, repository.ErrEmailMismatch
	}
	if reg.Status == model.RegistrationCancelled {
		return nil, repository.ErrAlreadyCancelled
	}

	now := time.Now().UTC()
	reg.Status = model.RegistrationCancelled
	reg.CancelledAt = &now
	reg.CancellationReason = reason
	if fm, ok := f.formations[reg.FormationID]; ok && fm.CurrentParticipants > 0 {
		fm.CurrentParticipants--
	}
	cp := *reg
	return &cp, nil
}

func (f *fakeStore) UpdatePayment(_ context.Context, id string, req model.PaymentUpdateRequest) (*model.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reg, ok := f.regs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	reg.PaymentStatus = req.PaymentStatus
	reg.PaymentReference = req.PaymentReference
	reg.PaymentMethod = req.PaymentMethod
	cp := *reg
	return &cp, nil
}

func (f *fakeStore) List(_ context.Context, filter model.RegistrationFilter) ([]model.Registration, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.Registration
	for _, reg := range f.regs {
		if filter.Status != "" && reg.Status != filter.Status {
			continue
		}
		if filter.FormationID != "" && reg.FormationID != filter.FormationID {
			continue
		}
		out = append(out, *reg)
	}
	total := len(out)
	if filter.Offset >= len(out) {
		return nil, total, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (f *fakeStore) Stats(_ context.Context) (*model.RegistrationStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var s model.RegistrationStats
	for _, reg := range f.regs {
		s.Total++
		switch reg.Status {
		case model.RegistrationPending:
			s.Pending++
		case model.RegistrationConfirmed:
			s.Confirmed++
		case model.RegistrationCancelled:
			s.Cancelled++
		}
		if reg.IsVerified {
			s.Verified++
		}
	}
	return &s, nil
}

func (f *fakeStore) BulkConfirm(_ context.Context, ids []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	now := time.Now().UTC()
	for _, id := range ids {
		reg, ok := f.regs[id]
		if !ok || reg.Status == model.RegistrationCancelled {
			continue
		}
		reg.Status = model.RegistrationConfirmed
		reg.IsVerified = true
		reg.ConfirmedAt = &now
		n++
	}
	return n, nil
}

func (f *fakeStore) BulkCancel(_ context.Context, ids []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	now := time.Now().UTC()
	for _, id := range ids {
		reg, ok := f.regs[id]
		if !ok || reg.Status == model.RegistrationCancelled {
			continue
		}
		reg.Status = model.RegistrationCancelled
		reg.CancelledAt = &now
		if fm, ok := f.formations[reg.FormationID]; ok && fm.CurrentParticipants > 0 {
			fm.CurrentParticipants--
		}
		n++
	}
	return n, nil
}

func (f *fakeStore) BulkDelete(_ context.Context, ids []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, id := range ids {
		if _, ok := f.regs[id]; ok {
			delete(f.regs, id)
			n++
		}
	}
	return n, nil
}

// fakeMailer records sent emails and optionally fails every send.
type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Email
	fail bool
}

func (m *fakeMailer) Send(_ context.Context, e mailer.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, e)
	return nil
}

func (m *fakeMailer) sentTo(addr string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.sent {
		if e.To == addr {
			n++
		}
	}
	return n
}
