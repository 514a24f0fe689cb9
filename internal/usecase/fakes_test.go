package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"omylab/internal/data/entity"
	"omylab/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// memStore backs every fake repository with plain maps.
type memStore struct {
	mu         sync.Mutex
	txMu       sync.Mutex
	employees  map[uuid.UUID]*entity.Employee
	otps       map[uuid.UUID]*entity.OTP
	sessions   map[string]*entity.Session
	audit      []*entity.AuditEntry
	bands      map[uuid.UUID]*entity.ReferenceBand
	components map[uuid.UUID]bool
	patients   map[uuid.UUID]*entity.Patient
	results    map[uuid.UUID]*entity.Result
	resultRows map[uuid.UUID]*entity.ResultComponent
	auditErr   error
}

func newMemStore() *memStore {
	return &memStore{
		employees:  make(map[uuid.UUID]*entity.Employee),
		otps:       make(map[uuid.UUID]*entity.OTP),
		sessions:   make(map[string]*entity.Session),
		bands:      make(map[uuid.UUID]*entity.ReferenceBand),
		components: make(map[uuid.UUID]bool),
		patients:   make(map[uuid.UUID]*entity.Patient),
		results:    make(map[uuid.UUID]*entity.Result),
		resultRows: make(map[uuid.UUID]*entity.ResultComponent),
	}
}

func (s *memStore) repository() *repository.Repository {
	repo := s.bound()
	repo.Tx = &memTransactor{store: s}
	return repo
}

func (s *memStore) bound() *repository.Repository {
	return &repository.Repository{
		Employee: &memEmployees{s},
		OTP:      &memOTPs{s},
		Session:  &memSessions{s},
		Audit:    &memAudit{s},
		Band:     &memBands{s},
		Patient:  &memPatients{s},
		Result:   &memResults{s},
	}
}

func (s *memStore) addEmployee(username, password string, status entity.EmployeeStatus) *entity.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entity.Employee{
		Base:      entity.Base{ID: uuid.New()},
		FirstName: "Luis",
		LastName:  "Morales",
		DNI:       "45879632",
		Email:     username + "@omylab.pe",
		Username:  username,
		Password:  password,
		Role:      entity.RoleBiologist,
		Status:    status,
	}
	s.employees[e.ID] = e
	return e
}

func (s *memStore) otpsFor(employeeID uuid.UUID) []*entity.OTP {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*entity.OTP
	for _, o := range s.otps {
		if o.EmployeeID == employeeID {
			c := *o
			out = append(out, &c)
		}
	}
	return out
}

func (s *memStore) auditEntries() []*entity.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.AuditEntry(nil), s.audit...)
}

// memTransactor serializes transactions and restores the employee, OTP and
// result tables when fn fails.
type memTransactor struct {
	store *memStore
}

func (t *memTransactor) Serializable(ctx context.Context, fn func(tx *repository.Repository) error) error {
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	t.store.mu.Lock()
	otps := make(map[uuid.UUID]*entity.OTP, len(t.store.otps))
	for k, v := range t.store.otps {
		c := *v
		otps[k] = &c
	}
	rows := make(map[uuid.UUID]*entity.ResultComponent, len(t.store.resultRows))
	for k, v := range t.store.resultRows {
		c := *v
		rows[k] = &c
	}
	employees := make(map[uuid.UUID]*entity.Employee, len(t.store.employees))
	for k, v := range t.store.employees {
		c := *v
		employees[k] = &c
	}
	results := make(map[uuid.UUID]*entity.Result, len(t.store.results))
	for k, v := range t.store.results {
		c := *v
		results[k] = &c
	}
	t.store.mu.Unlock()

	if err := fn(t.store.bound()); err != nil {
		t.store.mu.Lock()
		t.store.employees = employees
		t.store.otps = otps
		t.store.resultRows = rows
		t.store.results = results
		t.store.mu.Unlock()
		return err
	}
	return nil
}

type memEmployees struct{ s *memStore }

func (r *memEmployees) FindActiveByCredentials(_ context.Context, username, password string) (*entity.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.employees {
		if e.Username == username && e.Password == password && e.IsActive() {
			c := *e
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memEmployees) FindActiveByUsername(_ context.Context, username string) (*entity.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.employees {
		if e.Username == username && e.IsActive() {
			c := *e
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memEmployees) FindByID(_ context.Context, id uuid.UUID) (*entity.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.employees[id]; ok {
		c := *e
		return &c, nil
	}
	return nil, nil
}

func (r *memEmployees) LockForUpdate(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[id]; !ok {
		return fmt.Errorf("employee %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *memEmployees) UsernameExists(_ context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.employees {
		if e.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memEmployees) Create(_ context.Context, employee *entity.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *employee
	r.s.employees[employee.ID] = &c
	return nil
}

func (r *memEmployees) UpdateStatus(_ context.Context, id uuid.UUID, status entity.EmployeeStatus, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[id]
	if !ok {
		return fmt.Errorf("employee %s: %w", id, repository.ErrNotFound)
	}
	e.Status = status
	e.UpdatedAt = updatedAt
	return nil
}

func (r *memEmployees) FindAll(_ context.Context, limit, offset int) ([]*entity.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*entity.Employee, 0, len(r.s.employees))
	for _, e := range r.s.employees {
		c := *e
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memEmployees) CountAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.employees)), nil
}

type memOTPs struct{ s *memStore }

func (r *memOTPs) Create(_ context.Context, otp *entity.OTP) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *otp
	r.s.otps[otp.ID] = &c
	return nil
}

func (r *memOTPs) FindLatestUnused(_ context.Context, employeeID uuid.UUID) (*entity.OTP, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *entity.OTP
	for _, o := range r.s.otps {
		if o.EmployeeID != employeeID || o.Used {
			continue
		}
		if latest == nil || o.ExpiresAt.After(latest.ExpiresAt) {
			latest = o
		}
	}
	if latest == nil {
		return nil, nil
	}
	c := *latest
	return &c, nil
}

func (r *memOTPs) MarkAsUsed(_ context.Context, otpID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.otps[otpID]
	if !ok {
		return repository.ErrNotFound
	}
	o.Used = true
	return nil
}

func (r *memOTPs) Delete(_ context.Context, otpID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.otps[otpID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.otps, otpID)
	return nil
}

func (r *memOTPs) DeleteAllForEmployee(_ context.Context, employeeID uuid.UUID) (int64, error) {
	return r.deleteWhere(func(o *entity.OTP) bool { return o.EmployeeID == employeeID }), nil
}

func (r *memOTPs) DeleteUsedForEmployee(_ context.Context, employeeID uuid.UUID) (int64, error) {
	return r.deleteWhere(func(o *entity.OTP) bool { return o.EmployeeID == employeeID && o.Used }), nil
}

func (r *memOTPs) deleteWhere(match func(*entity.OTP) bool) int64 {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, o := range r.s.otps {
		if match(o) {
			delete(r.s.otps, id)
			n++
		}
	}
	return n
}

type memSessions struct{ s *memStore }

func (r *memSessions) Create(_ context.Context, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *session
	r.s.sessions[session.Token.String()] = &c
	return nil
}

func (r *memSessions) FindValidSession(_ context.Context, token string) (*entity.SessionIdentity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[token]
	if !ok || sess.RevokedAt != nil || !sess.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	e, ok := r.s.employees[sess.EmployeeID]
	if !ok || !e.IsActive() {
		return nil, nil
	}
	return &entity.SessionIdentity{
		SessionID:  sess.ID,
		EmployeeID: e.ID,
		Username:   e.Username,
		Role:       e.Role,
		ExpiresAt:  sess.ExpiresAt,
	}, nil
}

func (r *memSessions) Revoke(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[token]
	if !ok || sess.RevokedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	sess.RevokedAt = &now
	return nil
}

func (r *memSessions) CleanExpiredSessions(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	cutoff := time.Now().Add(-7 * 24 * time.Hour)
	for token, sess := range r.s.sessions {
		if sess.ExpiresAt.Before(cutoff) {
			delete(r.s.sessions, token)
			n++
		}
	}
	return n, nil
}

type memAudit struct{ s *memStore }

func (r *memAudit) Create(_ context.Context, entry *entity.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.auditErr != nil {
		return r.s.auditErr
	}
	c := *entry
	r.s.audit = append(r.s.audit, &c)
	return nil
}

func (r *memAudit) FindAll(_ context.Context, limit, offset int) ([]*entity.AuditEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entries := append([]*entity.AuditEntry(nil), r.s.audit...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if offset >= len(entries) {
		return nil, nil
	}
	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end], nil
}

func (r *memAudit) CountAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.audit)), nil
}

type memBands struct{ s *memStore }

func (r *memBands) FindByComponentID(_ context.Context, componentID uuid.UUID) ([]*entity.ReferenceBand, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ReferenceBand
	for _, b := range r.s.bands {
		if b.ComponentID == componentID {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *memBands) FindByID(_ context.Context, id uuid.UUID) (*entity.ReferenceBand, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.bands[id]; ok {
		c := *b
		return &c, nil
	}
	return nil, nil
}

func (r *memBands) ComponentExists(_ context.Context, componentID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.components[componentID], nil
}

func (r *memBands) Create(_ context.Context, band *entity.ReferenceBand) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	last := 0
	for _, b := range r.s.bands {
		if b.ComponentID == band.ComponentID && b.Position > last {
			last = b.Position
		}
	}
	band.Position = last + 1
	c := *band
	r.s.bands[band.ID] = &c
	return nil
}

func (r *memBands) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bands[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.bands, id)
	return nil
}

type memPatients struct{ s *memStore }

func (r *memPatients) FindByID(_ context.Context, id uuid.UUID) (*entity.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.patients[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

type memResults struct{ s *memStore }

func (r *memResults) FindByID(_ context.Context, id uuid.UUID) (*entity.Result, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if res, ok := r.s.results[id]; ok {
		c := *res
		return &c, nil
	}
	return nil, nil
}

func (r *memResults) FindComponents(_ context.Context, resultID, patientAnalysisID uuid.UUID) ([]*entity.ResultComponent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ResultComponent
	for _, rc := range r.s.resultRows {
		if rc.ResultID == resultID && rc.PatientAnalysisID == patientAnalysisID {
			c := *rc
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ComponentName < out[j].ComponentName })
	return out, nil
}

func (r *memResults) UpdateComponent(_ context.Context, componentRowID uuid.UUID, value float64, verdict string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc, ok := r.s.resultRows[componentRowID]
	if !ok {
		return repository.ErrNotFound
	}
	v := value
	rc.Value = &v
	rc.Verdict = verdict
	return nil
}

func (r *memResults) Complete(_ context.Context, resultID, _ uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.results[resultID]
	if !ok {
		return repository.ErrNotFound
	}
	res.Status = entity.ResultStatusCompleted
	return nil
}

// memPending is an in-memory PendingLoginStore.
type memPending struct {
	mu      sync.Mutex
	handles map[string]uuid.UUID
}

func newMemPending() *memPending {
	return &memPending{handles: make(map[string]uuid.UUID)}
}

func (p *memPending) Save(_ context.Context, token string, employeeID uuid.UUID, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for t, id := range p.handles {
		if id == employeeID {
			delete(p.handles, t)
		}
	}
	p.handles[token] = employeeID
	return nil
}

func (p *memPending) Find(_ context.Context, token string) (uuid.UUID, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, ok := p.handles[token]
	return id, ok, nil
}

// MockSender records outgoing mail.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}
