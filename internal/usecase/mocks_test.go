package usecase

import (
	"context"
	"database/sql"
	"time"

	"campus-connect/internal/database"
	"campus-connect/internal/domain/application"
	"campus-connect/internal/domain/call"
	"campus-connect/internal/domain/job"
	"campus-connect/internal/domain/notification"
	"campus-connect/internal/domain/user"
	"campus-connect/internal/repository"

	"github.com/google/uuid"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(context.Context, string, ...any) (int64, error)          { return 0, nil }
func (t *fakeTx) Query(context.Context, string, ...any) (database.Rows, error) { return nil, nil }
func (t *fakeTx) QueryRow(context.Context, string, ...any) database.Row        { return nil }
func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}
func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	beginErr error
	txs      []*fakeTx
}

func (d *fakeDB) Exec(context.Context, string, ...any) (int64, error)          { return 0, nil }
func (d *fakeDB) Query(context.Context, string, ...any) (database.Rows, error) { return nil, nil }
func (d *fakeDB) QueryRow(context.Context, string, ...any) database.Row        { return nil }
func (d *fakeDB) Ping(context.Context) error                                   { return nil }
func (d *fakeDB) Close() error                                                 { return nil }
func (d *fakeDB) SQLDB() *sql.DB                                               { return nil }

func (d *fakeDB) Begin(context.Context) (database.Tx, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	tx := &fakeTx{}
	d.txs = append(d.txs, tx)
	return tx, nil
}

// mockJobRepo keeps jobs in memory and replays the conditional-update guards
// the SQL layer enforces, so transition tests exercise the same legality
// rules.
type mockJobRepo struct {
	jobs map[uuid.UUID]job.Job
	err  error

	viewIncrements int
	appIncrements  int
}

func newMockJobRepo(jobs ...job.Job) *mockJobRepo {
	m := &mockJobRepo{jobs: make(map[uuid.UUID]job.Job)}
	for _, j := range jobs {
		m.jobs[j.ID] = j
	}
	return m
}

func (m *mockJobRepo) Create(_ context.Context, j job.Job) error {
	if m.err != nil {
		return m.err
	}
	m.jobs[j.ID] = j
	return nil
}

func (m *mockJobRepo) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	if m.err != nil {
		return job.Job{}, m.err
	}
	j, ok := m.jobs[id]
	if !ok {
		return job.Job{}, repository.ErrJobNotFound
	}
	return j, nil
}

func (m *mockJobRepo) UpdateContent(_ context.Context, id uuid.UUID, title, description string, tags []string) error {
	j, ok := m.jobs[id]
	if !ok {
		return repository.ErrJobNotFound
	}
	j.Title, j.Description, j.Tags = title, description, tags
	m.jobs[id] = j
	return nil
}

func (m *mockJobRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.jobs[id]; !ok {
		return repository.ErrJobNotFound
	}
	delete(m.jobs, id)
	return nil
}

func (m *mockJobRepo) ListPublished(_ context.Context, _, _ int) ([]job.Job, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []job.Job
	for _, j := range m.jobs {
		if j.IsPublished {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *mockJobRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]job.Job, error) {
	var out []job.Job
	for _, j := range m.jobs {
		if j.OwnerID == ownerID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *mockJobRepo) ListPendingModeration(_ context.Context, _, _ int) ([]job.Job, error) {
	var out []job.Job
	for _, j := range m.jobs {
		if j.ModerationStatus == job.ModerationPending && !j.IsDraft {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *mockJobRepo) Submit(_ context.Context, _ database.Queryer, id uuid.UUID) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	j, ok := m.jobs[id]
	if !ok || !(j.IsDraft || j.ModerationStatus == job.ModerationRejected) {
		return 0, nil
	}
	j.IsDraft = false
	j.ModerationStatus = job.ModerationPending
	j.RejectionReason = nil
	m.jobs[id] = j
	return 1, nil
}

func (m *mockJobRepo) Moderate(_ context.Context, _ database.Queryer, id uuid.UUID, status job.ModerationStatus, reason *string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	j, ok := m.jobs[id]
	if !ok || j.ModerationStatus != job.ModerationPending || j.IsDraft {
		return 0, nil
	}
	j.ModerationStatus = status
	j.RejectionReason = reason
	if status == job.ModerationRejected {
		j.IsPublished = false
	}
	m.jobs[id] = j
	return 1, nil
}

func (m *mockJobRepo) SetPublished(_ context.Context, _ database.Queryer, id uuid.UUID, published bool) (int64, error) {
	j, ok := m.jobs[id]
	if !ok || j.ModerationStatus != job.ModerationApproved || j.IsDraft {
		return 0, nil
	}
	j.IsPublished = published
	m.jobs[id] = j
	return 1, nil
}

func (m *mockJobRepo) SetFilled(_ context.Context, _ database.Queryer, id uuid.UUID, filled bool) (int64, error) {
	j, ok := m.jobs[id]
	if !ok || !j.IsPublished || j.IsFilled == filled {
		return 0, nil
	}
	j.IsFilled = filled
	m.jobs[id] = j
	return 1, nil
}

func (m *mockJobRepo) IncrementViews(_ context.Context, _ uuid.UUID) error {
	m.viewIncrements++
	return nil
}

func (m *mockJobRepo) IncrementApplications(_ context.Context, _ database.Queryer, _ uuid.UUID) error {
	m.appIncrements++
	return nil
}

type mockApplicationRepo struct {
	apps      map[uuid.UUID]application.Application
	createErr error
	open      []repository.OpenApplicant
}

func newMockApplicationRepo(apps ...application.Application) *mockApplicationRepo {
	m := &mockApplicationRepo{apps: make(map[uuid.UUID]application.Application)}
	for _, a := range apps {
		m.apps[a.ID] = a
	}
	return m
}

func (m *mockApplicationRepo) Create(_ context.Context, _ database.Queryer, a application.Application) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.apps[a.ID] = a
	return nil
}

func (m *mockApplicationRepo) GetByID(_ context.Context, id uuid.UUID) (application.Application, error) {
	a, ok := m.apps[id]
	if !ok {
		return application.Application{}, repository.ErrApplicationNotFound
	}
	return a, nil
}

func (m *mockApplicationRepo) ListByJob(_ context.Context, jobID uuid.UUID) ([]application.Application, error) {
	var out []application.Application
	for _, a := range m.apps {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockApplicationRepo) ListByApplicant(_ context.Context, applicantID uuid.UUID) ([]application.Application, error) {
	var out []application.Application
	for _, a := range m.apps {
		if a.ApplicantID == applicantID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockApplicationRepo) UpdateStatus(_ context.Context, _ database.Queryer, id uuid.UUID, target application.Status, from []application.Status) (int64, error) {
	a, ok := m.apps[id]
	if !ok {
		return 0, nil
	}
	for _, s := range from {
		if a.Status == s {
			a.Status = target
			m.apps[id] = a
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockApplicationRepo) UpdateMatchScore(_ context.Context, id uuid.UUID, score int) error {
	a, ok := m.apps[id]
	if !ok {
		return repository.ErrApplicationNotFound
	}
	a.MatchScore = &score
	m.apps[id] = a
	return nil
}

func (m *mockApplicationRepo) ListOpenByJob(_ context.Context, _ database.Queryer, _ uuid.UUID) ([]repository.OpenApplicant, error) {
	return m.open, nil
}

type mockUserRepo struct {
	users map[uuid.UUID]user.User
}

func newMockUserRepo(users ...user.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[uuid.UUID]user.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) CreateUser(_ context.Context, u user.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, repository.ErrUserNotFound
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := m.GetUserByEmail(context.Background(), email)
	return err == nil, nil
}

type mockProfileRepo struct {
	profiles map[uuid.UUID]user.Profile
}

func newMockProfileRepo(profiles ...user.Profile) *mockProfileRepo {
	m := &mockProfileRepo{profiles: make(map[uuid.UUID]user.Profile)}
	for _, p := range profiles {
		m.profiles[p.UserID] = p
	}
	return m
}

func (m *mockProfileRepo) CreateProfile(_ context.Context, p user.Profile) error {
	m.profiles[p.UserID] = p
	return nil
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (user.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return user.Profile{}, repository.ErrProfileNotFound
	}
	return p, nil
}

func (m *mockProfileRepo) UpdateProfile(_ context.Context, p user.Profile) error {
	existing, ok := m.profiles[p.UserID]
	if !ok {
		return repository.ErrProfileNotFound
	}
	p.ID = existing.ID
	m.profiles[p.UserID] = p
	return nil
}

type mockCallRepo struct {
	calls     map[uuid.UUID]call.Request
	createErr error
}

func newMockCallRepo(calls ...call.Request) *mockCallRepo {
	m := &mockCallRepo{calls: make(map[uuid.UUID]call.Request)}
	for _, cr := range calls {
		m.calls[cr.ID] = cr
	}
	return m
}

func (m *mockCallRepo) Create(_ context.Context, _ database.Queryer, r call.Request) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.calls[r.ID] = r
	return nil
}

func (m *mockCallRepo) GetByID(_ context.Context, id uuid.UUID) (call.Request, error) {
	cr, ok := m.calls[id]
	if !ok {
		return call.Request{}, repository.ErrCallRequestNotFound
	}
	return cr, nil
}

func (m *mockCallRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]call.Request, error) {
	var out []call.Request
	for _, cr := range m.calls {
		if cr.Party(userID) {
			out = append(out, cr)
		}
	}
	return out, nil
}

func (m *mockCallRepo) Accept(_ context.Context, _ database.Queryer, id, roomID uuid.UUID, scheduledTime *time.Time) (int64, error) {
	cr, ok := m.calls[id]
	if !ok || cr.Status != call.StatusPending {
		return 0, nil
	}
	cr.Status = call.StatusAccepted
	cr.RoomID = &roomID
	cr.ScheduledTime = scheduledTime
	m.calls[id] = cr
	return 1, nil
}

func (m *mockCallRepo) Reject(_ context.Context, _ database.Queryer, id uuid.UUID, reason *string) (int64, error) {
	cr, ok := m.calls[id]
	if !ok || cr.Status != call.StatusPending {
		return 0, nil
	}
	cr.Status = call.StatusRejected
	cr.RejectReason = reason
	m.calls[id] = cr
	return 1, nil
}

func (m *mockCallRepo) Cancel(_ context.Context, _ database.Queryer, id uuid.UUID) (int64, error) {
	cr, ok := m.calls[id]
	if !ok || !cr.Open() {
		return 0, nil
	}
	cr.Status = call.StatusCancelled
	cr.RoomID = nil
	m.calls[id] = cr
	return 1, nil
}

func (m *mockCallRepo) Complete(_ context.Context, _ database.Queryer, id uuid.UUID) (int64, error) {
	cr, ok := m.calls[id]
	if !ok || cr.Status != call.StatusAccepted {
		return 0, nil
	}
	cr.Status = call.StatusCompleted
	cr.RoomID = nil
	m.calls[id] = cr
	return 1, nil
}

type mockNotificationRepo struct {
	created   []notification.Notification
	createErr error
	notFound  bool
}

func (m *mockNotificationRepo) CreateIn(_ context.Context, _ database.Queryer, n notification.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, n)
	return nil
}

func (m *mockNotificationRepo) ListByRecipient(_ context.Context, recipientID uuid.UUID, _, _ int) ([]notification.Notification, error) {
	var out []notification.Notification
	for _, n := range m.created {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, _, _ uuid.UUID) error {
	if m.notFound {
		return repository.ErrNotificationNotFound
	}
	return nil
}

func (m *mockNotificationRepo) Delete(_ context.Context, _, _ uuid.UUID) error {
	if m.notFound {
		return repository.ErrNotificationNotFound
	}
	return nil
}

type fakeVideo struct {
	roomID   uuid.UUID
	allocErr error
	tokenErr error
}

func (f *fakeVideo) AllocateRoom() (uuid.UUID, error) {
	if f.allocErr != nil {
		return uuid.Nil, f.allocErr
	}
	if f.roomID == uuid.Nil {
		f.roomID = uuid.New()
	}
	return f.roomID, nil
}

func (f *fakeVideo) IssueToken(roomID, userID uuid.UUID) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return "room-token", nil
}

func (f *fakeVideo) JoinLink(roomID uuid.UUID) string {
	return "/calls/rooms/" + roomID.String()
}
