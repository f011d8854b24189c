package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"talenthub/internal/domain"
)

// In-memory fakes for the repository ports. Each fake implements only as
// much behavior as the tests exercise.

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

// fakeSessionRepo is mutex-guarded because the auth service touches
// sessions from background goroutines.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, sessionID string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) GetByRefreshToken(_ context.Context, refreshToken string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, session := range r.sessions {
		if session.RefreshToken == refreshToken {
			copied := *session
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

func (r *fakeSessionRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *fakeSessionRepo) UpdateLastUsed(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[sessionID]; ok {
		session.LastUsedAt = time.Now()
	}
	return nil
}

func (r *fakeSessionRepo) get(sessionID string) *domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[sessionID]
}

func (r *fakeSessionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

type fakeCompanyRepo struct {
	companies map[uuid.UUID]*domain.Company
	members   map[uuid.UUID][]uuid.UUID // userID -> companyIDs
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{
		companies: make(map[uuid.UUID]*domain.Company),
		members:   make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *fakeCompanyRepo) addMember(userID, companyID uuid.UUID) {
	r.members[userID] = append(r.members[userID], companyID)
}

func (r *fakeCompanyRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Company, error) {
	return r.companies[id], nil
}

func (r *fakeCompanyRepo) IsMember(_ context.Context, userID, companyID uuid.UUID) (bool, error) {
	for _, id := range r.members[userID] {
		if id == companyID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCompanyRepo) CompanyIDsForUser(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return r.members[userID], nil
}

type fakeJobRepo struct {
	jobs map[uuid.UUID]*domain.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[uuid.UUID]*domain.Job)}
}

func (r *fakeJobRepo) Create(_ context.Context, job *domain.Job) error {
	r.jobs[job.ID] = job
	return nil
}

func (r *fakeJobRepo) Update(_ context.Context, job *domain.Job) error {
	if _, ok := r.jobs[job.ID]; !ok {
		return domain.ErrNotFound
	}
	r.jobs[job.ID] = job
	return nil
}

func (r *fakeJobRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.jobs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Job, error) {
	return r.jobs[id], nil
}

func (r *fakeJobRepo) List(_ context.Context, filter *domain.JobFilter) ([]*domain.Job, int, error) {
	var out []*domain.Job
	for _, job := range r.jobs {
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		if filter.CompanyID != uuid.Nil && job.CompanyID != filter.CompanyID {
			continue
		}
		out = append(out, job)
	}
	return out, len(out), nil
}

func (r *fakeJobRepo) ReplaceSkills(_ context.Context, jobID uuid.UUID, skills []domain.JobSkill) error {
	if job, ok := r.jobs[jobID]; ok {
		job.Skills = skills
	}
	return nil
}

func (r *fakeJobRepo) CountApplications(_ context.Context, _ uuid.UUID) (int, error) {
	return 0, nil
}

type fakeProfileRepo struct {
	profiles    map[uuid.UUID]*domain.CandidateProfile
	linkUpdates []domain.ProfileLinks
	linksErr    error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*domain.CandidateProfile)}
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.CandidateProfile, error) {
	return r.profiles[userID], nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, profile *domain.CandidateProfile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeProfileRepo) SetResumeURL(_ context.Context, userID uuid.UUID, resumeURL string) error {
	profile, ok := r.profiles[userID]
	if !ok {
		profile = &domain.CandidateProfile{UserID: userID}
		r.profiles[userID] = profile
	}
	profile.ResumeURL = resumeURL
	return nil
}

func (r *fakeProfileRepo) UpdateLinks(_ context.Context, _ uuid.UUID, links domain.ProfileLinks) error {
	if r.linksErr != nil {
		return r.linksErr
	}
	r.linkUpdates = append(r.linkUpdates, links)
	return nil
}

func (r *fakeProfileRepo) ReplaceSkills(_ context.Context, userID uuid.UUID, skills []string) error {
	if profile, ok := r.profiles[userID]; ok {
		profile.Skills = skills
	}
	return nil
}

type fakeApplicationRepo struct {
	apps    map[uuid.UUID]*domain.Application
	answers map[uuid.UUID]map[string]string
	skills  map[uuid.UUID]*domain.SkillPartition

	listItems []*domain.ApplicationListItem
	lastScope domain.ApplicationScope

	analyticsRows []domain.AnalyticsRow

	answersErr error
	skillsErr  error
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{
		apps:    make(map[uuid.UUID]*domain.Application),
		answers: make(map[uuid.UUID]map[string]string),
		skills:  make(map[uuid.UUID]*domain.SkillPartition),
	}
}

func (r *fakeApplicationRepo) Create(_ context.Context, app *domain.Application) error {
	for _, existing := range r.apps {
		if existing.JobID == app.JobID && existing.UserID == app.UserID {
			return domain.ErrDuplicateApplication
		}
	}
	r.apps[app.ID] = app
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Application, error) {
	return r.apps[id], nil
}

func (r *fakeApplicationRepo) GetByJobAndUser(_ context.Context, jobID, userID uuid.UUID) (*domain.Application, error) {
	for _, app := range r.apps {
		if app.JobID == jobID && app.UserID == userID {
			return app, nil
		}
	}
	return nil, nil
}

func (r *fakeApplicationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.ApplicationStatus) error {
	app, ok := r.apps[id]
	if !ok {
		return domain.ErrNotFound
	}
	app.Status = status
	return nil
}

func (r *fakeApplicationRepo) List(_ context.Context, scope domain.ApplicationScope, filter *domain.ApplicationFilter) ([]*domain.ApplicationListItem, int, error) {
	r.lastScope = scope
	offset := filter.Offset()
	items := r.listItems
	if offset >= len(items) {
		return []*domain.ApplicationListItem{}, len(r.listItems), nil
	}
	end := offset + filter.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], len(r.listItems), nil
}

func (r *fakeApplicationRepo) AnalyticsRows(_ context.Context, scope domain.ApplicationScope, _ uuid.UUID, since time.Time) ([]domain.AnalyticsRow, error) {
	r.lastScope = scope
	var out []domain.AnalyticsRow
	for _, row := range r.analyticsRows {
		if row.AppliedAt.Before(since) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *fakeApplicationRepo) InsertAnswers(_ context.Context, applicationID uuid.UUID, answers map[string]string) error {
	if r.answersErr != nil {
		return r.answersErr
	}
	r.answers[applicationID] = answers
	return nil
}

func (r *fakeApplicationRepo) InsertSkills(_ context.Context, applicationID uuid.UUID, partition domain.SkillPartition) error {
	if r.skillsErr != nil {
		return r.skillsErr
	}
	r.skills[applicationID] = &partition
	return nil
}

func (r *fakeApplicationRepo) GetSkills(_ context.Context, applicationID uuid.UUID) (*domain.SkillPartition, error) {
	return r.skills[applicationID], nil
}

func (r *fakeApplicationRepo) GetAnswers(_ context.Context, applicationID uuid.UUID) (map[string]string, error) {
	return r.answers[applicationID], nil
}

var errFake = errors.New("fake repository failure")
