// Package memory provides map-backed repositories with the same ordering
// and error semantics as the MongoDB implementations. They back the CLI
// dry runs and the service and handler tests.
package memory

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"academy/lms-backend/internal/domain"
	"academy/lms-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// now is monotonic across calls so creation-time sorting is deterministic
// even when two inserts land in the same clock tick.
type clock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := time.Now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

// UserRepository is an in-memory repository.UserRepository.
type UserRepository struct {
	mu    sync.RWMutex
	clock clock
	users map[primitive.ObjectID]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: map[primitive.ObjectID]domain.User{}}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, errors.New("user email, password hash, and role are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.users {
		if u.Email == email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.Email = email
	user.CreatedAt = r.clock.now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) UpdateCredentials(_ context.Context, id primitive.ObjectID, name, passwordHash string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Name, u.PasswordHash, u.Role = name, passwordHash, role
	u.UpdatedAt = r.clock.now()
	r.users[id] = u
	return nil
}

// CourseRepository is an in-memory repository.CourseRepository.
type CourseRepository struct {
	mu      sync.RWMutex
	clock   clock
	courses map[primitive.ObjectID]domain.Course
}

func NewCourseRepository() *CourseRepository {
	return &CourseRepository{courses: map[primitive.ObjectID]domain.Course{}}
}

func (r *CourseRepository) Create(_ context.Context, course *domain.Course) (primitive.ObjectID, error) {
	if course.Title == "" {
		return primitive.NilObjectID, errors.New("course title is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	course.ID = primitive.NewObjectID()
	course.CreatedAt = r.clock.now()
	course.UpdatedAt = course.CreatedAt
	r.courses[course.ID] = *course
	return course.ID, nil
}

func (r *CourseRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

// ListByParent sorts by order ascending, then newest first.
func (r *CourseRepository) ListByParent(_ context.Context, parentID *primitive.ObjectID) ([]domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Course{}
	for _, c := range r.courses {
		switch {
		case parentID == nil && c.ParentID == nil:
		case parentID != nil && c.ParentID != nil && *c.ParentID == *parentID:
		default:
			continue
		}
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b domain.Course) int {
		if n := cmp.Compare(a.Order, b.Order); n != 0 {
			return n
		}
		if n := b.CreatedAt.Compare(a.CreatedAt); n != 0 {
			return n
		}
		return compareIDs(b.ID, a.ID)
	})
	return out, nil
}

func (r *CourseRepository) DeleteAll(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.courses = map[primitive.ObjectID]domain.Course{}
	return nil
}

// Len returns the number of stored courses.
func (r *CourseRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.courses)
}

// SectionRepository is an in-memory repository.SectionRepository.
type SectionRepository struct {
	mu       sync.RWMutex
	clock    clock
	sections map[primitive.ObjectID]domain.Section
}

func NewSectionRepository() *SectionRepository {
	return &SectionRepository{sections: map[primitive.ObjectID]domain.Section{}}
}

func (r *SectionRepository) Create(_ context.Context, section *domain.Section) (primitive.ObjectID, error) {
	if section.CourseID == primitive.NilObjectID || section.Title == "" {
		return primitive.NilObjectID, errors.New("section requires courseId and title")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	section.ID = primitive.NewObjectID()
	section.CreatedAt = r.clock.now()
	section.UpdatedAt = section.CreatedAt
	r.sections[section.ID] = *section
	return section.ID, nil
}

func (r *SectionRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Section, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sections[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

// ListByCourse sorts by order ascending, then oldest first.
func (r *SectionRepository) ListByCourse(_ context.Context, courseID primitive.ObjectID) ([]domain.Section, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Section{}
	for _, s := range r.sections {
		if s.CourseID == courseID {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b domain.Section) int {
		if n := cmp.Compare(a.Order, b.Order); n != 0 {
			return n
		}
		if n := a.CreatedAt.Compare(b.CreatedAt); n != 0 {
			return n
		}
		return compareIDs(a.ID, b.ID)
	})
	return out, nil
}

func (r *SectionRepository) DeleteAll(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sections = map[primitive.ObjectID]domain.Section{}
	return nil
}

// Len returns the number of stored sections.
func (r *SectionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sections)
}

// SessionRepository is an in-memory repository.SessionRepository.
type SessionRepository struct {
	mu       sync.RWMutex
	clock    clock
	sessions map[primitive.ObjectID]domain.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: map[primitive.ObjectID]domain.Session{}}
}

func (r *SessionRepository) Create(_ context.Context, session *domain.Session) (primitive.ObjectID, error) {
	if session.SectionID == primitive.NilObjectID || session.Title == "" {
		return primitive.NilObjectID, errors.New("session requires sectionId and title")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	session.ID = primitive.NewObjectID()
	session.SessionContent = cloneContent(session.SessionContent)
	session.CreatedAt = r.clock.now()
	session.UpdatedAt = session.CreatedAt
	r.sessions[session.ID] = *session
	return session.ID, nil
}

func (r *SessionRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s.SessionContent = cloneContent(s.SessionContent)
	return &s, nil
}

// ListBySection sorts oldest first.
func (r *SessionRepository) ListBySection(_ context.Context, sectionID primitive.ObjectID) ([]domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Session{}
	for _, s := range r.sessions {
		if s.SectionID == sectionID {
			s.SessionContent = cloneContent(s.SessionContent)
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b domain.Session) int {
		if n := a.CreatedAt.Compare(b.CreatedAt); n != 0 {
			return n
		}
		return compareIDs(a.ID, b.ID)
	})
	return out, nil
}

func (r *SessionRepository) UpdateContent(_ context.Context, id primitive.ObjectID, content domain.SessionContent) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s.SessionContent = cloneContent(content)
	s.UpdatedAt = r.clock.now()
	r.sessions[id] = s
	s.SessionContent = cloneContent(s.SessionContent)
	return &s, nil
}

func (r *SessionRepository) DeleteAll(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = map[primitive.ObjectID]domain.Session{}
	return nil
}

// Len returns the number of stored sessions.
func (r *SessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func cloneContent(c domain.SessionContent) domain.SessionContent {
	return domain.SessionContent{
		Videos:    append([]domain.VideoItem{}, c.Videos...),
		Ppts:      append([]domain.PptItem{}, c.Ppts...),
		Materials: append([]domain.MaterialItem{}, c.Materials...),
	}
}

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.CourseRepository  = (*CourseRepository)(nil)
	_ repository.SectionRepository = (*SectionRepository)(nil)
	_ repository.SessionRepository = (*SessionRepository)(nil)
)

// compareIDs breaks ties the way an _id sort key does.
func compareIDs(a, b primitive.ObjectID) int {
	return bytes.Compare(a[:], b[:])
}
