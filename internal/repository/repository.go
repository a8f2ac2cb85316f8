package repository

import (
	"academy/lms-backend/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// UpdateCredentials replaces name, password hash and role of an existing user.
	UpdateCredentials(ctx context.Context, id primitive.ObjectID, name, passwordHash string, role domain.Role) error
}

// CourseRepository persists the course tree.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error)
	// ListByParent returns the direct children of parentID, or the roots when
	// parentID is nil, sorted by order ascending then newest first.
	ListByParent(ctx context.Context, parentID *primitive.ObjectID) ([]domain.Course, error)
	DeleteAll(ctx context.Context) error
}

// SectionRepository persists sections.
type SectionRepository interface {
	Create(ctx context.Context, section *domain.Section) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Section, error)
	// ListByCourse is sorted by order ascending then oldest first.
	ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Section, error)
	DeleteAll(ctx context.Context) error
}

// SessionRepository persists sessions and their content arrays.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	// ListBySection is sorted oldest first.
	ListBySection(ctx context.Context, sectionID primitive.ObjectID) ([]domain.Session, error)
	// UpdateContent replaces the three content arrays of the session.
	UpdateContent(ctx context.Context, id primitive.ObjectID, content domain.SessionContent) (*domain.Session, error)
	DeleteAll(ctx context.Context) error
}
