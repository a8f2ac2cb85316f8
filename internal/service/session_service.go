package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"academy/lms-backend/internal/content"
	"academy/lms-backend/internal/domain"
	"academy/lms-backend/internal/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateSessionInput carries the fields accepted when creating a session.
// Content may use the arrays, the legacy single-URL fields, or both.
type CreateSessionInput struct {
	SectionID   primitive.ObjectID
	Title       string
	Description string
	Videos      []domain.VideoItem
	Ppts        []domain.PptItem
	Materials   []domain.MaterialItem
	Legacy      domain.LegacyContent
}

type SessionService interface {
	// CreateSession fails with ErrSectionNotFound when the section does not exist.
	CreateSession(ctx context.Context, in CreateSessionInput) (*domain.Session, error)
	ListSessionsBySection(ctx context.Context, sectionID primitive.ObjectID) ([]domain.Session, error)
	// GetSessionDetail returns the session with its section and that section's course.
	GetSessionDetail(ctx context.Context, id primitive.ObjectID) (*domain.SessionDetail, error)
	// AddContent appends add after the existing items of each kind.
	// An empty add returns the session as stored.
	AddContent(ctx context.Context, id primitive.ObjectID, add domain.SessionContent) (*domain.Session, error)
}

// sessionService implements the SessionService interface.
type sessionService struct {
	sessionRepo repository.SessionRepository
	sectionRepo repository.SectionRepository
	courseRepo  repository.CourseRepository
	log         logrus.FieldLogger
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(sessionRepo repository.SessionRepository, sectionRepo repository.SectionRepository, courseRepo repository.CourseRepository, log logrus.FieldLogger) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		sectionRepo: sectionRepo,
		courseRepo:  courseRepo,
		log:         log.WithField("component", "service.session"),
	}
}

func (s *sessionService) CreateSession(ctx context.Context, in CreateSessionInput) (*domain.Session, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	if _, err := s.sectionRepo.GetByID(ctx, in.SectionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}

	session := &domain.Session{
		SectionID:   in.SectionID,
		Title:       title,
		Description: in.Description,
		SessionContent: content.Reconcile(content.Payload{
			Title:     title,
			Videos:    in.Videos,
			Ppts:      in.Ppts,
			Materials: in.Materials,
			Legacy:    in.Legacy,
		}),
	}
	if _, err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"session_id": session.ID.Hex(),
		"videos":     len(session.Videos),
		"ppts":       len(session.Ppts),
		"materials":  len(session.Materials),
	}).Info("session created")
	return session, nil
}

func (s *sessionService) ListSessionsBySection(ctx context.Context, sectionID primitive.ObjectID) ([]domain.Session, error) {
	return s.sessionRepo.ListBySection(ctx, sectionID)
}

// GetSessionDetail tolerates a dangling section or course reference: the
// missing part is left nil and a warning is logged.
func (s *sessionService) GetSessionDetail(ctx context.Context, id primitive.ObjectID) (*domain.SessionDetail, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	detail := &domain.SessionDetail{Session: session}

	section, err := s.sectionRepo.GetByID(ctx, session.SectionID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.log.WithField("session_id", id.Hex()).Warn("session references a missing section")
		return detail, nil
	case err != nil:
		return nil, err
	}
	detail.Section = section

	course, err := s.courseRepo.GetByID(ctx, section.CourseID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.log.WithField("section_id", section.ID.Hex()).Warn("section references a missing course")
	case err != nil:
		return nil, err
	default:
		detail.Course = course
	}
	return detail, nil
}

// AddContent reads, merges and writes back the full arrays; concurrent
// appends to the same session are last-write-wins.
func (s *sessionService) AddContent(ctx context.Context, id primitive.ObjectID, add domain.SessionContent) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if content.Empty(add) {
		return session, nil
	}

	updated, err := s.sessionRepo.UpdateContent(ctx, id, content.Append(session.SessionContent, add))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"session_id": id.Hex(),
		"videos":     len(add.Videos),
		"ppts":       len(add.Ppts),
		"materials":  len(add.Materials),
	}).Info("content added to session")
	return updated, nil
}
