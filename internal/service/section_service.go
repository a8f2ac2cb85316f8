package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"academy/lms-backend/internal/domain"
	"academy/lms-backend/internal/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SectionService interface {
	// CreateSection fails with ErrCourseNotFound, without writing, when
	// courseID does not resolve to a course.
	CreateSection(ctx context.Context, courseID primitive.ObjectID, title string, order int) (*domain.Section, error)
	ListSectionsByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Section, error)
}

// sectionService implements the SectionService interface.
type sectionService struct {
	sectionRepo repository.SectionRepository
	courseRepo  repository.CourseRepository
	log         logrus.FieldLogger
}

// NewSectionService creates a new instance of sectionService.
func NewSectionService(sectionRepo repository.SectionRepository, courseRepo repository.CourseRepository, log logrus.FieldLogger) SectionService {
	return &sectionService{
		sectionRepo: sectionRepo,
		courseRepo:  courseRepo,
		log:         log.WithField("component", "service.section"),
	}
}

func (s *sectionService) CreateSection(ctx context.Context, courseID primitive.ObjectID, title string, order int) (*domain.Section, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	section := &domain.Section{CourseID: courseID, Title: title, Order: order}
	if _, err := s.sectionRepo.Create(ctx, section); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"section_id": section.ID.Hex(), "course_id": courseID.Hex()}).Info("section created")
	return section, nil
}

func (s *sectionService) ListSectionsByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Section, error) {
	return s.sectionRepo.ListByCourse(ctx, courseID)
}
