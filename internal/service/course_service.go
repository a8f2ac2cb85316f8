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

// CreateCourseInput carries the fields accepted when creating a course.
type CreateCourseInput struct {
	Title        string
	Description  string
	ThumbnailURL string
	ParentID     *primitive.ObjectID
	Order        int
}

type CourseService interface {
	// CreateCourse stores a course. ParentID is accepted as given; the
	// parent is not required to exist.
	CreateCourse(ctx context.Context, in CreateCourseInput) (*domain.Course, error)
	// ListCourses returns the children of parentID, or the roots when it is nil.
	ListCourses(ctx context.Context, parentID *primitive.ObjectID) ([]domain.Course, error)
	GetCourseByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error)
}

// courseService implements the CourseService interface.
type courseService struct {
	courseRepo repository.CourseRepository
	log        logrus.FieldLogger
}

// NewCourseService creates a new instance of courseService.
func NewCourseService(courseRepo repository.CourseRepository, log logrus.FieldLogger) CourseService {
	return &courseService{
		courseRepo: courseRepo,
		log:        log.WithField("component", "service.course"),
	}
}

func (s *courseService) CreateCourse(ctx context.Context, in CreateCourseInput) (*domain.Course, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	course := &domain.Course{
		Title:        title,
		Description:  in.Description,
		ThumbnailURL: in.ThumbnailURL,
		ParentID:     in.ParentID,
		Order:        in.Order,
	}
	if _, err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"course_id": course.ID.Hex(), "root": course.IsRoot()}).Info("course created")
	return course, nil
}

func (s *courseService) ListCourses(ctx context.Context, parentID *primitive.ObjectID) ([]domain.Course, error) {
	return s.courseRepo.ListByParent(ctx, parentID)
}

func (s *courseService) GetCourseByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}
