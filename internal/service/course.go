package service

import (
	"context"

	"github.com/edubridge/university-lms/internal/logging"
	"github.com/edubridge/university-lms/internal/models"
	"github.com/edubridge/university-lms/internal/repo"
)

// CourseIndexer mirrors course writes into the search index. A nil
// indexer disables search indexing. Implemented by search.Indexer.
type CourseIndexer interface {
	IndexCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id uint) error
}

type CourseService struct {
	Repo    *repo.GormRepo
	Indexer CourseIndexer
}

type CourseInput struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Instructor  string              `json:"instructor"`
	Duration    int                 `json:"duration"`
	Modules     int                 `json:"modules"`
	Status      models.CourseStatus `json:"status"`
}

func (in *CourseInput) validate() *Error {
	if in.Name == "" {
		return fail(CodeBadRequest, "Course name is required")
	}
	switch in.Status {
	case "", models.CourseDraft, models.CourseActive, models.CourseCompleted, models.CourseArchived:
		return nil
	default:
		return fail(CodeBadRequest, "Invalid course status")
	}
}

func (s *CourseService) index(ctx context.Context, course *models.Course) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.IndexCourse(ctx, course); err != nil {
		logging.FromContext(ctx).Error("course_index_failed", "course_id", course.ID, "error", err)
	}
}

func (s *CourseService) Create(ctx context.Context, in CourseInput) (*models.Course, error) {
	l := logging.FromContext(ctx).With("svc", "course.create")

	if err := in.validate(); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = models.CourseDraft
	}
	course := &models.Course{
		Name:        in.Name,
		Description: in.Description,
		Instructor:  in.Instructor,
		Duration:    in.Duration,
		Modules:     in.Modules,
		Status:      status,
	}
	if err := s.Repo.CreateCourse(ctx, course); err != nil {
		l.Error("course_create_failed", "error", err)
		return nil, ErrInternal
	}
	s.index(ctx, course)
	l.Info("course_created", "course_id", course.ID)
	return course, nil
}

func (s *CourseService) Get(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.Repo.FindCourseByID(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Error("course_get_failed", "course_id", id, "error", err)
		return nil, ErrInternal
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

func (s *CourseService) List(ctx context.Context, offset, limit int) ([]models.Course, int64, error) {
	courses, total, err := s.Repo.ListCourses(ctx, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("course_list_failed", "error", err)
		return nil, 0, ErrInternal
	}
	return courses, total, nil
}

func (s *CourseService) Update(ctx context.Context, id uint, in CourseInput) (*models.Course, error) {
	l := logging.FromContext(ctx).With("svc", "course.update")

	if err := in.validate(); err != nil {
		return nil, err
	}
	course, err := s.Repo.FindCourseByID(ctx, id)
	if err != nil {
		l.Error("course_update_failed", "course_id", id, "error", err)
		return nil, ErrInternal
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	course.Name = in.Name
	course.Description = in.Description
	course.Instructor = in.Instructor
	course.Duration = in.Duration
	course.Modules = in.Modules
	if in.Status != "" {
		course.Status = in.Status
	}
	if err := s.Repo.SaveCourse(ctx, course); err != nil {
		l.Error("course_update_failed", "course_id", id, "error", err)
		return nil, ErrInternal
	}
	s.index(ctx, course)
	l.Info("course_updated", "course_id", course.ID)
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "course.delete")

	course, err := s.Repo.FindCourseByID(ctx, id)
	if err != nil {
		l.Error("course_delete_failed", "course_id", id, "error", err)
		return ErrInternal
	}
	if course == nil {
		return ErrCourseNotFound
	}
	if err := s.Repo.DeleteCourse(ctx, id); err != nil {
		l.Error("course_delete_failed", "course_id", id, "error", err)
		return ErrInternal
	}
	if s.Indexer != nil {
		if err := s.Indexer.DeleteCourse(ctx, id); err != nil {
			l.Error("course_index_delete_failed", "course_id", id, "error", err)
		}
	}
	l.Info("course_deleted", "course_id", id)
	return nil
}
