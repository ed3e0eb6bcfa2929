package service

import (
	"context"
	"errors"
	"time"

	"github.com/edubridge/university-lms/internal/logging"
	"github.com/edubridge/university-lms/internal/models"
	"github.com/edubridge/university-lms/internal/repo"
)

type StudentService struct {
	Repo *repo.GormRepo
}

type StudentInput struct {
	Name           string               `json:"name"`
	Email          string               `json:"email"`
	Program        string               `json:"program"`
	Status         models.StudentStatus `json:"status"`
	CourseID       *uint                `json:"course_id"`
	EnrollmentDate string               `json:"enrollment_date"`
	CompletionDate string               `json:"completion_date"`
}

func (in *StudentInput) validate() *Error {
	if in.Name == "" {
		return fail(CodeBadRequest, "Student name is required")
	}
	if in.Email == "" {
		return fail(CodeBadRequest, "Student email is required")
	}
	switch in.Status {
	case "", models.StudentActive, models.StudentGraduated, models.StudentDropped:
		return nil
	default:
		return fail(CodeBadRequest, "Invalid student status")
	}
}

// parseDate accepts RFC3339 or a plain date; anything else reads as
// unset, matching how the original system tolerated bad date input.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func (s *StudentService) checkCourse(ctx context.Context, courseID *uint) error {
	if courseID == nil {
		return nil
	}
	course, err := s.Repo.FindCourseByID(ctx, *courseID)
	if err != nil {
		return ErrInternal
	}
	if course == nil {
		return ErrCourseNotFound
	}
	return nil
}

func (s *StudentService) Create(ctx context.Context, in StudentInput) (*models.Student, error) {
	l := logging.FromContext(ctx).With("svc", "student.create")

	if err := in.validate(); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)

	existing, err := s.Repo.FindStudentByEmail(ctx, email)
	if err != nil {
		l.Error("student_create_failed", "error", err)
		return nil, ErrInternal
	}
	if existing != nil {
		return nil, ErrStudentAlreadyExists
	}
	if err := s.checkCourse(ctx, in.CourseID); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.StudentActive
	}
	student := &models.Student{
		Name:           in.Name,
		Email:          email,
		Program:        in.Program,
		Status:         status,
		CourseID:       in.CourseID,
		EnrollmentDate: parseDate(in.EnrollmentDate),
		CompletionDate: parseDate(in.CompletionDate),
	}
	if err := s.Repo.CreateStudent(ctx, student); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrStudentAlreadyExists
		}
		l.Error("student_create_failed", "error", err)
		return nil, ErrInternal
	}
	l.Info("student_created", "student_id", student.ID)
	return student, nil
}

func (s *StudentService) Get(ctx context.Context, id uint) (*models.Student, error) {
	student, err := s.Repo.FindStudentByID(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Error("student_get_failed", "student_id", id, "error", err)
		return nil, ErrInternal
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}
	return student, nil
}

func (s *StudentService) List(ctx context.Context, offset, limit int) ([]models.Student, int64, error) {
	students, total, err := s.Repo.ListStudents(ctx, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("student_list_failed", "error", err)
		return nil, 0, ErrInternal
	}
	return students, total, nil
}

func (s *StudentService) Update(ctx context.Context, id uint, in StudentInput) (*models.Student, error) {
	l := logging.FromContext(ctx).With("svc", "student.update")

	if err := in.validate(); err != nil {
		return nil, err
	}
	student, err := s.Repo.FindStudentByID(ctx, id)
	if err != nil {
		l.Error("student_update_failed", "student_id", id, "error", err)
		return nil, ErrInternal
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}
	if err := s.checkCourse(ctx, in.CourseID); err != nil {
		return nil, err
	}

	oldCourseID := student.CourseID
	student.Name = in.Name
	student.Email = normalizeEmail(in.Email)
	student.Program = in.Program
	if in.Status != "" {
		student.Status = in.Status
	}
	student.CourseID = in.CourseID
	if d := parseDate(in.EnrollmentDate); d != nil {
		student.EnrollmentDate = d
	}
	if d := parseDate(in.CompletionDate); d != nil {
		student.CompletionDate = d
	}

	if err := s.Repo.UpdateStudent(ctx, student, oldCourseID); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrStudentAlreadyExists
		}
		l.Error("student_update_failed", "student_id", id, "error", err)
		return nil, ErrInternal
	}
	l.Info("student_updated", "student_id", student.ID)
	return student, nil
}

func (s *StudentService) Delete(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "student.delete")

	student, err := s.Repo.FindStudentByID(ctx, id)
	if err != nil {
		l.Error("student_delete_failed", "student_id", id, "error", err)
		return ErrInternal
	}
	if student == nil {
		return ErrStudentNotFound
	}
	if err := s.Repo.DeleteStudent(ctx, student); err != nil {
		l.Error("student_delete_failed", "student_id", id, "error", err)
		return ErrInternal
	}
	l.Info("student_deleted", "student_id", id)
	return nil
}
