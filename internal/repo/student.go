package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/edubridge/university-lms/internal/models"
)

func (r *GormRepo) FindStudentByEmail(ctx context.Context, email string) (*models.Student, error) {
	var student models.Student
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

func (r *GormRepo) FindStudentByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

func (r *GormRepo) ListStudents(ctx context.Context, offset, limit int) ([]models.Student, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Student{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var students []models.Student
	if err := r.DB.WithContext(ctx).
		Order("id").
		Offset(offset).Limit(limit).
		Find(&students).Error; err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// CreateStudent inserts the student and keeps the enrolled course's
// student counter in step, in one transaction.
func (r *GormRepo) CreateStudent(ctx context.Context, student *models.Student) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(student).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return err
		}
		if student.CourseID != nil {
			return adjustCourseCounter(tx, *student.CourseID, +1)
		}
		return nil
	})
}

// UpdateStudent saves the student and moves the course counter when the
// enrollment changed. oldCourseID is the enrollment before the update.
func (r *GormRepo) UpdateStudent(ctx context.Context, student *models.Student, oldCourseID *uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(student).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return err
		}
		if equalCourseID(oldCourseID, student.CourseID) {
			return nil
		}
		if oldCourseID != nil {
			if err := adjustCourseCounter(tx, *oldCourseID, -1); err != nil {
				return err
			}
		}
		if student.CourseID != nil {
			return adjustCourseCounter(tx, *student.CourseID, +1)
		}
		return nil
	})
}

func (r *GormRepo) DeleteStudent(ctx context.Context, student *models.Student) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Student{}, student.ID).Error; err != nil {
			return err
		}
		if student.CourseID != nil {
			return adjustCourseCounter(tx, *student.CourseID, -1)
		}
		return nil
	})
}

func adjustCourseCounter(tx *gorm.DB, courseID uint, delta int) error {
	return tx.Model(&models.Course{}).
		Where("id = ?", courseID).
		Update("students", gorm.Expr("students + ?", delta)).Error
}

func equalCourseID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
