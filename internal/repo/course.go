package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/edubridge/university-lms/internal/models"
)

func (r *GormRepo) CreateCourse(ctx context.Context, course *models.Course) error {
	return r.DB.WithContext(ctx).Create(course).Error
}

func (r *GormRepo) FindCourseByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}

func (r *GormRepo) ListCourses(ctx context.Context, offset, limit int) ([]models.Course, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var courses []models.Course
	if err := r.DB.WithContext(ctx).
		Order("id").
		Offset(offset).Limit(limit).
		Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *GormRepo) SaveCourse(ctx context.Context, course *models.Course) error {
	return r.DB.WithContext(ctx).Save(course).Error
}

func (r *GormRepo) DeleteCourse(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Course{}, id).Error
}
