package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/edubridge/university-lms/internal/models"
)

func (r *GormRepo) CreateCredentialRecord(ctx context.Context, rec *models.CredentialRecord) error {
	if err := r.DB.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *GormRepo) ListCredentialRecords(ctx context.Context, offset, limit int) ([]models.CredentialRecord, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.CredentialRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []models.CredentialRecord
	if err := r.DB.WithContext(ctx).
		Order("id desc").
		Offset(offset).Limit(limit).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *GormRepo) FindCredentialRecordByCredentialID(ctx context.Context, credentialID string) (*models.CredentialRecord, error) {
	var rec models.CredentialRecord
	if err := r.DB.WithContext(ctx).Where("credential_id = ?", credentialID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
