package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/edubridge/university-lms/internal/models"
)

// FindUserByEmail returns (nil, nil) when no user matches.
func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts u. The unique index on email is the source of
// truth for duplicates; callers should treat ErrDuplicate as a
// concurrent or repeated registration.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *GormRepo) UpdateUserPassword(ctx context.Context, id uint, passwordHash string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

// ResetPassword consumes the reset token's jti and writes the new
// password hash in one transaction. A jti that was consumed before
// fails the whole operation with ErrResetTokenUsed.
func (r *GormRepo) ResetPassword(ctx context.Context, userID uint, jti, passwordHash string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		used := models.UsedResetToken{
			JTI:    jti,
			UserID: userID,
			UsedAt: time.Now(),
		}
		if err := tx.Create(&used).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrResetTokenUsed
			}
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("password_hash", passwordHash).Error
	})
}
