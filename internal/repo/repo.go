package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrDuplicate      = errors.New("record already exists")
	ErrResetTokenUsed = errors.New("reset token already used")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
