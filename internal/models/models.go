package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	IsActive     bool      `gorm:"default:true"             json:"is_active"`
	IsVerified   bool      `gorm:"default:false"            json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CourseActive    CourseStatus = "active"
	CourseCompleted CourseStatus = "completed"
	CourseArchived  CourseStatus = "archived"
)

type Course struct {
	ID          uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string       `gorm:"not null;index"           json:"name"`
	Description string       `json:"description"`
	Instructor  string       `json:"instructor"`
	Students    int          `gorm:"default:0"                json:"students"`
	Duration    int          `json:"duration"`
	Modules     int          `json:"modules"`
	Status      CourseStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type StudentStatus string

const (
	StudentActive    StudentStatus = "active"
	StudentGraduated StudentStatus = "graduated"
	StudentDropped   StudentStatus = "dropped"
)

type Student struct {
	ID             uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string        `gorm:"not null;index"           json:"name"`
	Email          string        `gorm:"uniqueIndex;not null"     json:"email"`
	Program        string        `json:"program"`
	Status         StudentStatus `gorm:"default:active"           json:"status"`
	CourseID       *uint         `gorm:"index"                    json:"course_id"`
	EnrollmentDate *time.Time    `json:"enrollment_date"`
	CompletionDate *time.Time    `json:"completion_date"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// CredentialRecord is the local trace of a credential issued through
// the EveryCRED API.
type CredentialRecord struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CredentialID    string    `gorm:"uniqueIndex;not null"     json:"credential_id"`
	StudentID       uint      `gorm:"index;not null"           json:"student_id"`
	CourseID        uint      `gorm:"index;not null"           json:"course_id"`
	VerificationURL string    `json:"verification_url"`
	Status          string    `json:"status"`
	IssuedAt        time.Time `json:"issued_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UsedResetToken marks a password-reset jti as consumed. The unique
// index is what makes reset tokens single-use.
type UsedResetToken struct {
	ID     uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	JTI    string    `gorm:"uniqueIndex;not null"     json:"jti"`
	UserID uint      `gorm:"index;not null"           json:"user_id"`
	UsedAt time.Time `json:"used_at"`
}
