package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Role         string    `gorm:"type:varchar(16);index;not null;default:'student'" json:"role"`
	Department   *string   `gorm:"type:varchar(100)" json:"department,omitempty"`
	StudentID    *string   `gorm:"type:varchar(50)" json:"student_id,omitempty"`
	PasswordHash string    `gorm:"type:varchar(100);not null" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStudent
}
