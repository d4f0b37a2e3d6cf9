package models

import "time"

// Role identifies what a user is allowed to do across the platform.
type Role string

const (
	// RoleStudent is the learner role: submits work, earns points, levels and badges.
	RoleStudent Role = "estudiante"
	// RoleTeacher creates activities, tests and resources, and grades submissions.
	RoleTeacher Role = "docente"
	// RoleAdmin manages users, levels and badges.
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// IsStudent reports whether the role is the learner role.
func (r Role) IsStudent() bool { return r == RoleStudent }

// IsTeacher reports whether the role may author content and grade.
func (r Role) IsTeacher() bool { return r == RoleTeacher }

// IsAdmin reports whether the role has administrative privileges.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// User represents a platform account with a single role.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"nombre"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"column:rol;size:32;not null;default:estudiante" json:"rol"`
	Active       bool      `gorm:"not null;default:true" json:"activo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
