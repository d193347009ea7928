package models

import "time"

// Role is the account type. Kept as a typed string so handlers and middleware
// compare against the constants instead of scattering raw strings.
type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleProfessor
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      Role      `gorm:"size:20;not null;default:'student'" json:"role"`
	XP        int       `gorm:"column:xp;not null;default:0" json:"xp"`
	Level     int       `gorm:"not null;default:1" json:"level"`
	Avatar    *string   `gorm:"size:255" json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
