package models

import (
	"errors"

	"gorm.io/gorm"
)

// Role identifies the portal role a user acts under.
type Role string

// Roles recognised by the portal.
const (
	RoleStudent  Role = "student"
	RoleTeacher  Role = "teacher"
	RoleHOD      Role = "hod"
	RoleAdmin    Role = "admin"
	RoleExaminer Role = "examiner"
)

// Valid reports whether the role is one of the recognised values.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleHOD, RoleAdmin, RoleExaminer:
		return true
	default:
		return false
	}
}

// Classes a student may be enrolled in.
var Classes = []string{
	"Semester 1", "Semester 2", "Semester 3",
	"Semester 4", "Semester 5", "Semester 6",
}

// ValidClass reports whether the class is a known term.
func ValidClass(class string) bool {
	for _, c := range Classes {
		if c == class {
			return true
		}
	}
	return false
}

// Validation failures raised when persisting a user.
var (
	ErrRoleInvalid          = errors.New("role is not recognised")
	ErrStudentFieldsMissing = errors.New("roll number and class are required for students")
	ErrClassInvalid         = errors.New("class is not a recognised term")
	ErrRollNumberTaken      = errors.New("roll number already taken in this class")
)

// User is a portal identity carrying a role tag and role-specific attributes.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:255;not null" json:"email"`
	FullName     string `gorm:"size:200;not null" json:"full_name"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         Role   `gorm:"size:20;not null" json:"role"`
	Department   string `gorm:"size:50" json:"department"`
	Class        string `gorm:"size:20" json:"class"`
	RollNumber   string `gorm:"size:20" json:"roll_number"`
	CreatedAt    int64  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    int64  `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeSave validates the identity against role invariants on every persist,
// so an invalid user cannot reach storage regardless of entry point.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if !u.Role.Valid() {
		return ErrRoleInvalid
	}

	if u.Role != RoleStudent {
		return nil
	}

	if u.RollNumber == "" || u.Class == "" {
		return ErrStudentFieldsMissing
	}
	if !ValidClass(u.Class) {
		return ErrClassInvalid
	}

	var count int64
	err := tx.Session(&gorm.Session{NewDB: true}).
		Model(&User{}).
		Where("roll_number = ? AND class = ? AND role = ? AND id <> ?", u.RollNumber, u.Class, RoleStudent, u.ID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrRollNumberTaken
	}

	return nil
}

// IsStudent reports whether the user acts as a student.
func (u User) IsStudent() bool { return u.Role == RoleStudent }

// IsTeacher reports whether the user acts as a teacher.
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
