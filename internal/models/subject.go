package models

import "time"

// Subject is a unit of the curriculum owned by a teacher and scoped to a
// department and class.
type Subject struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Code       string    `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name       string    `gorm:"size:200;not null" json:"name"`
	Department string    `gorm:"size:50;not null" json:"department"`
	Class      string    `gorm:"size:20;not null" json:"class"`
	TeacherID  uint      `gorm:"not null" json:"teacher_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Teacher    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"teacher"`
}
