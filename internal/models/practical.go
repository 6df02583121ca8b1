package models

import "time"

// Practical is a numbered lab assignment within a subject. The teacher is
// denormalized from the subject at creation time.
type Practical struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Number      int       `gorm:"not null;uniqueIndex:idx_practical_number_subject" json:"number"`
	SubjectID   uint      `gorm:"not null;uniqueIndex:idx_practical_number_subject" json:"subject_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Deadline    time.Time `gorm:"not null" json:"deadline"`
	TeacherID   uint      `gorm:"not null" json:"teacher_id"`
	IsPublic    bool      `gorm:"not null;default:false" json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Subject     Subject   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"subject"`
}

// IsPastDue reports whether the deadline has already passed at the reference time.
func (p Practical) IsPastDue(reference time.Time) bool {
	return reference.After(p.Deadline)
}
