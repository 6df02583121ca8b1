package models

import "time"

// ExamMode is a per-department switch that suppresses the public best
// practical showcase. EnabledAt is set when the switch turns on and cleared
// when it turns off, never left stale.
type ExamMode struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Department string     `gorm:"size:50;uniqueIndex;not null" json:"department"`
	IsEnabled  bool       `gorm:"not null;default:false" json:"is_enabled"`
	EnabledAt  *time.Time `json:"enabled_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
