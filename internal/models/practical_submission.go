package models

import "time"

// Practical submission statuses.
const (
	// SubmissionStatusDraft marks work in progress the teacher cannot see.
	SubmissionStatusDraft = "draft"
	// SubmissionStatusSubmitted marks work handed in and awaiting review.
	SubmissionStatusSubmitted = "submitted"
	// SubmissionStatusApproved marks work the teacher accepted. Terminal.
	SubmissionStatusApproved = "approved"
	// SubmissionStatusRejected marks work the teacher refused. Terminal.
	SubmissionStatusRejected = "rejected"
)

// PracticalSubmission tracks a student's work on one practical. At most one
// row exists per (student, practical) pair.
type PracticalSubmission struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	StudentID   uint       `gorm:"not null;uniqueIndex:idx_submission_student_practical" json:"student_id"`
	PracticalID uint       `gorm:"not null;uniqueIndex:idx_submission_student_practical" json:"practical_id"`
	FileURL     string     `gorm:"size:512" json:"file_url"`
	Status      string     `gorm:"size:20;not null;default:draft" json:"status"`
	IsDraft     bool       `gorm:"not null;default:true" json:"is_draft"`
	IsLate      bool       `gorm:"not null;default:false" json:"is_late"`
	Feedback    string     `gorm:"type:text" json:"feedback"`
	SubmittedAt *time.Time `json:"submitted_at"`
	ApprovedAt  *time.Time `json:"approved_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Student     User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	Practical   Practical  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"practical"`
}

// IsApproved reports whether the teacher accepted the submission.
func (s PracticalSubmission) IsApproved() bool {
	return s.Status == SubmissionStatusApproved
}
