package models

import "time"

// Certificate submission statuses. This file-attachment leg advances
// alongside the certificate it belongs to.
const (
	CertificateSubmissionStatusPending   = "pending"
	CertificateSubmissionStatusSentToHOD = "sent_to_hod"
	CertificateSubmissionStatusCertified = "certified"
	CertificateSubmissionStatusRejected  = "rejected"
)

// CertificateSubmission is the file upload a student attaches to a
// certificate. It carries its own status, distinct from the certificate's.
type CertificateSubmission struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	CertificateID   uint        `gorm:"not null" json:"certificate_id"`
	StudentID       uint        `gorm:"not null" json:"student_id"`
	FileURL         string      `gorm:"size:512;not null" json:"file_url"`
	Status          string      `gorm:"size:20;not null;default:pending" json:"status"`
	TeacherFeedback string      `gorm:"type:text" json:"teacher_feedback"`
	SubmittedAt     time.Time   `json:"submitted_at"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Certificate     Certificate `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"certificate"`
	Student         User        `gorm:"foreignKey:StudentID" json:"student"`
}
