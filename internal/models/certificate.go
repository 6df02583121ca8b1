package models

import "time"

// Certificate statuses. The approval chain moves strictly forward; rejected
// is terminal.
const (
	// CertificateStatusTemplateAdded marks the per-subject template row.
	CertificateStatusTemplateAdded = "template_added"
	// CertificateStatusGenerated marks a per-student clone awaiting submission.
	CertificateStatusGenerated = "generated"
	// CertificateStatusSubmittedToTeacher marks a certificate handed to the teacher.
	CertificateStatusSubmittedToTeacher = "submitted_to_teacher"
	// CertificateStatusSentToHOD marks teacher sign-off.
	CertificateStatusSentToHOD = "sent_to_hod"
	// CertificateStatusSentToExaminer marks HOD sign-off.
	CertificateStatusSentToExaminer = "sent_to_examiner"
	// CertificateStatusCertified marks the examiner's final approval. Terminal.
	CertificateStatusCertified = "certified"
	// CertificateStatusRejected marks refusal at any review stage. Terminal.
	CertificateStatusRejected = "rejected"
)

// Certificate is a per-student, per-subject completion credential routed
// through the teacher -> HOD -> examiner approval chain. A row with a nil
// StudentID is the subject's template, cloned once per eligible student.
type Certificate struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	StudentID          *uint      `gorm:"uniqueIndex:idx_certificate_student_subject" json:"student_id"`
	SubjectID          uint       `gorm:"not null;uniqueIndex:idx_certificate_student_subject" json:"subject_id"`
	TeacherID          uint       `gorm:"not null" json:"teacher_id"`
	HODID              *uint      `json:"hod_id"`
	ExaminerID         *uint      `json:"examiner_id"`
	FileURL            string     `gorm:"size:512" json:"file_url"`
	Status             string     `gorm:"size:30;not null" json:"status"`
	TeacherFeedback    string     `gorm:"type:text" json:"teacher_feedback"`
	HODFeedback        string     `gorm:"type:text" json:"hod_feedback"`
	ExaminerFeedback   string     `gorm:"type:text" json:"examiner_feedback"`
	SubmittedAt        *time.Time `json:"submitted_at"`
	ApprovedAt         *time.Time `json:"approved_at"`
	ExaminerApprovedAt *time.Time `json:"examiner_approved_at"`
	CertifiedAt        *time.Time `json:"certified_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	Student            *User      `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Subject            Subject    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"subject"`
	Teacher            User       `gorm:"foreignKey:TeacherID" json:"teacher"`
}

// IsTemplate reports whether the row is the unclaimed subject template.
func (c Certificate) IsTemplate() bool {
	return c.StudentID == nil
}
