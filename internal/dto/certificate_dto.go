package dto

import (
	"time"

	"github.com/noah-isme/praktik-go-api/internal/models"
)

// CertificateResponse is returned to API clients when viewing certificates.
type CertificateResponse struct {
	ID                 uint        `json:"id"`
	StudentID          *uint       `json:"student_id"`
	SubjectID          uint        `json:"subject_id"`
	TeacherID          uint        `json:"teacher_id"`
	HODID              *uint       `json:"hod_id"`
	ExaminerID         *uint       `json:"examiner_id"`
	FileURL            string      `json:"file_url"`
	Status             string      `json:"status"`
	TeacherFeedback    string      `json:"teacher_feedback"`
	HODFeedback        string      `json:"hod_feedback"`
	ExaminerFeedback   string      `json:"examiner_feedback"`
	SubmittedAt        *time.Time  `json:"submitted_at"`
	ApprovedAt         *time.Time  `json:"approved_at"`
	ExaminerApprovedAt *time.Time  `json:"examiner_approved_at"`
	CertifiedAt        *time.Time  `json:"certified_at"`
	Student            *UserLite   `json:"student,omitempty"`
	Subject            SubjectLite `json:"subject"`
}

// CertificateAttachmentResponse serializes the file-attachment leg.
type CertificateAttachmentResponse struct {
	ID              uint      `json:"id"`
	CertificateID   uint      `json:"certificate_id"`
	StudentID       uint      `json:"student_id"`
	FileURL         string    `json:"file_url"`
	Status          string    `json:"status"`
	TeacherFeedback string    `json:"teacher_feedback"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// NewCertificateResponse converts a Certificate model into a DTO.
func NewCertificateResponse(model models.Certificate) CertificateResponse {
	response := CertificateResponse{
		ID:                 model.ID,
		StudentID:          model.StudentID,
		SubjectID:          model.SubjectID,
		TeacherID:          model.TeacherID,
		HODID:              model.HODID,
		ExaminerID:         model.ExaminerID,
		FileURL:            model.FileURL,
		Status:             model.Status,
		TeacherFeedback:    model.TeacherFeedback,
		HODFeedback:        model.HODFeedback,
		ExaminerFeedback:   model.ExaminerFeedback,
		SubmittedAt:        model.SubmittedAt,
		ApprovedAt:         model.ApprovedAt,
		ExaminerApprovedAt: model.ExaminerApprovedAt,
		CertifiedAt:        model.CertifiedAt,
	}

	if model.Student != nil && model.Student.ID != 0 {
		response.Student = &UserLite{
			ID:       model.Student.ID,
			FullName: model.Student.FullName,
			Role:     string(model.Student.Role),
		}
	}

	if model.Subject.ID != 0 {
		response.Subject = SubjectLite{
			ID:    model.Subject.ID,
			Code:  model.Subject.Code,
			Name:  model.Subject.Name,
			Class: model.Subject.Class,
		}
	}

	return response
}

// NewCertificateResponseSlice converts certificate models into DTOs.
func NewCertificateResponseSlice(certificates []models.Certificate) []CertificateResponse {
	responses := make([]CertificateResponse, 0, len(certificates))
	for _, certificate := range certificates {
		responses = append(responses, NewCertificateResponse(certificate))
	}
	return responses
}

// NewCertificateAttachmentResponse converts a CertificateSubmission model into a DTO.
func NewCertificateAttachmentResponse(model models.CertificateSubmission) CertificateAttachmentResponse {
	return CertificateAttachmentResponse{
		ID:              model.ID,
		CertificateID:   model.CertificateID,
		StudentID:       model.StudentID,
		FileURL:         model.FileURL,
		Status:          model.Status,
		TeacherFeedback: model.TeacherFeedback,
		SubmittedAt:     model.SubmittedAt,
	}
}

// NewCertificateAttachmentResponseSlice converts attachment models into DTOs.
func NewCertificateAttachmentResponseSlice(attachments []models.CertificateSubmission) []CertificateAttachmentResponse {
	responses := make([]CertificateAttachmentResponse, 0, len(attachments))
	for _, attachment := range attachments {
		responses = append(responses, NewCertificateAttachmentResponse(attachment))
	}
	return responses
}
