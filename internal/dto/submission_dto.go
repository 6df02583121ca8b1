package dto

import (
	"time"

	"github.com/noah-isme/praktik-go-api/internal/models"
)

// ReviewRequest carries the teacher's verdict feedback for a submission.
type ReviewRequest struct {
	Feedback string `json:"feedback" validate:"omitempty,max=4000"`
}

// SubmissionResponse is returned to API clients when viewing practical submissions.
type SubmissionResponse struct {
	ID          uint          `json:"id"`
	StudentID   uint          `json:"student_id"`
	PracticalID uint          `json:"practical_id"`
	FileURL     string        `json:"file_url"`
	Status      string        `json:"status"`
	IsDraft     bool          `json:"is_draft"`
	IsLate      bool          `json:"is_late"`
	Feedback    string        `json:"feedback"`
	SubmittedAt *time.Time    `json:"submitted_at"`
	ApprovedAt  *time.Time    `json:"approved_at"`
	Student     UserLite      `json:"student"`
	Practical   PracticalLite `json:"practical"`
}

// PracticalLite summarizes a practical inside submission responses.
type PracticalLite struct {
	ID       uint        `json:"id"`
	Number   int         `json:"number"`
	Title    string      `json:"title"`
	Deadline time.Time   `json:"deadline"`
	IsPublic bool        `json:"is_public"`
	Subject  SubjectLite `json:"subject"`
}

// NewSubmissionResponse converts a PracticalSubmission model into a DTO.
func NewSubmissionResponse(model models.PracticalSubmission) SubmissionResponse {
	response := SubmissionResponse{
		ID:          model.ID,
		StudentID:   model.StudentID,
		PracticalID: model.PracticalID,
		FileURL:     model.FileURL,
		Status:      model.Status,
		IsDraft:     model.IsDraft,
		IsLate:      model.IsLate,
		Feedback:    model.Feedback,
		SubmittedAt: model.SubmittedAt,
		ApprovedAt:  model.ApprovedAt,
	}

	if model.Student.ID != 0 {
		response.Student = UserLite{
			ID:       model.Student.ID,
			FullName: model.Student.FullName,
			Role:     string(model.Student.Role),
		}
	}

	if model.Practical.ID != 0 {
		response.Practical = PracticalLite{
			ID:       model.Practical.ID,
			Number:   model.Practical.Number,
			Title:    model.Practical.Title,
			Deadline: model.Practical.Deadline,
			IsPublic: model.Practical.IsPublic,
		}
		if model.Practical.Subject.ID != 0 {
			response.Practical.Subject = SubjectLite{
				ID:    model.Practical.Subject.ID,
				Code:  model.Practical.Subject.Code,
				Name:  model.Practical.Subject.Name,
				Class: model.Practical.Subject.Class,
			}
		}
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.PracticalSubmission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}
	return responses
}
