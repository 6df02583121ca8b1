package dto

import (
	"time"

	"github.com/noah-isme/praktik-go-api/internal/models"
)

// SubjectCreateRequest describes the payload for creating a subject.
type SubjectCreateRequest struct {
	Code       string `json:"code" validate:"required,max=20"`
	Name       string `json:"name" validate:"required,max=200"`
	Department string `json:"department" validate:"omitempty,max=50"`
	Class      string `json:"class" validate:"required,max=20"`
	TeacherID  uint   `json:"teacher_id" validate:"required,gt=0"`
}

// RenewRequest triggers the destructive subject renewal.
type RenewRequest struct {
	TeacherID *uint `json:"teacher_id" validate:"omitempty,gt=0"`
}

// SubjectResponse is returned to API clients when viewing subjects.
type SubjectResponse struct {
	ID         uint      `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Class      string    `json:"class"`
	TeacherID  uint      `json:"teacher_id"`
	Teacher    UserLite  `json:"teacher"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserLite summarizes a user inside nested responses.
type UserLite struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// NewSubjectResponse converts a Subject model into a DTO.
func NewSubjectResponse(model models.Subject) SubjectResponse {
	response := SubjectResponse{
		ID:         model.ID,
		Code:       model.Code,
		Name:       model.Name,
		Department: model.Department,
		Class:      model.Class,
		TeacherID:  model.TeacherID,
		CreatedAt:  model.CreatedAt,
	}

	if model.Teacher.ID != 0 {
		response.Teacher = UserLite{
			ID:       model.Teacher.ID,
			FullName: model.Teacher.FullName,
			Role:     string(model.Teacher.Role),
		}
	}

	return response
}

// NewSubjectResponseSlice converts subject models into DTOs.
func NewSubjectResponseSlice(subjects []models.Subject) []SubjectResponse {
	responses := make([]SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		responses = append(responses, NewSubjectResponse(subject))
	}
	return responses
}
