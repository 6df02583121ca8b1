package dto

import (
	"time"

	"github.com/noah-isme/praktik-go-api/internal/models"
)

// PracticalCreateRequest describes the payload for adding a practical to a subject.
type PracticalCreateRequest struct {
	Number      int    `json:"number" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty"`
	Deadline    string `json:"deadline" validate:"required"`
}

// PracticalResponse is returned to API clients when viewing practicals.
type PracticalResponse struct {
	ID          uint        `json:"id"`
	Number      int         `json:"number"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Deadline    time.Time   `json:"deadline"`
	SubjectID   uint        `json:"subject_id"`
	IsPublic    bool        `json:"is_public"`
	Subject     SubjectLite `json:"subject"`
}

// SubjectLite summarizes a subject inside nested responses.
type SubjectLite struct {
	ID    uint   `json:"id"`
	Code  string `json:"code"`
	Name  string `json:"name"`
	Class string `json:"class"`
}

// NewPracticalResponse converts a Practical model into a DTO.
func NewPracticalResponse(model models.Practical) PracticalResponse {
	response := PracticalResponse{
		ID:          model.ID,
		Number:      model.Number,
		Title:       model.Title,
		Description: model.Description,
		Deadline:    model.Deadline,
		SubjectID:   model.SubjectID,
		IsPublic:    model.IsPublic,
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

// NewPracticalResponseSlice converts practical models into DTOs.
func NewPracticalResponseSlice(practicals []models.Practical) []PracticalResponse {
	responses := make([]PracticalResponse, 0, len(practicals))
	for _, practical := range practicals {
		responses = append(responses, NewPracticalResponse(practical))
	}
	return responses
}
