package dto

import (
	"time"

	"github.com/noah-isme/praktik-go-api/internal/models"
)

// ExamModeToggleRequest sets the exam switch for the HOD's department.
type ExamModeToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// ExamModeResponse is returned when viewing or toggling exam mode.
type ExamModeResponse struct {
	Department string     `json:"department"`
	IsEnabled  bool       `json:"is_enabled"`
	EnabledAt  *time.Time `json:"enabled_at"`
}

// NewExamModeResponse converts an ExamMode model into a DTO.
func NewExamModeResponse(model models.ExamMode) ExamModeResponse {
	return ExamModeResponse{
		Department: model.Department,
		IsEnabled:  model.IsEnabled,
		EnabledAt:  model.EnabledAt,
	}
}
