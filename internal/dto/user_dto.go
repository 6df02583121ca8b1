package dto

import "github.com/noah-isme/praktik-go-api/internal/models"

// UserResponse is the identity shape returned to API clients.
type UserResponse struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	Class      string `json:"class,omitempty"`
	RollNumber string `json:"roll_number,omitempty"`
}

// NewUserResponse converts a User model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:         model.ID,
		Username:   model.Username,
		Email:      model.Email,
		FullName:   model.FullName,
		Role:       string(model.Role),
		Department: model.Department,
		Class:      model.Class,
		RollNumber: model.RollNumber,
	}
}

// NewUserResponseSlice converts user models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}
	return responses
}

// StudentUpdateRequest lets a HOD reassign a student's class and roll number.
type StudentUpdateRequest struct {
	Class      *string `json:"class" validate:"omitempty,max=20"`
	RollNumber *string `json:"roll_number" validate:"omitempty,max=20"`
}

// DepartmentAssignRequest lets an admin assign a department to a HOD.
type DepartmentAssignRequest struct {
	Department string `json:"department" validate:"required,max=50"`
}
