package dto

// RegisterRequest carries the fields shared by every registration form. Role
// is fixed by the endpoint, not the payload.
type RegisterRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=150"`
	Email      string `json:"email" validate:"required,email"`
	FullName   string `json:"full_name" validate:"required,min=3,max=200"`
	Password   string `json:"password" validate:"required,min=8"`
	Department string `json:"department" validate:"omitempty,max=50"`
	Class      string `json:"class" validate:"omitempty,max=20"`
	RollNumber string `json:"roll_number" validate:"omitempty,max=20"`
}

// LoginRequest authenticates a user against a specific role-scoped login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=student teacher hod admin examiner"`
}

// LoginResponse returns the signed token together with the identity.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// PasswordUpdateRequest lets an authenticated user rotate their own password.
type PasswordUpdateRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}
