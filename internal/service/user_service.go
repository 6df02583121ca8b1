package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/praktik-go-api/internal/authz"
	"github.com/noah-isme/praktik-go-api/internal/dto"
	"github.com/noah-isme/praktik-go-api/internal/models"
	"github.com/noah-isme/praktik-go-api/internal/repository"
)

// UserService covers account administration: HOD roster management and the
// admin-only operations.
type UserService interface {
	UpdateStudent(ctx context.Context, actor authz.Actor, studentID uint, payload dto.StudentUpdateRequest) (dto.UserResponse, error)
	DeleteStudent(ctx context.Context, actor authz.Actor, studentID uint) error
	AssignDepartment(ctx context.Context, actor authz.Actor, hodID uint, payload dto.DepartmentAssignRequest) (dto.UserResponse, error)
	CreateExaminer(ctx context.Context, actor authz.Actor, payload dto.RegisterRequest) (dto.UserResponse, error)
}

type userService struct {
	users     repository.UserRepository
	auth      AuthService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(users repository.UserRepository, auth AuthService, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		users:     users,
		auth:      auth,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

// UpdateStudent reassigns a student's class or roll number. HOD only,
// scoped to the HOD's own department.
func (s *userService) UpdateStudent(ctx context.Context, actor authz.Actor, studentID uint, payload dto.StudentUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}
	if !student.IsStudent() {
		return dto.UserResponse{}, ErrUserNotFound
	}

	gate := authz.Gate{
		Role: models.RoleHOD,
		Owns: func(a authz.Actor) bool { return a.Department == student.Department },
	}
	if err := gate.Check(actor); err != nil {
		return dto.UserResponse{}, err
	}

	if payload.Class != nil {
		student.Class = *payload.Class
	}
	if payload.RollNumber != nil {
		student.RollNumber = *payload.RollNumber
	}

	if err := s.users.Update(ctx, &student); err != nil {
		if isIdentityValidationError(err) {
			return dto.UserResponse{}, errors.Join(ErrValidation, err)
		}
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("student_id", studentID).Msg("student profile updated")

	return dto.NewUserResponse(student), nil
}

// DeleteStudent removes a student account. HOD only, department-scoped;
// only students can be deleted through this path.
func (s *userService) DeleteStudent(ctx context.Context, actor authz.Actor, studentID uint) error {
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !student.IsStudent() {
		return ErrUserNotFound
	}

	gate := authz.Gate{
		Role: models.RoleHOD,
		Owns: func(a authz.Actor) bool { return a.Department == student.Department },
	}
	if err := gate.Check(actor); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, studentID); err != nil {
		return err
	}

	s.logger.Info().Uint("student_id", studentID).Msg("student deleted")

	return nil
}

// AssignDepartment sets the department on a HOD account. Admin only.
func (s *userService) AssignDepartment(ctx context.Context, actor authz.Actor, hodID uint, payload dto.DepartmentAssignRequest) (dto.UserResponse, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return dto.UserResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	hod, err := s.users.GetByID(ctx, hodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}
	if hod.Role != models.RoleHOD {
		return dto.UserResponse{}, ErrUserNotFound
	}

	hod.Department = payload.Department
	if err := s.users.Update(ctx, &hod); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("hod_id", hodID).Str("department", payload.Department).Msg("department assigned")

	return dto.NewUserResponse(hod), nil
}

// CreateExaminer registers an examiner account. Admin only.
func (s *userService) CreateExaminer(ctx context.Context, actor authz.Actor, payload dto.RegisterRequest) (dto.UserResponse, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return dto.UserResponse{}, err
	}

	return s.auth.Register(ctx, models.RoleExaminer, payload)
}
