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

// SubjectService manages subjects and the destructive department renewal.
type SubjectService interface {
	Create(ctx context.Context, actor authz.Actor, payload dto.SubjectCreateRequest) (dto.SubjectResponse, error)
	List(ctx context.Context) ([]dto.SubjectResponse, error)
	Renew(ctx context.Context, actor authz.Actor, subjectID uint, payload dto.RenewRequest) (dto.SubjectResponse, error)
}

type subjectService struct {
	subjects  repository.SubjectRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSubjectService constructs a SubjectService instance.
func NewSubjectService(subjects repository.SubjectRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) SubjectService {
	return &subjectService{
		subjects:  subjects,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "subject_service").Logger(),
	}
}

// Create adds a subject. Admins may create anywhere; a HOD is confined to
// their own department and may only assign its teachers.
func (s *subjectService) Create(ctx context.Context, actor authz.Actor, payload dto.SubjectCreateRequest) (dto.SubjectResponse, error) {
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleHOD {
		return dto.SubjectResponse{}, authz.ErrAccessDenied
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubjectResponse{}, err
	}

	teacher, err := s.users.GetByID(ctx, payload.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubjectResponse{}, ErrUserNotFound
		}
		return dto.SubjectResponse{}, err
	}
	if !teacher.IsTeacher() {
		return dto.SubjectResponse{}, errors.Join(ErrValidation, errors.New("assignee is not a teacher"))
	}

	department := payload.Department
	if actor.Role == models.RoleHOD {
		department = actor.Department
		if teacher.Department != actor.Department {
			return dto.SubjectResponse{}, authz.ErrAccessDenied
		}
	}

	subject := models.Subject{
		Code:       payload.Code,
		Name:       payload.Name,
		Department: department,
		Class:      payload.Class,
		TeacherID:  teacher.ID,
	}

	if err := s.subjects.Create(ctx, &subject); err != nil {
		return dto.SubjectResponse{}, err
	}

	created, err := s.subjects.GetByID(ctx, subject.ID)
	if err != nil {
		return dto.SubjectResponse{}, err
	}

	s.logger.Info().Uint("subject_id", subject.ID).Str("code", subject.Code).Msg("subject created")

	return dto.NewSubjectResponse(created), nil
}

func (s *subjectService) List(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewSubjectResponseSlice(subjects), nil
}

// Renew deletes every certificate submission, certificate and practical of
// the subject in one transaction and optionally hands the subject to a new
// teacher. HOD only, department-scoped.
func (s *subjectService) Renew(ctx context.Context, actor authz.Actor, subjectID uint, payload dto.RenewRequest) (dto.SubjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubjectResponse{}, err
	}

	subject, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubjectResponse{}, ErrSubjectNotFound
		}
		return dto.SubjectResponse{}, err
	}

	gate := authz.Gate{
		Role: models.RoleHOD,
		Owns: func(a authz.Actor) bool { return a.Department == subject.Department },
	}
	if err := gate.Check(actor); err != nil {
		return dto.SubjectResponse{}, err
	}

	if payload.TeacherID != nil {
		teacher, err := s.users.GetByID(ctx, *payload.TeacherID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.SubjectResponse{}, ErrUserNotFound
			}
			return dto.SubjectResponse{}, err
		}
		if !teacher.IsTeacher() || teacher.Department != actor.Department {
			return dto.SubjectResponse{}, authz.ErrAccessDenied
		}
	}

	if err := s.subjects.Renew(ctx, subjectID, payload.TeacherID); err != nil {
		return dto.SubjectResponse{}, err
	}

	renewed, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		return dto.SubjectResponse{}, err
	}

	s.logger.Info().Uint("subject_id", subjectID).Msg("subject renewed")

	return dto.NewSubjectResponse(renewed), nil
}
