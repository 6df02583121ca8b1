package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/praktik-go-api/internal/authz"
	"github.com/noah-isme/praktik-go-api/internal/dto"
	"github.com/noah-isme/praktik-go-api/internal/models"
	"github.com/noah-isme/praktik-go-api/internal/repository"
)

// PracticalService manages practicals within a subject.
type PracticalService interface {
	Create(ctx context.Context, actor authz.Actor, subjectID uint, payload dto.PracticalCreateRequest) (dto.PracticalResponse, error)
	GetByID(ctx context.Context, actor authz.Actor, id uint) (dto.PracticalResponse, error)
	ListBySubject(ctx context.Context, subjectID uint) ([]dto.PracticalResponse, error)
}

type practicalService struct {
	practicals repository.PracticalRepository
	subjects   repository.SubjectRepository
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewPracticalService constructs a PracticalService instance.
func NewPracticalService(practicals repository.PracticalRepository, subjects repository.SubjectRepository, validate *validator.Validate, logger zerolog.Logger) PracticalService {
	return &practicalService{
		practicals: practicals,
		subjects:   subjects,
		validator:  validate,
		logger:     logger.With().Str("component", "practical_service").Logger(),
	}
}

// Create adds a practical to a subject. Only the subject's teacher may do
// this; the teacher reference is denormalized onto the practical.
func (s *practicalService) Create(ctx context.Context, actor authz.Actor, subjectID uint, payload dto.PracticalCreateRequest) (dto.PracticalResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PracticalResponse{}, err
	}

	subject, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PracticalResponse{}, ErrSubjectNotFound
		}
		return dto.PracticalResponse{}, err
	}

	gate := authz.Gate{
		Role: models.RoleTeacher,
		Owns: func(a authz.Actor) bool { return a.ID == subject.TeacherID },
	}
	if err := gate.Check(actor); err != nil {
		return dto.PracticalResponse{}, err
	}

	deadline, err := time.Parse(time.RFC3339, payload.Deadline)
	if err != nil {
		return dto.PracticalResponse{}, errors.Join(ErrValidation, errors.New("deadline must be RFC3339"))
	}

	practical := models.Practical{
		Number:      payload.Number,
		SubjectID:   subject.ID,
		Title:       payload.Title,
		Description: payload.Description,
		Deadline:    deadline,
		TeacherID:   subject.TeacherID,
	}

	if err := s.practicals.Create(ctx, &practical); err != nil {
		return dto.PracticalResponse{}, err
	}

	created, err := s.practicals.GetByID(ctx, practical.ID)
	if err != nil {
		return dto.PracticalResponse{}, err
	}

	s.logger.Info().Uint("practical_id", practical.ID).Uint("subject_id", subjectID).Msg("practical created")

	return dto.NewPracticalResponse(created), nil
}

// GetByID returns a practical, scoping students to their own department and
// class and teachers to their own practicals.
func (s *practicalService) GetByID(ctx context.Context, actor authz.Actor, id uint) (dto.PracticalResponse, error) {
	practical, err := s.practicals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PracticalResponse{}, ErrPracticalNotFound
		}
		return dto.PracticalResponse{}, err
	}

	switch actor.Role {
	case models.RoleStudent:
		if practical.Subject.Department != actor.Department || practical.Subject.Class != actor.Class {
			return dto.PracticalResponse{}, authz.ErrAccessDenied
		}
	case models.RoleTeacher:
		if practical.TeacherID != actor.ID {
			return dto.PracticalResponse{}, authz.ErrAccessDenied
		}
	}

	return dto.NewPracticalResponse(practical), nil
}

func (s *practicalService) ListBySubject(ctx context.Context, subjectID uint) ([]dto.PracticalResponse, error) {
	practicals, err := s.practicals.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	return dto.NewPracticalResponseSlice(practicals), nil
}
