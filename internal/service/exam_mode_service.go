package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/praktik-go-api/internal/authz"
	"github.com/noah-isme/praktik-go-api/internal/dto"
	"github.com/noah-isme/praktik-go-api/internal/models"
	"github.com/noah-isme/praktik-go-api/internal/repository"
)

// ExamModeService controls the per-department exam switch. While any
// department has it enabled the public showcase goes dark.
type ExamModeService interface {
	Toggle(ctx context.Context, actor authz.Actor, payload dto.ExamModeToggleRequest) (dto.ExamModeResponse, error)
	Status(ctx context.Context, actor authz.Actor) (dto.ExamModeResponse, error)
}

type examModeService struct {
	exams    repository.ExamModeRepository
	showcase ShowcaseCache
	logger   zerolog.Logger
	now      func() time.Time
}

// NewExamModeService constructs an ExamModeService instance. showcase may
// be nil.
func NewExamModeService(exams repository.ExamModeRepository, showcase ShowcaseCache, logger zerolog.Logger) ExamModeService {
	return &examModeService{
		exams:    exams,
		showcase: showcase,
		logger:   logger.With().Str("component", "exam_mode_service").Logger(),
		now:      time.Now,
	}
}

// Toggle flips exam mode for the HOD's own department. Enabling stamps
// enabled_at; disabling clears it. Idempotent.
func (s *examModeService) Toggle(ctx context.Context, actor authz.Actor, payload dto.ExamModeToggleRequest) (dto.ExamModeResponse, error) {
	if err := authz.Require(actor, models.RoleHOD); err != nil {
		return dto.ExamModeResponse{}, err
	}

	mode, err := s.exams.GetOrCreate(ctx, actor.Department)
	if err != nil {
		return dto.ExamModeResponse{}, err
	}

	mode.IsEnabled = payload.Enabled
	if payload.Enabled {
		enabledAt := s.now()
		mode.EnabledAt = &enabledAt
	} else {
		mode.EnabledAt = nil
	}

	if err := s.exams.Save(ctx, &mode); err != nil {
		return dto.ExamModeResponse{}, err
	}

	if s.showcase != nil {
		s.showcase.Invalidate(ctx)
	}

	s.logger.Info().
		Str("department", mode.Department).
		Bool("enabled", mode.IsEnabled).
		Msg("exam mode toggled")

	return dto.NewExamModeResponse(mode), nil
}

// Status reports exam mode for the HOD's department.
func (s *examModeService) Status(ctx context.Context, actor authz.Actor) (dto.ExamModeResponse, error) {
	if err := authz.Require(actor, models.RoleHOD); err != nil {
		return dto.ExamModeResponse{}, err
	}

	mode, err := s.exams.GetOrCreate(ctx, actor.Department)
	if err != nil {
		return dto.ExamModeResponse{}, err
	}

	return dto.NewExamModeResponse(mode), nil
}
