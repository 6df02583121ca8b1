package service

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/praktik-go-api/internal/authz"
	"github.com/noah-isme/praktik-go-api/internal/dto"
	"github.com/noah-isme/praktik-go-api/internal/models"
	"github.com/noah-isme/praktik-go-api/internal/repository"
	"github.com/noah-isme/praktik-go-api/internal/workflow"
)

// ShowcaseCache is the invalidation hook for the public showcase listing.
type ShowcaseCache interface {
	Invalidate(ctx context.Context)
}

// SubmissionService runs the practical submission state machine:
// draft -> submitted -> approved | rejected.
type SubmissionService interface {
	Open(ctx context.Context, actor authz.Actor, practicalID uint) (dto.SubmissionResponse, error)
	SaveDraft(ctx context.Context, actor authz.Actor, practicalID uint, file *multipart.FileHeader) (dto.SubmissionResponse, error)
	Submit(ctx context.Context, actor authz.Actor, practicalID uint, file *multipart.FileHeader) (dto.SubmissionResponse, error)
	Approve(ctx context.Context, actor authz.Actor, submissionID uint, payload dto.ReviewRequest) (dto.SubmissionResponse, error)
	Reject(ctx context.Context, actor authz.Actor, submissionID uint, payload dto.ReviewRequest) (dto.SubmissionResponse, error)
	MarkBest(ctx context.Context, actor authz.Actor, submissionID uint) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	practicals  repository.PracticalRepository
	machine     workflow.Machine
	validator   *validator.Validate
	uploader    FileUploader
	sanitizer   *bluemonday.Policy
	showcase    ShowcaseCache
	notifier    Notifier
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance. showcase
// and notifier may be nil.
func NewSubmissionService(submissions repository.SubmissionRepository, practicals repository.PracticalRepository, validate *validator.Validate, uploader FileUploader, showcase ShowcaseCache, notifier Notifier, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		practicals:  practicals,
		machine:     workflow.PracticalSubmissions(),
		validator:   validate,
		uploader:    uploader,
		sanitizer:   bluemonday.StrictPolicy(),
		showcase:    showcase,
		notifier:    notifier,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

// Open returns the student's submission row for a practical, creating it in
// draft on first access. Idempotent.
func (s *submissionService) Open(ctx context.Context, actor authz.Actor, practicalID uint) (dto.SubmissionResponse, error) {
	practical, err := s.studentPractical(ctx, actor, practicalID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetOrCreate(ctx, actor.ID, practical.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

// SaveDraft stores work in progress. Permitted only while the row is still
// in draft; it never touches submitted_at.
func (s *submissionService) SaveDraft(ctx context.Context, actor authz.Actor, practicalID uint, file *multipart.FileHeader) (dto.SubmissionResponse, error) {
	return s.studentSave(ctx, actor, practicalID, file, models.SubmissionStatusDraft)
}

// Submit hands the work in. The first transition away from a missing
// submitted_at stamps it and computes is_late against the deadline exactly
// once; later re-submits leave both untouched.
func (s *submissionService) Submit(ctx context.Context, actor authz.Actor, practicalID uint, file *multipart.FileHeader) (dto.SubmissionResponse, error) {
	return s.studentSave(ctx, actor, practicalID, file, models.SubmissionStatusSubmitted)
}

func (s *submissionService) studentSave(ctx context.Context, actor authz.Actor, practicalID uint, file *multipart.FileHeader, target string) (dto.SubmissionResponse, error) {
	practical, err := s.studentPractical(ctx, actor, practicalID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetOrCreate(ctx, actor.ID, practical.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	rule, ok := s.machine.Lookup(submission.Status, target)
	if !ok {
		return dto.SubmissionResponse{}, ErrPreconditionFailed
	}
	if err := authz.Require(actor, rule.Actor); err != nil {
		return dto.SubmissionResponse{}, err
	}

	updates := map[string]interface{}{
		"status":   target,
		"is_draft": target == models.SubmissionStatusDraft,
	}

	if file != nil {
		url, err := uploadFile(ctx, s.uploader, file)
		if err != nil {
			return dto.SubmissionResponse{}, err
		}
		updates["file_url"] = url
	}

	if target == models.SubmissionStatusSubmitted && submission.SubmittedAt == nil {
		submittedAt := s.now()
		updates["submitted_at"] = submittedAt
		updates["is_late"] = submittedAt.After(practical.Deadline)
	}

	if err := s.submissions.UpdateConditional(ctx, submission.ID, submission.Status, updates); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return dto.SubmissionResponse{}, ErrPreconditionFailed
		}
		return dto.SubmissionResponse{}, err
	}

	updated, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.emit(ctx, actor.ID, updated.ID, submission.Status, target)
	s.logger.Info().Uint("submission_id", updated.ID).Str("status", target).Msg("submission saved")

	return dto.NewSubmissionResponse(updated), nil
}

// Approve accepts a submitted practical. Subject's teacher only; the row
// must currently be in submitted.
func (s *submissionService) Approve(ctx context.Context, actor authz.Actor, submissionID uint, payload dto.ReviewRequest) (dto.SubmissionResponse, error) {
	return s.review(ctx, actor, submissionID, payload, models.SubmissionStatusApproved)
}

// Reject refuses a submitted practical. Subject's teacher only.
func (s *submissionService) Reject(ctx context.Context, actor authz.Actor, submissionID uint, payload dto.ReviewRequest) (dto.SubmissionResponse, error) {
	return s.review(ctx, actor, submissionID, payload, models.SubmissionStatusRejected)
}

func (s *submissionService) review(ctx context.Context, actor authz.Actor, submissionID uint, payload dto.ReviewRequest, target string) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	rule, ok := s.machine.Lookup(submission.Status, target)
	if !ok {
		return dto.SubmissionResponse{}, ErrPreconditionFailed
	}

	gate := authz.Gate{
		Role: rule.Actor,
		Owns: func(a authz.Actor) bool { return a.ID == submission.Practical.TeacherID },
	}
	if err := gate.Check(actor); err != nil {
		return dto.SubmissionResponse{}, err
	}

	updates := map[string]interface{}{
		"status":   target,
		"feedback": s.sanitizer.Sanitize(payload.Feedback),
	}
	if target == models.SubmissionStatusApproved {
		updates["approved_at"] = s.now()
	}

	if err := s.submissions.UpdateConditional(ctx, submission.ID, submission.Status, updates); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return dto.SubmissionResponse{}, ErrPreconditionFailed
		}
		return dto.SubmissionResponse{}, err
	}

	updated, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.emit(ctx, actor.ID, updated.ID, submission.Status, target)
	s.logger.Info().Uint("submission_id", updated.ID).Str("status", target).Msg("submission reviewed")

	return dto.NewSubmissionResponse(updated), nil
}

// MarkBest toggles the showcase flag on the submission's practical. Only
// approved submissions qualify.
func (s *submissionService) MarkBest(ctx context.Context, actor authz.Actor, submissionID uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	gate := authz.Gate{
		Role: models.RoleTeacher,
		Owns: func(a authz.Actor) bool { return a.ID == submission.Practical.TeacherID },
	}
	if err := gate.Check(actor); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if !submission.IsApproved() {
		return dto.SubmissionResponse{}, ErrPreconditionFailed
	}

	if err := s.practicals.SetPublic(ctx, submission.PracticalID, !submission.Practical.IsPublic); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if s.showcase != nil {
		s.showcase.Invalidate(ctx)
	}

	updated, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("practical_id", submission.PracticalID).
		Bool("is_public", updated.Practical.IsPublic).
		Msg("best practical toggled")

	return dto.NewSubmissionResponse(updated), nil
}

func (s *submissionService) studentPractical(ctx context.Context, actor authz.Actor, practicalID uint) (models.Practical, error) {
	if err := authz.Require(actor, models.RoleStudent); err != nil {
		return models.Practical{}, err
	}

	practical, err := s.practicals.GetByID(ctx, practicalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Practical{}, ErrPracticalNotFound
		}
		return models.Practical{}, err
	}

	if practical.Subject.Department != actor.Department || practical.Subject.Class != actor.Class {
		return models.Practical{}, authz.ErrAccessDenied
	}

	return practical, nil
}

func (s *submissionService) emit(ctx context.Context, actorID, submissionID uint, from, to string) {
	if s.notifier == nil {
		return
	}
	s.notifier.TransitionOccurred(ctx, TransitionEvent{
		Entity:     "practical_submission",
		EntityID:   submissionID,
		ActorID:    actorID,
		FromStatus: from,
		ToStatus:   to,
	})
}
