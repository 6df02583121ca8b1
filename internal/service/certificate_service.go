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

// CertificateService runs the certificate approval chain: the teacher adds
// a template that is cloned per student, eligible students submit, and the
// certificate climbs teacher -> HOD -> examiner.
type CertificateService interface {
	AddTemplate(ctx context.Context, actor authz.Actor, subjectID uint, file *multipart.FileHeader) (dto.CertificateResponse, error)
	Submit(ctx context.Context, actor authz.Actor, subjectID uint, file *multipart.FileHeader) (dto.CertificateResponse, error)
	ApproveTeacher(ctx context.Context, actor authz.Actor, certificateID uint, payload dto.ReviewRequest) (dto.CertificateResponse, error)
	RejectTeacher(ctx context.Context, actor authz.Actor, certificateID uint, payload dto.ReviewRequest) (dto.CertificateResponse, error)
	ApproveHOD(ctx context.Context, actor authz.Actor, certificateID uint, payload dto.ReviewRequest) (dto.CertificateResponse, error)
	Certify(ctx context.Context, actor authz.Actor, certificateID uint, payload dto.ReviewRequest) (dto.CertificateResponse, error)
	RejectExaminer(ctx context.Context, actor authz.Actor, certificateID uint, payload dto.ReviewRequest) (dto.CertificateResponse, error)
	ListForStudent(ctx context.Context, actor authz.Actor) ([]dto.CertificateResponse, error)
	ListForTeacher(ctx context.Context, actor authz.Actor) ([]dto.CertificateResponse, error)
	ListForHOD(ctx context.Context, actor authz.Actor) ([]dto.CertificateResponse, error)
	ListForExaminer(ctx context.Context, actor authz.Actor) ([]dto.CertificateResponse, error)
	ReviewAttachment(ctx context.Context, actor authz.Actor, attachmentID uint, payload dto.ReviewRequest) error
}

type certificateService struct {
	certificates repository.CertificateRepository
	subjects     repository.SubjectRepository
	practicals   repository.PracticalRepository
	submissions  repository.SubmissionRepository
	users        repository.UserRepository
	machine      workflow.Machine
	validator    *validator.Validate
	uploader     FileUploader
	sanitizer    *bluemonday.Policy
	notifier     Notifier
	logger       zerolog.Logger
	now          func() time.Time
}

// NewCertificateService constructs a CertificateService instance. notifier
// may be nil.
func NewCertificateService(certificates repository.CertificateRepository, subjects repository.SubjectRepository, practicals repository.PracticalRepository, submissions repository.SubmissionRepository, users repository.UserRepository, validate *validator.Validate, uploader FileUploader, notifier Notifier, logger zerolog.Logger) CertificateService {
	return &certificateService{
		certificates: certificates,
		subjects:     subjects,
		practicals:   practicals,
		submissions:  submissions,
		users:        users,
		machine:      workflow.Certificates(),
		validator:    validate,
		uploader:     uploader,
		sanitizer:    bluemonday.StrictPolicy(),
		notifier:     notifier,
		logger:       logger.With().Str("component", "certificate_service").Logger(),
		now:          time.Now,
	}
}

// AddTemplate registers the subject's certificate template and clones it
// once per enrolled student. One template per subject per teacher; the
// template and every clone land in one transaction.
func (s *certificateService) AddTemplate(ctx context.Context, actor authz.Actor, subjectID uint, file *multipart.FileHeader) (dto.CertificateResponse, error) {
	subject, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CertificateResponse{}, ErrSubjectNotFound
		}
		return dto.CertificateResponse{}, err
	}

	gate := authz.Gate{
		Role: models.RoleTeacher,
		Owns: func(a authz.Actor) bool { return a.ID == subject.TeacherID },
	}
	if err := gate.Check(actor); err != nil {
		return dto.CertificateResponse{}, err
	}

	exists, err := s.certificates.TemplateExists(ctx, subject.ID, actor.ID)
	if err != nil {
		return dto.CertificateResponse{}, err
	}
	if exists {
		return dto.CertificateResponse{}, ErrPreconditionFailed
	}

	fileURL := ""
	if file != nil {
		fileURL, err = uploadFile(ctx, s.uploader, file)
		if err != nil {
			return dto.CertificateResponse{}, err
		}
	}

	template := models.Certificate{
		SubjectID: subject.ID,
		TeacherID: actor.ID,
		FileURL:   fileURL,
		Status:    models.CertificateStatusTemplateAdded,
	}

	students, err := s.users.ListStudentsByDepartmentClass(ctx, subject.Department, subject.Class)
	if err != nil {
		return dto.CertificateResponse{}, err
	}

	clones := make([]models.Certificate, 0, len(students))
	for _, student := range students {
		studentID := student.ID
		clones = append(clones, models.Certificate{
			StudentID: &studentID,
			SubjectID: subject.ID,
			TeacherID: actor.ID,
			FileURL:   fileURL,
			Status:    models.CertificateStatusGenerated,
		})
	}

	if err := s.certificates.CreateTemplateWithClones(ctx, &template, clones); err != nil {
		return dto.CertificateResponse{}, err
	}

	s.logger.Info().
		Uint("subject_id", subject.ID).
		Int("clones", len(clones)).
		Msg("certificate template added")

	created, err := s.certificates.GetByID(ctx, template.ID)
	if err != nil {
		return dto.CertificateResponse{}, err
	}

	return dto.NewCertificateResponse(created), nil
}

// Submit hands the student's certificate to the subject teacher. The
// student must have every live practical of the subject approved. A
// student without a clone claims an unclaimed template row; the first
// submit stamps submitted_at, re-submits after rejection do not reopen
// the row.
func (s *certificateService) Submit(ctx context.Context, actor authz.Actor, subjectID uint, file *multipart.FileHeader) (dto.CertificateResponse, error) {
	if err := authz.Require(actor, models.RoleStudent); err != nil {
		return dto.CertificateResponse{}, err
	}
	if file == nil {
		return dto.CertificateResponse{}, ErrValidation
	}

	subject, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CertificateResponse{}, ErrSubjectNotFound
		}
		return dto.CertificateResponse{}, err
	}
	if subject.Department != actor.Department || subject.Class != actor.Class {
		return dto.CertificateResponse{}, authz.ErrAccessDenied
	}

	total, err := s.practicals.CountBySubject(ctx, subject.ID)
	if err != nil {
		return dto.CertificateResponse{}, err
	}
	approved, err := s.submissions.CountApprovedForSubject(ctx, actor.ID, subject.ID)
	if err != nil {
		return dto.CertificateResponse{}, err
	}
	if total == 0 || approved < total {
		return dto.CertificateResponse{}, ErrPreconditionFailed
	}

	certificate, err := s.findOrClaimable(ctx, actor.ID, subject.ID)
	if err != nil {
		return dto.CertificateResponse{}, err
	}

	target := models.CertificateStatusSubmittedToTeacher
	rule, ok := s.machine.Lookup(certificate.Status, target)
	if !ok {
		return dto.CertificateResponse{}, ErrPreconditionFailed
	}
	if err := authz.Require(actor, rule.Actor); err != nil {
		return dto.CertificateResponse{}, err
	}

	fileURL, err := uploadFile(ctx, s.uploader, file)
	if err != nil {
		return dto.CertificateResponse{}, err
	}

	submittedAt := s.now()
	updates := map[string]interface{}{
		"status":       target,
		"file_url":     fileURL,
		"submitted_at": gorm.Expr("COALESCE(submitted_at, ?)", submittedAt),
	}
	attachment := &models.CertificateSubmission{
		FileURL:     fileURL,
		Status:      models.CertificateSubmissionStatusPending,
		SubmittedAt: submittedAt,
	}

	expected := []string{models.CertificateStatusTemplateAdded, models.CertificateStatusGenerated}
	if err := s.certificates.SubmitWithAttachment(ctx, certificate.ID, actor.ID, expected, updates, attachment); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return dto.CertificateResponse{}, ErrPreconditionFailed
		}
		return dto.CertificateResponse{}, err
	}

	updated, err := s.certificates.GetByID(ctx, certificate.ID)
	if err != nil {
		return dto.CertificateResponse{}, err
	}

	s.emit(ctx, actor.ID, updated.ID, certificate.Status, target)
	s.logger.Info().Uint("certificate_id", updated.ID).Msg("certificate submitted")

	return dto.NewCertificateResponse(updated), nil
}

// findOrClaimable resolves the certificate a student submits against: the
// student's own clone when one exists, otherwise an unclaimed template for
// the subject.
func (s *certificateService) findOrClaimable(ctx context.Context, studentID, subjectID uint) (models.Certificate, error) {
	certificate, err := s.certificates.FindByStudentAndSubject(ctx, studentID, subjectID)
	if err == nil {
		return certificate, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Certificate{}, err
	}

	templates, err := s.certificates.ListTemplatesForSubjects(ctx, []uint{subjectID})
	if err != nil {
		return models.Certificate{}, err
	}
	if len(templates) == 0 {
		return models.Certificate{}, ErrCertificateNotFound
	}
	return templates[0], nil
}

// ApproveTeacher signs off and forwards the certificate to the HOD.
func (s *certificateService) ApproveTeacher(ctx context.Context, actor authz.Actor, certificateID uint, payload dto.ReviewRequest) (dto.CertificateResponse, error) {
	return s.advance(ctx, actor, certificateID, payload, advanceStep{
		target:         models.CertificateStatusSentToHOD,
		feedbackColumn: "teacher_feedback",
		owns: func(a authz.Actor, c models.Certificate) bool {
			return a.ID == c.TeacherID
		},
		stamp: func(updates map[string]interface{}, now time.Time) {
			updates["approved_at"] = gorm.Expr("COALESCE(approved_at, ?)", now)
		},
		attachmentExpected: models.CertificateSubmissionStatusPending,
		attachmentNext:     models.CertificateSubmissionStatusSentToHOD,
	})
}

// RejectTeacher refuses the certificate. Terminal.
func (s *certificateService) RejectTeacher(ctx context.Context, actor authz.Actor, certificateID uint, payload dto.ReviewRequest) (dto.CertificateResponse, error) {
	return s.advance(ctx, actor, certificateID, payload, advanceStep{
		target:         models.CertificateStatusRejected,
		feedbackColumn: "teacher_feedback",
		owns: func(a authz.Actor, c models.Certificate) bool {
			return a.ID == c.TeacherID
		},
		attachmentExpected: models.CertificateSubmissionStatusPending,
		attachmentNext:     models.CertificateSubmissionStatusRejected,
	})
}

// ApproveHOD signs off within the HOD's department and forwards the
// certificate to the examiner.
func (s *certificateService) ApproveHOD(ctx context.Context, actor authz.Actor, certificateID uint, payload dto.ReviewRequest) (dto.CertificateResponse, error) {
	return s.advance(ctx, actor, certificateID, payload, advanceStep{
		target:         models.CertificateStatusSentToExaminer,
		feedbackColumn: "hod_feedback",
		owns: func(a authz.Actor, c models.Certificate) bool {
			return a.Department == c.Subject.Department
		},
		stamp: func(updates map[string]interface{}, now time.Time) {
			updates["hod_id"] = actor.ID
			updates["approved_at"] = gorm.Expr("COALESCE(approved_at, ?)", now)
		},
	})
}

// Certify is the examiner's final approval. Terminal.
func (s *certificateService) Certify(ctx context.Context, actor authz.Actor, certificateID uint, payload dto.ReviewRequest) (dto.CertificateResponse, error) {
	return s.advance(ctx, actor, certificateID, payload, advanceStep{
		target:         models.CertificateStatusCertified,
		feedbackColumn: "examiner_feedback",
		owns: func(a authz.Actor, c models.Certificate) bool {
			return a.Department == c.Subject.Department
		},
		stamp: func(updates map[string]interface{}, now time.Time) {
			updates["examiner_id"] = actor.ID
			updates["examiner_approved_at"] = gorm.Expr("COALESCE(examiner_approved_at, ?)", now)
			updates["certified_at"] = gorm.Expr("COALESCE(certified_at, ?)", now)
		},
		attachmentExpected: models.CertificateSubmissionStatusSentToHOD,
		attachmentNext:     models.CertificateSubmissionStatusCertified,
	})
}

// RejectExaminer refuses the certificate at the final stage. Terminal.
func (s *certificateService) RejectExaminer(ctx context.Context, actor authz.Actor, certificateID uint, payload dto.ReviewRequest) (dto.CertificateResponse, error) {
	return s.advance(ctx, actor, certificateID, payload, advanceStep{
		target:         models.CertificateStatusRejected,
		feedbackColumn: "examiner_feedback",
		owns: func(a authz.Actor, c models.Certificate) bool {
			return a.Department == c.Subject.Department
		},
		stamp: func(updates map[string]interface{}, now time.Time) {
			updates["examiner_id"] = actor.ID
		},
		attachmentExpected: models.CertificateSubmissionStatusSentToHOD,
		attachmentNext:     models.CertificateSubmissionStatusRejected,
	})
}

// advanceStep parameterizes one reviewer edge of the approval chain.
type advanceStep struct {
	target             string
	feedbackColumn     string
	owns               func(authz.Actor, models.Certificate) bool
	stamp              func(map[string]interface{}, time.Time)
	attachmentExpected string
	attachmentNext     string
}

func (s *certificateService) advance(ctx context.Context, actor authz.Actor, certificateID uint, payload dto.ReviewRequest, step advanceStep) (dto.CertificateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CertificateResponse{}, err
	}

	certificate, err := s.certificates.GetByID(ctx, certificateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CertificateResponse{}, ErrCertificateNotFound
		}
		return dto.CertificateResponse{}, err
	}

	rule, ok := s.machine.Lookup(certificate.Status, step.target)
	if !ok {
		return dto.CertificateResponse{}, ErrPreconditionFailed
	}

	gate := authz.Gate{Role: rule.Actor}
	if step.owns != nil {
		gate.Owns = func(a authz.Actor) bool { return step.owns(a, certificate) }
	}
	if err := gate.Check(actor); err != nil {
		return dto.CertificateResponse{}, err
	}

	updates := map[string]interface{}{
		"status":            step.target,
		step.feedbackColumn: s.sanitizer.Sanitize(payload.Feedback),
	}
	if step.stamp != nil {
		step.stamp(updates, s.now())
	}

	if err := s.certificates.AdvanceWithAttachments(ctx, certificate.ID, certificate.Status, updates, step.attachmentExpected, step.attachmentNext); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return dto.CertificateResponse{}, ErrPreconditionFailed
		}
		return dto.CertificateResponse{}, err
	}

	updated, err := s.certificates.GetByID(ctx, certificate.ID)
	if err != nil {
		return dto.CertificateResponse{}, err
	}

	s.emit(ctx, actor.ID, updated.ID, certificate.Status, step.target)
	s.logger.Info().
		Uint("certificate_id", updated.ID).
		Str("status", step.target).
		Msg("certificate advanced")

	return dto.NewCertificateResponse(updated), nil
}

// ListForStudent returns the student's own certificates plus unclaimed
// templates for their subjects.
func (s *certificateService) ListForStudent(ctx context.Context, actor authz.Actor) ([]dto.CertificateResponse, error) {
	if err := authz.Require(actor, models.RoleStudent); err != nil {
		return nil, err
	}

	own, err := s.certificates.ListByStudent(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	subjects, err := s.subjects.ListByDepartmentClass(ctx, actor.Department, actor.Class)
	if err != nil {
		return nil, err
	}
	subjectIDs := make([]uint, 0, len(subjects))
	claimed := make(map[uint]bool, len(own))
	for _, certificate := range own {
		claimed[certificate.SubjectID] = true
	}
	for _, subject := range subjects {
		if !claimed[subject.ID] {
			subjectIDs = append(subjectIDs, subject.ID)
		}
	}

	templates, err := s.certificates.ListTemplatesForSubjects(ctx, subjectIDs)
	if err != nil {
		return nil, err
	}

	return dto.NewCertificateResponseSlice(append(own, templates...)), nil
}

// ListForTeacher returns certificates the teacher issued.
func (s *certificateService) ListForTeacher(ctx context.Context, actor authz.Actor) ([]dto.CertificateResponse, error) {
	if err := authz.Require(actor, models.RoleTeacher); err != nil {
		return nil, err
	}
	certificates, err := s.certificates.ListByTeacher(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewCertificateResponseSlice(certificates), nil
}

// ListForHOD returns certificates awaiting HOD review in the HOD's
// department.
func (s *certificateService) ListForHOD(ctx context.Context, actor authz.Actor) ([]dto.CertificateResponse, error) {
	if err := authz.Require(actor, models.RoleHOD); err != nil {
		return nil, err
	}
	certificates, err := s.certificates.ListByDepartmentAndStatus(ctx, actor.Department, models.CertificateStatusSentToHOD)
	if err != nil {
		return nil, err
	}
	return dto.NewCertificateResponseSlice(certificates), nil
}

// ListForExaminer returns the examiner's department certificates awaiting
// final certification.
func (s *certificateService) ListForExaminer(ctx context.Context, actor authz.Actor) ([]dto.CertificateResponse, error) {
	if err := authz.Require(actor, models.RoleExaminer); err != nil {
		return nil, err
	}
	certificates, err := s.certificates.ListByDepartmentAndStatus(ctx, actor.Department, models.CertificateStatusSentToExaminer)
	if err != nil {
		return nil, err
	}
	return dto.NewCertificateResponseSlice(certificates), nil
}

// ReviewAttachment records teacher feedback on a file attachment without
// moving the certificate.
func (s *certificateService) ReviewAttachment(ctx context.Context, actor authz.Actor, attachmentID uint, payload dto.ReviewRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	attachment, err := s.certificates.GetAttachmentByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCertificateNotFound
		}
		return err
	}

	gate := authz.Gate{
		Role: models.RoleTeacher,
		Owns: func(a authz.Actor) bool { return a.ID == attachment.Certificate.TeacherID },
	}
	if err := gate.Check(actor); err != nil {
		return err
	}

	return s.certificates.UpdateAttachmentFeedback(ctx, attachment.ID, s.sanitizer.Sanitize(payload.Feedback))
}

func (s *certificateService) emit(ctx context.Context, actorID, certificateID uint, from, to string) {
	if s.notifier == nil {
		return
	}
	s.notifier.TransitionOccurred(ctx, TransitionEvent{
		Entity:     "certificate",
		EntityID:   certificateID,
		ActorID:    actorID,
		FromStatus: from,
		ToStatus:   to,
	})
}
