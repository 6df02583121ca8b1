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

// DashboardService builds the role-specific landing views and the
// examiner's roll-number lookup.
type DashboardService interface {
	Student(ctx context.Context, actor authz.Actor) (dto.StudentDashboardResponse, error)
	Teacher(ctx context.Context, actor authz.Actor) (dto.TeacherDashboardResponse, error)
	HOD(ctx context.Context, actor authz.Actor) (dto.HODDashboardResponse, error)
	Admin(ctx context.Context, actor authz.Actor) (dto.AdminDashboardResponse, error)
	Examiner(ctx context.Context, actor authz.Actor) (dto.ExaminerDashboardResponse, error)
	StudentLookup(ctx context.Context, actor authz.Actor, query dto.StudentLookupRequest) (dto.StudentLookupResponse, error)
}

type dashboardService struct {
	users        repository.UserRepository
	subjects     repository.SubjectRepository
	practicals   repository.PracticalRepository
	submissions  repository.SubmissionRepository
	certificates repository.CertificateRepository
	exams        repository.ExamModeRepository
	certService  CertificateService
	validator    *validator.Validate
	logger       zerolog.Logger
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(users repository.UserRepository, subjects repository.SubjectRepository, practicals repository.PracticalRepository, submissions repository.SubmissionRepository, certificates repository.CertificateRepository, exams repository.ExamModeRepository, certService CertificateService, validate *validator.Validate, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		users:        users,
		subjects:     subjects,
		practicals:   practicals,
		submissions:  submissions,
		certificates: certificates,
		exams:        exams,
		certService:  certService,
		validator:    validate,
		logger:       logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) Student(ctx context.Context, actor authz.Actor) (dto.StudentDashboardResponse, error) {
	if err := authz.Require(actor, models.RoleStudent); err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	subjects, err := s.subjects.ListByDepartmentClass(ctx, actor.Department, actor.Class)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	subjectIDs := make([]uint, 0, len(subjects))
	for _, subject := range subjects {
		subjectIDs = append(subjectIDs, subject.ID)
	}

	practicals, err := s.practicals.ListBySubjects(ctx, subjectIDs)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	submissions, err := s.submissions.ListByStudent(ctx, actor.ID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	certificates, err := s.certService.ListForStudent(ctx, actor)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	examEnabled, err := s.exams.IsEnabled(ctx, actor.Department)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	return dto.StudentDashboardResponse{
		Subjects:        dto.NewSubjectResponseSlice(subjects),
		Practicals:      dto.NewPracticalResponseSlice(practicals),
		Submissions:     dto.NewSubmissionResponseSlice(submissions),
		Certificates:    certificates,
		ExamModeEnabled: examEnabled,
	}, nil
}

func (s *dashboardService) Teacher(ctx context.Context, actor authz.Actor) (dto.TeacherDashboardResponse, error) {
	if err := authz.Require(actor, models.RoleTeacher); err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	subjects, err := s.subjects.ListByTeacher(ctx, actor.ID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	practicals, err := s.practicals.ListByTeacher(ctx, actor.ID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	submissions, err := s.submissions.ListSubmittedByTeacher(ctx, actor.ID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	certificates, err := s.certificates.ListByTeacher(ctx, actor.ID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	attachments, err := s.certificates.ListAttachmentsByTeacher(ctx, actor.ID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	return dto.TeacherDashboardResponse{
		Subjects:               dto.NewSubjectResponseSlice(subjects),
		Practicals:             dto.NewPracticalResponseSlice(practicals),
		Submissions:            dto.NewSubmissionResponseSlice(submissions),
		Certificates:           dto.NewCertificateResponseSlice(certificates),
		CertificateAttachments: dto.NewCertificateAttachmentResponseSlice(attachments),
	}, nil
}

func (s *dashboardService) HOD(ctx context.Context, actor authz.Actor) (dto.HODDashboardResponse, error) {
	if err := authz.Require(actor, models.RoleHOD); err != nil {
		return dto.HODDashboardResponse{}, err
	}

	students, err := s.users.ListByRoleAndDepartment(ctx, models.RoleStudent, actor.Department)
	if err != nil {
		return dto.HODDashboardResponse{}, err
	}

	teachers, err := s.users.ListByRoleAndDepartment(ctx, models.RoleTeacher, actor.Department)
	if err != nil {
		return dto.HODDashboardResponse{}, err
	}

	subjects, err := s.subjects.ListByDepartment(ctx, actor.Department)
	if err != nil {
		return dto.HODDashboardResponse{}, err
	}

	certificates, err := s.certificates.ListByDepartmentAndStatus(ctx, actor.Department, models.CertificateStatusSentToHOD)
	if err != nil {
		return dto.HODDashboardResponse{}, err
	}

	mode, err := s.exams.GetOrCreate(ctx, actor.Department)
	if err != nil {
		return dto.HODDashboardResponse{}, err
	}

	return dto.HODDashboardResponse{
		Students:     dto.NewUserResponseSlice(students),
		Teachers:     dto.NewUserResponseSlice(teachers),
		Subjects:     dto.NewSubjectResponseSlice(subjects),
		Certificates: dto.NewCertificateResponseSlice(certificates),
		ExamMode:     dto.NewExamModeResponse(mode),
	}, nil
}

func (s *dashboardService) Admin(ctx context.Context, actor authz.Actor) (dto.AdminDashboardResponse, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	response := dto.AdminDashboardResponse{}

	for _, group := range []struct {
		role   models.Role
		target *[]dto.UserResponse
	}{
		{models.RoleStudent, &response.Students},
		{models.RoleTeacher, &response.Teachers},
		{models.RoleHOD, &response.HODs},
		{models.RoleExaminer, &response.Examiners},
	} {
		users, err := s.users.ListByRole(ctx, group.role)
		if err != nil {
			return dto.AdminDashboardResponse{}, err
		}
		*group.target = dto.NewUserResponseSlice(users)
	}

	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	submissions, err := s.submissions.ListSubmitted(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	response.Subjects = dto.NewSubjectResponseSlice(subjects)
	response.Submissions = dto.NewSubmissionResponseSlice(submissions)

	return response, nil
}

func (s *dashboardService) Examiner(ctx context.Context, actor authz.Actor) (dto.ExaminerDashboardResponse, error) {
	if err := authz.Require(actor, models.RoleExaminer); err != nil {
		return dto.ExaminerDashboardResponse{}, err
	}

	certificates, err := s.certificates.ListByDepartmentAndStatus(ctx, actor.Department, models.CertificateStatusSentToExaminer)
	if err != nil {
		return dto.ExaminerDashboardResponse{}, err
	}

	return dto.ExaminerDashboardResponse{
		Certificates: dto.NewCertificateResponseSlice(certificates),
	}, nil
}

// StudentLookup resolves one student by department, class and roll number
// and returns their full record, optionally narrowed to one subject.
func (s *dashboardService) StudentLookup(ctx context.Context, actor authz.Actor, query dto.StudentLookupRequest) (dto.StudentLookupResponse, error) {
	if err := authz.Require(actor, models.RoleExaminer); err != nil {
		return dto.StudentLookupResponse{}, err
	}
	if err := s.validator.Struct(query); err != nil {
		return dto.StudentLookupResponse{}, err
	}

	student, err := s.users.FindStudentByRoll(ctx, query.Department, query.Class, query.RollNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentLookupResponse{}, ErrUserNotFound
		}
		return dto.StudentLookupResponse{}, err
	}

	submissions, err := s.submissions.ListByStudent(ctx, student.ID)
	if err != nil {
		return dto.StudentLookupResponse{}, err
	}
	if query.SubjectID != nil {
		filtered := submissions[:0]
		for _, submission := range submissions {
			if submission.Practical.SubjectID == *query.SubjectID {
				filtered = append(filtered, submission)
			}
		}
		submissions = filtered
	}

	response := dto.StudentLookupResponse{
		Student:     dto.NewUserResponse(student),
		Submissions: dto.NewSubmissionResponseSlice(submissions),
	}

	if query.SubjectID != nil {
		certificate, err := s.certificates.FindByStudentAndSubject(ctx, student.ID, *query.SubjectID)
		if err == nil {
			cert := dto.NewCertificateResponse(certificate)
			response.Certificate = &cert
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentLookupResponse{}, err
		}
	}

	return response, nil
}
