package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/praktik-go-api/internal/models"
)

// CertificateRepository defines data operations for certificates and their
// file-attachment submissions.
type CertificateRepository interface {
	GetByID(ctx context.Context, id uint) (models.Certificate, error)
	TemplateExists(ctx context.Context, subjectID, teacherID uint) (bool, error)
	CreateTemplateWithClones(ctx context.Context, template *models.Certificate, clones []models.Certificate) error
	FindByStudentAndSubject(ctx context.Context, studentID, subjectID uint) (models.Certificate, error)
	SubmitWithAttachment(ctx context.Context, id uint, studentID uint, expectedStatuses []string, updates map[string]interface{}, attachment *models.CertificateSubmission) error
	AdvanceWithAttachments(ctx context.Context, id uint, expectedStatus string, updates map[string]interface{}, attachmentExpected, attachmentNext string) error
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Certificate, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Certificate, error)
	ListTemplatesForSubjects(ctx context.Context, subjectIDs []uint) ([]models.Certificate, error)
	ListByDepartmentAndStatus(ctx context.Context, department, status string) ([]models.Certificate, error)
	GetAttachmentByID(ctx context.Context, id uint) (models.CertificateSubmission, error)
	ListAttachmentsByTeacher(ctx context.Context, teacherID uint) ([]models.CertificateSubmission, error)
	UpdateAttachmentFeedback(ctx context.Context, attachmentID uint, feedback string) error
}

type certificateRepository struct {
	db *gorm.DB
}

// NewCertificateRepository instantiates the repository.
func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Certificate{}).
		Preload("Student").
		Preload("Subject").
		Preload("Subject.Teacher").
		Preload("Teacher")
}

func (r *certificateRepository) GetByID(ctx context.Context, id uint) (models.Certificate, error) {
	var certificate models.Certificate
	if err := r.baseQuery(ctx).First(&certificate, id).Error; err != nil {
		return models.Certificate{}, err
	}
	return certificate, nil
}

func (r *certificateRepository) TemplateExists(ctx context.Context, subjectID, teacherID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Certificate{}).
		Where("subject_id = ? AND teacher_id = ?", subjectID, teacherID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateTemplateWithClones stores the template row and its per-student
// clones in one transaction; a failure rolls back every row.
func (r *certificateRepository) CreateTemplateWithClones(ctx context.Context, template *models.Certificate, clones []models.Certificate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(template).Error; err != nil {
			return err
		}
		for i := range clones {
			if err := tx.Create(&clones[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *certificateRepository) FindByStudentAndSubject(ctx context.Context, studentID, subjectID uint) (models.Certificate, error) {
	var certificate models.Certificate
	if err := r.baseQuery(ctx).
		Where("student_id = ? AND subject_id = ?", studentID, subjectID).
		First(&certificate).Error; err != nil {
		return models.Certificate{}, err
	}
	return certificate, nil
}

// SubmitWithAttachment performs the student's submit as one transaction:
// claim the row for the student when it is still an unclaimed template,
// advance the status conditionally, and create the file-attachment leg.
func (r *certificateRepository) SubmitWithAttachment(ctx context.Context, id uint, studentID uint, expectedStatuses []string, updates map[string]interface{}, attachment *models.CertificateSubmission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Certificate{}).
			Where("id = ? AND student_id IS NULL", id).
			Update("student_id", studentID).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Certificate{}).
			Where("id = ? AND student_id = ? AND status IN ?", id, studentID, expectedStatuses).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStatusConflict
		}

		if attachment != nil {
			attachment.CertificateID = id
			attachment.StudentID = studentID
			if err := tx.Create(attachment).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// AdvanceWithAttachments moves the certificate along one edge and carries
// its pending attachments to the matching status in the same transaction.
func (r *certificateRepository) AdvanceWithAttachments(ctx context.Context, id uint, expectedStatus string, updates map[string]interface{}, attachmentExpected, attachmentNext string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Certificate{}).
			Where("id = ? AND status = ?", id, expectedStatus).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStatusConflict
		}

		if attachmentNext != "" {
			if err := tx.Model(&models.CertificateSubmission{}).
				Where("certificate_id = ? AND status = ?", id, attachmentExpected).
				Update("status", attachmentNext).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *certificateRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Certificate, error) {
	var certificates []models.Certificate
	if err := r.baseQuery(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&certificates).Error; err != nil {
		return nil, err
	}
	return certificates, nil
}

func (r *certificateRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Certificate, error) {
	var certificates []models.Certificate
	if err := r.baseQuery(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&certificates).Error; err != nil {
		return nil, err
	}
	return certificates, nil
}

// ListTemplatesForSubjects returns unclaimed template rows a student may
// still pick up for the given subjects.
func (r *certificateRepository) ListTemplatesForSubjects(ctx context.Context, subjectIDs []uint) ([]models.Certificate, error) {
	if len(subjectIDs) == 0 {
		return []models.Certificate{}, nil
	}

	var certificates []models.Certificate
	if err := r.baseQuery(ctx).
		Where("subject_id IN ? AND student_id IS NULL AND status IN ?",
			subjectIDs,
			[]string{models.CertificateStatusTemplateAdded, models.CertificateStatusGenerated}).
		Find(&certificates).Error; err != nil {
		return nil, err
	}
	return certificates, nil
}

func (r *certificateRepository) ListByDepartmentAndStatus(ctx context.Context, department, status string) ([]models.Certificate, error) {
	var certificates []models.Certificate
	if err := r.baseQuery(ctx).
		Joins("JOIN subjects ON subjects.id = certificates.subject_id").
		Where("subjects.department = ? AND certificates.status = ?", department, status).
		Order("certificates.created_at DESC").
		Find(&certificates).Error; err != nil {
		return nil, err
	}
	return certificates, nil
}

func (r *certificateRepository) GetAttachmentByID(ctx context.Context, id uint) (models.CertificateSubmission, error) {
	var attachment models.CertificateSubmission
	if err := r.db.WithContext(ctx).Model(&models.CertificateSubmission{}).
		Preload("Certificate").
		First(&attachment, id).Error; err != nil {
		return models.CertificateSubmission{}, err
	}
	return attachment, nil
}

func (r *certificateRepository) ListAttachmentsByTeacher(ctx context.Context, teacherID uint) ([]models.CertificateSubmission, error) {
	var attachments []models.CertificateSubmission
	if err := r.db.WithContext(ctx).Model(&models.CertificateSubmission{}).
		Preload("Student").
		Preload("Certificate").
		Preload("Certificate.Subject").
		Joins("JOIN certificates ON certificates.id = certificate_submissions.certificate_id").
		Where("certificates.teacher_id = ?", teacherID).
		Order("certificate_submissions.created_at DESC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

func (r *certificateRepository) UpdateAttachmentFeedback(ctx context.Context, attachmentID uint, feedback string) error {
	return r.db.WithContext(ctx).Model(&models.CertificateSubmission{}).
		Where("id = ?", attachmentID).
		Update("teacher_feedback", feedback).Error
}
