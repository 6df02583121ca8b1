package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/praktik-go-api/internal/models"
)

// SubjectRepository defines data operations for subjects, including the
// destructive department renewal.
type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id uint) (models.Subject, error)
	List(ctx context.Context) ([]models.Subject, error)
	ListByDepartment(ctx context.Context, department string) ([]models.Subject, error)
	ListByDepartmentClass(ctx context.Context, department, class string) ([]models.Subject, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Subject, error)
	Renew(ctx context.Context, subjectID uint, newTeacherID *uint) error
}

type subjectRepository struct {
	db *gorm.DB
}

// NewSubjectRepository instantiates the repository.
func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Subject{}).Preload("Teacher")
}

func (r *subjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *subjectRepository) GetByID(ctx context.Context, id uint) (models.Subject, error) {
	var subject models.Subject
	if err := r.baseQuery(ctx).First(&subject, id).Error; err != nil {
		return models.Subject{}, err
	}
	return subject, nil
}

func (r *subjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.baseQuery(ctx).Order("code").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepository) ListByDepartment(ctx context.Context, department string) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.baseQuery(ctx).Where("department = ?", department).Order("code").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepository) ListByDepartmentClass(ctx context.Context, department, class string) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.baseQuery(ctx).
		Where("department = ? AND class = ?", department, class).
		Order("code").
		Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.baseQuery(ctx).Where("teacher_id = ?", teacherID).Order("code").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

// Renew deletes, in child-before-parent order, all certificate submissions,
// certificates and practicals belonging to the subject, then optionally
// reassigns its teacher. The whole sequence commits or rolls back as one
// transaction.
func (r *subjectRepository) Renew(ctx context.Context, subjectID uint, newTeacherID *uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		certificateIDs := tx.Model(&models.Certificate{}).
			Select("id").
			Where("subject_id = ?", subjectID)

		if err := tx.Where("certificate_id IN (?)", certificateIDs).
			Delete(&models.CertificateSubmission{}).Error; err != nil {
			return err
		}

		if err := tx.Where("subject_id = ?", subjectID).
			Delete(&models.Certificate{}).Error; err != nil {
			return err
		}

		practicalIDs := tx.Model(&models.Practical{}).
			Select("id").
			Where("subject_id = ?", subjectID)

		if err := tx.Where("practical_id IN (?)", practicalIDs).
			Delete(&models.PracticalSubmission{}).Error; err != nil {
			return err
		}

		if err := tx.Where("subject_id = ?", subjectID).
			Delete(&models.Practical{}).Error; err != nil {
			return err
		}

		if newTeacherID != nil {
			if err := tx.Model(&models.Subject{}).
				Where("id = ?", subjectID).
				Update("teacher_id", *newTeacherID).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
