package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/praktik-go-api/internal/models"
)

// SubmissionRepository defines data operations for practical submissions.
type SubmissionRepository interface {
	GetOrCreate(ctx context.Context, studentID, practicalID uint) (models.PracticalSubmission, error)
	GetByID(ctx context.Context, id uint) (models.PracticalSubmission, error)
	UpdateConditional(ctx context.Context, id uint, expectedStatus string, updates map[string]interface{}) error
	ListByStudent(ctx context.Context, studentID uint) ([]models.PracticalSubmission, error)
	ListSubmittedByTeacher(ctx context.Context, teacherID uint) ([]models.PracticalSubmission, error)
	ListSubmitted(ctx context.Context) ([]models.PracticalSubmission, error)
	ListPublicApproved(ctx context.Context) ([]models.PracticalSubmission, error)
	CountApprovedForSubject(ctx context.Context, studentID, subjectID uint) (int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.PracticalSubmission{}).
		Preload("Student").
		Preload("Practical").
		Preload("Practical.Subject")
}

// GetOrCreate returns the existing row for (student, practical) or creates
// one in draft. Duplicate create attempts land on the same row.
func (r *submissionRepository) GetOrCreate(ctx context.Context, studentID, practicalID uint) (models.PracticalSubmission, error) {
	submission := models.PracticalSubmission{
		StudentID:   studentID,
		PracticalID: practicalID,
		Status:      models.SubmissionStatusDraft,
		IsDraft:     true,
	}

	err := r.db.WithContext(ctx).
		Where(models.PracticalSubmission{StudentID: studentID, PracticalID: practicalID}).
		Attrs(models.PracticalSubmission{Status: models.SubmissionStatusDraft, IsDraft: true}).
		FirstOrCreate(&submission).Error
	if err != nil {
		return models.PracticalSubmission{}, err
	}

	return r.GetByID(ctx, submission.ID)
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.PracticalSubmission, error) {
	var submission models.PracticalSubmission
	if err := r.baseQuery(ctx).First(&submission, id).Error; err != nil {
		return models.PracticalSubmission{}, err
	}
	return submission, nil
}

// UpdateConditional applies updates only when the row still carries the
// expected status, closing the check-then-act race between two writers.
func (r *submissionRepository) UpdateConditional(ctx context.Context, id uint, expectedStatus string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.PracticalSubmission{}).
		Where("id = ? AND status = ?", id, expectedStatus).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *submissionRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.PracticalSubmission, error) {
	var submissions []models.PracticalSubmission
	if err := r.baseQuery(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) ListSubmittedByTeacher(ctx context.Context, teacherID uint) ([]models.PracticalSubmission, error) {
	var submissions []models.PracticalSubmission
	if err := r.baseQuery(ctx).
		Joins("JOIN practicals ON practicals.id = practical_submissions.practical_id").
		Where("practicals.teacher_id = ? AND practical_submissions.is_draft = ?", teacherID, false).
		Order("practical_submissions.created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) ListSubmitted(ctx context.Context) ([]models.PracticalSubmission, error) {
	var submissions []models.PracticalSubmission
	if err := r.baseQuery(ctx).
		Where("is_draft = ?", false).
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// ListPublicApproved returns approved submissions whose practical is flagged
// as a showcase best practical.
func (r *submissionRepository) ListPublicApproved(ctx context.Context) ([]models.PracticalSubmission, error) {
	var submissions []models.PracticalSubmission
	if err := r.baseQuery(ctx).
		Joins("JOIN practicals ON practicals.id = practical_submissions.practical_id").
		Where("practical_submissions.status = ? AND practicals.is_public = ?", models.SubmissionStatusApproved, true).
		Order("practical_submissions.approved_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// CountApprovedForSubject recomputes the approved count against the live
// practical set of the subject.
func (r *submissionRepository) CountApprovedForSubject(ctx context.Context, studentID, subjectID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PracticalSubmission{}).
		Joins("JOIN practicals ON practicals.id = practical_submissions.practical_id").
		Where("practical_submissions.student_id = ? AND practicals.subject_id = ? AND practical_submissions.status = ?",
			studentID, subjectID, models.SubmissionStatusApproved).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
