package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/praktik-go-api/internal/models"
)

// PracticalRepository defines data operations for practicals.
type PracticalRepository interface {
	Create(ctx context.Context, practical *models.Practical) error
	GetByID(ctx context.Context, id uint) (models.Practical, error)
	ListBySubject(ctx context.Context, subjectID uint) ([]models.Practical, error)
	ListBySubjects(ctx context.Context, subjectIDs []uint) ([]models.Practical, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Practical, error)
	CountBySubject(ctx context.Context, subjectID uint) (int64, error)
	SetPublic(ctx context.Context, id uint, public bool) error
}

type practicalRepository struct {
	db *gorm.DB
}

// NewPracticalRepository instantiates the repository.
func NewPracticalRepository(db *gorm.DB) PracticalRepository {
	return &practicalRepository{db: db}
}

func (r *practicalRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Practical{}).
		Preload("Subject").
		Preload("Subject.Teacher")
}

func (r *practicalRepository) Create(ctx context.Context, practical *models.Practical) error {
	return r.db.WithContext(ctx).Create(practical).Error
}

func (r *practicalRepository) GetByID(ctx context.Context, id uint) (models.Practical, error) {
	var practical models.Practical
	if err := r.baseQuery(ctx).First(&practical, id).Error; err != nil {
		return models.Practical{}, err
	}
	return practical, nil
}

func (r *practicalRepository) ListBySubject(ctx context.Context, subjectID uint) ([]models.Practical, error) {
	var practicals []models.Practical
	if err := r.baseQuery(ctx).
		Where("subject_id = ?", subjectID).
		Order("number").
		Find(&practicals).Error; err != nil {
		return nil, err
	}
	return practicals, nil
}

func (r *practicalRepository) ListBySubjects(ctx context.Context, subjectIDs []uint) ([]models.Practical, error) {
	if len(subjectIDs) == 0 {
		return []models.Practical{}, nil
	}

	var practicals []models.Practical
	if err := r.baseQuery(ctx).
		Where("subject_id IN ?", subjectIDs).
		Order("subject_id, number").
		Find(&practicals).Error; err != nil {
		return nil, err
	}
	return practicals, nil
}

func (r *practicalRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Practical, error) {
	var practicals []models.Practical
	if err := r.baseQuery(ctx).
		Where("teacher_id = ?", teacherID).
		Order("subject_id, number").
		Find(&practicals).Error; err != nil {
		return nil, err
	}
	return practicals, nil
}

func (r *practicalRepository) CountBySubject(ctx context.Context, subjectID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Practical{}).
		Where("subject_id = ?", subjectID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *practicalRepository) SetPublic(ctx context.Context, id uint, public bool) error {
	return r.db.WithContext(ctx).Model(&models.Practical{}).
		Where("id = ?", id).
		Update("is_public", public).Error
}
