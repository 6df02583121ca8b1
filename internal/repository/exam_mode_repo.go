package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/praktik-go-api/internal/models"
)

// ExamModeRepository defines data operations for the per-department exam switch.
type ExamModeRepository interface {
	GetOrCreate(ctx context.Context, department string) (models.ExamMode, error)
	Save(ctx context.Context, mode *models.ExamMode) error
	AnyEnabled(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context, department string) (bool, error)
}

type examModeRepository struct {
	db *gorm.DB
}

// NewExamModeRepository instantiates the repository.
func NewExamModeRepository(db *gorm.DB) ExamModeRepository {
	return &examModeRepository{db: db}
}

func (r *examModeRepository) GetOrCreate(ctx context.Context, department string) (models.ExamMode, error) {
	mode := models.ExamMode{Department: department}
	err := r.db.WithContext(ctx).
		Where(models.ExamMode{Department: department}).
		FirstOrCreate(&mode).Error
	if err != nil {
		return models.ExamMode{}, err
	}
	return mode, nil
}

func (r *examModeRepository) Save(ctx context.Context, mode *models.ExamMode) error {
	return r.db.WithContext(ctx).Save(mode).Error
}

func (r *examModeRepository) AnyEnabled(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ExamMode{}).
		Where("is_enabled = ?", true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *examModeRepository) IsEnabled(ctx context.Context, department string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ExamMode{}).
		Where("department = ? AND is_enabled = ?", department, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
