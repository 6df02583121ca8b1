package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/praktik-go-api/internal/authz"
	"github.com/noah-isme/praktik-go-api/internal/dto"
	"github.com/noah-isme/praktik-go-api/internal/models"
)

type memoryExamModeRepo struct {
	modes  map[string]models.ExamMode
	nextID uint
}

func newMemoryExamModeRepo() *memoryExamModeRepo {
	return &memoryExamModeRepo{modes: make(map[string]models.ExamMode), nextID: 1}
}

func (m *memoryExamModeRepo) GetOrCreate(ctx context.Context, department string) (models.ExamMode, error) {
	if mode, ok := m.modes[department]; ok {
		return mode, nil
	}
	mode := models.ExamMode{ID: m.nextID, Department: department}
	m.modes[department] = mode
	m.nextID++
	return mode, nil
}

func (m *memoryExamModeRepo) Save(ctx context.Context, mode *models.ExamMode) error {
	m.modes[mode.Department] = *mode
	return nil
}

func (m *memoryExamModeRepo) AnyEnabled(ctx context.Context) (bool, error) {
	for _, mode := range m.modes {
		if mode.IsEnabled {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryExamModeRepo) IsEnabled(ctx context.Context, department string) (bool, error) {
	return m.modes[department].IsEnabled, nil
}

func TestExamModeToggleStampsEnabledAt(t *testing.T) {
	exams := newMemoryExamModeRepo()
	showcase := &stubShowcaseCache{}
	svc := NewExamModeService(exams, showcase, testLogger())
	hod := authz.Actor{ID: 20, Role: models.RoleHOD, Department: "Computer"}
	ctx := context.Background()

	enabled, err := svc.Toggle(ctx, hod, dto.ExamModeToggleRequest{Enabled: true})
	require.NoError(t, err)
	require.True(t, enabled.IsEnabled)
	require.NotNil(t, enabled.EnabledAt)

	anyEnabled, err := exams.AnyEnabled(ctx)
	require.NoError(t, err)
	require.True(t, anyEnabled)

	disabled, err := svc.Toggle(ctx, hod, dto.ExamModeToggleRequest{Enabled: false})
	require.NoError(t, err)
	require.False(t, disabled.IsEnabled)
	require.Nil(t, disabled.EnabledAt)
	require.Equal(t, 2, showcase.invalidations)
}

func TestExamModeRequiresHOD(t *testing.T) {
	svc := NewExamModeService(newMemoryExamModeRepo(), nil, testLogger())
	student := authz.Actor{ID: 1, Role: models.RoleStudent, Department: "Computer"}
	ctx := context.Background()

	_, err := svc.Toggle(ctx, student, dto.ExamModeToggleRequest{Enabled: true})
	require.ErrorIs(t, err, authz.ErrAccessDenied)

	_, err = svc.Status(ctx, student)
	require.ErrorIs(t, err, authz.ErrAccessDenied)
}

func TestExamModeScopedToDepartment(t *testing.T) {
	exams := newMemoryExamModeRepo()
	svc := NewExamModeService(exams, nil, testLogger())
	ctx := context.Background()

	computer := authz.Actor{ID: 20, Role: models.RoleHOD, Department: "Computer"}
	mechanical := authz.Actor{ID: 21, Role: models.RoleHOD, Department: "Mechanical"}

	_, err := svc.Toggle(ctx, computer, dto.ExamModeToggleRequest{Enabled: true})
	require.NoError(t, err)

	status, err := svc.Status(ctx, mechanical)
	require.NoError(t, err)
	require.False(t, status.IsEnabled)
	require.Equal(t, "Mechanical", status.Department)
}
