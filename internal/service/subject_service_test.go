package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/praktik-go-api/internal/authz"
	"github.com/noah-isme/praktik-go-api/internal/dto"
	"github.com/noah-isme/praktik-go-api/internal/models"
)

func newSubjectHarness() (SubjectService, *memorySubjectRepo, *memoryUserRepo) {
	subjects := newMemorySubjectRepo()
	users := newMemoryUserRepo()
	svc := NewSubjectService(subjects, users, testValidator(), testLogger())
	return svc, subjects, users
}

func TestSubjectCreateScopesHODToOwnDepartment(t *testing.T) {
	svc, _, users := newSubjectHarness()
	ctx := context.Background()

	teacher := users.add(models.User{Username: "guru", Role: models.RoleTeacher, Department: "Computer"})
	hod := authz.Actor{ID: 20, Role: models.RoleHOD, Department: "Computer"}

	created, err := svc.Create(ctx, hod, dto.SubjectCreateRequest{
		Code:       "CS101",
		Name:       "Data Structures",
		Department: "Mechanical",
		Class:      "Semester 3",
		TeacherID:  teacher.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "Computer", created.Department, "HOD created subjects stay in their department")

	outsideTeacher := users.add(models.User{Username: "tamu", Role: models.RoleTeacher, Department: "Mechanical"})
	_, err = svc.Create(ctx, hod, dto.SubjectCreateRequest{
		Code:      "CS102",
		Name:      "Algorithms",
		Class:     "Semester 3",
		TeacherID: outsideTeacher.ID,
	})
	require.ErrorIs(t, err, authz.ErrAccessDenied)
}

func TestSubjectCreateRejectsNonTeacherAssignee(t *testing.T) {
	svc, _, users := newSubjectHarness()
	ctx := context.Background()

	student := users.add(models.User{Username: "murid", Role: models.RoleStudent, Department: "Computer", Class: "Semester 3", RollNumber: "1"})
	admin := authz.Actor{ID: 99, Role: models.RoleAdmin}

	_, err := svc.Create(ctx, admin, dto.SubjectCreateRequest{
		Code:       "CS101",
		Name:       "Data Structures",
		Department: "Computer",
		Class:      "Semester 3",
		TeacherID:  student.ID,
	})
	require.ErrorIs(t, err, ErrValidation)

	teacherActor := authz.Actor{ID: 10, Role: models.RoleTeacher, Department: "Computer"}
	_, err = svc.Create(ctx, teacherActor, dto.SubjectCreateRequest{
		Code:       "CS101",
		Name:       "Data Structures",
		Department: "Computer",
		Class:      "Semester 3",
		TeacherID:  student.ID,
	})
	require.ErrorIs(t, err, authz.ErrAccessDenied)
}

func TestSubjectRenewGates(t *testing.T) {
	svc, subjects, users := newSubjectHarness()
	ctx := context.Background()

	subject := subjects.add(models.Subject{
		Code:       "CS101",
		Name:       "Data Structures",
		Department: "Computer",
		Class:      "Semester 3",
		TeacherID:  10,
	})

	otherHOD := authz.Actor{ID: 21, Role: models.RoleHOD, Department: "Mechanical"}
	_, err := svc.Renew(ctx, otherHOD, subject.ID, dto.RenewRequest{})
	require.ErrorIs(t, err, authz.ErrAccessDenied)

	hod := authz.Actor{ID: 20, Role: models.RoleHOD, Department: "Computer"}
	replacement := users.add(models.User{Username: "baru", Role: models.RoleTeacher, Department: "Computer"})

	renewed, err := svc.Renew(ctx, hod, subject.ID, dto.RenewRequest{TeacherID: &replacement.ID})
	require.NoError(t, err)
	require.Equal(t, replacement.ID, renewed.TeacherID)
	require.Equal(t, []uint{subject.ID}, subjects.renewed)

	outside := users.add(models.User{Username: "luar", Role: models.RoleTeacher, Department: "Mechanical"})
	_, err = svc.Renew(ctx, hod, subject.ID, dto.RenewRequest{TeacherID: &outside.ID})
	require.ErrorIs(t, err, authz.ErrAccessDenied)

	_, err = svc.Renew(ctx, hod, 999, dto.RenewRequest{})
	require.ErrorIs(t, err, ErrSubjectNotFound)
}
