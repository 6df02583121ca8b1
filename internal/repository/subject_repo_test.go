package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/praktik-go-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.Practical{},
		&models.PracticalSubmission{},
		&models.Certificate{},
		&models.CertificateSubmission{},
	))
	return db
}

func seedSubject(t *testing.T, db *gorm.DB, code string, teacherID uint) models.Subject {
	t.Helper()
	subject := models.Subject{
		Code:       code,
		Name:       "Data Structures",
		Department: "Computer",
		Class:      "Semester 3",
		TeacherID:  teacherID,
	}
	require.NoError(t, db.Create(&subject).Error)
	return subject
}

func seedCoursework(t *testing.T, db *gorm.DB, subject models.Subject, studentID uint) {
	t.Helper()
	practical := models.Practical{
		Number:    1,
		SubjectID: subject.ID,
		Title:     "Lists",
		Deadline:  time.Now().Add(24 * time.Hour),
		TeacherID: subject.TeacherID,
	}
	require.NoError(t, db.Create(&practical).Error)

	submission := models.PracticalSubmission{
		StudentID:   studentID,
		PracticalID: practical.ID,
		Status:      models.SubmissionStatusSubmitted,
		IsDraft:     false,
	}
	require.NoError(t, db.Create(&submission).Error)

	certificate := models.Certificate{
		StudentID: &studentID,
		SubjectID: subject.ID,
		TeacherID: subject.TeacherID,
		Status:    models.CertificateStatusSubmittedToTeacher,
	}
	require.NoError(t, db.Create(&certificate).Error)

	attachment := models.CertificateSubmission{
		CertificateID: certificate.ID,
		StudentID:     studentID,
		Status:        models.CertificateSubmissionStatusPending,
		SubmittedAt:   time.Now(),
	}
	require.NoError(t, db.Create(&attachment).Error)
}

func TestSubjectRepositoryRenewClearsCoursework(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubjectRepository(db)
	ctx := context.Background()

	renewed := seedSubject(t, db, "CS101", 10)
	kept := seedSubject(t, db, "CS102", 10)
	seedCoursework(t, db, renewed, 1)
	seedCoursework(t, db, kept, 2)

	newTeacher := uint(11)
	require.NoError(t, repo.Renew(ctx, renewed.ID, &newTeacher))

	var subject models.Subject
	require.NoError(t, db.First(&subject, renewed.ID).Error)
	require.Equal(t, newTeacher, subject.TeacherID)

	counts := map[string]interface{}{
		"practicals":              &models.Practical{},
		"practical_submissions":   &models.PracticalSubmission{},
		"certificates":            &models.Certificate{},
		"certificate_submissions": &models.CertificateSubmission{},
	}
	for name, model := range counts {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		require.Equal(t, int64(1), count, "expected only %s rows of the untouched subject to survive", name)
	}

	var survivor models.Practical
	require.NoError(t, db.First(&survivor).Error)
	require.Equal(t, kept.ID, survivor.SubjectID)
}

func TestSubjectRepositoryRenewRollsBackAsAUnit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubjectRepository(db)
	ctx := context.Background()

	subject := seedSubject(t, db, "CS101", 10)
	seedCoursework(t, db, subject, 1)

	// The practicals delete is the last destructive step; failing it must
	// undo the certificate and submission deletes that preceded it.
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register("renew_failure", func(tx *gorm.DB) {
		if tx.Statement.Table == "practicals" {
			_ = tx.AddError(errors.New("practicals delete refused"))
		}
	}))
	t.Cleanup(func() {
		require.NoError(t, db.Callback().Delete().Remove("renew_failure"))
	})

	newTeacher := uint(11)
	require.Error(t, repo.Renew(ctx, subject.ID, &newTeacher))

	for name, model := range map[string]interface{}{
		"practicals":              &models.Practical{},
		"practical_submissions":   &models.PracticalSubmission{},
		"certificates":            &models.Certificate{},
		"certificate_submissions": &models.CertificateSubmission{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		require.Equal(t, int64(1), count, "expected %s rows to survive the rollback", name)
	}

	var subjectRow models.Subject
	require.NoError(t, db.First(&subjectRow, subject.ID).Error)
	require.Equal(t, uint(10), subjectRow.TeacherID)
}

func TestSubjectRepositoryRenewKeepsTeacherWhenUnassigned(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubjectRepository(db)
	ctx := context.Background()

	subject := seedSubject(t, db, "CS101", 10)
	seedCoursework(t, db, subject, 1)

	require.NoError(t, repo.Renew(ctx, subject.ID, nil))

	var reloaded models.Subject
	require.NoError(t, db.First(&reloaded, subject.ID).Error)
	require.Equal(t, uint(10), reloaded.TeacherID)

	var practicals int64
	require.NoError(t, db.Model(&models.Practical{}).Count(&practicals).Error)
	require.Zero(t, practicals)
}
