package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/praktik-go-api/internal/authz"
	"github.com/noah-isme/praktik-go-api/internal/dto"
	"github.com/noah-isme/praktik-go-api/internal/models"
	"github.com/noah-isme/praktik-go-api/internal/repository"
)

func reviewWith(feedback string) dto.ReviewRequest {
	return dto.ReviewRequest{Feedback: feedback}
}

type memoryPracticalRepo struct {
	practicals map[uint]models.Practical
	nextID     uint
}

func newMemoryPracticalRepo() *memoryPracticalRepo {
	return &memoryPracticalRepo{practicals: make(map[uint]models.Practical), nextID: 1}
}

func (m *memoryPracticalRepo) Create(ctx context.Context, practical *models.Practical) error {
	practical.ID = m.nextID
	m.practicals[m.nextID] = *practical
	m.nextID++
	return nil
}

func (m *memoryPracticalRepo) GetByID(ctx context.Context, id uint) (models.Practical, error) {
	practical, ok := m.practicals[id]
	if !ok {
		return models.Practical{}, gorm.ErrRecordNotFound
	}
	return practical, nil
}

func (m *memoryPracticalRepo) ListBySubject(ctx context.Context, subjectID uint) ([]models.Practical, error) {
	results := make([]models.Practical, 0)
	for _, practical := range m.practicals {
		if practical.SubjectID == subjectID {
			results = append(results, practical)
		}
	}
	return results, nil
}

func (m *memoryPracticalRepo) ListBySubjects(ctx context.Context, subjectIDs []uint) ([]models.Practical, error) {
	results := make([]models.Practical, 0)
	for _, id := range subjectIDs {
		bySubject, _ := m.ListBySubject(ctx, id)
		results = append(results, bySubject...)
	}
	return results, nil
}

func (m *memoryPracticalRepo) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Practical, error) {
	results := make([]models.Practical, 0)
	for _, practical := range m.practicals {
		if practical.TeacherID == teacherID {
			results = append(results, practical)
		}
	}
	return results, nil
}

func (m *memoryPracticalRepo) CountBySubject(ctx context.Context, subjectID uint) (int64, error) {
	bySubject, _ := m.ListBySubject(ctx, subjectID)
	return int64(len(bySubject)), nil
}

func (m *memoryPracticalRepo) SetPublic(ctx context.Context, id uint, public bool) error {
	practical, ok := m.practicals[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	practical.IsPublic = public
	m.practicals[id] = practical
	return nil
}

func (m *memoryPracticalRepo) add(practical models.Practical) models.Practical {
	practical.ID = m.nextID
	m.practicals[m.nextID] = practical
	m.nextID++
	return practical
}

type memorySubmissionRepo struct {
	rows       map[uint]models.PracticalSubmission
	nextID     uint
	practicals *memoryPracticalRepo
}

func newMemorySubmissionRepo(practicals *memoryPracticalRepo) *memorySubmissionRepo {
	return &memorySubmissionRepo{
		rows:       make(map[uint]models.PracticalSubmission),
		nextID:     1,
		practicals: practicals,
	}
}

func (m *memorySubmissionRepo) withAssociations(row models.PracticalSubmission) models.PracticalSubmission {
	if m.practicals != nil {
		if practical, ok := m.practicals.practicals[row.PracticalID]; ok {
			row.Practical = practical
		}
	}
	return row
}

func (m *memorySubmissionRepo) GetOrCreate(ctx context.Context, studentID, practicalID uint) (models.PracticalSubmission, error) {
	for _, row := range m.rows {
		if row.StudentID == studentID && row.PracticalID == practicalID {
			return m.withAssociations(row), nil
		}
	}
	row := models.PracticalSubmission{
		ID:          m.nextID,
		StudentID:   studentID,
		PracticalID: practicalID,
		Status:      models.SubmissionStatusDraft,
		IsDraft:     true,
	}
	m.rows[m.nextID] = row
	m.nextID++
	return m.withAssociations(row), nil
}

func (m *memorySubmissionRepo) GetByID(ctx context.Context, id uint) (models.PracticalSubmission, error) {
	row, ok := m.rows[id]
	if !ok {
		return models.PracticalSubmission{}, gorm.ErrRecordNotFound
	}
	return m.withAssociations(row), nil
}

func (m *memorySubmissionRepo) UpdateConditional(ctx context.Context, id uint, expectedStatus string, updates map[string]interface{}) error {
	row, ok := m.rows[id]
	if !ok || row.Status != expectedStatus {
		return repository.ErrStatusConflict
	}

	for key, value := range updates {
		switch key {
		case "status":
			row.Status = value.(string)
		case "is_draft":
			row.IsDraft = value.(bool)
		case "is_late":
			row.IsLate = value.(bool)
		case "file_url":
			row.FileURL = value.(string)
		case "feedback":
			row.Feedback = value.(string)
		case "submitted_at":
			at := value.(time.Time)
			row.SubmittedAt = &at
		case "approved_at":
			at := value.(time.Time)
			row.ApprovedAt = &at
		}
	}

	m.rows[id] = row
	return nil
}

func (m *memorySubmissionRepo) ListByStudent(ctx context.Context, studentID uint) ([]models.PracticalSubmission, error) {
	results := make([]models.PracticalSubmission, 0)
	for _, row := range m.rows {
		if row.StudentID == studentID {
			results = append(results, m.withAssociations(row))
		}
	}
	return results, nil
}

func (m *memorySubmissionRepo) ListSubmittedByTeacher(ctx context.Context, teacherID uint) ([]models.PracticalSubmission, error) {
	results := make([]models.PracticalSubmission, 0)
	for _, row := range m.rows {
		full := m.withAssociations(row)
		if !full.IsDraft && full.Practical.TeacherID == teacherID {
			results = append(results, full)
		}
	}
	return results, nil
}

func (m *memorySubmissionRepo) ListSubmitted(ctx context.Context) ([]models.PracticalSubmission, error) {
	results := make([]models.PracticalSubmission, 0)
	for _, row := range m.rows {
		if !row.IsDraft {
			results = append(results, m.withAssociations(row))
		}
	}
	return results, nil
}

func (m *memorySubmissionRepo) ListPublicApproved(ctx context.Context) ([]models.PracticalSubmission, error) {
	results := make([]models.PracticalSubmission, 0)
	for _, row := range m.rows {
		full := m.withAssociations(row)
		if full.Status == models.SubmissionStatusApproved && full.Practical.IsPublic {
			results = append(results, full)
		}
	}
	return results, nil
}

func (m *memorySubmissionRepo) CountApprovedForSubject(ctx context.Context, studentID, subjectID uint) (int64, error) {
	var count int64
	for _, row := range m.rows {
		full := m.withAssociations(row)
		if full.StudentID == studentID && full.Status == models.SubmissionStatusApproved && full.Practical.SubjectID == subjectID {
			count++
		}
	}
	return count, nil
}

type stubUploader struct {
	uploads int
}

func (s *stubUploader) Upload(_ context.Context, name string, _ io.Reader) (string, error) {
	s.uploads++
	return "https://files.example.com/" + name, nil
}

type stubShowcaseCache struct {
	invalidations int
}

func (s *stubShowcaseCache) Invalidate(context.Context) {
	s.invalidations++
}

func newTestFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(int64(len(content))+1024))
	files := req.MultipartForm.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

type submissionFixture struct {
	service     SubmissionService
	practicals  *memoryPracticalRepo
	submissions *memorySubmissionRepo
	showcase    *stubShowcaseCache
	practical   models.Practical
	student     authz.Actor
	teacher     authz.Actor
}

func newSubmissionFixture(t *testing.T, deadline time.Time) *submissionFixture {
	t.Helper()
	practicals := newMemoryPracticalRepo()
	submissions := newMemorySubmissionRepo(practicals)
	showcase := &stubShowcaseCache{}

	practical := practicals.add(models.Practical{
		Number:    1,
		Title:     "Linked lists",
		SubjectID: 1,
		TeacherID: 10,
		Deadline:  deadline,
		Subject: models.Subject{
			ID:         1,
			Code:       "CS101",
			Department: "Computer",
			Class:      "Semester 3",
			TeacherID:  10,
		},
	})

	svc := NewSubmissionService(submissions, practicals, testValidator(), &stubUploader{}, showcase, nil, testLogger())

	return &submissionFixture{
		service:     svc,
		practicals:  practicals,
		submissions: submissions,
		showcase:    showcase,
		practical:   practical,
		student:     authz.Actor{ID: 1, Role: models.RoleStudent, Department: "Computer", Class: "Semester 3", RollNumber: "21"},
		teacher:     authz.Actor{ID: 10, Role: models.RoleTeacher, Department: "Computer"},
	}
}

func TestSubmissionLifecycle(t *testing.T) {
	fx := newSubmissionFixture(t, time.Now().Add(24*time.Hour))
	ctx := context.Background()

	opened, err := fx.service.Open(ctx, fx.student, fx.practical.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusDraft, opened.Status)
	require.True(t, opened.IsDraft)

	draft, err := fx.service.SaveDraft(ctx, fx.student, fx.practical.ID, newTestFileHeader(t, "work.txt", []byte("first pass")))
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusDraft, draft.Status)
	require.NotEmpty(t, draft.FileURL)
	require.Nil(t, draft.SubmittedAt)

	submitted, err := fx.service.Submit(ctx, fx.student, fx.practical.ID, nil)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusSubmitted, submitted.Status)
	require.False(t, submitted.IsDraft)
	require.False(t, submitted.IsLate)
	require.NotNil(t, submitted.SubmittedAt)

	approved, err := fx.service.Approve(ctx, fx.teacher, submitted.ID, reviewWith("<b>solid</b> work"))
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	require.Equal(t, "solid work", approved.Feedback)
}

func TestSubmissionLateStampsOnce(t *testing.T) {
	fx := newSubmissionFixture(t, time.Now().Add(-time.Hour))
	ctx := context.Background()

	first, err := fx.service.Submit(ctx, fx.student, fx.practical.ID, newTestFileHeader(t, "v1.txt", []byte("attempt one")))
	require.NoError(t, err)
	require.True(t, first.IsLate)
	require.NotNil(t, first.SubmittedAt)

	second, err := fx.service.Submit(ctx, fx.student, fx.practical.ID, newTestFileHeader(t, "v2.txt", []byte("attempt two")))
	require.NoError(t, err)
	require.Equal(t, *first.SubmittedAt, *second.SubmittedAt)
	require.NotEqual(t, first.FileURL, second.FileURL)
}

func TestSubmissionDraftAfterSubmitRejected(t *testing.T) {
	fx := newSubmissionFixture(t, time.Now().Add(24*time.Hour))
	ctx := context.Background()

	_, err := fx.service.Submit(ctx, fx.student, fx.practical.ID, nil)
	require.NoError(t, err)

	_, err = fx.service.SaveDraft(ctx, fx.student, fx.practical.ID, nil)
	require.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestSubmissionReviewGates(t *testing.T) {
	fx := newSubmissionFixture(t, time.Now().Add(24*time.Hour))
	ctx := context.Background()

	submitted, err := fx.service.Submit(ctx, fx.student, fx.practical.ID, nil)
	require.NoError(t, err)

	otherTeacher := authz.Actor{ID: 99, Role: models.RoleTeacher, Department: "Computer"}
	_, err = fx.service.Approve(ctx, otherTeacher, submitted.ID, reviewWith(""))
	require.ErrorIs(t, err, authz.ErrAccessDenied)

	_, err = fx.service.Approve(ctx, fx.student, submitted.ID, reviewWith(""))
	require.ErrorIs(t, err, authz.ErrAccessDenied)

	rejected, err := fx.service.Reject(ctx, fx.teacher, submitted.ID, reviewWith("incomplete"))
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusRejected, rejected.Status)

	_, err = fx.service.Approve(ctx, fx.teacher, submitted.ID, reviewWith(""))
	require.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestSubmissionApproveOnlyFromSubmitted(t *testing.T) {
	fx := newSubmissionFixture(t, time.Now().Add(24*time.Hour))
	ctx := context.Background()

	opened, err := fx.service.Open(ctx, fx.student, fx.practical.ID)
	require.NoError(t, err)

	_, err = fx.service.Approve(ctx, fx.teacher, opened.ID, reviewWith(""))
	require.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestSubmissionMarkBest(t *testing.T) {
	fx := newSubmissionFixture(t, time.Now().Add(24*time.Hour))
	ctx := context.Background()

	submitted, err := fx.service.Submit(ctx, fx.student, fx.practical.ID, nil)
	require.NoError(t, err)

	_, err = fx.service.MarkBest(ctx, fx.teacher, submitted.ID)
	require.ErrorIs(t, err, ErrPreconditionFailed)

	approved, err := fx.service.Approve(ctx, fx.teacher, submitted.ID, reviewWith(""))
	require.NoError(t, err)

	marked, err := fx.service.MarkBest(ctx, fx.teacher, approved.ID)
	require.NoError(t, err)
	require.True(t, marked.Practical.IsPublic)
	require.Equal(t, 1, fx.showcase.invalidations)

	unmarked, err := fx.service.MarkBest(ctx, fx.teacher, approved.ID)
	require.NoError(t, err)
	require.False(t, unmarked.Practical.IsPublic)
}

func TestSubmissionScopedToOwnClass(t *testing.T) {
	fx := newSubmissionFixture(t, time.Now().Add(24*time.Hour))
	ctx := context.Background()

	outsider := authz.Actor{ID: 2, Role: models.RoleStudent, Department: "Computer", Class: "Semester 5", RollNumber: "7"}
	_, err := fx.service.Open(ctx, outsider, fx.practical.ID)
	require.ErrorIs(t, err, authz.ErrAccessDenied)
}
