package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/praktik-go-api/internal/dto"
	"github.com/noah-isme/praktik-go-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

type memoryUserRepo struct {
	users  map[uint]models.User
	nextID uint
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uint]models.User), nextID: 1}
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.IsStudent() && (user.Class == "" || user.RollNumber == "") {
		return models.ErrStudentFieldsMissing
	}
	user.ID = m.nextID
	m.users[m.nextID] = *user
	m.nextID++
	return nil
}

func (m *memoryUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memoryUserRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memoryUserRepo) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	results := make([]models.User, 0)
	for _, user := range m.users {
		if user.Role == role {
			results = append(results, user)
		}
	}
	return results, nil
}

func (m *memoryUserRepo) ListByRoleAndDepartment(ctx context.Context, role models.Role, department string) ([]models.User, error) {
	results := make([]models.User, 0)
	for _, user := range m.users {
		if user.Role == role && user.Department == department {
			results = append(results, user)
		}
	}
	return results, nil
}

func (m *memoryUserRepo) ListStudentsByDepartmentClass(ctx context.Context, department, class string) ([]models.User, error) {
	results := make([]models.User, 0)
	for _, user := range m.users {
		if user.Role == models.RoleStudent && user.Department == department && user.Class == class {
			results = append(results, user)
		}
	}
	return results, nil
}

func (m *memoryUserRepo) FindStudentByRoll(ctx context.Context, department, class, rollNumber string) (models.User, error) {
	for _, user := range m.users {
		if user.Role == models.RoleStudent && user.Department == department && user.Class == class && user.RollNumber == rollNumber {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) add(user models.User) models.User {
	user.ID = m.nextID
	m.users[m.nextID] = user
	m.nextID++
	return user
}

func newTestAuthService(users *memoryUserRepo) AuthService {
	return NewAuthService(users, testValidator(), "test-secret", time.Hour, testLogger())
}

func registerPayload(username string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Username:   username,
		Email:      username + "@example.com",
		FullName:   "User " + username,
		Password:   "correct-horse",
		Department: "Computer",
	}
}

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	users := newMemoryUserRepo()
	svc := newTestAuthService(users)

	registered, err := svc.Register(context.Background(), models.RoleTeacher, registerPayload("amir"))
	require.NoError(t, err)
	require.Equal(t, string(models.RoleTeacher), registered.Role)

	result, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "amir",
		Password: "correct-horse",
		Role:     "teacher",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, registered.ID, result.User.ID)
}

func TestAuthServiceLoginWrongRole(t *testing.T) {
	users := newMemoryUserRepo()
	svc := newTestAuthService(users)

	_, err := svc.Register(context.Background(), models.RoleTeacher, registerPayload("amir"))
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "amir",
		Password: "correct-horse",
		Role:     "hod",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	users := newMemoryUserRepo()
	svc := newTestAuthService(users)

	_, err := svc.Register(context.Background(), models.RoleTeacher, registerPayload("amir"))
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "amir",
		Password: "wrong",
		Role:     "teacher",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceRegisterStudentRequiresClassAndRoll(t *testing.T) {
	users := newMemoryUserRepo()
	svc := newTestAuthService(users)

	payload := registerPayload("siti")
	payload.Class = ""
	payload.RollNumber = ""

	_, err := svc.Register(context.Background(), models.RoleStudent, payload)
	require.ErrorIs(t, err, ErrValidation)
}

func TestAuthServiceUpdatePassword(t *testing.T) {
	users := newMemoryUserRepo()
	svc := newTestAuthService(users)

	registered, err := svc.Register(context.Background(), models.RoleTeacher, registerPayload("amir"))
	require.NoError(t, err)

	err = svc.UpdatePassword(context.Background(), registered.ID, dto.PasswordUpdateRequest{
		CurrentPassword: "wrong",
		NewPassword:     "another-pass",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.UpdatePassword(context.Background(), registered.ID, dto.PasswordUpdateRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "another-pass",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "amir",
		Password: "another-pass",
		Role:     "teacher",
	})
	require.NoError(t, err)
}
