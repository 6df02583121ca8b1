package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newProtectedApp(capture *map[string]interface{}) *fiber.App {
	app := fiber.New()
	app.Use(JWTProtected(testSecret))
	app.Get("/me", func(c *fiber.Ctx) error {
		if capture != nil {
			*capture = map[string]interface{}{
				"user_id":         c.Locals("user_id"),
				"user_role":       c.Locals("user_role"),
				"user_department": c.Locals("user_department"),
				"user_class":      c.Locals("user_class"),
				"user_roll":       c.Locals("user_roll"),
			}
		}
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestJWTProtectedBindsIdentity(t *testing.T) {
	var locals map[string]interface{}
	app := newProtectedApp(&locals)

	token := signedToken(t, testSecret, jwt.MapClaims{
		"sub":        float64(42),
		"role":       "student",
		"department": "Computer",
		"class":      "Semester 3",
		"roll":       "17",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, uint(42), locals["user_id"])
	require.Equal(t, "student", locals["user_role"])
	require.Equal(t, "Computer", locals["user_department"])
	require.Equal(t, "Semester 3", locals["user_class"])
	require.Equal(t, "17", locals["user_roll"])
}

func TestJWTProtectedRejectsMissingHeader(t *testing.T) {
	app := newProtectedApp(nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsBadSignature(t *testing.T) {
	app := newProtectedApp(nil)

	token := signedToken(t, "wrong-secret", jwt.MapClaims{
		"sub": float64(42),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedRejectsExpiredToken(t *testing.T) {
	app := newProtectedApp(nil)

	token := signedToken(t, testSecret, jwt.MapClaims{
		"sub": float64(42),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
