package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/praktik-go-api/internal/models"
)

func TestGateRoleMismatch(t *testing.T) {
	gate := Gate{Role: models.RoleTeacher}

	err := gate.Check(Actor{ID: 1, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestGateRoleMatchWithoutOwnership(t *testing.T) {
	gate := Gate{Role: models.RoleHOD}

	require.NoError(t, gate.Check(Actor{ID: 7, Role: models.RoleHOD}))
}

func TestGateOwnershipPredicate(t *testing.T) {
	gate := Gate{
		Role: models.RoleTeacher,
		Owns: func(actor Actor) bool { return actor.ID == 3 },
	}

	require.NoError(t, gate.Check(Actor{ID: 3, Role: models.RoleTeacher}))
	require.ErrorIs(t, gate.Check(Actor{ID: 4, Role: models.RoleTeacher}), ErrAccessDenied)
}

func TestGateDepartmentScope(t *testing.T) {
	gate := Gate{
		Role: models.RoleExaminer,
		Owns: func(actor Actor) bool { return actor.Department == "computer_science" },
	}

	require.NoError(t, gate.Check(Actor{ID: 9, Role: models.RoleExaminer, Department: "computer_science"}))
	require.ErrorIs(t, gate.Check(Actor{ID: 9, Role: models.RoleExaminer, Department: "physics"}), ErrAccessDenied)
}

func TestRequireShorthand(t *testing.T) {
	require.NoError(t, Require(Actor{ID: 1, Role: models.RoleAdmin}, models.RoleAdmin))
	require.ErrorIs(t, Require(Actor{ID: 1, Role: models.RoleTeacher}, models.RoleAdmin), ErrAccessDenied)
}
