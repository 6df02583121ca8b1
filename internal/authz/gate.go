// Package authz provides the single authorization gate invoked before every
// mutating workflow operation: a role requirement plus an optional ownership
// predicate.
package authz

import (
	"errors"

	"github.com/noah-isme/praktik-go-api/internal/models"
)

// ErrAccessDenied is returned when the actor's role or ownership does not
// match what the operation requires.
var ErrAccessDenied = errors.New("access denied")

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID         uint
	Role       models.Role
	Department string
	Class      string
	RollNumber string
}

// Gate couples a required role with an optional ownership predicate. A zero
// Owns means the role alone is sufficient.
type Gate struct {
	Role models.Role
	Owns func(Actor) bool
}

// Check verifies the actor against the gate. It returns ErrAccessDenied on
// any mismatch and never mutates state.
func (g Gate) Check(actor Actor) error {
	if actor.Role != g.Role {
		return ErrAccessDenied
	}
	if g.Owns != nil && !g.Owns(actor) {
		return ErrAccessDenied
	}
	return nil
}

// Require is shorthand for a role-only gate check.
func Require(actor Actor, role models.Role) error {
	return Gate{Role: role}.Check(actor)
}
