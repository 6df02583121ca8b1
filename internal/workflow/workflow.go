// Package workflow holds the transition tables for the portal's two state
// machines. Every status mutation goes through a table lookup; an edge that
// is not listed here cannot be taken.
package workflow

import "github.com/noah-isme/praktik-go-api/internal/models"

// Edge is a directed from->to status pair.
type Edge struct {
	From string
	To   string
}

// Rule describes who may take an edge.
type Rule struct {
	// Actor is the role required to trigger the transition.
	Actor models.Role
}

// Machine maps permitted edges to their rules.
type Machine map[Edge]Rule

// Lookup returns the rule for the edge, if the machine permits it.
func (m Machine) Lookup(from, to string) (Rule, bool) {
	rule, ok := m[Edge{From: from, To: to}]
	return rule, ok
}

// Allowed reports whether the edge exists in the machine.
func (m Machine) Allowed(from, to string) bool {
	_, ok := m.Lookup(from, to)
	return ok
}

// PracticalSubmissions returns the practical submission machine:
// draft -> submitted -> approved | rejected. Approved and rejected are
// terminal. Re-submitting from submitted is permitted; the first-submit
// timestamp is stamped once by the service.
func PracticalSubmissions() Machine {
	return Machine{
		{models.SubmissionStatusDraft, models.SubmissionStatusDraft}:         {Actor: models.RoleStudent},
		{models.SubmissionStatusDraft, models.SubmissionStatusSubmitted}:     {Actor: models.RoleStudent},
		{models.SubmissionStatusSubmitted, models.SubmissionStatusSubmitted}: {Actor: models.RoleStudent},
		{models.SubmissionStatusSubmitted, models.SubmissionStatusApproved}:  {Actor: models.RoleTeacher},
		{models.SubmissionStatusSubmitted, models.SubmissionStatusRejected}:  {Actor: models.RoleTeacher},
	}
}

// Certificates returns the certificate approval machine. Both the template
// and generated states accept the student's submission; every later stage
// belongs to exactly one reviewer role.
func Certificates() Machine {
	return Machine{
		{models.CertificateStatusTemplateAdded, models.CertificateStatusSubmittedToTeacher}: {Actor: models.RoleStudent},
		{models.CertificateStatusGenerated, models.CertificateStatusSubmittedToTeacher}:     {Actor: models.RoleStudent},
		{models.CertificateStatusSubmittedToTeacher, models.CertificateStatusSentToHOD}:     {Actor: models.RoleTeacher},
		{models.CertificateStatusSubmittedToTeacher, models.CertificateStatusRejected}:      {Actor: models.RoleTeacher},
		{models.CertificateStatusSentToHOD, models.CertificateStatusSentToExaminer}:         {Actor: models.RoleHOD},
		{models.CertificateStatusSentToExaminer, models.CertificateStatusCertified}:         {Actor: models.RoleExaminer},
		{models.CertificateStatusSentToExaminer, models.CertificateStatusRejected}:          {Actor: models.RoleExaminer},
	}
}
