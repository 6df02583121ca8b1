package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/praktik-go-api/internal/models"
)

func TestPracticalSubmissionEdges(t *testing.T) {
	machine := PracticalSubmissions()

	require.True(t, machine.Allowed(models.SubmissionStatusDraft, models.SubmissionStatusSubmitted))
	require.True(t, machine.Allowed(models.SubmissionStatusSubmitted, models.SubmissionStatusApproved))
	require.True(t, machine.Allowed(models.SubmissionStatusSubmitted, models.SubmissionStatusRejected))

	// Approved and rejected are terminal.
	require.False(t, machine.Allowed(models.SubmissionStatusApproved, models.SubmissionStatusSubmitted))
	require.False(t, machine.Allowed(models.SubmissionStatusRejected, models.SubmissionStatusSubmitted))
	require.False(t, machine.Allowed(models.SubmissionStatusApproved, models.SubmissionStatusRejected))

	// Approving a draft is not a listed edge.
	require.False(t, machine.Allowed(models.SubmissionStatusDraft, models.SubmissionStatusApproved))
}

func TestPracticalSubmissionActorRoles(t *testing.T) {
	machine := PracticalSubmissions()

	rule, ok := machine.Lookup(models.SubmissionStatusSubmitted, models.SubmissionStatusApproved)
	require.True(t, ok)
	require.Equal(t, models.RoleTeacher, rule.Actor)

	rule, ok = machine.Lookup(models.SubmissionStatusDraft, models.SubmissionStatusSubmitted)
	require.True(t, ok)
	require.Equal(t, models.RoleStudent, rule.Actor)
}

func TestCertificateEdges(t *testing.T) {
	machine := Certificates()

	require.True(t, machine.Allowed(models.CertificateStatusTemplateAdded, models.CertificateStatusSubmittedToTeacher))
	require.True(t, machine.Allowed(models.CertificateStatusGenerated, models.CertificateStatusSubmittedToTeacher))
	require.True(t, machine.Allowed(models.CertificateStatusSubmittedToTeacher, models.CertificateStatusSentToHOD))
	require.True(t, machine.Allowed(models.CertificateStatusSentToHOD, models.CertificateStatusSentToExaminer))
	require.True(t, machine.Allowed(models.CertificateStatusSentToExaminer, models.CertificateStatusCertified))

	// No skipping stages.
	require.False(t, machine.Allowed(models.CertificateStatusGenerated, models.CertificateStatusSentToHOD))
	require.False(t, machine.Allowed(models.CertificateStatusSubmittedToTeacher, models.CertificateStatusCertified))

	// Rejected and certified are terminal.
	require.False(t, machine.Allowed(models.CertificateStatusRejected, models.CertificateStatusSubmittedToTeacher))
	require.False(t, machine.Allowed(models.CertificateStatusCertified, models.CertificateStatusRejected))
}

func TestCertificateActorRoles(t *testing.T) {
	machine := Certificates()

	cases := []struct {
		from, to string
		actor    models.Role
	}{
		{models.CertificateStatusGenerated, models.CertificateStatusSubmittedToTeacher, models.RoleStudent},
		{models.CertificateStatusSubmittedToTeacher, models.CertificateStatusSentToHOD, models.RoleTeacher},
		{models.CertificateStatusSubmittedToTeacher, models.CertificateStatusRejected, models.RoleTeacher},
		{models.CertificateStatusSentToHOD, models.CertificateStatusSentToExaminer, models.RoleHOD},
		{models.CertificateStatusSentToExaminer, models.CertificateStatusCertified, models.RoleExaminer},
		{models.CertificateStatusSentToExaminer, models.CertificateStatusRejected, models.RoleExaminer},
	}

	for _, tc := range cases {
		rule, ok := machine.Lookup(tc.from, tc.to)
		require.True(t, ok, "%s -> %s", tc.from, tc.to)
		require.Equal(t, tc.actor, rule.Actor, "%s -> %s", tc.from, tc.to)
	}
}
