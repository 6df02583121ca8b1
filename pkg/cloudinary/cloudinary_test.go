package cloudinary

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, folder string) *Service {
	t.Helper()
	svc, err := New(Config{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
		Folder:    folder,
	}, zerolog.New(io.Discard))
	require.NoError(t, err)
	return svc
}

func TestInDerivesKindFolder(t *testing.T) {
	svc := newTestService(t, "praktik")

	require.Equal(t, "praktik/certificates", svc.In("certificates").folder)
	require.Equal(t, "praktik/practicals", svc.In("/practicals/").folder)
	require.Equal(t, "praktik", svc.In("").folder)

	bare := newTestService(t, "")
	require.Equal(t, "certificates", bare.In("certificates").folder)
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{CloudName: "demo"}, zerolog.New(io.Discard))
	require.Error(t, err)
}

func TestBuildPublicIDSanitizesName(t *testing.T) {
	id := buildPublicID("final report (v2).pdf")
	require.Regexp(t, `^final-report--v2-\d+$`, id)

	fallback := buildPublicID("...")
	require.Regexp(t, `^upload-\d+-\d+$`, fallback)
}
