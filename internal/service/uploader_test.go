package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUploadFileScreensContentType(t *testing.T) {
	ctx := context.Background()
	uploader := &stubUploader{}

	url, err := uploadFile(ctx, uploader, newTestFileHeader(t, "notes.txt", []byte("plain text submission")))
	require.NoError(t, err)
	require.Contains(t, url, "notes.txt")

	pdf := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	_, err = uploadFile(ctx, uploader, newTestFileHeader(t, "report.pdf", pdf))
	require.NoError(t, err)

	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}
	_, err = uploadFile(ctx, uploader, newTestFileHeader(t, "photo.png", png))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported file type")
	require.Equal(t, 2, uploader.uploads)
}
