package service

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/ack-board/pkg/errors"
	"github.com/noah-isme/ack-board/pkg/storage"
)

func newTestImageService(t *testing.T, maxSize int64) *ImageService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("image-secret", time.Hour)
	return NewImageService(store, signer, ImageServiceConfig{BaseURL: "/api/v1/images/", MaxSizeBytes: maxSize, AllowedMIMEs: []string{"image/png"}}, nil, nil)
}

func tokenFrom(t *testing.T, raw string) (string, string) {
	t.Helper()
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	name := parsed.Path[strings.LastIndex(parsed.Path, "/")+1:]
	return name, parsed.Query().Get("token")
}

func TestImageStoreAndOpenSigned(t *testing.T) {
	svc := newTestImageService(t, 1024)
	ctx := context.Background()

	attachment, err := svc.Store(ctx, pngUpload())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(attachment.Name, ".png"))
	assert.Equal(t, int64(len(pngHeader)), attachment.SizeBytes)

	preview := svc.PreviewURL(attachment.Name)
	require.NotNil(t, preview)
	assert.True(t, strings.HasPrefix(*preview, "/api/v1/images/"))
	name, token := tokenFrom(t, *preview)
	assert.Equal(t, attachment.Name, name)

	file, err := svc.Open(ctx, name, token)
	require.NoError(t, err)
	defer file.Close()
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, content)

	_, err = svc.Open(ctx, "other.png", token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
	_, err = svc.Open(ctx, name, "bad")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestImageStoreRejectsBadUploads(t *testing.T) {
	svc := newTestImageService(t, 32)
	ctx := context.Background()

	_, err := svc.Store(ctx, ImageUpload{Filename: "a.txt", Reader: strings.NewReader("plain text, not an image")})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Store(ctx, ImageUpload{Filename: "empty.png", Reader: bytes.NewReader(nil)})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	big := append(append([]byte{}, pngHeader...), make([]byte, 64)...)
	_, err = svc.Store(ctx, ImageUpload{Filename: "big.png", Size: int64(len(big)), Reader: bytes.NewReader(big)})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Store(ctx, ImageUpload{Filename: "lying.png", Size: 1, Reader: bytes.NewReader(big)})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestImageOpenMissingFile(t *testing.T) {
	svc := newTestImageService(t, 1024)
	preview := svc.PreviewURL("gone.png")
	require.NotNil(t, preview)
	name, token := tokenFrom(t, *preview)
	_, err := svc.Open(context.Background(), name, token)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestImageCleanupKeepsReferenced(t *testing.T) {
	svc := newTestImageService(t, 1024)
	ctx := context.Background()
	kept, err := svc.Store(ctx, pngUpload())
	require.NoError(t, err)
	orphan, err := svc.Store(ctx, pngUpload())
	require.NoError(t, err)

	removed := svc.Cleanup(ctx, -time.Second, []string{kept.Name})
	assert.Equal(t, 1, removed)

	preview := svc.PreviewURL(orphan.Name)
	name, token := tokenFrom(t, *preview)
	_, err = svc.Open(ctx, name, token)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	preview = svc.PreviewURL(kept.Name)
	name, token = tokenFrom(t, *preview)
	file, err := svc.Open(ctx, name, token)
	require.NoError(t, err)
	file.Close()
}
