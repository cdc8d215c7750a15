package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/ack-board/internal/models"
	appErrors "github.com/noah-isme/ack-board/pkg/errors"
	"github.com/noah-isme/ack-board/pkg/storage"
)

const imageTokenSubject = "image"

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type imageStore interface {
	SaveStream(name string, r io.Reader) (string, error)
	Open(name string) (*os.File, error)
	Delete(name string) error
	CleanupOlderThan(ttl time.Duration, keep map[string]struct{}) ([]string, error)
}

type urlSigner interface {
	Generate(subject, name string) (string, time.Time, error)
	Parse(token string) (subject, name string, expiresAt time.Time, err error)
}

// ImageUpload is a draft image received from a client.
type ImageUpload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// ImageServiceConfig bounds accepted uploads.
type ImageServiceConfig struct {
	BaseURL      string
	MaxSizeBytes int64
	AllowedMIMEs []string
}

// ImageService stores draft images and renders signed preview URLs for them.
type ImageService struct {
	store   imageStore
	signer  urlSigner
	baseURL string
	maxSize int64
	allowed map[string]struct{}
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewImageService constructs the service.
func NewImageService(store imageStore, signer urlSigner, cfg ImageServiceConfig, metrics *MetricsService, logger *zap.Logger) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxSizeBytes <= 0 {
		cfg.MaxSizeBytes = 5 * 1024 * 1024
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, mime := range cfg.AllowedMIMEs {
		allowed[strings.ToLower(mime)] = struct{}{}
	}
	if len(allowed) == 0 {
		for mime := range imageExtensions {
			allowed[mime] = struct{}{}
		}
	}
	return &ImageService{
		store:   store,
		signer:  signer,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		maxSize: cfg.MaxSizeBytes,
		allowed: allowed,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Store validates and persists an upload under a fresh name. The content type is sniffed
// from the payload rather than trusted from the client.
func (s *ImageService) Store(ctx context.Context, upload ImageUpload) (*models.ImageAttachment, error) {
	if upload.Reader == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "image file is required")
	}
	if upload.Size > s.maxSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("image exceeds %d bytes", s.maxSize))
	}

	buffered := bufio.NewReaderSize(upload.Reader, 512)
	head, err := buffered.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unreadable image")
	}
	if len(head) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "image file is empty")
	}
	mime := http.DetectContentType(head)
	if _, ok := s.allowed[mime]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported image type %s", mime))
	}
	ext, ok := imageExtensions[mime]
	if !ok {
		ext = path.Ext(upload.Filename)
	}

	name := uuid.NewString() + ext
	counter := &countingReader{r: io.LimitReader(buffered, s.maxSize+1)}
	if _, err := s.store.SaveStream(name, counter); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store image")
	}
	if counter.n > s.maxSize {
		s.Delete(ctx, name)
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("image exceeds %d bytes", s.maxSize))
	}

	s.logger.Debug("draft image stored", zap.String("name", name), zap.String("mime", mime), zap.Int64("size", counter.n))
	return &models.ImageAttachment{
		Name:      name,
		MimeType:  mime,
		SizeBytes: counter.n,
		Filename:  path.Base(upload.Filename),
		StoredAt:  s.now().UTC(),
	}, nil
}

// PreviewURL renders a signed URL for a stored image. External references pass through.
func (s *ImageService) PreviewURL(ref string) *string {
	if ref == "" {
		return nil
	}
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "data:") {
		return &ref
	}
	token, _, err := s.signer.Generate(imageTokenSubject, ref)
	if err != nil {
		s.logger.Warn("sign image url failed", zap.String("name", ref), zap.Error(err))
		return nil
	}
	signed := fmt.Sprintf("%s/%s?token=%s", s.baseURL, url.PathEscape(ref), url.QueryEscape(token))
	return &signed
}

// Open resolves a signed request for name to the stored file.
func (s *ImageService) Open(ctx context.Context, name, token string) (*os.File, error) {
	subject, signedName, _, err := s.signer.Parse(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "image link expired")
		}
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid image link")
	}
	if subject != imageTokenSubject || signedName != name {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid image link")
	}
	file, err := s.store.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, storage.ErrInvalidName) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "image not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open image")
	}
	return file, nil
}

// Delete removes a stored image. Failures are logged, never returned.
func (s *ImageService) Delete(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.store.Delete(name); err != nil {
		s.logger.Warn("delete image failed", zap.String("name", name), zap.Error(err))
		return
	}
	s.metrics.AddImagesRemoved(1)
}

// Cleanup removes stored images older than ttl that no announcement or draft references.
func (s *ImageService) Cleanup(ctx context.Context, ttl time.Duration, referenced []string) int {
	keep := make(map[string]struct{}, len(referenced))
	for _, name := range referenced {
		keep[name] = struct{}{}
	}
	removed, err := s.store.CleanupOlderThan(ttl, keep)
	if err != nil {
		s.logger.Warn("image cleanup failed", zap.Error(err))
	}
	if len(removed) > 0 {
		s.metrics.AddImagesRemoved(len(removed))
		s.logger.Info("orphaned images removed", zap.Int("count", len(removed)))
	}
	return len(removed)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
