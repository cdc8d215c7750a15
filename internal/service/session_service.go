package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/ack-board/internal/models"
	"github.com/noah-isme/ack-board/internal/repository"
	appErrors "github.com/noah-isme/ack-board/pkg/errors"
)

const sessionIssuer = "ack-board"

type sessionStore interface {
	Create(ctx context.Context, id string) (*models.BoardSession, error)
	Get(ctx context.Context, id string) (*models.BoardSession, error)
	Update(ctx context.Context, id string, fn func(*models.BoardSession) error) (*models.BoardSession, error)
	Prune(ctx context.Context, ttl time.Duration) []*models.BoardSession
	DraftImages(ctx context.Context) []string
	Count() int
}

type imageRemover interface {
	Delete(ctx context.Context, name string)
}

// SessionServiceConfig configures token signing and idle expiry.
type SessionServiceConfig struct {
	Secret string
	TTL    time.Duration
}

// SessionService opens board sessions and validates their tokens.
type SessionService struct {
	repo    sessionStore
	images  imageRemover
	secret  []byte
	ttl     time.Duration
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewSessionService constructs the service.
func NewSessionService(repo sessionStore, images imageRemover, cfg SessionServiceConfig, metrics *MetricsService, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}
	return &SessionService{
		repo:    repo,
		images:  images,
		secret:  []byte(cfg.Secret),
		ttl:     cfg.TTL,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Open creates a new board session and returns its signed token.
func (s *SessionService) Open(ctx context.Context) (*models.BoardSession, string, time.Time, error) {
	session, err := s.repo.Create(ctx, uuid.NewString())
	if err != nil {
		return nil, "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open session")
	}
	token, expiresAt, err := s.issue(session.ID)
	if err != nil {
		return nil, "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session token")
	}
	s.metrics.SetSessions(s.repo.Count())
	s.logger.Info("board session opened", zap.String("session_id", session.ID))
	return session, token, expiresAt, nil
}

// Authenticate validates a token and returns the live session id it names.
func (s *SessionService) Authenticate(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session token")
	}
	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid session claims")
	}
	if _, err := s.repo.Get(ctx, claims.SessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return "", appErrors.Clone(appErrors.ErrUnauthorized, "session expired")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return claims.SessionID, nil
}

// Prune drops idle sessions and the draft images they held.
func (s *SessionService) Prune(ctx context.Context) int {
	removed := s.repo.Prune(ctx, s.ttl)
	for _, session := range removed {
		if image := session.Dialog.Draft.Image; image != nil && session.Dialog.State != models.DialogSubmitting {
			s.images.Delete(ctx, image.Name)
		}
	}
	s.metrics.SetSessions(s.repo.Count())
	if len(removed) > 0 {
		s.logger.Info("idle board sessions pruned", zap.Int("count", len(removed)))
	}
	return len(removed)
}

// DraftImages lists image names held by live drafts.
func (s *SessionService) DraftImages(ctx context.Context) []string {
	return s.repo.DraftImages(ctx)
}

func (s *SessionService) issue(sessionID string) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.ttl)
	claims := &models.SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
