// Package auth handles account signup, login and session validation. Sessions
// are opaque tokens stored in Redis with a sliding TTL.
package auth

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"recruiting-platform/internal/common/database"
	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/common/logger"
	"recruiting-platform/internal/common/metrics"
	"recruiting-platform/internal/models"
)

const sessionKeyPrefix = "session:"

// CredentialStore is the account persistence surface used by auth.
type CredentialStore interface {
	Create(ctx context.Context, profile *models.Profile, passwordHash string) error
	GetCredentials(ctx context.Context, email string) (id string, role models.Role, passwordHash string, err error)
}

// Session is the authenticated identity attached to a request.
type Session struct {
	ProfileID string      `json:"profileId"`
	Role      models.Role `json:"role"`
}

// SignupInput is the payload for account creation.
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Validate checks the signup payload.
func (in SignupInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&in.FullName, validation.Required, validation.Length(2, 200)),
	)
}

// Service implements signup, login, logout and session lookup.
type Service struct {
	store      CredentialStore
	redis      *database.RedisClient
	sessionTTL time.Duration
	bcryptCost int
	logger     logger.Logger
}

// NewService creates an auth service.
func NewService(store CredentialStore, redisClient *database.RedisClient, sessionTTL time.Duration, bcryptCost int, log logger.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		store:      store,
		redis:      redisClient,
		sessionTTL: sessionTTL,
		bcryptCost: bcryptCost,
		logger:     log,
	}
}

// Signup creates a candidate account and opens a session for it.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*models.Profile, string, error) {
	if err := input.Validate(); err != nil {
		return nil, "", apperrors.NewProfileValidationFailedError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, "", apperrors.NewProfileValidationFailedError("password hashing failed")
	}

	profile := &models.Profile{
		ID:       uuid.New().String(),
		Email:    input.Email,
		Role:     models.RoleCandidate,
		FullName: input.FullName,
	}
	if err := s.store.Create(ctx, profile, string(hash)); err != nil {
		return nil, "", err
	}

	token, err := s.openSession(ctx, profile.ID, profile.Role)
	if err != nil {
		return nil, "", err
	}

	s.logger.WithFields(map[string]interface{}{"profileId": profile.ID}).Info("Account created")
	return profile, token, nil
}

// Login verifies credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, string, error) {
	id, role, passwordHash, err := s.store.GetCredentials(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return nil, "", apperrors.NewAuthenticationFailedError("password mismatch")
	}

	token, err := s.openSession(ctx, id, role)
	if err != nil {
		return nil, "", err
	}
	return &Session{ProfileID: id, Role: role}, token, nil
}

// Logout removes the session. Removing an unknown token is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.redis.Del(ctx, sessionKeyPrefix+token); err != nil {
		return apperrors.NewQueryExecutionFailedError("delete_session", err)
	}
	metrics.ActiveSessions.Dec()
	return nil
}

// Validate resolves a token to its session, refreshing the TTL on hit.
func (s *Service) Validate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, apperrors.NewSessionInvalidError("missing token")
	}

	raw, err := s.redis.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, apperrors.NewSessionInvalidError("unknown or expired token")
		}
		return nil, apperrors.NewQueryExecutionFailedError("get_session", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, apperrors.NewSessionInvalidError("corrupt session payload")
	}

	// Sliding expiry: activity keeps the session alive.
	_ = s.redis.Client.Expire(ctx, sessionKeyPrefix+token, s.sessionTTL).Err()

	return &session, nil
}

func (s *Service) openSession(ctx context.Context, profileID string, role models.Role) (string, error) {
	token := uuid.New().String()
	payload, err := json.Marshal(Session{ProfileID: profileID, Role: role})
	if err != nil {
		return "", apperrors.NewQueryExecutionFailedError("marshal_session", err)
	}

	if err := s.redis.Set(ctx, sessionKeyPrefix+token, string(payload), s.sessionTTL); err != nil {
		return "", apperrors.NewQueryExecutionFailedError("store_session", err)
	}

	metrics.ActiveSessions.Inc()
	return token, nil
}
