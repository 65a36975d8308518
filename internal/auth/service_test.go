package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"recruiting-platform/internal/common/database"
	apperrors "recruiting-platform/internal/common/errors"
	"recruiting-platform/internal/common/logger"
	"recruiting-platform/internal/models"
)

type fakeCredentialStore struct {
	profiles map[string]*models.Profile
	hashes   map[string]string
	ids      map[string]string
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{
		profiles: make(map[string]*models.Profile),
		hashes:   make(map[string]string),
		ids:      make(map[string]string),
	}
}

func (f *fakeCredentialStore) Create(_ context.Context, profile *models.Profile, passwordHash string) error {
	if _, exists := f.ids[profile.Email]; exists {
		return apperrors.NewProfileValidationFailedError("email already registered")
	}
	f.profiles[profile.ID] = profile
	f.hashes[profile.Email] = passwordHash
	f.ids[profile.Email] = profile.ID
	return nil
}

func (f *fakeCredentialStore) GetCredentials(_ context.Context, email string) (string, models.Role, string, error) {
	id, ok := f.ids[email]
	if !ok {
		return "", "", "", apperrors.NewAuthenticationFailedError("unknown email")
	}
	return id, f.profiles[id].Role, f.hashes[email], nil
}

func newTestService(t *testing.T) (*Service, *fakeCredentialStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	store := newFakeCredentialStore()
	svc := NewService(store, client, time.Hour, bcrypt.MinCost, logger.NewTestLogger(t))
	return svc, store, mr
}

func TestSignupAndValidate(t *testing.T) {
	svc, _, _ := newTestService(t)

	profile, token, err := svc.Signup(context.Background(), SignupInput{
		Email:    "maria@example.com",
		Password: "s3nh4-segura",
		FullName: "Maria Silva",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, models.RoleCandidate, profile.Role)

	session, err := svc.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, session.ProfileID)
	assert.Equal(t, models.RoleCandidate, session.Role)
}

func TestSignup_InvalidInput(t *testing.T) {
	svc, _, _ := newTestService(t)

	cases := []SignupInput{
		{Email: "not-an-email", Password: "s3nh4-segura", FullName: "Maria"},
		{Email: "maria@example.com", Password: "curta", FullName: "Maria"},
		{Email: "maria@example.com", Password: "s3nh4-segura", FullName: ""},
	}

	for _, input := range cases {
		_, _, err := svc.Signup(context.Background(), input)
		require.Error(t, err)

		stdErr, ok := err.(*apperrors.StandardError)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeProfileValidationFailed, stdErr.Code)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Signup(context.Background(), SignupInput{
		Email:    "maria@example.com",
		Password: "s3nh4-segura",
		FullName: "Maria Silva",
	})
	require.NoError(t, err)

	session, token, err := svc.Login(context.Background(), "maria@example.com", "s3nh4-segura")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleCandidate, session.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Signup(context.Background(), SignupInput{
		Email:    "maria@example.com",
		Password: "s3nh4-segura",
		FullName: "Maria Silva",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "maria@example.com", "errada")
	require.Error(t, err)

	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeAuthenticationFailed, stdErr.Code)
}

func TestLogout(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, token, err := svc.Signup(context.Background(), SignupInput{
		Email:    "maria@example.com",
		Password: "s3nh4-segura",
		FullName: "Maria Silva",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))

	_, err = svc.Validate(context.Background(), token)
	require.Error(t, err)

	stdErr, ok := err.(*apperrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeSessionInvalid, stdErr.Code)
}

func TestValidate_ExpiredSession(t *testing.T) {
	svc, _, mr := newTestService(t)

	_, token, err := svc.Signup(context.Background(), SignupInput{
		Email:    "maria@example.com",
		Password: "s3nh4-segura",
		FullName: "Maria Silva",
	})
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = svc.Validate(context.Background(), token)
	assert.Error(t, err)
}

func TestValidate_MissingToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Validate(context.Background(), "")
	require.Error(t, err)
}
