package services

import (
	"context"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuth() *AuthService {
	s := NewAuthService(mocks.NewMemStore())
	s.SetHashCost(bcrypt.MinCost)
	return s
}

func TestAuthService_Signup(t *testing.T) {
	ok := SignupInput{Username: "dana", Email: "dana@example.com", Password: "secret1", ConfirmPassword: "secret1"}

	tests := []struct {
		name          string
		input         func(SignupInput) SignupInput
		expectedError error
		expectedMsg   string
	}{
		{name: "valid"},
		{name: "missing email", input: func(in SignupInput) SignupInput { in.Email = " "; return in },
			expectedError: domain.ErrInvalidInput, expectedMsg: "All fields are required"},
		{name: "mismatch", input: func(in SignupInput) SignupInput { in.ConfirmPassword = "secret2"; return in },
			expectedError: domain.ErrInvalidInput, expectedMsg: "Passwords do not match"},
		{name: "too short", input: func(in SignupInput) SignupInput { in.Password, in.ConfirmPassword = "abc", "abc"; return in },
			expectedError: domain.ErrInvalidInput, expectedMsg: "Password must be at least 6 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newAuth()
			in := ok
			if tt.input != nil {
				in = tt.input(in)
			}
			u, err := s.Signup(context.Background(), in)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.EqualError(t, err, tt.expectedMsg)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, u.ID)
			assert.False(t, u.IsStaff)
			assert.NotEqual(t, "secret1", u.PasswordHash)
		})
	}
}

func TestAuthService_SignupDuplicates(t *testing.T) {
	s := newAuth()
	ctx := context.Background()
	_, err := s.Signup(ctx, SignupInput{Username: "eve", Email: "eve@example.com", Password: "pass123", ConfirmPassword: "pass123"})
	require.NoError(t, err)

	_, err = s.Signup(ctx, SignupInput{Username: "eve", Email: "other@example.com", Password: "pass123", ConfirmPassword: "pass123"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.EqualError(t, err, "Username already exists")

	_, err = s.Signup(ctx, SignupInput{Username: "eve2", Email: "eve@example.com", Password: "pass123", ConfirmPassword: "pass123"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.EqualError(t, err, "Email already exists")
}

func TestAuthService_Authenticate(t *testing.T) {
	s := newAuth()
	ctx := context.Background()
	_, err := s.Signup(ctx, SignupInput{Username: "finn", Email: "finn@example.com", Password: "hunter22", ConfirmPassword: "hunter22"})
	require.NoError(t, err)

	tests := []struct {
		name          string
		username      string
		password      string
		expectedError error
	}{
		{name: "valid", username: "finn", password: "hunter22"},
		{name: "wrong password", username: "finn", password: "hunter23", expectedError: domain.ErrUnauthorized},
		{name: "unknown user", username: "ghost", password: "hunter22", expectedError: domain.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := s.Authenticate(ctx, tt.username, tt.password)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "finn", u.Username)
		})
	}
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	s := newAuth()
	ctx := context.Background()

	require.NoError(t, s.EnsureAdmin(ctx, "", "", ""))
	require.NoError(t, s.EnsureAdmin(ctx, "admin", "", "changeme"))
	require.NoError(t, s.EnsureAdmin(ctx, "admin", "", "changeme"))

	u, err := s.Authenticate(ctx, "admin", "changeme")
	require.NoError(t, err)
	assert.True(t, u.IsStaff)
	assert.Equal(t, "admin@localhost", u.Email)
	assert.True(t, u.Identity().IsStaff)
}
