package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

type AuthService struct {
	store    repository.Store
	hashCost int
}

func NewAuthService(store repository.Store) *AuthService {
	return &AuthService{store: store, hashCost: bcrypt.DefaultCost}
}

func (s *AuthService) SetHashCost(cost int) {
	s.hashCost = cost
}

type SignupInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, invalid("All fields are required")
	}
	if in.Password != in.ConfirmPassword {
		return nil, invalid("Passwords do not match")
	}
	if len(in.Password) < minPasswordLen {
		return nil, invalid("Password must be at least 6 characters")
	}
	return s.createUser(ctx, in.Username, in.Email, in.Password, false)
}

func (s *AuthService) createUser(ctx context.Context, username, email, password string, staff bool) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{Username: username, Email: email, PasswordHash: string(hash), IsStaff: staff}
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		existing, err := tx.Users().FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.NewError(domain.ErrConflict, "Username already exists")
		}
		existing, err = tx.Users().FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.NewError(domain.ErrConflict, "Email already exists")
		}
		return tx.Users().Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate checks a username/password pair.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.store.Users().FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// EnsureAdmin creates a staff account unless the username is taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if username == "" || password == "" {
		return nil
	}
	if email == "" {
		email = username + "@localhost"
	}
	_, err := s.createUser(ctx, username, email, password, true)
	if errors.Is(err, domain.ErrConflict) {
		return nil
	}
	if err == nil {
		log.Printf("admin account %q created", username)
	}
	return err
}
