package user

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"foodgram/internal/pkg/jwt"
)

// Service handles registration, login and password changes.
type Service struct {
	repo   Repository
	tokens *jwt.Service
}

func NewService(repo Repository, tokens *jwt.Service) *Service {
	return &Service{repo: repo, tokens: tokens}
}

type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}
	exists, err = s.repo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        in.Email,
		Username:     strings.TrimSpace(in.Username),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login exchanges email + password for an access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if CheckPassword(password, u.PasswordHash) != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.GenerateToken(u.ID)
}

func (s *Service) SetPassword(ctx context.Context, userID int64, current, next string) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if CheckPassword(current, u.PasswordHash) != nil {
		return ErrWrongPassword
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, hash)
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]User, int64, error) {
	return s.repo.List(ctx, limit, offset)
}

// HashPassword hashes a plain password string. bcrypt reads at most 72
// bytes, so longer input is rejected with ErrPasswordTooLong.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plain password with a hash
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
