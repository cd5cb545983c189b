package users

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Store interface {
	Get(ctx context.Context, id string) (*User, error)
	GetByName(ctx context.Context, name string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByResetToken(ctx context.Context, token string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	SetResetToken(ctx context.Context, id, token string, expires time.Time) error
	ResetPassword(ctx context.Context, id, passwordHash string) error
}

type Service struct {
	Store  Store
	Mailer Mailer
	Log    *zap.Logger
}

const resetTokenTTL = time.Hour

// Register stores a new user. Name and email are lowercased so lookups stay
// case-insensitive.
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{
		Name:         strings.ToLower(name),
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
	}
	if err := s.Store.Create(ctx, u); err != nil {
		return nil, err
	}
	s.Log.Info("user registered", zap.String("user_id", u.ID))
	return u, nil
}

// Login returns the user when the password matches. Both a missing user and
// a wrong password yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, name, password string) (*User, error) {
	u, err := s.Store.GetByName(ctx, strings.ToLower(name))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) Update(ctx context.Context, id, name, password string) (*User, error) {
	u, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.Name = strings.ToLower(name)
	u.PasswordHash = string(hash)
	if err := s.Store.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ForgotPassword issues a 5-digit token valid for one hour and mails it.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Store.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return err
	}

	token, err := numericToken(5)
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	expires := time.Now().UTC().Add(resetTokenTTL)
	if err := s.Store.SetResetToken(ctx, u.ID, token, expires); err != nil {
		return err
	}

	body := "You are receiving this because you (or someone else) requested a password reset for your account.\n\n" +
		"Your password reset token is: " + token + "\n\n" +
		"If you did not request this, ignore this email and your password will remain unchanged.\n"
	if err := s.Mailer.Send(ctx, u.Email, "Password Reset", body); err != nil {
		return err
	}
	s.Log.Info("password reset token issued", zap.String("user_id", u.ID))
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	u, err := s.Store.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrTokenInvalid
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Store.ResetPassword(ctx, u.ID, string(hash))
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) { return s.Store.Get(ctx, id) }
func (s *Service) List(ctx context.Context) ([]User, error)          { return s.Store.List(ctx) }
func (s *Service) Delete(ctx context.Context, id string) error       { return s.Store.Delete(ctx, id) }

// numericToken returns n random decimal digits, first digit never zero.
func numericToken(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		max := big.NewInt(10)
		if i == 0 {
			max = big.NewInt(9)
		}
		d, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		if i == 0 {
			d.Add(d, big.NewInt(1))
		}
		fmt.Fprint(&b, d.String())
	}
	return b.String(), nil
}
