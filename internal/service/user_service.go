package service

import (
	"context"
	"errors"
	"log"
	"strings"

	dom "github.com/MuhsinADA/ese-backend/internal/domain"
	"github.com/MuhsinADA/ese-backend/internal/mail"
	"github.com/MuhsinADA/ese-backend/internal/media"
	"github.com/MuhsinADA/ese-backend/internal/repo"
	"github.com/MuhsinADA/ese-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrUsernameTaken = errors.New("username already taken")
var ErrEmailTaken = errors.New("email already registered")

// ResetTokens issues and consumes one-time password-reset tokens.
// Implemented by the Redis token store in internal/auth.
type ResetTokens interface {
	CreateResetToken(ctx context.Context, userID uuid.UUID) (string, error)
	ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error)
}

type RegisterInput struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Password        string
	PasswordConfirm string
}

// UserService handles accounts: registration, credentials, profile,
// password change/reset, profile images.
type UserService struct {
	repo        repo.UserRepo
	mailer      mail.Sender
	images      media.Store
	resetTokens ResetTokens
	frontendURL string
}

// NewUserService returns a new UserService. mailer and images may be
// nil in tests; the reset flow requires resetTokens.
func NewUserService(r repo.UserRepo, mailer mail.Sender, images media.Store, resetTokens ResetTokens, frontendURL string) *UserService {
	return &UserService{
		repo:        r,
		mailer:      mailer,
		images:      images,
		resetTokens: resetTokens,
		frontendURL: frontendURL,
	}
}

// Register creates a new account with a hashed password. The welcome
// email is best-effort and never fails the registration.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (dom.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" {
		return dom.User{}, dom.Invalid("username", "username is required")
	}
	if in.Password == "" {
		return dom.User{}, dom.Invalid("password", "password is required")
	}
	if in.Password != in.PasswordConfirm {
		return dom.User{}, dom.Invalid("password_confirm", "passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}

	u, err := s.repo.Create(ctx, dom.User{
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: string(hash),
	})
	if err != nil {
		switch utils.PGUniqueConstraint(err) {
		case "users_username_key":
			return dom.User{}, ErrUsernameTaken
		case "users_email_key":
			return dom.User{}, ErrEmailTaken
		}
		return dom.User{}, err
	}

	if s.mailer != nil {
		go func(u dom.User) {
			if err := mail.SendWelcome(s.mailer, u, s.frontendURL); err != nil {
				log.Printf("welcome email to %s: %v", u.Email, err)
			}
		}(u)
	}
	return u, nil
}

// ValidateCredentials checks username and password; returns user if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// UpdateProfile applies a partial profile update. Username and email
// are immutable here.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName, bio *string) (dom.User, error) {
	existing, err := s.Profile(ctx, userID)
	if err != nil {
		return dom.User{}, err
	}
	if firstName != nil {
		existing.FirstName = strings.TrimSpace(*firstName)
	}
	if lastName != nil {
		existing.LastName = strings.TrimSpace(*lastName)
	}
	if bio != nil {
		existing.Bio = strings.TrimSpace(*bio)
	}
	return s.repo.UpdateProfile(ctx, userID, existing.FirstName, existing.LastName, existing.Bio)
}

// ChangePassword verifies the current password before setting a new one.
func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)); err != nil {
		return dom.Invalid("old_password", "current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, string(hash))
}

// RequestPasswordReset mails a one-time reset link. It succeeds
// outwardly whether or not the email is registered, to avoid account
// enumeration, and mail failures never surface to the caller.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}

	token, err := s.resetTokens.CreateResetToken(ctx, u.ID)
	if err != nil {
		return err
	}

	resetURL := s.frontendURL + "/password-reset/confirm?token=" + token
	if s.mailer != nil {
		go func(u dom.User) {
			if err := mail.SendPasswordReset(s.mailer, u, resetURL); err != nil {
				log.Printf("reset email to %s: %v", u.Email, err)
			}
		}(u)
	}
	return nil
}

// ConfirmPasswordReset consumes the one-time token and sets the new
// password. The token is gone after this call either way.
func (s *UserService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	userID, err := s.resetTokens.ConsumeResetToken(ctx, token)
	if err != nil {
		return dom.Invalid("token", "invalid or expired reset token")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, string(hash))
}

// UploadProfileImage stores the image and saves its URL on the profile.
func (s *UserService) UploadProfileImage(ctx context.Context, userID uuid.UUID, content []byte, contentType string) (string, error) {
	url, err := s.images.Store(ctx, content, contentType, userID.String())
	if err != nil {
		var verr *media.ValidationError
		if errors.As(err, &verr) {
			return "", dom.Invalid("image", verr.Reason)
		}
		return "", err
	}
	if err := s.repo.UpdateProfileImage(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}
