package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"stockmana/internal/apperr"
	"stockmana/internal/auth"
	"stockmana/internal/logging"
	"stockmana/internal/models"
	"stockmana/internal/repository"
)

const (
	msgRequiredFields   = "Please fill all required fields"
	msgNotRegistered    = "You are not registered yet. please register first..."
	msgInvalidLogin     = "Invalid Email or Password"
	msgEmailTaken       = "Conflict! User already exist, please login instead..."
	msgEmailNotSent     = "Email not sent, please try again later..."
	msgInvalidResetLink = "Invalid token or Expired"
)

type AccountConfig struct {
	FrontendURL string
	BcryptCost  int
	MailFrom    string
}

// AccountService covers registration, login, profile and password flows.
type AccountService struct {
	store  repository.Store
	tokens *auth.TokenService
	mailer EmailSender
	cfg    AccountConfig
	log    logging.Logger
	v      *validator.Validate
}

func NewAccountService(store repository.Store, tokens *auth.TokenService, mailer EmailSender, cfg AccountConfig, log logging.Logger) *AccountService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &AccountService{
		store:  store,
		tokens: tokens,
		mailer: mailer,
		cfg:    cfg,
		log:    log,
		v:      newValidator(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperr.Validation("Password is too long")
		}
		return "", apperr.Internal("failed to hash password", err)
	}
	return string(hash), nil
}

func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(s.v, req, msgRequiredFields); err != nil {
		return nil, err
	}

	users := s.store.Users()
	if _, err := users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Conflict(msgEmailTaken)
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperr.Internal("failed to look up user", err)
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Bio:          models.DefaultBio,
		Phone:        models.DefaultPhone,
		ImageURL:     models.DefaultImageURL,
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperr.Conflict(msgEmailTaken)
		}
		return nil, apperr.Internal("Invalid user data", err)
	}

	token, err := s.tokens.IssueSessionToken(user.ID)
	if err != nil {
		return nil, apperr.Internal("failed to issue session", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return &models.AuthResult{Profile: user.Profile(), Token: token}, nil
}

func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(s.v, req, msgRequiredFields); err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.Unauthorized(msgNotRegistered)
		}
		return nil, apperr.Internal("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Validation(msgInvalidLogin)
	}

	token, err := s.tokens.IssueSessionToken(user.ID)
	if err != nil {
		return nil, apperr.Internal("failed to issue session", err)
	}
	return &models.AuthResult{Profile: user.Profile(), Token: token}, nil
}

func (s *AccountService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("User not found!")
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	p := user.Profile()
	return &p, nil
}

// LoginStatus reports whether token is a currently valid session token.
func (s *AccountService) LoginStatus(token string) bool {
	_, err := s.tokens.VerifySessionToken(token)
	return err == nil
}

// UpdateProfile merges the request onto the stored record. Omitted or empty
// fields keep their stored values.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.Profile, error) {
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		return nil, apperr.Validation("You cannot change your email!")
	}
	if req.Password != nil && *req.Password != "" {
		return nil, apperr.Validation("You can't change your password here..")
	}
	if err := validateRequest(s.v, req, msgRequiredFields); err != nil {
		return nil, err
	}

	users := s.store.Users()
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("User Not found!")
		}
		return nil, apperr.Internal("failed to load user", err)
	}

	mergeString(&user.Username, req.Username)
	mergeString(&user.Bio, req.Bio)
	mergeString(&user.Phone, req.Phone)
	mergeString(&user.ImageURL, req.ImageURL)

	if err := users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("User Not found!")
		}
		return nil, apperr.Internal("failed to update profile", err)
	}

	p := user.Profile()
	return &p, nil
}

func mergeString(dst *string, v *string) {
	if v == nil {
		return
	}
	if trimmed := strings.TrimSpace(*v); trimmed != "" {
		*dst = trimmed
	}
}

func (s *AccountService) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	if err := validateRequest(s.v, req, "Please fill all fields before changing the password.."); err != nil {
		return err
	}

	users := s.store.Users()
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.Validation("User not found please register first...")
		}
		return apperr.Internal("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return apperr.Validation("Incorrect Password!")
	}

	hash, err := s.hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return apperr.Internal("failed to change password", err)
	}
	return nil
}

// ForgotPassword replaces any pending reset for the user with a new one and
// mails the reset link.
func (s *AccountService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(s.v, req, "Please add an email address"); err != nil {
		return err
	}

	user, err := s.store.Users().GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.Validation("You are not registered yet. Please register first")
		}
		return apperr.Internal("failed to look up user", err)
	}

	secret, err := s.tokens.IssueResetSecret(user.ID)
	if err != nil {
		return apperr.Internal("failed to create reset token", err)
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		resets := tx.PasswordResets()
		if err := resets.DeleteByUserID(ctx, user.ID); err != nil {
			return err
		}
		return resets.Create(ctx, &models.PasswordResetToken{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			TokenHash: secret.Hash,
			CreatedAt: secret.CreatedAt,
			ExpiresAt: secret.ExpiresAt,
		})
	})
	if err != nil {
		return apperr.Internal("failed to store reset token", err)
	}

	body, err := render(resetEmailTmpl, resetEmailData{
		Username:     user.Username,
		ResetURL:     s.cfg.FrontendURL + "/reset-password/" + secret.Plain,
		ValidMinutes: int(secret.ExpiresAt.Sub(secret.CreatedAt).Minutes()),
	})
	if err != nil {
		return apperr.Internal("failed to render reset email", err)
	}

	err = s.mailer.Send(ctx, EmailMessage{
		Subject: resetEmailSubject,
		HTML:    body,
		To:      []string{user.Email},
		From:    s.cfg.MailFrom,
	})
	if err != nil {
		s.log.Error(ctx, "reset email failed", "user_id", user.ID, "error", err)
		return apperr.Dependency(msgEmailNotSent, err)
	}
	return nil
}

// ResetPassword consumes a reset secret. The password update and the removal
// of the record commit together, so a secret works once.
func (s *AccountService) ResetPassword(ctx context.Context, plainSecret string, req models.ResetPasswordRequest) error {
	if err := validateRequest(s.v, req, "Please enter your Password"); err != nil {
		return err
	}

	rec, err := s.tokens.VerifyResetSecret(ctx, plainSecret)
	if err != nil {
		return apperr.NotFound(msgInvalidResetLink)
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Users().UpdatePasswordHash(ctx, rec.UserID, hash); err != nil {
			return err
		}
		return tx.PasswordResets().DeleteByID(ctx, rec.ID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenNotFound) || errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound(msgInvalidResetLink)
		}
		return apperr.Internal("failed to reset password", err)
	}

	s.log.Info(ctx, "password reset", "user_id", rec.UserID)
	return nil
}
