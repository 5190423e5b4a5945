package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pensao-tracker/internal/logger"
	"github.com/pensao-tracker/internal/metrics"
	"github.com/pensao-tracker/internal/models"
	"github.com/pensao-tracker/internal/repository"
	"github.com/pensao-tracker/pkg/crypto"
	"github.com/pensao-tracker/pkg/keygen"
)

const (
	MsgForgotMissing     = "Por favor, forneça o e-mail para recuperação."
	MsgResetRequested    = "Se o e-mail estiver registado, um link para redefinir a sua palavra-passe foi enviado para ele."
	MsgResetMissing      = "Token e nova palavra-passe são obrigatórios."
	MsgPasswordsMismatch = "As palavras-passe não coincidem."
	MsgTokenInvalid      = "Token inválido ou já utilizado."
	MsgTokenExpired      = "Token expirado."
	MsgTokenUserMissing  = "Utilizador associado ao token não encontrado."
	MsgPasswordReset     = "Palavra-passe redefinida com sucesso!"
	MsgBadRequestBody    = "Erro ao processar os dados da requisição."

	resetPagePath = "/redefinir-senha.html"
)

// PasswordService issues and redeems password reset tokens
type PasswordService struct {
	userRepo        *repository.UserRepository
	tokenRepo       *repository.ResetTokenRepository
	mailer          Mailer
	frontendBaseURL string
	tokenTTL        time.Duration
	now             func() time.Time
}

// NewPasswordService creates a new PasswordService
func NewPasswordService(
	userRepo *repository.UserRepository,
	tokenRepo *repository.ResetTokenRepository,
	mailer Mailer,
	frontendBaseURL string,
	tokenTTL time.Duration,
) *PasswordService {
	return &PasswordService{
		userRepo:        userRepo,
		tokenRepo:       tokenRepo,
		mailer:          mailer,
		frontendBaseURL: strings.TrimRight(frontendBaseURL, "/"),
		tokenTTL:        tokenTTL,
		now:             time.Now,
	}
}

// SetClock replaces the time source
func (s *PasswordService) SetClock(now func() time.Time) {
	s.now = now
}

// ForgotPasswordRequest represents the forgot-password request
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents the reset-password request
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// RequestReset issues a token for a registered email and hands the link to
// the mailer. The caller answers MsgResetRequested whether or not the email
// is registered.
func (s *PasswordService) RequestReset(ctx context.Context, req *ForgotPasswordRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return validationError(MsgForgotMissing)
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logger.Info("password reset requested for unregistered email")
			metrics.RecordPasswordReset("requested_unknown")
			return nil
		}
		return err
	}

	value, err := keygen.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	token := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     value,
		ExpiresAt: s.now().UTC().Add(s.tokenTTL),
	}
	if err := s.tokenRepo.Create(token); err != nil {
		return err
	}
	logger.Info("password reset token issued for user %d", user.ID)
	metrics.RecordPasswordReset("requested")

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, s.ResetLink(value)); err != nil {
		// The token is stored; the response stays generic either way.
		logger.Error("password reset mail to user %d failed: %v", user.ID, err)
	}
	return nil
}

// ResetLink builds the frontend URL that carries the token
func (s *PasswordService) ResetLink(token string) string {
	return s.frontendBaseURL + resetPagePath + "?" + url.Values{"token": {token}}.Encode()
}

// ResetPassword redeems a token and replaces the owner's password
func (s *PasswordService) ResetPassword(req *ResetPasswordRequest) error {
	if req.Token == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return validationError(MsgResetMissing)
	}
	if req.NewPassword != req.ConfirmPassword {
		return validationError(MsgPasswordsMismatch)
	}

	token, err := s.tokenRepo.GetByToken(req.Token)
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenNotFound) {
			metrics.RecordPasswordReset("invalid")
			return newError(ErrInvalidToken, MsgTokenInvalid)
		}
		return err
	}

	// Expiry is checked before the used flag so an expired token always
	// reports expiry.
	now := s.now()
	if token.IsExpired(now) {
		metrics.RecordPasswordReset("expired")
		return newError(ErrTokenExpired, MsgTokenExpired)
	}
	if !token.IsValid(now) {
		metrics.RecordPasswordReset("invalid")
		return newError(ErrInvalidToken, MsgTokenInvalid)
	}

	if _, err := s.userRepo.GetByID(token.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return newError(ErrNotFound, MsgTokenUserMissing)
		}
		return err
	}

	passwordHash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.tokenRepo.Consume(token, passwordHash); err != nil {
		switch {
		case errors.Is(err, repository.ErrResetTokenUsed):
			metrics.RecordPasswordReset("invalid")
			return newError(ErrInvalidToken, MsgTokenInvalid)
		case errors.Is(err, repository.ErrUserNotFound):
			return newError(ErrNotFound, MsgTokenUserMissing)
		}
		return err
	}

	logger.Info("password reset completed for user %d", token.UserID)
	metrics.RecordPasswordReset("completed")
	return nil
}
