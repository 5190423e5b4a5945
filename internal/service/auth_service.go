package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pensao-tracker/internal/metrics"
	"github.com/pensao-tracker/internal/models"
	"github.com/pensao-tracker/internal/repository"
	"github.com/pensao-tracker/internal/session"
	"github.com/pensao-tracker/pkg/crypto"
)

const (
	MsgRegisterMissing     = "Todos os campos são obrigatórios."
	MsgEmailTaken          = "Este e-mail já está registado."
	MsgRegistered          = "Utilizador registado com sucesso!"
	MsgLoginMissing        = "E-mail e palavra-passe são obrigatórios."
	MsgInvalidCredentials  = "E-mail ou palavra-passe inválidos."
	MsgLoggedIn            = "Login bem-sucedido"
	MsgLoggedOut           = "Logout bem-sucedido"
	MsgUnauthorized        = "Não autorizado"
	UnauthorizedRedirectTo = "index.html"
)

// AuthService handles registration, login and logout
type AuthService struct {
	userRepo *repository.UserRepository
	sessions *session.Manager
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo *repository.UserRepository, sessions *session.Manager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
	}
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the signed session cookie value and the user it belongs to
type LoginResult struct {
	Token string
	User  *models.User
}

// Register registers a new user
func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	email := strings.TrimSpace(req.Email)
	if isMissing(req.Name) || isMissing(req.Surname) || email == "" || req.Password == "" {
		return nil, validationError(MsgRegisterMissing)
	}

	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, newError(ErrConflict, MsgEmailTaken)
	}

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Surname:      strings.TrimSpace(req.Surname),
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, newError(ErrConflict, MsgEmailTaken)
		}
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and opens a session. Unknown email and wrong
// password fail identically.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, validationError(MsgLoginMissing)
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			metrics.RecordLogin("failure")
			return nil, newError(ErrUnauthorized, MsgInvalidCredentials)
		}
		return nil, err
	}

	if !crypto.CheckPassword(req.Password, user.PasswordHash) {
		metrics.RecordLogin("failure")
		return nil, newError(ErrUnauthorized, MsgInvalidCredentials)
	}

	token, err := s.sessions.Issue(ctx, &session.Data{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordLogin("success")
	return &LoginResult{Token: token, User: user}, nil
}

// Authenticate resolves a session cookie value. Every failure, including a
// store outage, is reported as unauthorized; the cause is kept for logs.
func (s *AuthService) Authenticate(ctx context.Context, cookieValue string) (string, *session.Data, error) {
	if cookieValue == "" {
		return "", nil, newError(ErrUnauthorized, MsgUnauthorized)
	}
	id, data, err := s.sessions.Resolve(ctx, cookieValue)
	if err != nil {
		return "", nil, &Error{Kind: ErrUnauthorized, Message: MsgUnauthorized, Cause: err}
	}
	return id, data, nil
}

// Logout clears the session
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return newError(ErrUnauthorized, MsgUnauthorized)
	}
	return s.sessions.Revoke(ctx, sessionID)
}
