package service

import (
	"context"
	"storefront-service/internal/model"
	"storefront-service/prometheus"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// RegisterInput carries the registration form
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"min=6"`
}

// AccountDirectory handles login, logout and registration against the stored user list
type AccountDirectory struct {
	repo AccountStore
	log  *zap.Logger
	mu   *sync.Mutex
}

func NewAccountDirectory(repo AccountStore, log *zap.Logger) *AccountDirectory {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountDirectory{repo: repo, log: log, mu: &sync.Mutex{}}
}

// Login matches the email case-insensitively and the password exactly, then stores a
// session snapshot of the user.
func (a *AccountDirectory) Login(ctx context.Context, email, password string) (*model.Session, error) {
	prometheus.RecordAuthAttempt("login")

	a.mu.Lock()
	defer a.mu.Unlock()

	users, err := a.repo.Users(ctx)
	if err != nil {
		return nil, err
	}
	idx := model.FindUserByEmail(users, email)
	if idx < 0 || users[idx].Password != password {
		a.log.Info("Login failed", zap.String("email", email))
		prometheus.RecordAuthError("invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	session := model.NewSession(users[idx])
	if err := a.repo.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	a.log.Info("User logged in",
		zap.String("email", session.Email),
		zap.String("role", string(session.Role)))
	return &session, nil
}

// Logout clears the session
func (a *AccountDirectory) Logout(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.repo.ClearSession(ctx); err != nil {
		return err
	}
	a.log.Info("User logged out")
	return nil
}

// Current returns the active session or nil
func (a *AccountDirectory) Current(ctx context.Context) (*model.Session, error) {
	return a.repo.Session(ctx)
}

// Register appends a new account with the user role
func (a *AccountDirectory) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	prometheus.RecordAuthAttempt("register")

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateInput(in); err != nil {
		prometheus.RecordAuthError("invalid_registration")
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	users, err := a.repo.Users(ctx)
	if err != nil {
		return nil, err
	}
	if model.FindUserByEmail(users, in.Email) >= 0 {
		a.log.Info("Registration rejected, email already exists", zap.String("email", in.Email))
		prometheus.RecordAuthError("email_already_exists")
		return nil, ErrEmailExists
	}

	user := model.User{
		Email:    in.Email,
		Password: in.Password,
		Name:     in.Name,
		Role:     model.RoleUser,
	}
	if err := a.repo.SaveUsers(ctx, append(users, user)); err != nil {
		return nil, err
	}

	a.log.Info("User registered", zap.String("email", user.Email))
	return &user, nil
}
