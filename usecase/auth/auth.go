package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge/backend/domain"
	appLogger "github.com/taskforge/backend/pkg/logger"
	"github.com/taskforge/backend/pkg/token"
	"github.com/taskforge/backend/repository"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 30
	passwordMinLen = 8
)

// UseCase implements the credential flow: registration persists a hashed
// password and never issues a token; login verifies credentials and issues a
// single access token.
type UseCase struct {
	users  repository.UserRepository
	tokens *token.Service
	logger *zap.Logger
}

func New(users repository.UserRepository, tokens *token.Service, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// RegisterInput is the raw registration payload.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *RegisterInput) validate() error {
	errs := &domain.ValidationErrors{}

	username := strings.TrimSpace(in.Username)
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		errs.Add("username must be between 3 and 30 characters")
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		errs.Add("a valid email is required")
	}
	if len(in.Password) < passwordMinLen {
		errs.Add("password must be at least 8 characters")
	}

	if !errs.Empty() {
		return errs
	}
	in.Username = username
	in.Email = email
	return nil
}

// Register creates the user record. A freshly registered account must log in
// explicitly to obtain a token.
func (uc *UseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if _, err := uc.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "password hashing failed", err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	if err := uc.users.Create(ctx, user); err != nil {
		// The unique index may still fire on a concurrent registration.
		return nil, err
	}

	appLogger.WithRequestID(ctx, uc.logger).Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Login verifies the credentials and returns a signed access token. Unknown
// email and wrong password yield the identical error so accounts cannot be
// enumerated.
func (uc *UseCase) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	accessToken, err := uc.tokens.IssueAccess(token.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		var dErr *domain.Error
		if errors.As(err, &dErr) {
			return "", dErr
		}
		return "", domain.WrapError(domain.ErrCodeInternal, "token generation failed", err)
	}

	return accessToken, nil
}

// Profile returns the caller's own user record.
func (uc *UseCase) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}
