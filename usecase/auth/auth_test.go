package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/token"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range r.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if user, ok := r.byEmail[email]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if _, ok := r.byEmail[user.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.byEmail[user.Email] = user
	return nil
}

func newTestUseCase(repo *fakeUserRepo) *UseCase {
	tokens := token.NewService(token.Config{
		AccessSecret: "test-secret",
		AccessTTL:    time.Minute,
	})
	return New(repo, tokens, nil)
}

func validInput() RegisterInput {
	return RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	}
}

func TestRegisterPersistsHashedPassword(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUseCase(repo)

	user, err := uc.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "" || user.PasswordHash == "correct-horse" {
		t.Fatal("password must be stored hashed")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUseCase(repo)

	if _, err := uc.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := uc.Register(context.Background(), validInput()); !domain.IsDomainError(err, domain.ErrCodeDuplicateEmail) {
		t.Fatalf("expected DUPLICATE_EMAIL, got %v", err)
	}
}

func TestRegisterFieldValidation(t *testing.T) {
	uc := newTestUseCase(newFakeUserRepo())

	cases := []RegisterInput{
		{Username: "al", Email: "a@example.com", Password: "long-enough"},
		{Username: "alice", Email: "not-an-email", Password: "long-enough"},
		{Username: "alice", Email: "a@example.com", Password: "short"},
	}
	for _, input := range cases {
		_, err := uc.Register(context.Background(), input)
		var vErrs *domain.ValidationErrors
		if err == nil {
			t.Fatalf("input %+v: expected validation error", input)
		}
		if !errors.As(err, &vErrs) || vErrs.Empty() {
			t.Fatalf("input %+v: expected field errors, got %v", input, err)
		}
	}
}

func TestLoginDoesNotLeakAccountExistence(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUseCase(repo)

	if _, err := uc.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, unknownErr := uc.Login(context.Background(), "nobody@example.com", "whatever")
	_, wrongErr := uc.Login(context.Background(), "alice@example.com", "wrong-password")

	if !domain.IsDomainError(unknownErr, domain.ErrCodeInvalidCredentials) {
		t.Fatalf("unknown email: expected INVALID_CREDENTIALS, got %v", unknownErr)
	}
	if !domain.IsDomainError(wrongErr, domain.ErrCodeInvalidCredentials) {
		t.Fatalf("wrong password: expected INVALID_CREDENTIALS, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("responses differ: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLoginIssuesAccessToken(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUseCase(repo)

	if _, err := uc.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	accessToken, err := uc.Login(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if accessToken == "" {
		t.Fatal("expected a signed access token")
	}
}

func TestLoginSurfacesMissingSecretAsConfigError(t *testing.T) {
	repo := newFakeUserRepo()
	uc := New(repo, token.NewService(token.Config{}), nil)

	if _, err := uc.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := uc.Login(context.Background(), "alice@example.com", "correct-horse"); !domain.IsDomainError(err, domain.ErrCodeConfig) {
		t.Fatalf("expected CONFIG error, got %v", err)
	}
}

func TestLoginNormalizesEmailCase(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUseCase(repo)

	if _, err := uc.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := uc.Login(context.Background(), "ALICE@example.com", "correct-horse"); err != nil {
		t.Fatalf("login with upper-cased email: %v", err)
	}
}
