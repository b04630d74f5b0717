package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-connect/internal/domain/user"
	"campus-connect/internal/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func newAuthHarness() (*Auth, *mockUserRepo, *mockProfileRepo) {
	users := newMockUserRepo()
	profiles := newMockProfileRepo()
	jwtSvc := jwt.NewHMACService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	return NewAuthUsecase(users, profiles, jwtSvc), users, profiles
}

func TestAuth_Register_CreatesUserAndProfile(t *testing.T) {
	uc, users, profiles := newAuthHarness()

	usr, access, refresh, err := uc.Register(context.Background(), RegisterInput{
		Email:    "Student@Campus.EDU",
		Password: "correct-horse",
		FullName: "Sam Student",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if usr.Email != "student@campus.edu" {
		t.Fatalf("expected normalized email, got %q", usr.Email)
	}
	if usr.PasswordHash != "" {
		t.Fatalf("password hash must not leak")
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected both tokens")
	}
	if len(users.users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users.users))
	}
	p, err := profiles.GetByUserID(context.Background(), usr.ID)
	if err != nil {
		t.Fatalf("expected a profile: %v", err)
	}
	if !p.IsSeeker {
		t.Fatalf("new profiles default to seeker")
	}
	if p.FullName != "Sam Student" {
		t.Fatalf("unexpected full name %q", p.FullName)
	}
}

func TestAuth_Register_DuplicateEmail(t *testing.T) {
	uc, _, _ := newAuthHarness()

	if _, _, _, err := uc.Register(context.Background(), RegisterInput{Email: "a@campus.edu", Password: "correct-horse"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, _, _, err := uc.Register(context.Background(), RegisterInput{Email: "a@campus.edu", Password: "correct-horse"})
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestAuth_Register_WeakPassword(t *testing.T) {
	uc, _, _ := newAuthHarness()

	_, _, _, err := uc.Register(context.Background(), RegisterInput{Email: "a@campus.edu", Password: "short"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuth_Login(t *testing.T) {
	uc, users, _ := newAuthHarness()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	_ = users.CreateUser(context.Background(), user.User{ID: uuid.New(), Email: "a@campus.edu", PasswordHash: string(hash)})

	if _, _, _, err := uc.Login(context.Background(), LoginInput{Email: "a@campus.edu", Password: "correct-horse"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, _, _, err := uc.Login(context.Background(), LoginInput{Email: "a@campus.edu", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := uc.Login(context.Background(), LoginInput{Email: "nobody@campus.edu", Password: "correct-horse"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuth_Refresh_RejectsAccessToken(t *testing.T) {
	uc, _, _ := newAuthHarness()

	_, _, refresh, err := uc.Register(context.Background(), RegisterInput{Email: "a@campus.edu", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	access, newRefresh, err := uc.Refresh(context.Background(), refresh)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if access == "" || newRefresh == "" {
		t.Fatalf("expected rotated tokens")
	}

	// An access token must not pass as a refresh token.
	if _, _, err := uc.Refresh(context.Background(), access); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}
