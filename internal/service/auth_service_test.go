package service

import (
	"context"
	"errors"
	"mcq_quiz_backend/internal/config"
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/internal/repository"
	"mcq_quiz_backend/internal/testutil"
	"mcq_quiz_backend/internal/util"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret-that-is-long-enough-0123456789"

func newAuthService(t *testing.T, allowAdmin bool) (*AuthService, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	cfg := &config.Config{
		JWT:  config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour},
		Auth: config.AuthConfig{AllowAdminSignup: allowAdmin},
	}
	s := NewAuthService(repository.NewUnitOfWork(db), cfg)
	s.hashCost = bcrypt.MinCost
	return s, db
}

func TestRegisterAndLogin(t *testing.T) {
	s, _ := newAuthService(t, false)
	ctx := context.Background()

	user := &model.User{FirstName: " Jane ", LastName: "Doe", Email: " Jane@Example.com ", Password: "secret-pass"}
	if err := s.Register(ctx, user); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == 0 || user.Role != model.RoleUser || user.Email != "jane@example.com" || user.FirstName != "Jane" {
		t.Fatalf("unexpected registered user: %+v", user)
	}
	if user.Password == "secret-pass" {
		t.Fatalf("password stored in plain text")
	}

	token, err := s.Login(ctx, "JANE@example.com", ` "secret-pass" `)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	resolved, err := s.ResolveCurrentUser(ctx, token, false)
	if err != nil {
		t.Fatalf("ResolveCurrentUser: %v", err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("resolved user %d, want %d", resolved.ID, user.ID)
	}
	if _, err := s.ResolveCurrentUser(ctx, token, true); !errors.Is(err, util.ErrForbidden) {
		t.Fatalf("require admin: expected ErrForbidden, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s, db := newAuthService(t, false)
	testutil.SeedUser(t, db, "jane@example.com", model.RoleUser)
	ctx := context.Background()

	if _, err := s.Login(ctx, "jane@example.com", "wrong-password"); !errors.Is(err, util.ErrUnauthorized) {
		t.Fatalf("wrong password: expected ErrUnauthorized, got %v", err)
	}
	if _, err := s.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, util.ErrUnauthorized) {
		t.Fatalf("unknown email: expected ErrUnauthorized, got %v", err)
	}
	if _, err := s.Login(ctx, "jane@example.com", "password123"); err != nil {
		t.Fatalf("valid login: %v", err)
	}
}

func TestRegisterRules(t *testing.T) {
	s, db := newAuthService(t, false)
	testutil.SeedUser(t, db, "taken@example.com", model.RoleUser)
	ctx := context.Background()

	err := s.Register(ctx, &model.User{FirstName: "A", LastName: "B", Email: "TAKEN@example.com", Password: "password123"})
	if !errors.Is(err, util.ErrConflict) {
		t.Fatalf("duplicate email: expected ErrConflict, got %v", err)
	}

	err = s.Register(ctx, &model.User{FirstName: "A", LastName: "B", Email: "boss@example.com", Password: "password123", Role: model.RoleAdmin})
	if !errors.Is(err, util.ErrForbidden) {
		t.Fatalf("admin signup: expected ErrForbidden, got %v", err)
	}

	err = s.Register(ctx, &model.User{FirstName: "A", LastName: "B", Email: "odd@example.com", Password: "password123", Role: 7})
	if !errors.Is(err, util.ErrValidation) {
		t.Fatalf("invalid role: expected ErrValidation, got %v", err)
	}
}

func TestRegisterAdminWhenAllowed(t *testing.T) {
	s, _ := newAuthService(t, true)
	user := &model.User{FirstName: "A", LastName: "B", Email: "boss@example.com", Password: "password123", Role: model.RoleAdmin}
	if err := s.Register(context.Background(), user); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !user.IsAdmin() {
		t.Fatalf("expected admin role, got %d", user.Role)
	}
}

func TestResolveCurrentUserFailures(t *testing.T) {
	s, db := newAuthService(t, false)
	ctx := context.Background()
	admin := testutil.SeedUser(t, db, "admin@example.com", model.RoleAdmin)

	expired, _ := util.GenerateJWT(admin, testSecret, -time.Minute)
	if _, err := s.ResolveCurrentUser(ctx, expired, false); !errors.Is(err, util.ErrTokenExpired) {
		t.Fatalf("expired: expected ErrTokenExpired, got %v", err)
	}
	if _, err := s.ResolveCurrentUser(ctx, "not-a-token", false); !errors.Is(err, util.ErrUnauthorized) {
		t.Fatalf("garbage: expected ErrUnauthorized, got %v", err)
	}

	ghost, _ := util.GenerateJWT(&model.User{ID: 4242, Email: "ghost@example.com", Role: model.RoleUser}, testSecret, time.Hour)
	if _, err := s.ResolveCurrentUser(ctx, ghost, false); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("deleted user: expected ErrNotFound, got %v", err)
	}

	token, _ := util.GenerateJWT(admin, testSecret, time.Hour)
	if u, err := s.ResolveCurrentUser(ctx, token, true); err != nil || u.ID != admin.ID {
		t.Fatalf("admin: (%v, %v)", u, err)
	}
}

func TestCheckPasswordStripsQuotes(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(`"`+string(hashed)+`"`, ` "hunter22"`) {
		t.Fatalf("quoted hash and password should match")
	}
	if CheckPassword(string(hashed), "hunter23") {
		t.Fatalf("different password matched")
	}
}
