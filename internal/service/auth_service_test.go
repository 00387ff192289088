package service

import (
	"context"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/benefits-service/internal/auth"
	"github.com/spec-kit/benefits-service/internal/config"
	"github.com/spec-kit/benefits-service/internal/domain"
	"github.com/spec-kit/benefits-service/internal/repository/memory"
	apperrors "github.com/spec-kit/benefits-service/pkg/util/errorutil"
)

func newAuthService(users *memory.UserRepository) *AuthService {
	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 5, BcryptCost: bcrypt.MinCost}}
	return NewAuthService(cfg, AuthDependencies{UserRepo: users})
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(memory.NewUserRepository())

	session, err := svc.RegisterUser(ctx, RegisterInput{Name: "Dana", Email: " Dana@Example.com ", Password: "long-enough"})
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if session.User.Role != domain.UserRoleUser || session.User.Email != "dana@example.com" {
		t.Fatalf("unexpected user: %+v", session.User)
	}
	claims, err := svc.TokenManager().ParseToken(session.Token)
	if err != nil || claims.Subject != session.User.ID {
		t.Fatalf("token does not identify the user: %v %+v", err, claims)
	}

	if _, err := svc.RegisterUser(ctx, RegisterInput{Name: "Dana", Email: "dana@example.com", Password: "long-enough"}); !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("duplicate email: expected conflict, got %v", err)
	}

	if _, err := svc.LoginUser(ctx, "dana@example.com", "long-enough"); err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if _, err := svc.LoginUser(ctx, "dana@example.com", "wrong-password"); !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("bad password: expected unauthorized, got %v", err)
	}
	if _, err := svc.LoginUser(ctx, "nobody@example.com", "long-enough"); !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("unknown email: expected unauthorized, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(memory.NewUserRepository())
	cases := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{"missing name", RegisterInput{Email: "a@example.com", Password: "long-enough"}, "name"},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Password: "long-enough"}, "email"},
		{"short password", RegisterInput{Name: "A", Email: "a@example.com", Password: "short"}, "password"},
		{"long password", RegisterInput{Name: "A", Email: "a@example.com", Password: strings.Repeat("x", auth.MaxPasswordBytes+1)}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RegisterUser(context.Background(), tc.input)
			de := apperrors.ToDomainError(err)
			if de == nil || de.Code != apperrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := de.Details[tc.field]; !ok {
				t.Fatalf("expected details for %q, got %v", tc.field, de.Details)
			}
		})
	}
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	svc := newAuthService(users)

	if err := svc.EnsureBootstrapAdmin(ctx, "", ""); err != nil {
		t.Fatalf("empty email should be skipped: %v", err)
	}
	if err := svc.EnsureBootstrapAdmin(ctx, "Root@Example.com", "bootstrap-pass"); err != nil {
		t.Fatalf("EnsureBootstrapAdmin: %v", err)
	}
	if err := svc.EnsureBootstrapAdmin(ctx, "root@example.com", "bootstrap-pass"); err != nil {
		t.Fatalf("second EnsureBootstrapAdmin: %v", err)
	}

	admins, _ := users.List(ctx, ptrRole(domain.UserRoleAdmin))
	if len(admins) != 1 {
		t.Fatalf("expected exactly one admin, got %d", len(admins))
	}
	session, err := svc.LoginUser(ctx, "root@example.com", "bootstrap-pass")
	if err != nil || !session.User.IsAdmin() {
		t.Fatalf("bootstrap admin cannot log in: %v", err)
	}
}

func TestLoginUpgradesPasswordCost(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	svc := newAuthService(users)

	legacy, err := auth.NewPasswordHasher(bcrypt.MinCost + 1).Hash("long-enough")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	user := &domain.User{Name: "Old", Email: "old@example.com", PasswordHash: legacy, Role: domain.UserRoleUser}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := svc.LoginUser(ctx, "old@example.com", "long-enough"); err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	stored, _ := users.GetByID(ctx, user.ID)
	if cost, err := bcrypt.Cost([]byte(stored.PasswordHash)); err != nil || cost != bcrypt.MinCost {
		t.Fatalf("hash not upgraded: cost %d, err %v", cost, err)
	}
	if _, err := svc.LoginUser(ctx, "old@example.com", "long-enough"); err != nil {
		t.Fatalf("login after rehash: %v", err)
	}
}

func ptrRole(r domain.UserRole) *domain.UserRole { return &r }
