package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"evidence-platform/internal/audit"
	"evidence-platform/internal/auth"
	"evidence-platform/internal/config"
	"evidence-platform/internal/rbac"
)

func newTestService(t *testing.T) (*Service, *auth.Manager, *audit.MemoryRepo) {
	t.Helper()
	tokens, err := auth.NewManager(config.AuthConfig{
		JWTSecret:      "test-secret-at-least-32-bytes-long!!",
		JWTIssuer:      "evidence-platform-test",
		AccessTokenTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	auditRepo := audit.NewMemoryRepo()
	return NewService(NewMemoryRepo(), tokens, audit.NewService(auditRepo, nil)), tokens, auditRepo
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []RegisterRequest{
		{Username: "ab", Email: "a@b.co", Password: "longenough"},
		{Username: "alice", Email: "not-an-email", Password: "longenough"},
		{Username: "alice", Email: "a@b.co", Password: "short"},
		{Username: "alice", Email: "a@b.co", Password: "longenough", Role: "superuser"},
	}
	for i, req := range cases {
		if _, err := svc.Register(ctx, req, ""); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("case %d: got %v, want ErrInvalidArgument", i, err)
		}
	}
}

func TestRegisterDefaultsRoleAndAudits(t *testing.T) {
	svc, _, auditRepo := newTestService(t)

	u, err := svc.Register(context.Background(), RegisterRequest{
		Username: "alice", Email: "Alice@Example.com", Password: "correct-horse",
	}, "10.0.0.7")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != rbac.RoleInvestigator {
		t.Errorf("role = %q, want %q", u.Role, rbac.RoleInvestigator)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	if u.PasswordHash == "" || u.PasswordHash == "correct-horse" {
		t.Errorf("password stored without hashing")
	}

	events := auditRepo.Events()
	if len(events) != 1 || events[0].Action != audit.ActionUserRegistered {
		t.Fatalf("audit events = %+v, want one USER_REGISTERED", events)
	}
	if events[0].ActorID != u.ID || events[0].IPAddress != "10.0.0.7" {
		t.Errorf("audit event actor/ip wrong: %+v", events[0])
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "a@b.co", Password: "longenough"}, ""); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "other@b.co", Password: "longenough"}, "")
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate username: got %v, want ErrDuplicate", err)
	}
	_, err = svc.Register(ctx, RegisterRequest{Username: "bob", Email: "A@B.CO", Password: "longenough"}, "")
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate email: got %v, want ErrDuplicate", err)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, tokens, auditRepo := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{
		Username: "alice", Email: "a@b.co", Password: "correct-horse", Role: rbac.RoleAdmin,
	}, "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, token, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "correct-horse"}, "10.0.0.7")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.ID != reg.ID {
		t.Errorf("logged-in user id = %q, want %q", u.ID, reg.ID)
	}

	claims, err := tokens.Verify(token, time.Now())
	if err != nil {
		t.Fatalf("Verify issued token: %v", err)
	}
	if claims.UserID != reg.ID || claims.Role != rbac.RoleAdmin {
		t.Errorf("claims = %+v, want user %q role admin", claims, reg.ID)
	}

	events := auditRepo.Events()
	last := events[len(events)-1]
	if last.Action != audit.ActionLoginSuccess || last.ActorID != reg.ID {
		t.Errorf("last audit event = %+v, want LOGIN_SUCCESS by %q", last, reg.ID)
	}
}

func TestLoginFailureIsGenericAndAudited(t *testing.T) {
	svc, _, auditRepo := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "a@b.co", Password: "correct-horse"}, "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, wrongPass := svc.Login(ctx, LoginRequest{Username: "alice", Password: "wrong"}, "10.0.0.9")
	_, _, noUser := svc.Login(ctx, LoginRequest{Username: "mallory", Password: "wrong"}, "10.0.0.9")

	if !errors.Is(wrongPass, ErrInvalidCredentials) || !errors.Is(noUser, ErrInvalidCredentials) {
		t.Fatalf("failures = (%v, %v), want ErrInvalidCredentials for both", wrongPass, noUser)
	}
	if wrongPass.Error() != noUser.Error() {
		t.Errorf("failure messages differ, leaking account existence: %q vs %q", wrongPass, noUser)
	}

	var failed []audit.Event
	for _, e := range auditRepo.Events() {
		if e.Action == audit.ActionLoginFailed {
			failed = append(failed, e)
		}
	}
	if len(failed) != 2 {
		t.Fatalf("LOGIN_FAILED events = %d, want 2", len(failed))
	}
	// Known account: the failure is attributed. Unknown username: anonymous.
	if failed[0].ActorID != reg.ID {
		t.Errorf("known-user failure actor = %q, want %q", failed[0].ActorID, reg.ID)
	}
	if failed[1].ActorID != "" {
		t.Errorf("unknown-user failure must be anonymous: %+v", failed[1])
	}
}
