package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"evidence-platform/internal/audit"
	"evidence-platform/internal/auth"
	"evidence-platform/internal/rbac"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Repository is the persistence surface for user accounts.
type Repository interface {
	Insert(ctx context.Context, u User) error
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error)
}

// Service handles registration and login. Every authentication attempt,
// successful or not, leaves an audit record.
type Service struct {
	repo    Repository
	tokens  *auth.Manager
	auditor *audit.Service
	clock   func() time.Time
}

func NewService(repo Repository, tokens *auth.Manager, auditor *audit.Service) *Service {
	return &Service{repo: repo, tokens: tokens, auditor: auditor, clock: time.Now}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest, ip string) (User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if n := len(req.Username); n < 3 || n > 100 {
		return User{}, fmt.Errorf("%w: username must be between 3 and 100 characters", ErrInvalidArgument)
	}
	if !emailRe.MatchString(req.Email) {
		return User{}, fmt.Errorf("%w: invalid email address", ErrInvalidArgument)
	}
	if len(req.Password) < 8 {
		return User{}, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidArgument)
	}
	role := req.Role
	if role == "" {
		role = rbac.RoleInvestigator
	}
	if !rbac.IsValidRole(role) {
		return User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, role)
	}

	taken, err := s.repo.UsernameOrEmailTaken(ctx, req.Username, req.Email)
	if err != nil {
		return User{}, err
	}
	if taken {
		return User{}, ErrDuplicate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.clock().UTC(),
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		return User{}, err
	}

	s.auditor.Log(ctx, audit.Event{
		ActorID:      u.ID,
		ActorRole:    u.Role,
		Action:       audit.ActionUserRegistered,
		ResourceType: "user",
		ResourceID:   u.ID,
		Detail:       u.Username,
		IPAddress:    ip,
	})
	return u, nil
}

// Login verifies credentials and issues an access token. Failures are
// reported with a single generic error so callers cannot probe which
// usernames exist.
func (s *Service) Login(ctx context.Context, req LoginRequest, ip string) (User, string, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return User{}, "", fmt.Errorf("%w: username and password are required", ErrInvalidArgument)
	}

	u, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logFailure(ctx, "", req.Username, ip)
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		s.logFailure(ctx, u.ID, req.Username, ip)
		return User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(s.clock(), u.ID, u.Username, u.Role)
	if err != nil {
		return User{}, "", fmt.Errorf("issue token: %w", err)
	}

	s.auditor.Log(ctx, audit.Event{
		ActorID:      u.ID,
		ActorRole:    u.Role,
		Action:       audit.ActionLoginSuccess,
		ResourceType: "user",
		ResourceID:   u.ID,
		IPAddress:    ip,
	})
	return u, token, nil
}

// logFailure records a failed attempt. actorID is set only when the username
// resolved to a real account; an unknown username is recorded anonymously.
func (s *Service) logFailure(ctx context.Context, actorID, username, ip string) {
	s.auditor.Log(ctx, audit.Event{
		ActorID:      actorID,
		Action:       audit.ActionLoginFailed,
		ResourceType: "user",
		Detail:       username,
		IPAddress:    ip,
	})
}
