package identity

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("identity: not found")
	ErrInvalidArgument = errors.New("identity: invalid argument")
	ErrDuplicate       = errors.New("identity: username or email already exists")
	// ErrInvalidCredentials is deliberately indistinguishable between an
	// unknown user and a wrong password.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
)

// User is an account record. Once a principal (id + role) is handed out in a
// token it is immutable for the token's lifetime; role changes take effect on
// the next login.
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
