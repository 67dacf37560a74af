package auth

import "github.com/golang-jwt/jwt/v5"

// Claims are the only supported JWT claims shape for this service.
// The decoded claims are the sole source of "who is calling": role checks
// downstream (internal/rbac) trust this identity and never re-validate it.
type Claims struct {
	jwt.RegisteredClaims

	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
