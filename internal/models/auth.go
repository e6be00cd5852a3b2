package models

import "github.com/golang-jwt/jwt/v5"

// UserRole enumerates roles recognised by the RBAC middleware. Account
// management lives in an external identity service; this API only consumes
// tokens it minted with the shared secret.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleTeacher UserRole = "TEACHER"
)

// JWTClaims is the access-token payload.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}
