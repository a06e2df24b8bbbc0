package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload carries the identity minted into an access token.
type AccessTokenPayload struct {
	AccountID  uuid.UUID
	CustomerID *uuid.UUID
	Email      string
	JTI        string
}

// AccessTokenClaims is the JWT claim set for customer sessions.
type AccessTokenClaims struct {
	AccountID  uuid.UUID  `json:"account_id"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	Email      string     `json:"email"`
	jwt.RegisteredClaims
}
