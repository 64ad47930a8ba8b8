package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	PersonID       uuid.UUID
	OrganizationID *uuid.UUID
	Role           enums.PersonRole
	JTI            string
}

// AccessTokenClaims represents the typed JWT presented by clients.
type AccessTokenClaims struct {
	PersonID       uuid.UUID        `json:"person_id"`
	OrganizationID *uuid.UUID       `json:"organization_id,omitempty"`
	Role           enums.PersonRole `json:"role"`
	jwt.RegisteredClaims
}
