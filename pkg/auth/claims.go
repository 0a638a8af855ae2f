package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenClaims is the JWT payload minted by the identity collaborator.
// Every request handler trusts these values after middleware verification.
type AccessTokenClaims struct {
	UserID         int  `json:"userID"`
	OrganizationID int  `json:"organizationID"`
	Admin          bool `json:"admin"`

	jwt.RegisteredClaims
}

// AccessTokenPayload carries the inputs for minting a token.
type AccessTokenPayload struct {
	UserID         int
	OrganizationID int
	Admin          bool
}
