package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the payload of an access token. The subject (sub) carries the
// user id; role is a custom claim. Both are mandatory for a token to
// resolve to an Identity.
type AppClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
