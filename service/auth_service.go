package service

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"user-management-api/config"
	"user-management-api/logger"
	"user-management-api/model"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService hashes passwords, issues access tokens and resolves bearer
// credentials into identities. Its key material is fixed at construction, so
// a single instance is safe for concurrent use.
type AuthService struct {
	secretKey []byte
	accessTTL time.Duration
	hashCost  int
	now       func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService creates an AuthService from the JWT settings. A bcrypt cost
// outside the library's range falls back to bcrypt.DefaultCost.
func NewAuthService(jwtCfg config.JWTConfig, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		secretKey: []byte(jwtCfg.SecretKey),
		accessTTL: jwtCfg.AccessTokenTTL,
		hashCost:  bcryptCost,
		now:       time.Now,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// BurnPasswordCheck compares password against a throwaway hash of the
// configured cost. Login calls it when no account matches, so that path
// costs as much as a wrong password.
func (s *AuthService) BurnPasswordCheck(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("no-such-account"), s.hashCost)
	})
	bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}

// GenerateAccessToken signs an HS256 token whose subject is the user id.
func (s *AuthService) GenerateAccessToken(userID string, role model.Role) (string, error) {
	now := s.now()
	claims := &model.AppClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

// VerifyToken checks the signature, algorithm and time claims of a token.
// exp is mandatory; nbf is checked when present. Any failure yields
// ErrVerificationFailed.
func (s *AuthService) VerifyToken(tokenString string) (*model.AppClaims, error) {
	if len(s.secretKey) == 0 {
		return nil, ErrVerificationFailed
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &model.AppClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	})
	if err != nil {
		logger.Log.WithError(err).Debug("Token verification failed")
		return nil, ErrVerificationFailed
	}
	if !token.Valid {
		return nil, ErrVerificationFailed
	}
	return claims, nil
}

// ResolveIdentity turns a raw bearer credential into an Identity. The token
// is verified before its claims are inspected.
func (s *AuthService) ResolveIdentity(credential string) (model.Identity, error) {
	claims, err := s.VerifyToken(credential)
	if err != nil {
		return model.Identity{}, ErrInvalidOrExpiredToken
	}

	if strings.TrimSpace(claims.Subject) == "" || strings.TrimSpace(claims.Role) == "" {
		return model.Identity{}, ErrMissingClaims
	}

	return model.Identity{
		UserID: claims.Subject,
		Role:   model.Role(claims.Role),
	}, nil
}
