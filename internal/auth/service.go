package auth

import (
	"fmt"
	"time"

	apperrors "teamspace-backend/internal/errors"
	"teamspace-backend/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const driveStateAudience = "drive-import"

// AuthService issues and validates session tokens and signed OAuth state
type AuthService struct {
	config *AuthConfig
	now    func() time.Time
}

// AuthClaims represents JWT session token claims
type AuthClaims struct {
	UserID               uuid.UUID `json:"user_id" example:"2d1f2c8e-6a4b-4c57-9f0e-8d1f3b2a6c11"`
	Username             string    `json:"username" example:"jdoe"`
	jwt.RegisteredClaims `swaggerignore:"true"`
}

// stateClaims carries a pending Drive import across the OAuth round trip
type stateClaims struct {
	TeamID uuid.UUID `json:"tid"`
	FileID string    `json:"fid"`
	jwt.RegisteredClaims
}

// SessionResponse is returned by login and signup
type SessionResponse struct {
	Valid     bool                  `json:"valid" example:"true"`
	Token     string                `json:"token,omitempty"`
	ExpiresAt *time.Time            `json:"expires_at,omitempty"`
	User      *service.UserResponse `json:"user,omitempty"`
	Redirect  string                `json:"redirect,omitempty" example:"/d/"`
}

// FormErrorResponse is returned when login or signup input is rejected
type FormErrorResponse struct {
	Valid  bool                       `json:"valid" example:"false"`
	Errors apperrors.ValidationErrors `json:"errors"`
}

// NewAuthService creates a new authentication service
func NewAuthService(config *AuthConfig) (*AuthService, error) {
	if err := config.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid auth config: %w", err)
	}

	return &AuthService{config: config, now: time.Now}, nil
}

// Config returns the authentication configuration
func (s *AuthService) Config() *AuthConfig {
	return s.config
}

// GenerateJWT issues a session token for user
func (s *AuthService) GenerateJWT(user *service.UserResponse) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.config.SessionTTL)

	claims := &AuthClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateJWT validates a session token and returns its claims
func (s *AuthService) ValidateJWT(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}

	if claims.UserID == uuid.Nil {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// SignState encodes a pending Drive import as a short-lived signed token
func (s *AuthService) SignState(state service.DriveState) (string, error) {
	now := s.now()
	claims := &stateClaims{
		TeamID: state.TeamID,
		FileID: state.FileID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   state.UserID.String(),
			Audience:  jwt.ClaimStrings{driveStateAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.StateTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}
	return signed, nil
}

// ParseState verifies a token produced by SignState
func (s *AuthService) ParseState(tokenString string) (*service.DriveState, error) {
	claims := &stateClaims{}
	if err := s.parse(tokenString, claims, jwt.WithAudience(driveStateAudience)); err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || claims.TeamID == uuid.Nil || claims.FileID == "" {
		return nil, apperrors.ErrInvalidToken
	}

	return &service.DriveState{UserID: userID, TeamID: claims.TeamID, FileID: claims.FileID}, nil
}

func (s *AuthService) parse(tokenString string, claims jwt.Claims, opts ...jwt.ParserOption) error {
	opts = append(opts, jwt.WithIssuer(s.config.Issuer), jwt.WithTimeFunc(s.now))

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return apperrors.ErrInvalidToken
	}
	return nil
}
