// Package auth handles user registration, login, and bearer-token session
// management.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/astroriga/skywatch/internal/store"
)

var (
	// ErrEmailTaken is returned when registering an email that already has
	// an account.
	ErrEmailTaken = errors.New("auth: email already registered")
	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password; the two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	// ErrInvalidToken is returned for expired, malformed, or mis-signed
	// session tokens.
	ErrInvalidToken = errors.New("auth: invalid token")
)

// Claims are the session token claims.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service provides registration, login, and token operations.
type Service struct {
	users  *store.Users
	secret []byte
	ttl    time.Duration
	log    zerolog.Logger
}

// New creates an auth service signing tokens with secret for ttl.
func New(users *store.Users, secret string, ttl time.Duration, log zerolog.Logger) *Service {
	return &Service{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		log:    log,
	}
}

// HashPassword hashes a password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
func VerifyPassword(password, passwordHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) == nil
}

// Register creates a new account. Returns ErrEmailTaken if the email is
// already in use.
func (s *Service) Register(ctx context.Context, email, username, password string) (*store.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, email, username, hash)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", email).Msg("user registered")
	return user, nil
}

// Login verifies credentials and returns a signed session token with the
// authenticated user.
func (s *Service) Login(ctx context.Context, email, password string) (string, *store.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil || !VerifyPassword(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.MintToken(user)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

// MintToken signs a session token for a user.
func (s *Service) MintToken(user *store.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a session token and returns the user ID and claims.
func (s *Service) ParseToken(tokenString string) (int64, *Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return 0, nil, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, nil, ErrInvalidToken
	}

	return userID, claims, nil
}
