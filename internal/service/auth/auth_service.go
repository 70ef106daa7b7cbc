package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/wolkenticket/internal/clock"
	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/Domenick1991/wolkenticket/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "wolkenticket"

var ErrInvalidToken = errors.New("invalid token")

type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type AuthUseCase interface {
	Login(ctx context.Context, email, password string) (*Token, error)
	ValidateToken(raw string) (*Claims, error)
	EnsureAdmin(ctx context.Context, email, password string) error
}

type AuthService struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
	cost   int
	logger *zap.Logger
}

type Option func(*AuthService)

func WithClock(c clock.Clock) Option {
	return func(s *AuthService) {
		s.clock = c
	}
}

// WithBcryptCost is used by tests to keep hashing fast.
func WithBcryptCost(cost int) Option {
	return func(s *AuthService) {
		s.cost = cost
	}
}

func NewAuthService(users repository.UserRepository, secret string, ttl time.Duration, logger *zap.Logger, opts ...Option) *AuthService {
	s := &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clock.NewSystem(),
		cost:   bcrypt.DefaultCost,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks the password and issues an HS256 token. Unknown emails and
// wrong passwords both return domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Token, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.clock.Now()
	exp := now.Add(s.ttl)
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("admin logged in", zap.String("user_id", user.ID))
	return &Token{Value: signed, ExpiresAt: exp}, nil
}

func (s *AuthService) ValidateToken(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// EnsureAdmin creates the account or resets its password. Blank input is a no-op.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user := &domain.User{ID: uuid.NewString(), Email: email, PasswordHash: string(hash)}
	if err := s.users.Upsert(ctx, user); err != nil {
		return fmt.Errorf("failed to seed admin %s: %w", email, err)
	}
	s.logger.Info("admin account ensured", zap.String("email", email))
	return nil
}

var _ AuthUseCase = (*AuthService)(nil)
