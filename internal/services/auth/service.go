package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/dependencies/clock"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUsernameExists     = errors.New("username already exists")
)

// Session is the result of a successful registration or login
type Session struct {
	Token     string
	PlayerID  model.PlayerID
	Player    model.Player
	ExpiresAt time.Time
}

// Config holds configuration for the auth service
type Config struct {
	Secret        string
	TokenDuration time.Duration
}

// DefaultConfig returns default auth configuration. The secret has no
// default; it must come from the environment.
func DefaultConfig() Config {
	return Config{
		TokenDuration: 24 * time.Hour,
	}
}

// Service handles account registration, login and token verification.
// Tokens are signed JWTs carrying the player id; the service keeps no
// per-session state, so verification works across restarts.
type Service struct {
	storage       storage.Storage
	clock         clock.Clock
	secret        []byte
	tokenDuration time.Duration
}

// New creates a new auth Service
func New(store storage.Storage, clk clock.Clock, cfg Config) *Service {
	if cfg.TokenDuration == 0 {
		cfg.TokenDuration = DefaultConfig().TokenDuration
	}
	return &Service{
		storage:       store,
		clock:         clk,
		secret:        []byte(cfg.Secret),
		tokenDuration: cfg.TokenDuration,
	}
}

// RegisterPlayer creates a player account and returns a fresh session
func (s *Service) RegisterPlayer(ctx context.Context, username, password, displayName string) (*Session, error) {
	_, err := s.storage.GetRegisteredPlayerByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	playerID, err := s.storage.AllocatePlayerID(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()

	player := &model.Player{
		ID:          playerID,
		DisplayName: displayName,
		CreatedAt:   now,
	}
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	if err := s.storage.SaveRegisteredPlayer(ctx, &model.RegisteredPlayer{
		PlayerID:     playerID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return nil, err
	}

	return s.issueToken(player)
}

// Login authenticates a registered player and returns a fresh session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	rp, err := s.storage.GetRegisteredPlayerByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rp.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	player, err := s.storage.GetPlayer(ctx, rp.PlayerID)
	if err != nil {
		return nil, err
	}

	return s.issueToken(player)
}

// VerifyToken checks a token's signature and expiry and returns the
// player id it was issued for
func (s *Service) VerifyToken(token string) (model.PlayerID, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return model.PlayerID(id), nil
}

// GetPlayer resolves a token to its player record
func (s *Service) GetPlayer(ctx context.Context, token string) (*model.Player, error) {
	playerID, err := s.VerifyToken(token)
	if err != nil {
		return nil, err
	}
	return s.storage.GetPlayer(ctx, playerID)
}

func (s *Service) issueToken(player *model.Player) (*Session, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.tokenDuration)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(int64(player.ID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     signed,
		PlayerID:  player.ID,
		Player:    *player,
		ExpiresAt: expiresAt,
	}, nil
}
