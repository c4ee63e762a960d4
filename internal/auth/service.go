package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/rs/zerolog"

	"github.com/roomline/roomline-server/internal/store"
)

var (
	// ErrInvalidCredentials is returned when username/password don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned when registering an existing username.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidUsername is returned when the username doesn't meet constraints.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidPassword is returned when the password doesn't meet constraints.
	ErrInvalidPassword = errors.New("invalid password")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,16}$`)

// Service provides registration and login over the credential map in
// the persistent store. The map lives under a single fixed key; the
// service keeps a cached copy so store failures degrade instead of
// failing callers.
type Service struct {
	store     store.Store
	jwtConfig *JWTConfig
	log       *zerolog.Logger

	mu    sync.Mutex
	cache map[string]string // username -> bcrypt hash
}

// NewService creates an authentication service.
func NewService(st store.Store, jwtConfig *JWTConfig, logger *zerolog.Logger) *Service {
	return &Service{
		store:     st,
		jwtConfig: jwtConfig,
		log:       logger,
	}
}

// Register creates a new user and returns a session token.
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	if !usernamePattern.MatchString(username) {
		return "", ErrInvalidUsername
	}
	if len(password) < 6 {
		return "", ErrInvalidPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.loadUsersLocked(ctx)
	if _, exists := users[username]; exists {
		return "", ErrUserExists
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	users[username] = hash
	s.cache = users
	s.saveUsersLocked(ctx, users)

	return GenerateToken(s.jwtConfig, username)
}

// Login checks credentials and returns a session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	s.mu.Lock()
	users := s.loadUsersLocked(ctx)
	hash, ok := users[username]
	s.mu.Unlock()

	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := ComparePassword(hash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return GenerateToken(s.jwtConfig, username)
}

// ValidateToken validates a session token and returns its claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return ValidateToken(s.jwtConfig, tokenString)
}

// loadUsersLocked reads the credential map from the store. A read
// failure falls back to the cached copy, or to the seeded default set
// when nothing has been cached yet.
func (s *Service) loadUsersLocked(ctx context.Context) map[string]string {
	value, ok, err := s.store.Get(ctx, store.UsersKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("read credential map, using fallback")
		if s.cache != nil {
			return s.cache
		}
		return defaultUsers()
	}
	if !ok {
		if s.cache != nil {
			return s.cache
		}
		return defaultUsers()
	}

	users := make(map[string]string)
	if err := json.Unmarshal(value, &users); err != nil {
		s.log.Warn().Err(err).Msg("decode credential map, using fallback")
		if s.cache != nil {
			return s.cache
		}
		return defaultUsers()
	}

	s.cache = users
	return users
}

// saveUsersLocked writes the credential map back. A write failure is
// logged and swallowed; the cache stays the temporary source of truth.
func (s *Service) saveUsersLocked(ctx context.Context, users map[string]string) {
	data, err := json.Marshal(users)
	if err != nil {
		s.log.Error().Err(err).Msg("encode credential map")
		return
	}
	if err := s.store.Put(ctx, store.UsersKey, data); err != nil {
		s.log.Warn().Err(err).Msg("persist credential map")
	}
}

var (
	defaultsOnce sync.Once
	defaults     map[string]string
)

// defaultUsers returns the seeded starter accounts, hashed once.
func defaultUsers() map[string]string {
	defaultsOnce.Do(func() {
		defaults = make(map[string]string)
		for username, password := range map[string]string{
			"parsnip_lover": "chaos123",
			"falcon_king":   "garden456",
			"chaos_queen":   "parsnip789",
		} {
			hash, err := HashPassword(password)
			if err != nil {
				continue
			}
			defaults[username] = hash
		}
	})

	users := make(map[string]string, len(defaults))
	for k, v := range defaults {
		users[k] = v
	}
	return users
}
