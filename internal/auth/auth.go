package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/berryray-tech/Berry-Ray-main/internal/model"
	"github.com/berryray-tech/Berry-Ray-main/internal/repo"
	"github.com/berryray-tech/Berry-Ray-main/pkg/memcache"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSession     = errors.New("session is missing, expired or revoked")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrAccountExists      = errors.New("an account with this email already exists")
)

const (
	DefaultSessionTTL = 12 * time.Hour
	minPasswordLen    = 8
)

type AccountStore interface {
	FindAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	CreateAccount(ctx context.Context, email string, passwordHash []byte) (*model.Account, error)
}

type Config struct {
	Secret     []byte
	Issuer     string
	SessionTTL time.Duration
	BcryptCost int
}

// Session is an authenticated admin-console session.
type Session struct {
	ID        string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service signs users in with a password and tracks the sessions it issued.
// A token is only honoured while its session id is still registered.
type Service struct {
	store    AccountStore
	cfg      Config
	sessions *memcache.TTLStore[Session]
	now      func() time.Time
	log      *zerolog.Logger

	mu        sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

func NewService(store AccountStore, cfg Config, log *zerolog.Logger) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("auth secret cannot be empty")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	s := &Service{
		store:     store,
		cfg:       cfg,
		sessions:  memcache.NewTTLStore[Session](),
		now:       time.Now,
		log:       log,
		listeners: make(map[int]Listener),
	}
	return s, nil
}

func (s *Service) withClock(now func() time.Time) *Service {
	s.now = now
	s.sessions.WithClock(now)
	return s
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword enforces the minimum length and returns the bcrypt hash.
// A zero cost means bcrypt.DefaultCost.
func HashPassword(password []byte, cost int) ([]byte, error) {
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword(password, cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// Register creates a password account.
func (s *Service) Register(ctx context.Context, email, password string) (*model.Account, error) {
	hash, err := HashPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	acc, err := s.store.CreateAccount(ctx, NormalizeEmail(email), hash)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, ErrAccountExists
	}
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	acc, err := s.store.FindAccountByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repo.ErrNoRows) || (err == nil && acc == nil) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	sess, err := s.issue(acc.ID.String(), acc.Email)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", sess.UserID).Str("session_id", sess.ID).Msg("signed in")
	s.emit(ctx, Event{Type: SignedIn, Session: sess})
	return sess, nil
}

// GetSession returns the live session behind token, or nil when there is none.
func (s *Service) GetSession(_ context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	c, err := s.parse(token)
	if err != nil {
		return nil, nil
	}
	sess, ok := s.sessions.Peek(c.ID)
	if !ok || sess.Token != token {
		return nil, nil
	}
	return &sess, nil
}

// Refresh swaps a live session for a new one. The old token stops working.
func (s *Service) Refresh(ctx context.Context, token string) (*Session, error) {
	old, _ := s.GetSession(ctx, token)
	if old == nil {
		return nil, ErrInvalidSession
	}
	s.sessions.Delete(old.ID)

	sess, err := s.issue(old.UserID, old.Email)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, Event{Type: TokenRefreshed, Session: sess})
	return sess, nil
}

// SignOut revokes the session behind token. Signing out twice is not an error.
func (s *Service) SignOut(ctx context.Context, token string) error {
	sess, _ := s.GetSession(ctx, token)
	if sess == nil {
		return nil
	}
	if _, ok := s.sessions.Consume(sess.ID); !ok {
		return nil
	}
	s.log.Info().Str("user_id", sess.UserID).Str("session_id", sess.ID).Msg("signed out")
	s.emit(ctx, Event{Type: SignedOut, Session: sess})
	return nil
}

func (s *Service) issue(userID, email string) (*Session, error) {
	if n := s.sessions.Sweep(); n > 0 {
		s.log.Debug().Int("expired", n).Msg("dropped expired sessions")
	}

	now := s.now()
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     email,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        sess.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	})
	signed, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	sess.Token = signed

	s.sessions.Set(sess.ID, sess, s.cfg.SessionTTL)
	return &sess, nil
}

func (s *Service) parse(token string) (*claims, error) {
	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (interface{}, error) {
		return s.cfg.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || c.ID == "" {
		return nil, ErrInvalidSession
	}
	return c, nil
}
