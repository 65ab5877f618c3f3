// Package session signs users in through the identity provider, issues their
// tokens and owns one workspace per signed-in user.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/cloudvault/service/internal/backend"
	"github.com/cloudvault/service/internal/identity"
	"github.com/cloudvault/service/internal/workspace"
)

// ErrAuth is returned when the identity provider rejects a sign-in or a token
// is invalid.
var ErrAuth = errors.New("authentication failed")

// ErrNoSession is returned when the user has no active session.
var ErrNoSession = errors.New("no active session")

// Session is the authenticated identity of a signed-in user.
type Session struct {
	UserID          string    `json:"userId"`
	DisplayName     string    `json:"displayName"`
	Email           string    `json:"email"`
	AvatarURL       string    `json:"avatarUrl"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Claims are the JWT claims issued at login.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Config holds token and workspace settings for the store.
type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
	Workspace workspace.Options
}

type entry struct {
	session   Session
	workspace *workspace.Workspace
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// Store holds the active sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	idp     identity.Provider
	backend backend.Backend
	cfg     Config
	log     *zap.Logger
	now     func() time.Time
}

// NewStore creates a Store.
func NewStore(idp identity.Provider, b backend.Backend, cfg Config, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Workspace.Logger == nil {
		cfg.Workspace.Logger = log
	}
	return &Store{
		sessions: make(map[string]*entry),
		idp:      idp,
		backend:  b,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Login signs the user in, persists the profile, hydrates a fresh workspace
// and issues a token. A previous session of the same user is replaced.
func (s *Store) Login(ctx context.Context, hint identity.Hint) (Session, string, error) {
	id, err := s.idp.SignIn(ctx, hint)
	if err != nil {
		return Session{}, "", fmt.Errorf("%w: %w", ErrAuth, err)
	}

	prof, err := s.backend.SaveProfile(ctx, backend.Profile{
		UserID:      id.ID,
		DisplayName: id.Name,
		Email:       id.Email,
		AvatarURL:   id.AvatarURL,
	})
	if err != nil {
		return Session{}, "", fmt.Errorf("save profile: %w", err)
	}

	ws, err := workspace.Open(ctx, id.ID, s.backend, s.cfg.Workspace)
	if err != nil {
		return Session{}, "", err
	}

	now := s.now()
	sess := Session{
		UserID:          prof.UserID,
		DisplayName:     prof.DisplayName,
		Email:           prof.Email,
		AvatarURL:       prof.AvatarURL,
		IsAuthenticated: true,
		CreatedAt:       now.UTC(),
	}
	token, err := s.issueToken(sess, now)
	if err != nil {
		return Session{}, "", fmt.Errorf("issue token: %w", err)
	}

	s.mu.Lock()
	s.pruneLocked(now)
	if old, ok := s.sessions[sess.UserID]; ok {
		old.workspace.Reset()
	}
	s.sessions[sess.UserID] = &entry{session: sess, workspace: ws, expiresAt: now.Add(s.cfg.TokenTTL)}
	s.mu.Unlock()

	s.log.Info("session started", zap.String("user_id", sess.UserID))
	return sess, token, nil
}

// Logout signs the user out and wipes their workspace.
func (s *Store) Logout(ctx context.Context, userID string) error {
	s.mu.Lock()
	e, ok := s.sessions[userID]
	delete(s.sessions, userID)
	s.mu.Unlock()
	if !ok {
		return ErrNoSession
	}

	e.workspace.Reset()
	if err := s.idp.SignOut(ctx, userID); err != nil {
		s.log.Warn("identity provider sign-out failed", zap.String("user_id", userID), zap.Error(err))
		return fmt.Errorf("%w: sign out: %w", ErrAuth, err)
	}
	s.log.Info("session ended", zap.String("user_id", userID))
	return nil
}

// Get returns the user's session and workspace. An expired session is
// discarded and reported as ErrNoSession.
func (s *Store) Get(userID string) (Session, *workspace.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[userID]
	if !ok {
		return Session{}, nil, ErrNoSession
	}
	if e.expired(s.now()) {
		s.evictLocked(userID, e)
		return Session{}, nil, ErrNoSession
	}
	return e.session, e.workspace, nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(s.now())
	return len(s.sessions)
}

func (s *Store) pruneLocked(now time.Time) {
	for id, e := range s.sessions {
		if e.expired(now) {
			s.evictLocked(id, e)
		}
	}
}

func (s *Store) evictLocked(userID string, e *entry) {
	delete(s.sessions, userID)
	e.workspace.Reset()
	s.log.Debug("session expired", zap.String("user_id", userID))
}

// UpdateAvatar stores a new avatar URL for the user.
func (s *Store) UpdateAvatar(ctx context.Context, userID, avatarURL string) (Session, error) {
	if _, _, err := s.Get(userID); err != nil {
		return Session{}, err
	}
	if err := s.backend.UpdateAvatar(ctx, userID, avatarURL); err != nil {
		return Session{}, fmt.Errorf("update avatar: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[userID]
	if !ok {
		return Session{}, ErrNoSession
	}
	e.session.AvatarURL = avatarURL
	return e.session, nil
}

// ParseToken validates a token and returns the user id it was issued to.
func (s *Store) ParseToken(raw string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: invalid or expired token", ErrAuth)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrAuth)
	}
	return claims.Subject, nil
}

// issueToken creates a signed JWT for the session.
func (s *Store) issueToken(sess Session, now time.Time) (string, error) {
	claims := Claims{
		Email: sess.Email,
		Name:  sess.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
