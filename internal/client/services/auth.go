package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/finkeeper/internal/client/auth"
	"github.com/dmitrijs2005/finkeeper/internal/client/models"
	"github.com/dmitrijs2005/finkeeper/internal/common"
	"github.com/dmitrijs2005/finkeeper/internal/cryptox"
	"github.com/dmitrijs2005/finkeeper/internal/logging"
)

// SessionStore is the part of storage.Manager the AuthManager uses.
type SessionStore interface {
	auth.UserStore
	FindUser(ctx context.Context, id string) *models.User
	GetSession(ctx context.Context) *models.Session
	SetCurrentUser(ctx context.Context, user models.User, token string) bool
	ClearSession(ctx context.Context) bool
	SessionSecret(ctx context.Context) ([]byte, error)
	DeleteUserData(ctx context.Context, userID string) bool
}

// RegistrationHook runs after a user has been registered, e.g. to seed
// starter data. Its failure is logged and does not undo the registration.
type RegistrationHook func(ctx context.Context, user *models.User) error

// AuthManager fronts the active authentication strategy and owns the
// session.
type AuthManager struct {
	store      SessionStore
	strategy   auth.Strategy
	hasher     cryptox.Hasher
	logger     logging.Logger
	sessionTTL time.Duration
	hooks      []RegistrationHook
}

type AuthOption func(*AuthManager)

func WithStrategy(s auth.Strategy) AuthOption {
	return func(m *AuthManager) { m.strategy = s }
}

func WithHasher(h cryptox.Hasher) AuthOption {
	return func(m *AuthManager) { m.hasher = h }
}

func WithLogger(l logging.Logger) AuthOption {
	return func(m *AuthManager) { m.logger = l }
}

// WithSessionTTL sets how long a login stays valid. Zero means no expiry.
func WithSessionTTL(d time.Duration) AuthOption {
	return func(m *AuthManager) { m.sessionTTL = d }
}

func WithRegistrationHook(h RegistrationHook) AuthOption {
	return func(m *AuthManager) { m.hooks = append(m.hooks, h) }
}

func NewAuthManager(store SessionStore, opts ...AuthOption) *AuthManager {
	m := &AuthManager{
		store:      store,
		hasher:     cryptox.NewArgon2Hasher(nil),
		logger:     logging.Discard(),
		sessionTTL: 30 * 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "auth")
	return m
}

// SetStrategy swaps the active strategy.
func (m *AuthManager) SetStrategy(s auth.Strategy) {
	m.strategy = s
}

// Strategy returns the active strategy, or nil.
func (m *AuthManager) Strategy() auth.Strategy {
	return m.strategy
}

// Login authenticates with the active strategy and starts a session. Any
// failure other than a missing strategy yields (nil, nil), so callers cannot
// tell an unknown email from a wrong password.
func (m *AuthManager) Login(ctx context.Context, creds auth.Credentials) (*models.User, error) {
	if m.strategy == nil {
		return nil, common.ErrNoStrategy
	}

	user, err := m.strategy.Authenticate(ctx, creds)
	if err != nil {
		m.logger.Warn(ctx, "login failed", "strategy", m.strategy.Name(), "error", err)
		return nil, nil
	}
	if user == nil {
		m.logger.Info(ctx, "login rejected", "strategy", m.strategy.Name())
		return nil, nil
	}

	token, err := m.issueToken(ctx, user.ID)
	if err != nil {
		m.logger.Error(ctx, "failed to issue session token", "user_id", user.ID, "error", err)
		return nil, nil
	}
	if !m.store.SetCurrentUser(ctx, *user, token) {
		m.logger.Warn(ctx, "session was not persisted", "user_id", user.ID)
	}

	m.logger.Info(ctx, "user logged in", "user_id", user.ID, "strategy", m.strategy.Name())
	return user, nil
}

// Register creates a user with the active strategy. Validation errors are
// returned unchanged. Registration hooks run afterwards.
func (m *AuthManager) Register(ctx context.Context, data auth.RegistrationData) (*models.User, error) {
	if m.strategy == nil {
		return nil, common.ErrNoStrategy
	}

	user, err := m.strategy.Register(ctx, data)
	if err != nil {
		m.logger.Warn(ctx, "registration failed", "strategy", m.strategy.Name(), "error", err)
		return nil, err
	}

	for _, hook := range m.hooks {
		if err := hook(ctx, user); err != nil {
			m.logger.Warn(ctx, "registration hook failed", "user_id", user.ID, "error", err)
		}
	}

	m.logger.Info(ctx, "user registered", "user_id", user.ID, "strategy", m.strategy.Name())
	return user, nil
}

// Logout ends the session. It is safe to call when logged out.
func (m *AuthManager) Logout(ctx context.Context) {
	m.store.ClearSession(ctx)
}

// CurrentUser returns the logged-in user read fresh from storage, or nil.
// A session whose token is expired, forged or issued for another user is
// cleared.
func (m *AuthManager) CurrentUser(ctx context.Context) *models.User {
	session := m.store.GetSession(ctx)
	if session == nil {
		return nil
	}

	if err := m.checkToken(ctx, session); err != nil {
		m.logger.Info(ctx, "discarding session", "user_id", session.UserID, "reason", err)
		m.store.ClearSession(ctx)
		return nil
	}

	return m.store.FindUser(ctx, session.UserID)
}

func (m *AuthManager) IsAuthenticated(ctx context.Context) bool {
	return m.CurrentUser(ctx) != nil
}

// UpdateProfile applies the non-nil fields of upd to userID, validating them
// the way registration does.
func (m *AuthManager) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, common.ErrMissingFields
	}
	if upd.Email != nil {
		if err := auth.ValidateEmail(*upd.Email); err != nil {
			return nil, err
		}
	}
	var hash string
	if upd.Password != nil {
		if err := auth.ValidatePassword(*upd.Password); err != nil {
			return nil, err
		}
		h, err := m.hasher.Hash(*upd.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	var updated models.User
	err := m.store.UpdateUsers(ctx, func(users []models.User) ([]models.User, error) {
		idx := -1
		for i, u := range users {
			if u.ID == userID {
				idx = i
			} else if upd.Email != nil && u.Email == *upd.Email {
				return nil, common.ErrEmailRegistered
			}
		}
		if idx < 0 {
			return nil, common.ErrUserNotFound
		}

		u := &users[idx]
		if upd.Name != nil {
			u.Name = *upd.Name
		}
		if upd.Email != nil {
			u.Email = *upd.Email
		}
		if upd.Avatar != nil {
			u.Avatar = *upd.Avatar
		}
		if hash != "" {
			u.Password = hash
		}
		updated = *u
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAccount removes the user and everything scoped to them, and ends
// the session if it belongs to that user.
func (m *AuthManager) DeleteAccount(ctx context.Context, userID string) error {
	err := m.store.UpdateUsers(ctx, func(users []models.User) ([]models.User, error) {
		for i, u := range users {
			if u.ID == userID {
				return append(users[:i], users[i+1:]...), nil
			}
		}
		return nil, common.ErrUserNotFound
	})
	if err != nil {
		return err
	}

	if !m.store.DeleteUserData(ctx, userID) {
		m.logger.Warn(ctx, "user data was not fully removed", "user_id", userID)
	}
	if s := m.store.GetSession(ctx); s != nil && s.UserID == userID {
		m.store.ClearSession(ctx)
	}

	m.logger.Info(ctx, "account deleted", "user_id", userID)
	return nil
}

func (m *AuthManager) issueToken(ctx context.Context, userID string) (string, error) {
	secret, err := m.store.SessionSecret(ctx)
	if err != nil {
		return "", err
	}
	return auth.GenerateToken(userID, secret, m.sessionTTL)
}

func (m *AuthManager) checkToken(ctx context.Context, s *models.Session) error {
	secret, err := m.store.SessionSecret(ctx)
	if err != nil {
		return err
	}
	uid, err := auth.GetUserIDFromToken(s.Token, secret)
	if err != nil {
		return err
	}
	if uid != s.UserID {
		return common.ErrInvalidToken
	}
	return nil
}
