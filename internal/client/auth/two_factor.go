package auth

import (
	"context"
	"time"

	"github.com/dmitrijs2005/finkeeper/internal/client/models"
	"github.com/dmitrijs2005/finkeeper/internal/common"
	"github.com/dmitrijs2005/finkeeper/internal/cryptox"
)

// TwoFactor requires a password and a TOTP code from an enrolled
// authenticator app.
type TwoFactor struct {
	users  UserStore
	hasher cryptox.Hasher
	now    func() time.Time
}

func NewTwoFactor(users UserStore, hasher cryptox.Hasher) *TwoFactor {
	return &TwoFactor{users: users, hasher: hasher, now: time.Now}
}

func (s *TwoFactor) Name() string { return NameTwoFactor }

func (s *TwoFactor) ValidateCredentials(creds Credentials) bool {
	return creds.Email != "" && creds.Password != "" && creds.Code != "" && ValidateEmail(creds.Email) == nil
}

// Authenticate succeeds only for users with two-factor enabled whose
// password and current code both match.
func (s *TwoFactor) Authenticate(ctx context.Context, creds Credentials) (*models.User, error) {
	if !s.ValidateCredentials(creds) {
		return nil, nil
	}
	u, err := matchPassword(s.hasher, s.users.GetUsers(ctx), creds)
	if err != nil || u == nil {
		return nil, err
	}
	if !u.TwoFactorEnabled || u.TwoFactorSecret == "" {
		return nil, nil
	}
	if !verifyTOTP(u.TwoFactorSecret, creds.Code, s.now()) {
		return nil, nil
	}
	return u, nil
}

// Register creates the user with a fresh TOTP secret and two-factor
// enabled. The secret can be shown with EnableTwoFactor.
func (s *TwoFactor) Register(ctx context.Context, data RegistrationData) (*models.User, error) {
	return registerWithPassword(ctx, s.users, s.hasher, data, func(u *models.User) error {
		u.AuthStrategy = NameTwoFactor
		u.CreatedAt = s.now().UTC()
		secret, err := newTOTPSecret(u.Email)
		if err != nil {
			return err
		}
		u.TwoFactorEnabled = true
		u.TwoFactorSecret = secret
		return nil
	})
}

// EnableTwoFactor turns two-factor on for userID, keeping an existing secret
// or generating a new one, and returns the enrolment data.
func (s *TwoFactor) EnableTwoFactor(ctx context.Context, userID string) (*TwoFactorSetup, error) {
	var setup TwoFactorSetup
	err := s.users.UpdateUsers(ctx, func(users []models.User) ([]models.User, error) {
		i := findByID(users, userID)
		if i < 0 {
			return nil, common.ErrUserNotFound
		}
		if users[i].TwoFactorSecret == "" {
			secret, err := newTOTPSecret(users[i].Email)
			if err != nil {
				return nil, err
			}
			users[i].TwoFactorSecret = secret
		}
		st, err := totpSetup(users[i].Email, users[i].TwoFactorSecret)
		if err != nil {
			return nil, err
		}
		users[i].TwoFactorEnabled = true
		setup = *st
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return &setup, nil
}

// DisableTwoFactor turns two-factor off and forgets the secret.
func (s *TwoFactor) DisableTwoFactor(ctx context.Context, userID string) error {
	return s.users.UpdateUsers(ctx, func(users []models.User) ([]models.User, error) {
		i := findByID(users, userID)
		if i < 0 {
			return nil, common.ErrUserNotFound
		}
		users[i].TwoFactorEnabled = false
		users[i].TwoFactorSecret = ""
		return users, nil
	})
}

// VerifyCode checks code against the user's current TOTP secret.
func (s *TwoFactor) VerifyCode(ctx context.Context, userID, code string) error {
	for _, u := range s.users.GetUsers(ctx) {
		if u.ID != userID {
			continue
		}
		if !u.TwoFactorEnabled || !verifyTOTP(u.TwoFactorSecret, code, s.now()) {
			return common.ErrInvalidCode
		}
		return nil
	}
	return common.ErrUserNotFound
}
