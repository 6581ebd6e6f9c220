package auth

import (
	"context"
	"time"

	"github.com/dmitrijs2005/finkeeper/internal/client/models"
	"github.com/dmitrijs2005/finkeeper/internal/common"
	"github.com/dmitrijs2005/finkeeper/internal/cryptox"
)

// EmailPassword authenticates with an email address and a password.
type EmailPassword struct {
	users  UserStore
	hasher cryptox.Hasher
	now    func() time.Time
}

func NewEmailPassword(users UserStore, hasher cryptox.Hasher) *EmailPassword {
	return &EmailPassword{users: users, hasher: hasher, now: time.Now}
}

func (s *EmailPassword) Name() string { return NameEmailPassword }

func (s *EmailPassword) ValidateCredentials(creds Credentials) bool {
	return creds.Email != "" && creds.Password != "" && ValidateEmail(creds.Email) == nil
}

func (s *EmailPassword) Authenticate(ctx context.Context, creds Credentials) (*models.User, error) {
	if !s.ValidateCredentials(creds) {
		return nil, nil
	}
	return matchPassword(s.hasher, s.users.GetUsers(ctx), creds)
}

func (s *EmailPassword) Register(ctx context.Context, data RegistrationData) (*models.User, error) {
	return registerWithPassword(ctx, s.users, s.hasher, data, func(u *models.User) error {
		u.AuthStrategy = NameEmailPassword
		u.CreatedAt = s.now().UTC()
		return nil
	})
}

// matchPassword finds the user whose email matches and whose stored hash
// verifies the password. Users without a password never match.
func matchPassword(hasher cryptox.Hasher, users []models.User, creds Credentials) (*models.User, error) {
	for _, u := range users {
		if u.Email != creds.Email || u.Password == "" {
			continue
		}
		ok, err := hasher.Verify(creds.Password, u.Password)
		if err != nil {
			return nil, err
		}
		if ok {
			return &u, nil
		}
	}
	return nil, nil
}

// registerWithPassword validates data, hashes the password and appends the
// user under the lowest free id. decorate fills strategy-specific fields.
func registerWithPassword(ctx context.Context, users UserStore, hasher cryptox.Hasher, data RegistrationData, decorate func(u *models.User) error) (*models.User, error) {
	if err := ValidateRegistration(data); err != nil {
		return nil, err
	}

	hash, err := hasher.Hash(data.Password)
	if err != nil {
		return nil, err
	}

	var created models.User
	err = users.UpdateUsers(ctx, func(all []models.User) ([]models.User, error) {
		if findByEmail(all, data.Email) >= 0 {
			return nil, common.ErrEmailRegistered
		}
		created = models.User{
			ID:       NextUserID(all),
			Name:     data.Name,
			Email:    data.Email,
			Password: hash,
		}
		if err := decorate(&created); err != nil {
			return nil, err
		}
		return append(all, created), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}
