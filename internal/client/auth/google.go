package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/finkeeper/internal/client/models"
	"github.com/dmitrijs2005/finkeeper/internal/common"
	"google.golang.org/api/idtoken"
)

// GoogleProfile is the identity extracted from a verified ID token.
type GoogleProfile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// TokenVerifier validates a Google ID token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*GoogleProfile, error)
}

// IDTokenVerifier checks tokens against Google's public keys for one OAuth
// client id.
type IDTokenVerifier struct {
	validator *idtoken.Validator
	audience  string
}

func NewIDTokenVerifier(ctx context.Context, clientID string) (*IDTokenVerifier, error) {
	v, err := idtoken.NewValidator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create id token validator: %w", err)
	}
	return &IDTokenVerifier{validator: v, audience: clientID}, nil
}

func (v *IDTokenVerifier) Verify(ctx context.Context, token string) (*GoogleProfile, error) {
	payload, err := v.validator.Validate(ctx, token, v.audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	claim := func(name string) string {
		s, _ := payload.Claims[name].(string)
		return s
	}
	return &GoogleProfile{
		Subject: payload.Subject,
		Email:   claim("email"),
		Name:    claim("name"),
		Picture: claim("picture"),
	}, nil
}

// Google signs users in with a Google account, creating the local user on
// first sign-in.
type Google struct {
	users    UserStore
	verifier TokenVerifier
	now      func() time.Time
}

func NewGoogle(users UserStore, verifier TokenVerifier) *Google {
	return &Google{users: users, verifier: verifier, now: time.Now}
}

func (s *Google) Name() string { return NameGoogle }

func (s *Google) ValidateCredentials(creds Credentials) bool {
	return creds.Token != ""
}

// Authenticate finds the user by the token's email, or creates one.
func (s *Google) Authenticate(ctx context.Context, creds Credentials) (*models.User, error) {
	if !s.ValidateCredentials(creds) {
		return nil, nil
	}
	profile, err := s.verifier.Verify(ctx, creds.Token)
	if err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, nil
	}

	var user models.User
	err = s.users.UpdateUsers(ctx, func(users []models.User) ([]models.User, error) {
		if i := findByEmail(users, profile.Email); i >= 0 {
			users[i].GoogleID = profile.Subject
			users[i].GoogleConnected = true
			user = users[i]
			return users, nil
		}
		user = s.newUser(users, profile)
		return append(users, user), nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates a Google-linked user. It fails when the email is taken.
func (s *Google) Register(ctx context.Context, data RegistrationData) (*models.User, error) {
	if data.Token == "" {
		return nil, common.ErrMissingFields
	}
	profile, err := s.verifier.Verify(ctx, data.Token)
	if err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, common.ErrInvalidEmail
	}

	var user models.User
	err = s.users.UpdateUsers(ctx, func(users []models.User) ([]models.User, error) {
		if findByEmail(users, profile.Email) >= 0 {
			return nil, common.ErrEmailRegistered
		}
		if data.Name != "" {
			profile.Name = data.Name
		}
		user = s.newUser(users, profile)
		return append(users, user), nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Disconnect unlinks the Google account from userID.
func (s *Google) Disconnect(ctx context.Context, userID string) error {
	return s.users.UpdateUsers(ctx, func(users []models.User) ([]models.User, error) {
		i := findByID(users, userID)
		if i < 0 {
			return nil, common.ErrUserNotFound
		}
		users[i].GoogleID = ""
		users[i].GoogleConnected = false
		return users, nil
	})
}

func (s *Google) newUser(users []models.User, p *GoogleProfile) models.User {
	name := p.Name
	if name == "" {
		name = p.Email
	}
	return models.User{
		ID:              NextUserID(users),
		Name:            name,
		Email:           p.Email,
		CreatedAt:       s.now().UTC(),
		AuthStrategy:    NameGoogle,
		Avatar:          p.Picture,
		GoogleID:        p.Subject,
		GoogleConnected: true,
	}
}
