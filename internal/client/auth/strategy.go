package auth

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/finkeeper/internal/client/models"
)

// Strategy names, persisted in User.AuthStrategy.
const (
	NameEmailPassword = "email-password"
	NameTwoFactor     = "two-factor-auth"
	NameGoogle        = "google-auth"
)

// Credentials is the login payload. Each strategy reads the fields it needs.
type Credentials struct {
	Email    string
	Password string
	Code     string
	Token    string
}

// RegistrationData is the sign-up payload.
type RegistrationData struct {
	Name     string
	Email    string
	Password string
	Token    string
}

// Strategy is one way of proving identity.
type Strategy interface {
	// Authenticate returns the matching user, or (nil, nil) when the
	// credentials are malformed or do not match.
	Authenticate(ctx context.Context, creds Credentials) (*models.User, error)
	// Register validates data and appends a new user.
	Register(ctx context.Context, data RegistrationData) (*models.User, error)
	ValidateCredentials(creds Credentials) bool
	Name() string
}

// UserStore is the part of storage.Manager the strategies use.
type UserStore interface {
	GetUsers(ctx context.Context) []models.User
	UpdateUsers(ctx context.Context, fn func(users []models.User) ([]models.User, error)) error
}

// NextUserID returns the lowest positive integer not used as an id.
func NextUserID(users []models.User) string {
	taken := make(map[string]struct{}, len(users))
	for _, u := range users {
		taken[u.ID] = struct{}{}
	}
	next := 1
	for {
		id := strconv.Itoa(next)
		if _, ok := taken[id]; !ok {
			return id
		}
		next++
	}
}

func findByEmail(users []models.User, email string) int {
	for i, u := range users {
		if u.Email == email {
			return i
		}
	}
	return -1
}

func findByID(users []models.User, id string) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
