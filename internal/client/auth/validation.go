package auth

import (
	"errors"

	"github.com/dmitrijs2005/finkeeper/internal/client/models"
	"github.com/dmitrijs2005/finkeeper/internal/common"
	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 6

type registrationFields struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,simpleemail"`
	Password string `validate:"required,min=6"`
}

// ValidateRegistration checks data in a fixed order and reports the first
// class of problem found: missing fields, then a short password, then a
// malformed email.
func ValidateRegistration(data RegistrationData) error {
	err := models.Validator().Struct(registrationFields{
		Name:     data.Name,
		Email:    data.Email,
		Password: data.Password,
	})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var short, badEmail bool
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			return common.ErrMissingFields
		case "min":
			short = true
		case "simpleemail":
			badEmail = true
		}
	}
	if short {
		return common.ErrPasswordTooShort
	}
	if badEmail {
		return common.ErrInvalidEmail
	}
	return err
}

// ValidatePassword applies the registration password rule on its own.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return common.ErrPasswordTooShort
	}
	return nil
}

// ValidateEmail applies the registration email rule on its own.
func ValidateEmail(email string) error {
	if !models.EmailPattern.MatchString(email) {
		return common.ErrInvalidEmail
	}
	return nil
}
