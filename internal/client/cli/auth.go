package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/finkeeper/internal/client/auth"
	"github.com/dmitrijs2005/finkeeper/internal/client/models"
	"github.com/dmitrijs2005/finkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errLoginFailed = errors.New("invalid credentials")

// Register prompts for the data the active strategy needs and creates the
// account. Google sign-up only asks for an ID token.
func (a *App) Register(ctx context.Context) error {
	var data auth.RegistrationData

	if a.strategyName() == auth.NameGoogle {
		token, err := getSimpleText(a.reader, "Paste your Google ID token", a.out)
		if err != nil {
			return err
		}
		data.Token = token
	} else {
		name, err := getSimpleText(a.reader, "Enter name", a.out)
		if err != nil {
			return err
		}
		email, err := getSimpleText(a.reader, "Enter email", a.out)
		if err != nil {
			return err
		}
		password, err := getPassword(a.reader, "Enter password", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(password)

		data = auth.RegistrationData{Name: name, Email: email, Password: string(password)}
	}

	u, err := a.auth.Register(ctx, data)
	if err != nil {
		return err
	}

	a.printf("Account created for %s. You can log in now.\n", u.Email)
	if tf, ok := a.auth.Strategy().(*auth.TwoFactor); ok {
		return a.showTwoFactorSetup(ctx, tf, u.ID)
	}
	return nil
}

// Login prompts for the credentials of the active strategy. Failures are
// reported without saying which part was wrong.
func (a *App) Login(ctx context.Context) error {
	var creds auth.Credentials

	if a.strategyName() == auth.NameGoogle {
		token, err := getSimpleText(a.reader, "Paste your Google ID token", a.out)
		if err != nil {
			return err
		}
		creds.Token = token
	} else {
		email, err := getSimpleText(a.reader, "Enter email", a.out)
		if err != nil {
			return err
		}
		password, err := getPassword(a.reader, "Enter password", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(password)
		creds = auth.Credentials{Email: email, Password: string(password)}

		if a.strategyName() == auth.NameTwoFactor {
			code, err := getSimpleText(a.reader, "Enter the 6-digit code from your authenticator app", a.out)
			if err != nil {
				return err
			}
			creds.Code = code
		}
	}

	u, err := a.auth.Login(ctx, creds)
	if err != nil {
		return err
	}
	if u == nil {
		return errLoginFailed
	}

	a.printf("Welcome, %s!\n", u.Name)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	a.println("Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	printUser(a.out, u)
	return nil
}

// Profile edits name, email, avatar and optionally the password. Blank
// answers keep the current value.
func (a *App) Profile(ctx context.Context) error {
	u, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	printUser(a.out, u)

	name, err := getSimpleText(a.reader, "New name (blank keeps current)", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "New email (blank keeps current)", a.out)
	if err != nil {
		return err
	}
	avatar, err := getSimpleText(a.reader, "New avatar (blank keeps current)", a.out)
	if err != nil {
		return err
	}
	upd := models.ProfileUpdate{Name: optional(name), Email: optional(email), Avatar: optional(avatar)}

	if u.AuthStrategy != auth.NameGoogle {
		change, err := getSimpleText(a.reader, "Change password? (y/N)", a.out)
		if err != nil {
			return err
		}
		if strings.EqualFold(change, "y") {
			password, err := getPassword(a.reader, "Enter new password", a.out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)
			pw := string(password)
			upd.Password = &pw
		}
	}

	if _, err := a.auth.UpdateProfile(ctx, u.ID, upd); err != nil {
		return err
	}
	a.println("Profile updated")
	return nil
}

// TwoFactor turns authenticator codes on or off for the current user.
// Turning it off requires a valid code.
func (a *App) TwoFactor(ctx context.Context, args []string) error {
	tf, ok := a.auth.Strategy().(*auth.TwoFactor)
	if !ok {
		return errors.New("two-factor authentication is not enabled in the configuration")
	}
	u, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: twofactor on|off")
	}

	switch args[0] {
	case "on":
		return a.showTwoFactorSetup(ctx, tf, u.ID)
	case "off":
		code, err := getSimpleText(a.reader, "Enter the current code to confirm", a.out)
		if err != nil {
			return err
		}
		if err := tf.VerifyCode(ctx, u.ID, code); err != nil {
			return err
		}
		if err := tf.DisableTwoFactor(ctx, u.ID); err != nil {
			return err
		}
		a.println("Two-factor authentication disabled")
		return nil
	default:
		return errors.New("usage: twofactor on|off")
	}
}

func (a *App) showTwoFactorSetup(ctx context.Context, tf *auth.TwoFactor, userID string) error {
	setup, err := tf.EnableTwoFactor(ctx, userID)
	if err != nil {
		return err
	}
	a.println("Add this key to your authenticator app:")
	a.printf("  secret: %s\n  url:    %s\n", setup.Secret, setup.URL)
	return nil
}

// DeleteAccount removes the user and all their data after confirmation.
func (a *App) DeleteAccount(ctx context.Context) error {
	u, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	answer, err := getSimpleText(a.reader, "Type 'yes' to delete your account and all its data", a.out)
	if err != nil {
		return err
	}
	if answer != "yes" {
		a.println("Cancelled")
		return nil
	}

	if err := a.auth.DeleteAccount(ctx, u.ID); err != nil {
		return err
	}
	a.println("Account deleted")
	return nil
}

func (a *App) strategyName() string {
	if s := a.auth.Strategy(); s != nil {
		return s.Name()
	}
	return ""
}
