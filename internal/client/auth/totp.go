package auth

import (
	"encoding/base32"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// RFC 6238 parameters shared with common authenticator apps.
const (
	totpPeriod     = 30
	totpSkewSteps  = 1
	totpSecretSize = 20
	totpIssuer     = "finkeeper"
)

var totpOpts = totp.ValidateOpts{
	Period:    totpPeriod,
	Skew:      totpSkewSteps,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// TwoFactorSetup is what a user needs to enrol an authenticator app.
type TwoFactorSetup struct {
	Secret string
	URL    string
}

// totpKey builds the enrolment key for account. A nil secret generates a
// fresh one.
func totpKey(account string, secret []byte) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: account,
		Period:      totpPeriod,
		SecretSize:  totpSecretSize,
		Secret:      secret,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
}

// newTOTPSecret returns a fresh base32 secret without padding.
func newTOTPSecret(account string) (string, error) {
	key, err := totpKey(account, nil)
	if err != nil {
		return "", err
	}
	return key.Secret(), nil
}

// totpSetup returns the enrolment data for an existing secret.
func totpSetup(account, secret string) (*TwoFactorSetup, error) {
	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).
		DecodeString(strings.ToUpper(strings.TrimRight(secret, "=")))
	if err != nil {
		return nil, fmt.Errorf("invalid totp secret: %w", err)
	}
	key, err := totpKey(account, raw)
	if err != nil {
		return nil, err
	}
	return &TwoFactorSetup{Secret: key.Secret(), URL: key.URL()}, nil
}

// totpCode computes the code for the 30s step containing t.
func totpCode(secret string, t time.Time) (string, error) {
	code, err := totp.GenerateCodeCustom(secret, t, totpOpts)
	if err != nil {
		return "", fmt.Errorf("invalid totp secret: %w", err)
	}
	return code, nil
}

// verifyTOTP accepts the code for the current step or one step either side.
func verifyTOTP(secret, code string, now time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, now, totpOpts)
	return err == nil && ok
}
