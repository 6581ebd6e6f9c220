// Package auth holds the pluggable authentication strategies and the
// session token helpers.
//
// A Strategy authenticates and registers users against the users collection.
// Three implementations exist:
//
//   - EmailPassword ("email-password"), the default.
//   - TwoFactor ("two-factor-auth"): email and password plus a TOTP code.
//   - Google ("google-auth"): a Google ID token verified by a TokenVerifier.
//
// Strategies never touch the session; services.AuthManager does.
package auth
