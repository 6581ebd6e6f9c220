// Package common defines sentinel errors and small helpers shared by the
// finkeeper storage, auth and service layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Storage errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("concurrent modification, retry limit exceeded")

	// Auth errors.
	ErrNoStrategy       = errors.New("no authentication strategy configured")
	ErrMissingFields    = errors.New("all fields are required")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidCode      = errors.New("invalid verification code")

	// Category errors.
	ErrInvalidCategory  = errors.New("category name and type are required")
	ErrCategoryNotFound = errors.New("category not found")

	// Ledger errors.
	ErrInvalidWallet     = errors.New("wallet name is required")
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrWalletInUse       = errors.New("wallet has recorded movements")
	ErrInvalidMovement   = errors.New("invalid movement")
	ErrMovementNotFound  = errors.New("movement not found")
	ErrInsufficientFunds = errors.New("insufficient balance in wallet")
)
