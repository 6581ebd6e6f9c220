// Package services holds the finkeeper application services the CLI
// drives: authentication and session handling (AuthManager) and the per-user
// ledger managers for categories, wallets and movements.
//
// Every manager works on the storage.Manager key space and performs its
// read-modify-write cycles through the storage Update* methods, so each
// operation either lands completely or not at all.
package services
