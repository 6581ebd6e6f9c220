// Package storage maps finkeeper's domain collections onto a namespaced
// key-value store.
//
// Adapter is the only place where storage failures are contained: reads of
// missing, corrupt or unreachable keys fall back to the caller's default and
// writes report false, with the cause logged. Manager builds the key scheme
// on top of it:
//
//	users                  []models.User
//	currentUser            models.Session
//	sessionSecret          []byte (session token signing key)
//	categories_<userId>    []models.Category
//	wallets_<userId>       []models.Wallet
//	movements_<userId>     []models.Movement
//
// Every key is stored with the adapter's namespace prefix ("finanzas_" by
// default). Read-modify-write cycles go through the Update* methods, which run
// inside the backend's atomic section.
package storage
