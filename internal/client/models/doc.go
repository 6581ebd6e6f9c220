// Package models defines the finkeeper domain records persisted in the
// key-value store, the inputs the managers accept, and the shared validator.
//
// JSON field names follow the persisted camelCase layout.
package models
