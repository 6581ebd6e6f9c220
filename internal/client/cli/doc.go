// Package cli provides the interactive finkeeper command-line client.
//
// It wires configuration, the key-value backend, the storage manager, the
// configured authentication strategy and the ledger services, and runs a
// read-eval-print loop on top of them. Typical flow: register, log in, record
// income and expenses against wallets, then review movements and summaries.
//
// The session lives in storage, so a later run starts already logged in
// until the session token expires or the user logs out.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and the command handlers for details.
package cli
