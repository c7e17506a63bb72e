// Package auth implements the account identity and credential state machine:
// registration, password and OAuth login, password lifecycle, email
// verification, provider linking, and account deletion.
//
// Accounts converge multiple authentication paths onto a single record. The
// service guarantees that no sequence of operations strands an account
// without a usable login method: an account either has a password or at
// least one linked OAuth provider, and unlinking is refused when it would
// remove the last one.
//
// Storage is abstracted behind the AccountStore and OAuthLinkStore
// interfaces; the authpg package provides the PostgreSQL implementation.
package auth
