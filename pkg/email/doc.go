// Package email delivers transactional mail through a pluggable sender.
// Production uses Postmark; development writes messages to disk. The Mailer
// type composes the account lifecycle messages (verification, password
// reset, password changed) on top of a sender.
package email
