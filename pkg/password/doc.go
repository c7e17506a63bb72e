// Package password provides one-way password hashing and verification
// built on bcrypt with a configurable work factor.
package password
