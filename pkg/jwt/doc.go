// Package jwt issues and verifies the signed bearer tokens clients present
// to authenticate requests. Tokens are HS256-signed and carry the account
// id, username, and role alongside the registered temporal claims.
package jwt
