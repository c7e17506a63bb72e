// Package pg manages the PostgreSQL connection pool, health checking, and
// schema migrations for the service's durable stores.
package pg
