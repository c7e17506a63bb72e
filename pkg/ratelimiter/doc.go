// Package ratelimiter implements token bucket rate limiting with pluggable
// storage backends. The login and registration paths consume it to throttle
// credential guessing; an in-memory store serves single-process deployments
// and a Redis store coordinates limits across replicas.
package ratelimiter
