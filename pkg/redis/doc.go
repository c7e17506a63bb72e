// Package redis connects to the Redis server backing the login rate limiter.
//
// Connect retries until the server answers a ping or the attempt budget runs
// out; Healthcheck wraps the same ping as a readiness probe closure.
package redis
