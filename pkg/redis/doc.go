// Package redis provides the Redis connection used by the optional token
// revocation list.
//
// Connect retries until the server is reachable or the attempts run out,
// and Healthcheck exposes a ping probe. Redis is entirely optional for this
// service; when no REDIS_URL is configured the application runs fully
// stateless.
package redis
