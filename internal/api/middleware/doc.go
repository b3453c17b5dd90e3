// Package middleware provides the gin middleware mounted in front of the
// catalog API: CORS and token-bucket rate limiting per client IP or global.
package middleware
