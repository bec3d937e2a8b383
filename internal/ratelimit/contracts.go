// Package ratelimit provides a per-key token bucket used to bound how often a
// single courier connection may push location reports.
package ratelimit

// Limiter is a rate limiter
type Limiter interface {
	Allow(key string) bool
}
