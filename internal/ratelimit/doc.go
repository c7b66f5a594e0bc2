// Package ratelimit provides the sliding-window request limiter used for
// image search traffic.
package ratelimit
