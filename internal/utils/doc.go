// Package utils provides shared low-level helpers used throughout the forge
// internals: a synchronous JSON-over-HTTP POST helper used by every provider
// client, and a generic pointer helper.
//
// Key entry points: [DoPostSync] for JSON round-trips and [Ptr] for turning
// values into pointers.
package utils
