// Package observability defines the tracing, metrics and logging seam used by
// the forge pipeline and the provider clients. Components depend only on the
// small interfaces here; the default implementation in the slogobs subpackage
// routes everything through log/slog.
//
// A nil observer is always acceptable: callers that do not care about
// observability pass nothing and components fall back to no-ops.
package observability
