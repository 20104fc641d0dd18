// Package middleware provides the HTTP middleware chain for the
// generation API.
//
// The chain, outermost first:
//
//	Recovery   — panics become logged 500s
//	RequestID  — every request gets an X-Request-ID (client value honored)
//	Logging    — one line per request; never bodies
//	Timeout    — server-side deadline on the request context
//	auth       — shared-token check and caller extraction (pkg/security/auth)
//
// Assembly happens in pkg/server. Each middleware is independent and
// usable on its own.
package middleware
