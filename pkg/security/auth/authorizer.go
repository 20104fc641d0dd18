package auth

import (
	"context"
	"sync"
)

// Authorizer decides whether a caller may use the assistant on a page.
// The page identifier is passed through for hosts whose permissions are
// finer than space-level; implementations return *AuthorizationError on
// refusal.
type Authorizer interface {
	Authorize(ctx context.Context, caller Caller, spaceKey, pageID string) error
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, caller Caller, spaceKey, pageID string) error

// Authorize calls f.
func (f AuthorizerFunc) Authorize(ctx context.Context, caller Caller, spaceKey, pageID string) error {
	return f(ctx, caller, spaceKey, pageID)
}

// AllowAll returns an authorizer that permits every caller. It is the
// default when the host enforces its own space permissions upstream.
func AllowAll() Authorizer {
	return AuthorizerFunc(func(ctx context.Context, caller Caller, spaceKey, pageID string) error {
		return nil
	})
}

// DenyAll returns an authorizer that refuses every caller.
func DenyAll() Authorizer {
	return AuthorizerFunc(func(ctx context.Context, caller Caller, spaceKey, pageID string) error {
		return &AuthorizationError{
			Subject:  caller.Subject,
			SpaceKey: spaceKey,
			Reason:   "assistant access is disabled",
		}
	})
}

// Wildcard subject granting every caller access to a space.
const AnySubject = "*"

// SpaceList authorizes callers against a per-space subject list. A
// space with no entry refuses everyone; listing AnySubject opens the
// space to all callers.
type SpaceList struct {
	mu     sync.RWMutex
	spaces map[string]map[string]struct{}
}

// NewSpaceList creates an empty space list. Until spaces are granted
// it behaves like DenyAll.
func NewSpaceList() *SpaceList {
	return &SpaceList{
		spaces: make(map[string]map[string]struct{}),
	}
}

// Grant allows the given subjects to use the assistant in a space.
func (l *SpaceList) Grant(spaceKey string, subjects ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	set, ok := l.spaces[spaceKey]
	if !ok {
		set = make(map[string]struct{})
		l.spaces[spaceKey] = set
	}
	for _, subject := range subjects {
		set[subject] = struct{}{}
	}
}

// Revoke removes a subject's access to a space.
func (l *SpaceList) Revoke(spaceKey, subject string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if set, ok := l.spaces[spaceKey]; ok {
		delete(set, subject)
	}
}

// Authorize implements the Authorizer interface. Access is granted per
// space; the page identifier is accepted for interface compatibility
// and not consulted.
func (l *SpaceList) Authorize(ctx context.Context, caller Caller, spaceKey, pageID string) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	set, ok := l.spaces[spaceKey]
	if !ok {
		return &AuthorizationError{
			Subject:  caller.Subject,
			SpaceKey: spaceKey,
			Reason:   "space is not enabled for the assistant",
		}
	}

	if _, ok := set[AnySubject]; ok {
		return nil
	}
	if _, ok := set[caller.Subject]; ok {
		return nil
	}

	return &AuthorizationError{
		Subject:  caller.Subject,
		SpaceKey: spaceKey,
		Reason:   "subject is not on the space's access list",
	}
}
