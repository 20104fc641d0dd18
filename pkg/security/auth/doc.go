/*
Package auth provides caller identity and space authorization for quill.

The host passes the acting user's identity with each request; quill
never derives one. The generation service refuses requests without an
identity, and an Authorizer decides whether the caller may use the
assistant in the targeted space.

# Basic Usage

Build an authorizer and check a caller:

	list := auth.NewSpaceList()
	list.Grant("ENG", auth.AnySubject)
	list.Grant("LEGAL", "jsmith", "mdoe")

	err := list.Authorize(ctx, auth.Caller{Subject: "jsmith"}, "LEGAL", "1001")
	if err != nil {
		var authErr *auth.AuthorizationError
		if errors.As(err, &authErr) {
			// refused
		}
	}

# HTTP Middleware

The middleware verifies the shared bearer token when one is configured
and places the caller from the host headers onto the request context:

	middleware := auth.NewMiddleware(auth.MiddlewareConfig{
		ExpectedToken: tokenFunc,
	})
	http.Handle("/v1/", middleware.Handle(yourHandler))

Handlers retrieve the identity with CallerFrom:

	caller, ok := auth.CallerFrom(r.Context())

# Security Considerations

  - Token comparison is constant time
  - Caller subjects are logged; tokens never are
  - A missing identity is refused downstream, not silently defaulted
*/
package auth
