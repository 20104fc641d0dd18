// Package assist orchestrates Quill's generation pipeline.
//
// # Overview
//
// The Service is the seam between the embedding application and the
// completion provider. One call to Generate runs the whole pipeline:
//
//  1. Caller identity check (the host supplies it via auth.WithCaller)
//  2. Request validation (prompt, space key)
//  3. Space authorization
//  4. Model allow-list check
//  5. Sensitive-content screening: a match refuses the request
//  6. Fingerprint over the redacted prompt, context, and model
//  7. Cache lookup; a hit returns immediately
//  8. Quota admission for the space (misses only)
//  9. Provider call, coalesced across identical concurrent misses,
//     followed by cache write-through and quota accounting
//
// Every request produces exactly one ledger row and one generation
// metrics sample, whatever the path.
//
// # Usage
//
//	svc, err := assist.New(
//	    assist.Config{AllowedModels: []string{"gpt-4o-mini"}},
//	    assist.Dependencies{
//	        Validator: redact.NewValidator(),
//	        Provider:  provider,
//	        Cache:     cache.New(cache.Config{}),
//	    },
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := auth.WithCaller(context.Background(), auth.Caller{Subject: "u123"})
//	result, err := svc.Generate(ctx, assist.GenerationRequest{
//	    Prompt:   "Summarize this page",
//	    Context:  pageText,
//	    SpaceKey: "ENG",
//	})
//
// # Refusals
//
// Failures are typed errors from pkg/providers, pkg/security/auth, and
// pkg/quota. OutcomeFor maps any of them to the outcome string used in
// the ledger and metrics, which is also what the HTTP layer keys its
// status mapping on.
//
// # Caching and coalescing
//
// The cache key is a SHA-256 fingerprint of the redacted prompt, the
// redacted context, and the model, so raw sensitive values never shape
// a key. Concurrent requests with the same fingerprint share a single
// provider call; each still gets its own ledger row, with token counts
// on the row of the request that performed the call.
//
// The provider call runs detached from any single caller's context. A
// caller that gives up gets ctx.Err() back, but the call finishes on
// the provider client's own timeouts and the response is cached, so
// the work is not wasted.
package assist
