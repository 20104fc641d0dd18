package assist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"pagecraft/quill/pkg/cache"
	"pagecraft/quill/pkg/config"
	"pagecraft/quill/pkg/ledger"
	"pagecraft/quill/pkg/providers"
	"pagecraft/quill/pkg/quota"
	"pagecraft/quill/pkg/security/auth"
	"pagecraft/quill/pkg/security/redact"
	"pagecraft/quill/pkg/telemetry/logging"
	"pagecraft/quill/pkg/telemetry/metrics"
	"pagecraft/quill/pkg/telemetry/tracing"
)

// cacheName labels completion cache metrics.
const cacheName = "completions"

// Operation names used in generation metrics.
const (
	opGenerate = "generate"
	opComplete = "complete"
)

// ResponseCache is the service's view of the completion cache.
// *cache.Cache satisfies it; embedders may supply their own.
type ResponseCache interface {
	Get(key string) (string, bool)
	Put(key, value string)
	Len() int
}

// cacheStatsSource is satisfied by caches that expose counter
// snapshots. The service forwards eviction and expiration deltas from
// it to the metrics collector.
type cacheStatsSource interface {
	Stats() cache.Stats
}

// Config holds the service's own settings. Everything else arrives
// through Dependencies.
type Config struct {
	// AllowedModels lists the model identifiers callers may request.
	// Empty applies the configured defaults.
	AllowedModels []string

	// DefaultModel is substituted when a request names no model. Empty
	// selects the first allowed model. It must be on the allow-list.
	DefaultModel string
}

// Dependencies carries the service's collaborators. Validator and
// Provider are required. A nil Cache disables caching, a nil Quota
// disables admission control, and a nil Ledger disables accounting; the
// remaining fields default to inert implementations.
type Dependencies struct {
	// Validator screens and filters caller-supplied text.
	Validator *redact.Validator

	// Provider produces completions.
	Provider providers.Provider

	// Cache stores completions by fingerprint.
	Cache ResponseCache

	// Authorizer decides space access. Nil allows every caller.
	Authorizer auth.Authorizer

	// Quota admits provider calls against per-space daily budgets.
	Quota *quota.Tracker

	// Ledger records one accounting row per request.
	Ledger *ledger.Recorder

	// Metrics receives pipeline measurements.
	Metrics *metrics.Collector

	// Tracer produces spans for the pipeline stages.
	Tracer *tracing.Tracer

	// Logger receives pipeline log lines.
	Logger *logging.Logger
}

// Service orchestrates one generation request end to end: caller
// authorization, model allow-listing, sensitive-content screening,
// cache lookup, quota admission, and the provider call with
// write-through caching. Identical concurrent misses are coalesced
// into a single provider call.
//
// A Service is safe for concurrent use.
type Service struct {
	allowed      map[string]struct{}
	defaultModel string

	validator  *redact.Validator
	provider   providers.Provider
	cache      ResponseCache
	authorizer auth.Authorizer
	quota      *quota.Tracker
	ledger     *ledger.Recorder
	metrics    *metrics.Collector
	tracer     *tracing.Tracer
	logger     *logging.Logger

	flight singleflight.Group

	statsSource cacheStatsSource
	statsMu     sync.Mutex
	lastStats   cache.Stats
}

// New validates cfg and deps and returns a ready Service.
func New(cfg Config, deps Dependencies) (*Service, error) {
	if deps.Validator == nil {
		return nil, errors.New("content validator is required")
	}
	if deps.Provider == nil {
		return nil, errors.New("completion provider is required")
	}

	models := cfg.AllowedModels
	if len(models) == 0 {
		models = config.DefaultAllowedModels()
	}
	allowed := make(map[string]struct{}, len(models))
	for _, m := range models {
		if m == "" {
			return nil, errors.New("allowed model identifiers must be non-empty")
		}
		allowed[m] = struct{}{}
	}

	defaultModel := cfg.DefaultModel
	if defaultModel == "" {
		defaultModel = models[0]
	}
	if _, ok := allowed[defaultModel]; !ok {
		return nil, fmt.Errorf("default model %q is not in the allow-list", defaultModel)
	}

	if deps.Authorizer == nil {
		deps.Authorizer = auth.AllowAll()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewCollector(&config.MetricsConfig{}, nil)
	}
	if deps.Tracer == nil {
		deps.Tracer = tracing.NewNop()
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}

	s := &Service{
		allowed:      allowed,
		defaultModel: defaultModel,
		validator:    deps.Validator,
		provider:     deps.Provider,
		cache:        deps.Cache,
		authorizer:   deps.Authorizer,
		quota:        deps.Quota,
		ledger:       deps.Ledger,
		metrics:      deps.Metrics,
		tracer:       deps.Tracer,
		logger:       deps.Logger,
	}
	if src, ok := deps.Cache.(cacheStatsSource); ok {
		s.statsSource = src
	}

	return s, nil
}

// Generate runs one request through the pipeline and returns the
// generated (or cached) text.
//
// The context must carry the caller identity (auth.WithCaller); a
// request without one is refused. Failures are typed: OutcomeFor maps
// the returned error to the outcome string recorded in the ledger and
// metrics.
//
// If ctx ends while the provider call is in flight, Generate returns
// ctx.Err() but the call itself is not cancelled: it completes on the
// provider client's own timeouts and its response is cached for the
// next identical request.
func (s *Service) Generate(ctx context.Context, req GenerationRequest) (result *GenerationResult, err error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = s.defaultModel
	}

	ctx = logging.WithSpace(ctx, req.SpaceKey)
	ctx = logging.WithModel(ctx, model)

	ctx, span := s.tracer.Start(ctx, "assist.generate")
	defer span.End()
	tracing.SetGenerationAttributes(span, req.SpaceKey, req.PageID, model)

	var (
		fingerprint string
		detected    []string
		usage       providers.TokenUsage
	)

	// Every path out of Generate lands here: one metrics sample, one
	// ledger row, one log line, and the span outcome.
	defer func() {
		elapsed := time.Since(start)
		outcome := OutcomeFor(err)

		s.metrics.RecordGeneration(opGenerate, model, outcome, elapsed)
		tracing.SetOutcomeAttribute(span, outcome)
		tracing.SetStatus(span, err)

		if s.ledger != nil {
			s.ledger.Record(&ledger.Record{
				RequestID:        logging.GetRequestID(ctx),
				Fingerprint:      fingerprint,
				SpaceKey:         req.SpaceKey,
				PageID:           req.PageID,
				Model:            model,
				Outcome:          outcome,
				ServedFromCache:  result != nil && result.ServedFromCache,
				LatencyMS:        elapsed.Milliseconds(),
				PromptTokens:     usage.PromptTokens,
				CompletionTokens: usage.CompletionTokens,
				Detected:         detected,
			})
		}

		if err != nil {
			s.logger.WarnContext(ctx, "generation failed",
				"outcome", outcome,
				"latency_ms", elapsed.Milliseconds(),
				"error", err,
			)
			return
		}
		s.logger.InfoContext(ctx, "generation completed",
			"outcome", outcome,
			"cache_hit", result.ServedFromCache,
			"fingerprint", FingerprintPrefix(fingerprint),
			"latency_ms", elapsed.Milliseconds(),
		)
	}()

	// The host supplies the caller; a request without one is refused
	// before any other work.
	caller, ok := auth.CallerFrom(ctx)
	if !ok || !caller.Valid() {
		return nil, &auth.AuthorizationError{Reason: "request carries no caller identity"}
	}
	ctx = logging.WithCaller(ctx, caller.Subject)

	if strings.TrimSpace(req.Prompt) == "" {
		return nil, &providers.ValidationError{Field: "prompt", Message: "prompt is required"}
	}
	if req.SpaceKey == "" {
		return nil, &providers.ValidationError{Field: "space_key", Message: "space key is required"}
	}

	if authzErr := s.authorizer.Authorize(ctx, caller, req.SpaceKey, req.PageID); authzErr != nil {
		return nil, authzErr
	}

	if _, ok := s.allowed[model]; !ok {
		return nil, &providers.ValidationError{
			Field:   "model",
			Message: fmt.Sprintf("model %q is not in the allow-list", model),
		}
	}

	// Detection is a hard stop: flagged content never reaches the
	// fingerprint, the cache, or the provider.
	detected = s.screen(req.Prompt, req.Context)
	if len(detected) > 0 {
		s.metrics.RecordRedactionScan("flagged")
		return nil, &providers.SecurityError{
			Provider: s.provider.GetName(),
			Detected: detected,
		}
	}
	s.metrics.RecordRedactionScan("clean")

	// Keys derive from filtered text: flagged requests are refused
	// outright today, but a key must never embed a raw sensitive value
	// even if a pattern class is later downgraded to filter-and-forward.
	fingerprint = Fingerprint(s.validator.Filter(req.Prompt), s.validator.Filter(req.Context), model)
	tracing.SetFingerprintAttribute(span, FingerprintPrefix(fingerprint))

	if s.cache != nil {
		if content, ok := s.cache.Get(fingerprint); ok {
			s.metrics.RecordCacheHit(cacheName)
			s.syncCacheCounters()
			tracing.SetCacheAttribute(span, true)
			result = &GenerationResult{
				Content:         content,
				ServedFromCache: true,
				Model:           model,
				Fingerprint:     fingerprint,
			}
			return result, nil
		}
		s.metrics.RecordCacheMiss(cacheName)
		s.syncCacheCounters()
	}
	tracing.SetCacheAttribute(span, false)

	// Cache hits are free; only a request that will reach the provider
	// consumes budget.
	if s.quota != nil {
		if quotaErr := s.quota.Allow(ctx, req.SpaceKey); quotaErr != nil {
			var qe *quota.QuotaError
			if errors.As(quotaErr, &qe) {
				s.metrics.RecordQuotaRejection(req.SpaceKey)
			}
			return nil, quotaErr
		}
	}

	out, leader, completeErr := s.complete(ctx, fingerprint, req, model)
	if completeErr != nil {
		return nil, completeErr
	}
	if leader {
		usage = out.usage
	}

	result = &GenerationResult{
		Content:         out.content,
		SourceLatency:   out.latency,
		ServedFromCache: false,
		Model:           model,
		Fingerprint:     fingerprint,
	}
	return result, nil
}

// completion is the shared product of one provider invocation.
type completion struct {
	content string
	usage   providers.TokenUsage
	latency time.Duration
}

// complete obtains a completion for fingerprint, coalescing concurrent
// identical requests into one provider call. The boolean reports
// whether this caller's flight performed the call; only that caller's
// ledger row carries the token counts.
func (s *Service) complete(ctx context.Context, fingerprint string, req GenerationRequest, model string) (*completion, bool, error) {
	var leader bool
	ch := s.flight.DoChan(fingerprint, func() (interface{}, error) {
		leader = true
		// Detach the flight from this caller: the call finishes on the
		// provider client's own timeouts even if every waiter is gone,
		// and the response is cached for the next request.
		return s.invoke(context.WithoutCancel(ctx), fingerprint, req, model)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, leader, res.Err
		}
		return res.Val.(*completion), leader, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// invoke performs the provider call and the write-through that follows
// it. It runs on the detached flight context.
func (s *Service) invoke(ctx context.Context, fingerprint string, req GenerationRequest, model string) (*completion, error) {
	ctx, span := s.tracer.Start(ctx, "assist.complete")
	defer span.End()

	providerName := s.provider.GetName()
	tracing.SetProviderAttributes(span, providerName, model)
	s.metrics.RecordProviderRequest(providerName, model)

	started := time.Now()
	resp, err := s.provider.Complete(ctx, &providers.CompletionRequest{
		Prompt:  req.Prompt,
		Context: req.Context,
		Model:   model,
	})
	elapsed := time.Since(started)

	s.metrics.RecordGeneration(opComplete, model, OutcomeFor(err), elapsed)
	s.metrics.UpdateProviderHealth(providerName, s.provider.IsHealthy())

	if err != nil {
		s.metrics.RecordProviderError(providerName, errorKind(err))
		tracing.SetError(span, err)
		return nil, err
	}

	s.metrics.RecordProviderLatency(providerName, model, elapsed)
	s.metrics.RecordTokens(model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	tracing.SetTokenAttributes(span, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	if s.cache != nil {
		s.cache.Put(fingerprint, resp.Content)
		s.metrics.UpdateCacheSize(cacheName, s.cache.Len())
		s.syncCacheCounters()
	}

	if s.quota != nil {
		if used, recordErr := s.quota.Record(ctx, req.SpaceKey); recordErr == nil && used > 0 {
			s.metrics.UpdateQuotaUsage(req.SpaceKey, used)
		}
	}

	return &completion{
		content: resp.Content,
		usage:   resp.Usage,
		latency: elapsed,
	}, nil
}

// screen scans both caller-supplied fields and returns the sorted,
// de-duplicated class names that matched.
func (s *Service) screen(prompt, pageContext string) []string {
	findings := s.validator.Scan(prompt)
	if pageContext != "" {
		findings = append(findings, s.validator.Scan(pageContext)...)
	}
	if len(findings) == 0 {
		return nil
	}

	classes := make([]string, 0, len(findings))
	seen := make(map[string]struct{}, len(findings))
	for _, f := range findings {
		s.metrics.RecordDetections(f.Class, f.Count)
		if _, ok := seen[f.Class]; ok {
			continue
		}
		seen[f.Class] = struct{}{}
		classes = append(classes, f.Class)
	}
	sort.Strings(classes)
	return classes
}

// syncCacheCounters forwards eviction and expiration deltas from the
// cache's own counters to the collector. The cache stays free of any
// metrics dependency.
func (s *Service) syncCacheCounters() {
	if s.statsSource == nil {
		return
	}

	stats := s.statsSource.Stats()
	s.statsMu.Lock()
	evictions := stats.Evictions - s.lastStats.Evictions
	expirations := stats.Expirations - s.lastStats.Expirations
	s.lastStats = stats
	s.statsMu.Unlock()

	s.metrics.AddCacheEvictions(cacheName, evictions)
	s.metrics.AddCacheExpirations(cacheName, expirations)
}
