package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"
)

const (
	// DefaultFlowTTL bounds how long an interactive authorization may sit
	// between begin and complete. Abandoned flows are discarded after this
	// to bound memory and prevent stale-state replay.
	DefaultFlowTTL = 10 * time.Minute

	flowSweepInterval = 1 * time.Minute
)

// PendingFlow is the state of one in-progress interactive authorization,
// from the moment the authorization URL is issued until the redirect comes
// back. Flows are keyed by their state token, so any number of them can be
// in flight concurrently without clobbering each other.
type PendingFlow struct {
	State        string
	CodeVerifier string
	RedirectURI  string
	Scopes       []string
	IdentityHint string
	Strategy     StrategyKind
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

func (f *PendingFlow) expired(now time.Time) bool {
	return now.After(f.ExpiresAt)
}

// Coordinator manages the lifecycle of interactive authorization handshakes.
// It owns every PendingFlow for its lifetime: registered by Begin, consumed
// exactly once by Complete or discarded by the TTL sweep. Flows are never
// persisted; an unfinished authorization is not resumable across restarts.
type Coordinator struct {
	strategies map[StrategyKind]Strategy
	ttl        time.Duration
	logger     *slog.Logger

	mu    sync.Mutex
	flows map[string]*PendingFlow

	done      chan struct{}
	closeOnce sync.Once
}

// NewCoordinator creates a Coordinator with the default flow TTL and starts
// the background sweep for abandoned flows.
func NewCoordinator(strategies map[StrategyKind]Strategy, logger *slog.Logger) *Coordinator {
	return NewCoordinatorWithTTL(strategies, DefaultFlowTTL, logger)
}

// NewCoordinatorWithTTL creates a Coordinator with a custom flow TTL.
func NewCoordinatorWithTTL(strategies map[StrategyKind]Strategy, ttl time.Duration, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Coordinator{
		strategies: strategies,
		ttl:        ttl,
		logger:     logger,
		flows:      make(map[string]*PendingFlow),
		done:       make(chan struct{}),
	}

	go c.sweep()

	return c
}

// Close stops the background sweep and discards all pending flows.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		c.flows = make(map[string]*PendingFlow)
		c.mu.Unlock()
	})
}

// Begin constructs the provider authorization URL for the chosen strategy
// and registers a PendingFlow under a fresh state token. Strategies without
// a browser handshake (clasp) return an empty URL and register nothing.
//
// Begin has no timeout of its own; the flow's TTL is the cancellation
// mechanism for authorizations the user abandons.
func (c *Coordinator) Begin(identityHint string, kind StrategyKind) (string, *PendingFlow, error) {
	strategy, ok := c.strategies[kind]
	if !ok {
		return "", nil, fmt.Errorf("no strategy registered for %q", kind)
	}

	state, err := GenerateState()
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	now := time.Now()
	flow := &PendingFlow{
		State:        state,
		IdentityHint: identityHint,
		Scopes:       DefaultScopes,
		Strategy:     kind,
		CreatedAt:    now,
		ExpiresAt:    now.Add(c.ttl),
	}

	if kind == StrategyOAuth21 {
		verifier, err := GenerateCodeVerifier()
		if err != nil {
			return "", nil, fmt.Errorf("failed to generate code verifier: %w", err)
		}
		flow.CodeVerifier = verifier
	}

	authURL := strategy.AuthCodeURL(flow)
	if authURL == "" {
		// Local confirmation only, no redirect will ever arrive.
		return "", flow, nil
	}

	c.mu.Lock()
	c.flows[state] = flow
	c.mu.Unlock()

	c.logger.Debug("Registered authorization flow",
		slog.String("strategy", string(kind)),
		slog.Time("expires_at", flow.ExpiresAt))

	return authURL, flow, nil
}

// Complete parses the redirect URL the user copied out of their browser,
// routes it to the matching PendingFlow by state token, and exchanges the
// authorization code for a credential. The flow is consumed no matter the
// outcome: a replayed redirect fails with *InvalidFlowError and a rejected
// code requires a fresh Begin.
//
// The returned credential has not been persisted; that is the caller's job.
func (c *Coordinator) Complete(ctx context.Context, redirectURL string) (*Credential, error) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return nil, &InvalidFlowError{Reason: "malformed redirect URL"}
	}

	query := u.Query()
	state := query.Get("state")
	if state == "" {
		return nil, &InvalidFlowError{Reason: "redirect URL is missing the state parameter"}
	}

	flow, err := c.take(state)
	if err != nil {
		return nil, err
	}

	if providerErr := query.Get("error"); providerErr != "" {
		return nil, &ExchangeError{
			Strategy: flow.Strategy,
			Err:      fmt.Errorf("provider returned %q", providerErr),
		}
	}

	code := query.Get("code")
	if code == "" {
		return nil, &InvalidFlowError{Reason: "redirect URL is missing the code parameter"}
	}

	strategy, ok := c.strategies[flow.Strategy]
	if !ok {
		return nil, fmt.Errorf("no strategy registered for %q", flow.Strategy)
	}

	cred, err := strategy.Exchange(ctx, flow, code)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Authorization flow completed",
		slog.String("strategy", string(flow.Strategy)))

	return cred, nil
}

// PendingCount returns the number of registered flows.
func (c *Coordinator) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.flows)
}

// take atomically looks up a flow by state token and removes it, rejecting
// expired flows. Holding the lock for lookup, expiry check and delete means
// a Complete call can never consume a flow the TTL sweep is discarding.
func (c *Coordinator) take(state string) (*PendingFlow, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	flow, ok := c.flows[state]
	if !ok {
		return nil, &InvalidFlowError{Reason: "unknown or already-used state token"}
	}

	// Single use: the flow is gone whether or not the exchange succeeds.
	delete(c.flows, state)

	if flow.expired(time.Now()) {
		return nil, &InvalidFlowError{Reason: "flow expired"}
	}

	return flow, nil
}

func (c *Coordinator) sweep() {
	ticker := time.NewTicker(flowSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweepExpired()
		}
	}
}

func (c *Coordinator) sweepExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	deleted := 0
	for state, flow := range c.flows {
		if flow.expired(now) {
			delete(c.flows, state)
			deleted++
		}
	}

	if deleted > 0 {
		c.logger.Debug("Discarded expired authorization flows",
			slog.Int("flows_deleted", deleted))
	}
}
