package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/teemow/workspacemcp/internal/logging"
)

// DefaultSkew is the safety margin subtracted from a token's expiry when
// deciding whether to refresh. It absorbs clock drift and the latency of the
// API call the credential is about to be used for.
const DefaultSkew = 60 * time.Second

// RefreshObserver is notified of the outcome of every refresh exchange that
// actually runs. Calls served from a still-fresh credential are not reported.
type RefreshObserver func(ctx context.Context, success bool)

// Refresher decides token staleness and performs the strategy-specific
// refresh exchange. It is stateless except for the store it persists updated
// credentials to.
type Refresher struct {
	store      Store
	strategies map[StrategyKind]Strategy
	skew       time.Duration
	logger     *slog.Logger
	observer   RefreshObserver

	// mu guards locks; each identity gets its own mutex so two concurrent
	// tool calls for the same identity trigger exactly one refresh exchange
	// instead of racing to write stale data over fresh data.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRefresher creates a Refresher with the default expiry skew.
func NewRefresher(store Store, strategies map[StrategyKind]Strategy, logger *slog.Logger) *Refresher {
	return NewRefresherWithSkew(store, strategies, DefaultSkew, logger)
}

// NewRefresherWithSkew creates a Refresher with a custom expiry skew.
func NewRefresherWithSkew(store Store, strategies map[StrategyKind]Strategy, skew time.Duration, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		store:      store,
		strategies: strategies,
		skew:       skew,
		logger:     logger,
		locks:      make(map[string]*sync.Mutex),
	}
}

// SetObserver installs the observer notified of refresh outcomes. Call it
// before the Refresher is shared between goroutines.
func (r *Refresher) SetObserver(observer RefreshObserver) {
	r.observer = observer
}

func (r *Refresher) observe(ctx context.Context, success bool) {
	if r.observer != nil {
		r.observer(ctx, success)
	}
}

// RefreshIfNeeded returns a usable credential, refreshing it first when the
// access token expires within the skew. The refreshed credential is persisted
// before it is returned.
//
// Outcomes map onto the error taxonomy: a credential that cannot be
// refreshed at all yields *ReauthRequiredError; a failed exchange yields
// *RefreshError and is not retried here (the caller may retry once).
func (r *Refresher) RefreshIfNeeded(ctx context.Context, cred *Credential) (*Credential, error) {
	if cred.Usable(r.skew) {
		return cred, nil
	}

	if !cred.CanRefresh() {
		return nil, &ReauthRequiredError{
			Identity: cred.Identity,
			Reason:   "access token expired and no refresh token is stored",
		}
	}

	lock := r.identityLock(cred.Identity)
	lock.Lock()
	defer lock.Unlock()

	// A concurrent call may have refreshed while we waited for the lock;
	// re-read the store so we never repeat the exchange needlessly.
	if stored, err := r.store.Get(cred.Identity); err == nil && stored.Usable(r.skew) {
		return stored, nil
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		var storageErr *StorageError
		if errors.As(err, &storageErr) {
			return nil, err
		}
	}

	strategy, ok := r.strategies[cred.Strategy]
	if !ok {
		return nil, &RefreshError{
			Identity: cred.Identity,
			Err:      fmt.Errorf("no strategy registered for %q", cred.Strategy),
		}
	}

	token, err := strategy.Refresh(ctx, cred)
	if err != nil {
		r.observe(ctx, false)
		return nil, &RefreshError{Identity: cred.Identity, Err: err}
	}
	r.observe(ctx, true)

	updated := *cred
	updated.updateFrom(token)

	if err := r.store.Save(updated.Identity, &updated); err != nil {
		return nil, err
	}

	r.logger.Debug("Refreshed credential",
		logging.UserHash(updated.Identity),
		slog.String("strategy", string(updated.Strategy)),
		slog.Time("expiry", updated.Expiry))
	return &updated, nil
}

func (r *Refresher) identityLock(identity string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[identity]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[identity] = lock
	}
	return lock
}
