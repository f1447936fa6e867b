package auth

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that no credential is stored for the requested identity.
var ErrNotFound = errors.New("credential not found")

// StorageError indicates the persistence layer failed. It is fatal to the
// current operation and always surfaced verbatim.
type StorageError struct {
	Op   string // "read", "write" or "delete"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("credential storage %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ReauthRequiredError is a normal resolver outcome, not an exception path:
// the stored credential (if any) cannot be used or refreshed and the user
// must run the interactive authorization flow again.
type ReauthRequiredError struct {
	Identity string
	Reason   string
}

func (e *ReauthRequiredError) Error() string {
	return fmt.Sprintf("authorization required for %s (%s): run the start_google_auth tool to authorize", e.Identity, e.Reason)
}

// RefreshError indicates a transient failure during the refresh exchange.
// The caller may retry once; it is never retried in a loop.
type RefreshError struct {
	Identity string
	Err      error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh failed for %s: %v", e.Identity, e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// InvalidFlowError indicates a bad, expired or already-used authorization
// flow. It is always surfaced and never retried automatically.
type InvalidFlowError struct {
	Reason string
}

func (e *InvalidFlowError) Error() string {
	return fmt.Sprintf("invalid authorization flow (%s): restart with start_google_auth, your link expired or was already used", e.Reason)
}

// ExchangeError indicates the identity provider rejected the code-for-token
// exchange. The pending flow is gone; the user must restart from the
// beginning.
type ExchangeError struct {
	Strategy StrategyKind
	Err      error
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("authorization code exchange failed (%s): %v; run start_google_auth to begin a new flow", e.Strategy, e.Err)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}
