package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/teemow/workspacemcp/internal/logging"
)

// SessionLoader loads an externally managed CLI session credential. It
// exists as a function type so tests can stand in for the clasp session
// file.
type SessionLoader func() (*Credential, error)

// Resolver is the entry point every tool call uses to obtain a ready-to-use
// credential. It orchestrates the store and the refresher but never mutates
// state itself, and it never starts an interactive flow: when none of the
// strategies can produce a usable credential it signals *ReauthRequiredError
// and leaves the flow to an explicit user action.
type Resolver struct {
	store     Store
	refresher *Refresher
	session   SessionLoader
	logger    *slog.Logger
}

// NewResolver creates a Resolver that detects the clasp CLI session at its
// default location.
func NewResolver(store Store, refresher *Refresher, logger *slog.Logger) *Resolver {
	return NewResolverWithSession(store, refresher, func() (*Credential, error) {
		return LoadClaspCredential("")
	}, logger)
}

// NewResolverWithSession creates a Resolver with a custom CLI-session
// loader. A nil loader disables CLI-session delegation entirely.
func NewResolverWithSession(store Store, refresher *Refresher, session SessionLoader, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:     store,
		refresher: refresher,
		session:   session,
		logger:    logger,
	}
}

// Resolve returns a usable credential for the identity.
//
// The order encodes the product preference: a local clasp session first (no
// Google Cloud project setup, no network beyond a local handoff), then a
// stored OAuth credential refreshed as needed, and only then the signal to
// re-run the interactive flow.
//
// Each call makes at most one refresh exchange; a *RefreshError is surfaced
// rather than retried, and the caller may retry the call once.
func (r *Resolver) Resolve(ctx context.Context, identity string) (*Credential, error) {
	if r.session != nil {
		if cred, err := r.session(); err == nil {
			resolved, rerr := r.refresher.RefreshIfNeeded(ctx, cred)
			if rerr == nil {
				return resolved, nil
			}
			// An unusable CLI session is not fatal; a stored OAuth
			// credential may still serve this identity.
			r.logger.Debug("CLI session unusable, trying stored credentials",
				logging.UserHash(identity), logging.Err(rerr))
		}
	}

	cred, err := r.store.Get(identity)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &ReauthRequiredError{Identity: identity, Reason: "no stored credential"}
		}
		return nil, err
	}

	resolved, err := r.refresher.RefreshIfNeeded(ctx, cred)
	if err != nil {
		return nil, err
	}
	return resolved, nil
}
