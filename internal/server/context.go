package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/teemow/workspacemcp/internal/auth"
	"github.com/teemow/workspacemcp/internal/instrumentation"
)

// Config holds the settings needed to assemble the authentication stack.
type Config struct {
	// GoogleClientID and GoogleClientSecret are the OAuth client used by the
	// interactive authorization flows. Without them only an existing clasp
	// session can authenticate.
	GoogleClientID     string
	GoogleClientSecret string

	// CredentialsDir overrides the default credential storage directory.
	CredentialsDir string

	// ClaspRCPath overrides the default ~/.clasprc.json location.
	ClaspRCPath string

	// FlowKind selects the strategy used by interactive authorization,
	// StrategyOAuth21 when unset.
	FlowKind auth.StrategyKind

	Logger *slog.Logger
}

// ServerContext wires the authentication components together and hands them
// to the tool handlers. Service clients are built per invocation from the
// resolver so every call sees a freshly resolved credential.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	store       auth.Store
	refresher   *auth.Refresher
	coordinator *auth.Coordinator
	resolver    *auth.Resolver
	flowKind    auth.StrategyKind
	claspPath   string

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a server context with a file-backed credential
// store and all three authentication strategies registered.
func NewServerContext(ctx context.Context, cfg Config) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dir := cfg.CredentialsDir
	if dir == "" {
		dir = auth.DefaultCredentialsDir()
	}
	store := auth.NewFileStore(dir, logger)

	clientCfg := auth.ClientConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  "http://localhost",
		Scopes:       auth.DefaultScopes,
	}
	strategies := map[auth.StrategyKind]auth.Strategy{
		auth.StrategyOAuth2:  auth.NewOAuth2Strategy(clientCfg),
		auth.StrategyOAuth21: auth.NewOAuth21Strategy(clientCfg),
		auth.StrategyClasp:   auth.NewClaspStrategy(),
	}

	claspPath := cfg.ClaspRCPath
	if claspPath == "" {
		claspPath = auth.ClaspRCPath()
	}

	refresher := auth.NewRefresher(store, strategies, logger)
	coordinator := auth.NewCoordinator(strategies, logger)
	resolver := auth.NewResolverWithSession(store, refresher, func() (*auth.Credential, error) {
		return auth.LoadClaspCredential(claspPath)
	}, logger)

	flowKind := cfg.FlowKind
	if flowKind == "" {
		flowKind = auth.StrategyOAuth21
	}

	return &ServerContext{
		ctx:         shutdownCtx,
		cancel:      cancel,
		store:       store,
		refresher:   refresher,
		coordinator: coordinator,
		resolver:    resolver,
		flowKind:    flowKind,
		claspPath:   claspPath,
	}, nil
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Store returns the credential store.
func (sc *ServerContext) Store() auth.Store {
	return sc.store
}

// Resolver returns the credential resolver used by the tool handlers.
func (sc *ServerContext) Resolver() *auth.Resolver {
	return sc.resolver
}

// Coordinator returns the authorization flow coordinator.
func (sc *ServerContext) Coordinator() *auth.Coordinator {
	return sc.coordinator
}

// FlowKind returns the strategy used for interactive authorization flows.
func (sc *ServerContext) FlowKind() auth.StrategyKind {
	return sc.flowKind
}

// ClaspRCPath returns the path of the clasp session file in use.
func (sc *ServerContext) ClaspRCPath() string {
	return sc.claspPath
}

// SetMetrics sets the metrics recorder used by instrumented tool handlers
// and hooks it up to the token refresher.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m

	if m == nil {
		sc.refresher.SetObserver(nil)
		return
	}
	sc.refresher.SetObserver(func(ctx context.Context, success bool) {
		result := instrumentation.AuthResultSuccess
		if !success {
			result = instrumentation.AuthResultFailure
		}
		m.RecordAuthRefresh(ctx, result)
	})
}

// Metrics returns the metrics recorder, nil when instrumentation is disabled.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the audit logger used by instrumented tool handlers.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// AuditLogger returns the audit logger, nil when audit logging is disabled.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context. It is safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.coordinator.Close()
	sc.cancel()
	return nil
}
