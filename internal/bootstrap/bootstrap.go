// Package bootstrap wires configuration, persistence and the application
// service for the command-line binaries.
package bootstrap

import (
	"context"
	"fmt"

	"jewelry-ledger/internal/ai"
	"jewelry-ledger/internal/app"
	"jewelry-ledger/internal/auth"
	"jewelry-ledger/internal/config"
	"jewelry-ledger/internal/core"
	"jewelry-ledger/internal/db"
	"jewelry-ledger/internal/docstore"
	"jewelry-ledger/internal/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runtime is a fully wired service plus the resources backing it.
type Runtime struct {
	Config  *config.Config
	Log     *zap.Logger
	Metrics *observability.Metrics
	Issuer  *auth.Issuer
	Store   *core.Store
	Service app.ApplicationService

	closers []func()
}

// New opens the configured document store and builds the service on top of it.
// The session is not opened; call OpenOperatorSession or log in over HTTP.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Runtime, error) {
	if log == nil {
		log = zap.NewNop()
	}
	rt := &Runtime{Config: cfg, Log: log, Metrics: observability.NewMetrics()}

	docs, err := rt.openDocuments(ctx)
	if err != nil {
		rt.Close()
		return nil, err
	}

	secret := cfg.JWTSecret
	if secret == "" {
		// Tokens signed with an ephemeral secret do not survive a restart.
		secret = uuid.NewString() + uuid.NewString()
		log.Warn("JWT_SECRET not set, using an ephemeral signing secret")
	}
	rt.Issuer, err = auth.NewIssuer(secret, cfg.TokenTTL)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.Store = core.NewStore(docs, cfg.DocumentName,
		core.WithLogger(log.Named("store")),
		core.WithObserver(rt.Metrics),
	)

	var agent app.DraftInterpreter
	if cfg.OpenAIAPIKey != "" {
		agent = ai.NewAgent(cfg.OpenAIAPIKey)
	} else {
		log.Info("OPENAI_API_KEY not set, AI drafting disabled")
	}

	rt.Service = app.NewAppService(rt.Store, rt.Issuer, agent, app.Config{
		PasswordHash:       cfg.OperatorPasswordHash,
		Subject:            cfg.OperatorSubject,
		DefaultExtraCharge: cfg.DefaultExtraCharge,
	}, log.Named("app"))
	return rt, nil
}

func (rt *Runtime) openDocuments(ctx context.Context) (core.DocumentStore, error) {
	cfg := rt.Config
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, pool.Close)
		rt.Log.Info("document store: postgres")
		return docstore.NewPostgres(pool), nil
	case "redis":
		client, err := docstore.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, func() { _ = client.Close() })
		rt.Log.Info("document store: redis", zap.String("addr", cfg.RedisAddr))
		return docstore.NewRedis(client, cfg.RedisPrefix), nil
	case "memory":
		rt.Log.Warn("document store: memory, data is lost on exit")
		return docstore.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

// OpenOperatorSession issues a credential for the configured operator and
// loads the shop document. Used by the local binaries, which have no login step.
func (rt *Runtime) OpenOperatorSession(ctx context.Context) error {
	cred, err := rt.Issuer.Issue(rt.Config.OperatorSubject)
	if err != nil {
		return err
	}
	return rt.Service.OpenSession(ctx, cred)
}

// Close disposes the session and releases connections. Safe to call twice.
func (rt *Runtime) Close() {
	if rt.Service != nil {
		rt.Service.CloseSession(context.Background())
	}
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}
