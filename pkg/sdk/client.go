package ragcore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/helio-cloud/ragcore/internal/db"
	dbRedis "github.com/helio-cloud/ragcore/internal/db/redis"
	"github.com/helio-cloud/ragcore/internal/domain"
	domchat "github.com/helio-cloud/ragcore/internal/domain/chat"
	domdoc "github.com/helio-cloud/ragcore/internal/domain/document"
	documentrepo "github.com/helio-cloud/ragcore/internal/repository/document"
	chatuc "github.com/helio-cloud/ragcore/internal/usecase/chat"
	documentuc "github.com/helio-cloud/ragcore/internal/usecase/document"
	healthuc "github.com/helio-cloud/ragcore/internal/usecase/health"
	retrievaluc "github.com/helio-cloud/ragcore/internal/usecase/retrieval"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can substitute the use case layer.
type documentUseCase interface {
	Create(ctx context.Context, orgID, id, title, content string, tags []string) (domdoc.Document, error)
	Get(ctx context.Context, orgID, id string) (domdoc.Document, error)
	Update(ctx context.Context, orgID, id, title, content string, tags []string) (domdoc.Document, error)
	Delete(ctx context.Context, orgID, id string) error
	Purge(ctx context.Context, orgID, id string) error
	List(ctx context.Context, orgID, cursor string, limit int) ([]domdoc.Document, string, error)
	Count(ctx context.Context, orgID string) (int, error)
}

type retrievalEngine interface {
	RetrieveRelevantDocuments(ctx context.Context, query string, limit int) []domdoc.Document
	ContextBlock(docs []domdoc.Document) string
	Inspect(ctx context.Context, query string, limit int) retrievaluc.Inspection
}

type engineFactory func(scope domain.TenantScope) retrievalEngine

type chatUseCase interface {
	Respond(ctx context.Context, orgID, query string, history []domchat.Message) (chatuc.Result, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the ragcore SDK entry point.
type Client struct {
	store     db.Store
	docSvc    documentUseCase
	engines   engineFactory
	chatSvc   chatUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a ragcore Client and connects to the database.
// The provided context is used for the initial readiness check and
// search index creation.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("ragcore: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("ragcore: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("ragcore: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	client, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return client, nil
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	docRepo := documentrepo.New(store)
	if cfg.keyPrefix != "" {
		docRepo = docRepo.WithKeyPrefix(cfg.keyPrefix)
	}
	if err := docRepo.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("ragcore: ensure search index: %w", err)
	}

	docSvc := documentuc.New(docRepo)
	if cfg.defaultPageSize > 0 || cfg.maxPageSize > 0 {
		docSvc = docSvc.WithPagination(cfg.defaultPageSize, cfg.maxPageSize)
	}

	factory := retrievaluc.NewFactory(docRepo)
	if cfg.weights != nil {
		factory = factory.WithWeights(toInternalWeights(*cfg.weights))
	}

	// Chat without a completer fails at call time, not at wiring time.
	var completer chatuc.Completer = noopCompleter{}
	if cfg.completer != nil {
		completer = &completerAdapter{inner: cfg.completer}
	}
	chatSvc := chatuc.New(completer, func(scope domain.TenantScope) chatuc.Retriever {
		return factory.Scoped(scope)
	}, cfg.docLimit)

	healthSvc := healthuc.New(store, nil)

	return &Client{
		store:  store,
		docSvc: docSvc,
		engines: func(scope domain.TenantScope) retrievalEngine {
			return factory.Scoped(scope)
		},
		chatSvc:   chatSvc,
		healthSvc: healthSvc,
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Documents returns the document management service for a tenant.
// An empty org manages ungrouped documents.
func (c *Client) Documents(org string) *DocumentService {
	return &DocumentService{org: org, svc: c.docSvc, obs: c.obs}
}

// Retrieval returns the retrieval service for a tenant.
func (c *Client) Retrieval(org string) *RetrievalService {
	return &RetrievalService{org: org, engines: c.engines, obs: c.obs}
}

// Chat returns the chat service for a tenant.
func (c *Client) Chat(org string) *ChatService {
	return &ChatService{org: org, svc: c.chatSvc, obs: c.obs}
}

func toInternalWeights(w Weights) retrievaluc.Weights {
	weights := retrievaluc.DefaultWeights()
	if w.TitleExactQuery > 0 {
		weights.TitleExactQuery = w.TitleExactQuery
	}
	if w.ContentExactQuery > 0 {
		weights.ContentExactQuery = w.ContentExactQuery
	}
	if w.TitleKeyword > 0 {
		weights.TitleKeyword = w.TitleKeyword
	}
	if w.ContentKeyword > 0 {
		weights.ContentKeyword = w.ContentKeyword
	}
	if w.TagKeyword > 0 {
		weights.TagKeyword = w.TagKeyword
	}
	if w.BrevityBonus > 0 {
		weights.BrevityBonus = w.BrevityBonus
	}
	if w.BrevityThreshold > 0 {
		weights.BrevityThreshold = w.BrevityThreshold
	}
	return weights
}

// completerAdapter wraps the public Completer to satisfy the internal contract.
type completerAdapter struct {
	inner Completer
}

func (a *completerAdapter) Complete(
	ctx context.Context, messages []domchat.Message,
) (domchat.Reply, error) {
	out := make([]Message, len(messages))
	for i, m := range messages {
		out[i] = Message{Role: string(m.Role()), Content: m.Content()}
	}
	r, err := a.inner.Complete(ctx, out)
	if err != nil {
		return domchat.Reply{}, fmt.Errorf("complete: %w", err)
	}
	return domchat.NewReply(r.Content, r.Model, r.PromptTokens, r.CompletionTokens), nil
}

// noopCompleter returns an error on Complete call (used when no completer configured).
type noopCompleter struct{}

func (noopCompleter) Complete(_ context.Context, _ []domchat.Message) (domchat.Reply, error) {
	return domchat.Reply{}, errors.New(
		"ragcore: completer not configured (use WithCompleter for chat)",
	)
}
