package consentlog

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"cookiegate/internal/consent/models"
	"cookiegate/internal/platform/privacy"
	dErrors "cookiegate/pkg/domain-errors"
)

// Publisher turns consent actions into audit rows. It is synchronous by
// default; WithAsyncBuffer switches appends onto a background worker so the
// HTTP save path never waits on the database. When the buffer is full the
// entry is dropped and counted, not queued — backpressure on consent saves is
// worse than a gap in the audit trail.
type Publisher struct {
	store  Store
	secret string
	logger *slog.Logger
	now    func() time.Time

	async   bool
	entries chan Entry
	wg      sync.WaitGroup
	closed  chan struct{}
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithAsyncBuffer enables the background worker with the given channel size.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.async = true
			p.entries = make(chan Entry, size)
		}
	}
}

// WithPublisherLogger sets the slog logger for drop and write diagnostics.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher constructs a Publisher over the given store. The secret salts
// the IP hash and must stay stable across restarts or erasure lookups break.
func NewPublisher(store Store, secret string, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		store:  store,
		secret: secret,
		logger: slog.Default(),
		now:    time.Now,
		closed: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for entry := range p.entries {
		if err := p.store.Append(context.Background(), &entry); err != nil {
			p.logger.Warn("async audit append failed",
				"consent_id", entry.ConsentID,
				"error", err,
			)
		}
	}
}

// Close stops the background worker after draining queued entries. Safe to
// call on a synchronous publisher.
func (p *Publisher) Close() {
	select {
	case <-p.closed:
		return
	default:
		close(p.closed)
	}
	if p.async {
		close(p.entries)
		p.wg.Wait()
	}
}

// Emit appends one entry, either inline or via the worker queue.
func (p *Publisher) Emit(ctx context.Context, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = p.now()
	}
	if !p.async {
		return p.store.Append(ctx, &entry)
	}
	select {
	case p.entries <- entry:
		return nil
	default:
		p.logger.Warn("audit buffer full, entry dropped", "consent_id", entry.ConsentID)
		return dErrors.New(dErrors.CodeStorageFailure, "audit buffer full")
	}
}

// HashIP exposes the salted lookup hash so erasure and lookup endpoints
// derive the same key the write path stored.
func (p *Publisher) HashIP(ip string) string {
	return privacy.HashIP(ip, p.secret)
}

// WithRequest binds the publisher to one request's client identity and
// returns a logger suitable for the consent manager.
func (p *Publisher) WithRequest(clientIP, rawUA string) *RequestLogger {
	return &RequestLogger{
		publisher: p,
		ipHash:    privacy.HashIP(clientIP, p.secret),
		userAgent: TruncateUserAgent(rawUA),
		device:    DeviceSummary(rawUA),
	}
}

// RequestLogger carries the precomputed per-request identity fields.
type RequestLogger struct {
	publisher *Publisher
	ipHash    string
	userAgent string
	device    string
}

// Log appends one audit row for the given consent record and action.
func (l *RequestLogger) Log(ctx context.Context, record *models.Record, action models.ActionType) error {
	categories, err := json.Marshal(record.Categories)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "marshal consent categories", err)
	}
	return l.publisher.Emit(ctx, Entry{
		ConsentID:     record.ID,
		IPHash:        l.ipHash,
		Categories:    categories,
		PolicyVersion: record.PolicyVersion,
		ActionType:    string(action),
		UserAgent:     l.userAgent,
		Device:        l.device,
	})
}
