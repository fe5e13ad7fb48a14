package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MariamShamia2002/amana-marketing/internal/domain"
	"github.com/MariamShamia2002/amana-marketing/pkg/logger"
	"github.com/MariamShamia2002/amana-marketing/pkg/metrics"
)

// ViewState tags a view snapshot. A view is loading until its first fetch
// settles, then ready or failed until the next explicit refresh. There is no
// automatic retry.
type ViewState int

const (
	StateLoading ViewState = iota
	StateReady
	StateFailed
)

func (s ViewState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "error"
	default:
		return "unknown"
	}
}

var (
	// ErrFetchInFlight rejects a refresh while the view is already fetching.
	ErrFetchInFlight = errors.New("fetch already in flight")

	// ErrViewClosed rejects refreshes on a torn-down view.
	ErrViewClosed = errors.New("view is closed")
)

// Snapshot is one view's state at a single instant. Doc is set only in
// StateReady, Message only in StateFailed.
type Snapshot struct {
	State     ViewState
	Doc       *domain.MarketingData
	Message   string
	FetchedAt time.Time
}

// ViewAssembler owns one view's fetch lifecycle. Each view fetches and keeps
// its own copy of the marketing document; at most one fetch is in flight per
// view, and a fetch completing after Close never updates the snapshot.
type ViewAssembler struct {
	view    string
	client  domain.MarketingClient
	logger  *logger.Logger
	metrics *metrics.Metrics

	mu       sync.Mutex
	snapshot Snapshot
	inFlight bool
	closed   bool
	cancel   context.CancelFunc
}

// NewViewAssembler creates an assembler in the loading state.
func NewViewAssembler(view string, client domain.MarketingClient, logger *logger.Logger, metrics *metrics.Metrics) *ViewAssembler {
	return &ViewAssembler{
		view:     view,
		client:   client,
		logger:   logger,
		metrics:  metrics,
		snapshot: Snapshot{State: StateLoading},
	}
}

// Snapshot returns the current state. Callers render purely from the returned
// value; the assembler never hands out interior mutability.
func (a *ViewAssembler) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot
}

// Refresh fetches a fresh document and transitions the view to ready or
// failed. It rejects with ErrFetchInFlight while another refresh is running
// and with ErrViewClosed after Close.
func (a *ViewAssembler) Refresh(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrViewClosed
	}
	if a.inFlight {
		a.mu.Unlock()
		return ErrFetchInFlight
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	a.inFlight = true
	a.cancel = cancel
	a.snapshot = Snapshot{State: StateLoading}
	a.mu.Unlock()

	log := a.logger.WithContext(ctx).WithField("view", a.view)
	log.Info("Fetching marketing data")

	start := time.Now()
	a.metrics.IncFetchesInFlight()
	doc, err := a.client.FetchMarketingData(fetchCtx)
	a.metrics.DecFetchesInFlight()
	cancel()

	a.mu.Lock()
	defer a.mu.Unlock()
	a.inFlight = false
	a.cancel = nil

	if a.closed {
		// The view was torn down mid-fetch; drop the result instead of
		// surfacing a stale update.
		a.metrics.RecordFetch(a.view, "discarded", time.Since(start))
		log.Info("Discarding fetch result for closed view")
		return ErrViewClosed
	}

	if err != nil {
		a.snapshot = Snapshot{State: StateFailed, Message: err.Error()}
		a.metrics.RecordFetch(a.view, "failed", time.Since(start))
		log.WithError(err).Error("Marketing data fetch failed")
		return fmt.Errorf("failed to fetch marketing data: %w", err)
	}

	a.snapshot = Snapshot{State: StateReady, Doc: doc, FetchedAt: time.Now().UTC()}
	a.metrics.RecordFetch(a.view, "success", time.Since(start))
	log.WithFields(map[string]any{
		"campaigns": len(doc.Campaigns),
		"duration":  time.Since(start),
	}).Info("Marketing data fetch completed")

	return nil
}

// Close tears the view down and cancels any in-flight fetch. Idempotent.
func (a *ViewAssembler) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	if a.cancel != nil {
		a.cancel()
	}
}
