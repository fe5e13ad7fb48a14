package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MariamShamia2002/amana-marketing/internal/domain"
	"github.com/MariamShamia2002/amana-marketing/pkg/logger"
	"github.com/MariamShamia2002/amana-marketing/pkg/metrics"
)

var (
	testLogger  = logger.New("error")
	testMetrics = metrics.New()
)

// stubClient implements domain.MarketingClient for tests. When block is
// set, FetchMarketingData waits on it until the channel is closed or the
// fetch context is canceled.
type stubClient struct {
	mu    sync.Mutex
	doc   *domain.MarketingData
	err   error
	calls int
	block chan struct{}
}

func (s *stubClient) FetchMarketingData(ctx context.Context) (*domain.MarketingData, error) {
	s.mu.Lock()
	s.calls++
	doc, err, block := s.doc, s.err, s.block
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *stubClient) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testDoc() *domain.MarketingData {
	c := testCampaign("c1", 1000, 100, 10, "500.00", "1500.00")
	c.WeeklyPerformance = []domain.WeeklyEntry{{WeekStart: "2024-01-01", PercentageOfAudience: 100}}
	return &domain.MarketingData{Campaigns: []domain.Campaign{c}}
}

func TestNewViewAssemblerStartsLoading(t *testing.T) {
	a := NewViewAssembler("weekly", &stubClient{}, testLogger, testMetrics)
	defer a.Close()

	snap := a.Snapshot()
	assert.Equal(t, StateLoading, snap.State)
	assert.Nil(t, snap.Doc)
}

func TestRefreshSuccess(t *testing.T) {
	doc := testDoc()
	a := NewViewAssembler("weekly", &stubClient{doc: doc}, testLogger, testMetrics)
	defer a.Close()

	require.NoError(t, a.Refresh(context.Background()))

	snap := a.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, doc, snap.Doc)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestRefreshFailure(t *testing.T) {
	upstream := errors.New("upstream exploded")
	a := NewViewAssembler("weekly", &stubClient{err: upstream}, testLogger, testMetrics)
	defer a.Close()

	err := a.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, upstream)

	snap := a.Snapshot()
	assert.Equal(t, StateFailed, snap.State)
	assert.Equal(t, "upstream exploded", snap.Message)
	assert.Nil(t, snap.Doc)
}

func TestRefreshRecoversAfterFailure(t *testing.T) {
	client := &stubClient{err: errors.New("upstream exploded")}
	a := NewViewAssembler("weekly", client, testLogger, testMetrics)
	defer a.Close()

	require.Error(t, a.Refresh(context.Background()))
	assert.Equal(t, StateFailed, a.Snapshot().State)

	client.mu.Lock()
	client.err = nil
	client.doc = testDoc()
	client.mu.Unlock()

	require.NoError(t, a.Refresh(context.Background()))
	assert.Equal(t, StateReady, a.Snapshot().State)
}

func TestRefreshRejectsConcurrentFetch(t *testing.T) {
	client := &stubClient{doc: testDoc(), block: make(chan struct{})}
	a := NewViewAssembler("weekly", client, testLogger, testMetrics)
	defer a.Close()

	done := make(chan error, 1)
	go func() { done <- a.Refresh(context.Background()) }()

	require.Eventually(t, func() bool { return client.Calls() == 1 }, time.Second, 5*time.Millisecond)

	err := a.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrFetchInFlight)

	close(client.block)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not complete")
	}
	assert.Equal(t, StateReady, a.Snapshot().State)
}

func TestCloseCancelsInFlightFetch(t *testing.T) {
	client := &stubClient{doc: testDoc(), block: make(chan struct{})}
	a := NewViewAssembler("weekly", client, testLogger, testMetrics)

	done := make(chan error, 1)
	go func() { done <- a.Refresh(context.Background()) }()

	require.Eventually(t, func() bool { return client.Calls() == 1 }, time.Second, 5*time.Millisecond)

	a.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrViewClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("close did not cancel the in-flight fetch")
	}

	// The late result must not replace the last published snapshot.
	snap := a.Snapshot()
	assert.Equal(t, StateLoading, snap.State)
	assert.Nil(t, snap.Doc)
}

func TestRefreshAfterClose(t *testing.T) {
	a := NewViewAssembler("weekly", &stubClient{doc: testDoc()}, testLogger, testMetrics)
	a.Close()

	err := a.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrViewClosed)
}

func TestCloseIsIdempotent(t *testing.T) {
	a := NewViewAssembler("weekly", &stubClient{doc: testDoc()}, testLogger, testMetrics)
	a.Close()
	a.Close()
}
