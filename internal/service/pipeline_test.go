package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonboard/backend/internal/ingest"
	"github.com/moonboard/backend/internal/metrics"
	"github.com/moonboard/backend/internal/models"
	"github.com/moonboard/backend/internal/schema"
)

const liveCSV = `name,day,time,party_size,notes,branch,assigned_table,status
Ana,2025-10-18,20:00,4,,La luna,Mesa 1,Confirmed
Luis,2025-10-18,21:00,2,,Blue Moon,Mesa 2,Pending
Eva,2025-10-19,13:00,3,,La luna,Mesa 3,Confirmed
`

type fetchFunc func(ctx context.Context) ([]byte, error)

func (f fetchFunc) Fetch(ctx context.Context) ([]byte, error) { return f(ctx) }

func staticFetcher(body string) ingest.Fetcher {
	return fetchFunc(func(context.Context) ([]byte, error) { return []byte(body), nil })
}

func TestCycleLiveData(t *testing.T) {
	p := NewReservationPipeline(staticFetcher(liveCSV), zerolog.Nop())

	snap, err := p.Cycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourceLive, snap.Source)
	assert.Equal(t, schema.KindReservations, snap.Kind)
	assert.NotEmpty(t, snap.CycleID)
	require.Len(t, snap.Records, 3)
	assert.Equal(t, "Ana", snap.Records[0].Name)
	assert.Equal(t, 3, snap.Metrics.TotalReservations)
	assert.Equal(t, 9.0, snap.Metrics.TotalPeople)
	assert.False(t, snap.CompletedAt.Before(snap.StartedAt))

	run, ok := p.LatestRun()
	require.True(t, ok)
	assert.Equal(t, snap.CycleID, run.ID)
	assert.Equal(t, 3, run.Decoded)
	assert.Equal(t, 3, run.Accepted)
	assert.Equal(t, 0, run.Rejected)
	assert.NotEmpty(t, run.Checksum)
}

func TestCycleHTTP500UsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewReservationPipeline(ingest.HTTPFetcher{URL: srv.URL}, zerolog.Nop())
	snap, err := p.Cycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.SourceFallback, snap.Source)
	assert.Equal(t, ingest.FallbackReservations(), snap.Records)
	assert.Equal(t, metrics.Reservations(ingest.FallbackReservations()), snap.Metrics)

	run, _ := p.LatestRun()
	assert.Empty(t, run.Checksum)
	assert.Contains(t, run.Error, "500")
}

func TestCycleFetchErrorUsesFallback(t *testing.T) {
	f := fetchFunc(func(context.Context) ([]byte, error) { return nil, errors.New("dial tcp: refused") })
	p := NewEngagementPipeline(f, zerolog.Nop())

	snap, err := p.Cycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourceFallback, snap.Source)
	assert.Equal(t, metrics.Engagements(ingest.FallbackEngagements()), snap.Metrics)
}

func TestCycleInvalidEncodingUsesFallback(t *testing.T) {
	f := fetchFunc(func(context.Context) ([]byte, error) { return []byte{'a', '\n', 0xff}, nil })
	p := NewReservationPipeline(f, zerolog.Nop())

	snap, err := p.Cycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourceFallback, snap.Source)
}

func TestCycleDegenerateInputIsEmptyNotFallback(t *testing.T) {
	for _, body := range []string{"", "name,day,time,party_size"} {
		p := NewReservationPipeline(staticFetcher(body), zerolog.Nop())
		snap, err := p.Cycle(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.SourceLive, snap.Source)
		assert.Empty(t, snap.Records)
		assert.Equal(t, 0, snap.Metrics.TotalReservations)
		assert.Equal(t, 0.0, snap.Metrics.OccupancyRate)
		assert.Equal(t, 0.0, snap.Metrics.DailyAverage)
	}
}

func TestCycleAllRowsRejectedIsEmptyNotFallback(t *testing.T) {
	body := "name,day,time,party_size,notes,branch,assigned_table,status\nAna,d,t,x,,La luna,Mesa 1,Confirmed\n"
	p := NewReservationPipeline(staticFetcher(body), zerolog.Nop())

	snap, err := p.Cycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SourceLive, snap.Source)
	assert.Empty(t, snap.Records)

	run, _ := p.LatestRun()
	assert.Equal(t, 1, run.Decoded)
	assert.Equal(t, 1, run.Rejected)
}

func TestCycleCancelledContext(t *testing.T) {
	p := NewReservationPipeline(staticFetcher(liveCSV), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Cycle(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, ok := p.Snapshot()
	assert.False(t, ok)
}

func TestLastCompletedCycleWins(t *testing.T) {
	slowCSV := "name,day,time,party_size,notes,branch,assigned_table,status\nSlow,d,t,1,,La luna,Mesa 1,Confirmed\n"
	fastCSV := "name,day,time,party_size,notes,branch,assigned_table,status\nFast,d,t,1,,La luna,Mesa 1,Confirmed\n"

	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	f := fetchFunc(func(context.Context) ([]byte, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
			return []byte(slowCSV), nil
		}
		return []byte(fastCSV), nil
	})
	p := NewReservationPipeline(f, zerolog.Nop())

	slowDone := make(chan Snapshot[models.Reservation, metrics.ReservationMetrics])
	go func() {
		snap, _ := p.Cycle(context.Background())
		slowDone <- snap
	}()
	<-started

	fast, err := p.Cycle(context.Background())
	require.NoError(t, err)
	cur, ok := p.Snapshot()
	require.True(t, ok)
	assert.Equal(t, fast.CycleID, cur.CycleID)

	close(release)
	slow := <-slowDone

	cur, ok = p.Snapshot()
	require.True(t, ok)
	assert.Equal(t, slow.CycleID, cur.CycleID)
	assert.Equal(t, "Slow", cur.Records[0].Name)
	run, _ := p.LatestRun()
	assert.Equal(t, slow.CycleID, run.ID)
}

func TestCallerCancellationKeepsCurrentSnapshot(t *testing.T) {
	fetching := make(chan struct{})
	var calls int32
	f := fetchFunc(func(ctx context.Context) ([]byte, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return []byte(liveCSV), nil
		}
		close(fetching)
		<-ctx.Done()
		return nil, fmt.Errorf("fetch csv: %w", ctx.Err())
	})
	p := NewReservationPipeline(f, zerolog.Nop())

	live, err := p.Cycle(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-fetching
		cancel()
	}()
	_, err = p.Refresh(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	cur, ok := p.Snapshot()
	require.True(t, ok)
	assert.Equal(t, live.CycleID, cur.CycleID)
	assert.Equal(t, models.SourceLive, cur.Source)
	require.Len(t, cur.Records, 3)

	run, _ := p.LatestRun()
	assert.Equal(t, live.CycleID, run.ID)
}

func TestFetchTimeoutStillUsesFallback(t *testing.T) {
	f := fetchFunc(func(ctx context.Context) ([]byte, error) {
		<-ctx.Done()
		return nil, fmt.Errorf("fetch csv: %w", ctx.Err())
	})
	p := NewReservationPipeline(f, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	snap, err := p.Cycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SourceFallback, snap.Source)
}

func TestSnapshotReturnsDeepCopy(t *testing.T) {
	p := NewReservationPipeline(staticFetcher(liveCSV), zerolog.Nop())
	_, err := p.Cycle(context.Background())
	require.NoError(t, err)

	snap, _ := p.Snapshot()
	snap.Records[0].Name = "mutated"
	snap.Metrics.BranchDistribution["La luna"] = 999
	snap.Metrics.DailyTimeline["2025-10-18"] = metrics.DayTotals{Reservations: 999}
	snap.Metrics.TableStateByBranch["La luna"] = metrics.TableState{Occupied: 999}
	snap.Metrics.LatestRecords[0].Name = "mutated"

	again, _ := p.Snapshot()
	assert.Equal(t, "Ana", again.Records[0].Name)
	assert.Equal(t, 2, again.Metrics.BranchDistribution["La luna"])
	assert.Equal(t, 2, again.Metrics.DailyTimeline["2025-10-18"].Reservations)
	assert.Equal(t, 2, again.Metrics.TableStateByBranch["La luna"].Occupied)
	assert.NotEqual(t, "mutated", again.Metrics.LatestRecords[0].Name)

	view, ok := p.Current()
	require.True(t, ok)
	m := view.Metrics.(metrics.ReservationMetrics)
	m.BranchDistribution["Blue Moon"] = 999
	again, _ = p.Snapshot()
	assert.Equal(t, 1, again.Metrics.BranchDistribution["Blue Moon"])
}

func TestEngagementSnapshotReturnsDeepCopy(t *testing.T) {
	p := NewEngagementPipeline(fetchFunc(func(context.Context) ([]byte, error) {
		return nil, errors.New("offline")
	}), zerolog.Nop())
	_, err := p.Cycle(context.Background())
	require.NoError(t, err)

	snap, _ := p.Snapshot()
	snap.Metrics.ServiceRevenue["SEO"] = -1
	snap.Metrics.MonthlyTimeline["2025-01"] = -1
	snap.Metrics.ChannelDistribution["Organic"] = -1

	again, _ := p.Snapshot()
	assert.Equal(t, 11300.0, again.Metrics.ServiceRevenue["SEO"])
	assert.Equal(t, 11500.0, again.Metrics.MonthlyTimeline["2025-01"])
	assert.Equal(t, 3, again.Metrics.ChannelDistribution["Organic"])
}

func TestSelectReadsOneSnapshot(t *testing.T) {
	p := NewReservationPipeline(staticFetcher(liveCSV), zerolog.Nop())
	_, _, err := p.Select(nil)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = p.Refresh(context.Background())
	require.NoError(t, err)
	run, _ := p.LatestRun()

	view, recs, err := p.Select(map[string]string{"status": "Confirmed"})
	require.NoError(t, err)
	assert.Equal(t, run.ID, view.CycleID)
	assert.Equal(t, 2, view.Count)
	require.Len(t, recs, 2)
	assert.Equal(t, "Ana", recs[0].Value("name"))
	assert.Equal(t, "Eva", recs[1].Value("name"))
	m := view.Metrics.(metrics.ReservationMetrics)
	assert.Equal(t, 3, m.TotalReservations)
}

func TestQueryRecomputesOverFilteredRecords(t *testing.T) {
	p := NewReservationPipeline(staticFetcher(liveCSV), zerolog.Nop())

	_, err := p.Query(nil)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = p.Refresh(context.Background())
	require.NoError(t, err)

	view, err := p.Query(map[string]string{"branch": "La luna"})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Count)
	m, ok := view.Metrics.(metrics.ReservationMetrics)
	require.True(t, ok)
	assert.Equal(t, 7.0, m.TotalPeople)
	assert.Equal(t, map[string]int{"La luna": 2}, m.BranchDistribution)

	_, err = p.Query(map[string]string{"colour": "red"})
	assert.ErrorIs(t, err, schema.ErrUnknownField)

	full, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, 3, full.Count)
}

func TestRecordsFilter(t *testing.T) {
	p := NewReservationPipeline(staticFetcher(liveCSV), zerolog.Nop())
	_, err := p.Records(nil)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = p.Refresh(context.Background())
	require.NoError(t, err)

	recs, err := p.Records(map[string]string{"status": "Confirmed", "day": "2025-10-19"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Eva", recs[0].Value("name"))
}

func TestNewDashboard(t *testing.T) {
	d, err := NewDashboard("engagements", staticFetcher(""), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, schema.KindEngagements, d.Schema().Kind)

	d, err = NewDashboard("reservations", staticFetcher(""), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, schema.KindReservations, d.Schema().Kind)

	_, err = NewDashboard("tickets", staticFetcher(""), zerolog.Nop())
	assert.ErrorIs(t, err, schema.ErrUnknownKind)
}
