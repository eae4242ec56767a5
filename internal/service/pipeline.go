package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moonboard/backend/internal/ingest"
	"github.com/moonboard/backend/internal/metrics"
	"github.com/moonboard/backend/internal/models"
	"github.com/moonboard/backend/internal/schema"
	"github.com/moonboard/backend/internal/utils"
)

var ErrNoSnapshot = errors.New("no snapshot computed yet")

// Record is implemented by every validated row type.
type Record interface {
	Value(field string) string
}

// Metrics is implemented by the aggregate types; Clone must return a copy
// that shares no maps or slices with the receiver.
type Metrics[M any] interface {
	Clone() M
}

// Snapshot is the outcome of one ingestion cycle. The published value is
// never modified; readers only get copies of it.
type Snapshot[R Record, M any] struct {
	CycleID     string      `json:"cycle_id"`
	Kind        schema.Kind `json:"kind"`
	Source      string      `json:"source"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt time.Time   `json:"completed_at"`
	Records     []R         `json:"records"`
	Metrics     M           `json:"metrics"`
}

// View is the type-erased form of a snapshot handed to the HTTP layer.
type View struct {
	CycleID     string    `json:"cycle_id"`
	Kind        string    `json:"kind"`
	Source      string    `json:"source"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Count       int       `json:"count"`
	Records     any       `json:"records"`
	Metrics     any       `json:"metrics"`
}

// Dashboard is what the HTTP handlers and the scheduler depend on.
type Dashboard interface {
	Schema() schema.Schema
	Refresh(ctx context.Context) (models.Run, error)
	Current() (View, bool)
	Query(criteria map[string]string) (View, error)
	Records(criteria map[string]string) ([]Record, error)
	Select(criteria map[string]string) (View, []Record, error)
	LatestRun() (models.Run, bool)
}

// Pipeline fetches, decodes, validates and aggregates one dataset kind.
type Pipeline[R Record, M Metrics[M]] struct {
	schema    schema.Schema
	fetcher   ingest.Fetcher
	validator ingest.Validator[R]
	fallback  func() []R
	aggregate func([]R) M
	logger    zerolog.Logger

	mu      sync.RWMutex
	current *Snapshot[R, M]
	lastRun *models.Run
}

func NewPipeline[R Record, M Metrics[M]](
	s schema.Schema,
	fetcher ingest.Fetcher,
	build func(schema.Values) R,
	fallback func() []R,
	aggregate func([]R) M,
	logger zerolog.Logger,
) *Pipeline[R, M] {
	logger = logger.With().Str("dataset", string(s.Kind)).Logger()
	return &Pipeline[R, M]{
		schema:    s,
		fetcher:   fetcher,
		validator: ingest.NewValidator(s, build, logger),
		fallback:  fallback,
		aggregate: aggregate,
		logger:    logger,
	}
}

func NewReservationPipeline(fetcher ingest.Fetcher, logger zerolog.Logger) *Pipeline[models.Reservation, metrics.ReservationMetrics] {
	return NewPipeline(schema.Reservation, fetcher, models.NewReservation, ingest.FallbackReservations, metrics.Reservations, logger)
}

func NewEngagementPipeline(fetcher ingest.Fetcher, logger zerolog.Logger) *Pipeline[models.Engagement, metrics.EngagementMetrics] {
	return NewPipeline(schema.Engagement, fetcher, models.NewEngagement, ingest.FallbackEngagements, metrics.Engagements, logger)
}

// NewDashboard builds the pipeline for the configured dataset kind.
func NewDashboard(kind string, fetcher ingest.Fetcher, logger zerolog.Logger) (Dashboard, error) {
	s, err := schema.ByKind(kind)
	if err != nil {
		return nil, err
	}
	if s.Kind == schema.KindEngagements {
		return NewEngagementPipeline(fetcher, logger), nil
	}
	return NewReservationPipeline(fetcher, logger), nil
}

func (p *Pipeline[R, M]) Schema() schema.Schema {
	return p.schema
}

// Cycle runs one full ingestion cycle and publishes its snapshot. Data
// problems never surface as errors: a failed fetch or decode substitutes
// the fallback dataset and invalid rows are dropped. The only error is a
// context that is already done before the cycle starts, or one cancelled
// by the caller mid-cycle; in both cases the current snapshot is kept.
func (p *Pipeline[R, M]) Cycle(ctx context.Context) (Snapshot[R, M], error) {
	snap, _, err := p.cycle(ctx)
	return snap, err
}

func (p *Pipeline[R, M]) Refresh(ctx context.Context) (models.Run, error) {
	_, run, err := p.cycle(ctx)
	return run, err
}

func (p *Pipeline[R, M]) cycle(ctx context.Context) (Snapshot[R, M], models.Run, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot[R, M]{}, models.Run{}, err
	}

	run := models.Run{
		ID:        uuid.NewString(),
		Kind:      string(p.schema.Kind),
		Source:    models.SourceLive,
		StartedAt: time.Now().UTC(),
	}

	records, err := p.load(ctx, &run)
	if errors.Is(err, context.Canceled) {
		p.logger.Warn().Err(err).Str("cycle_id", run.ID).Msg("refresh cancelled, keeping current snapshot")
		return Snapshot[R, M]{}, run, err
	}
	if err != nil {
		run.Source = models.SourceFallback
		run.Error = err.Error()
		records = p.fallback()
		p.logger.Warn().Err(err).Str("cycle_id", run.ID).Msg("csv ingestion failed, serving fallback dataset")
	}
	run.Accepted = len(records)

	snap := &Snapshot[R, M]{
		CycleID:   run.ID,
		Kind:      p.schema.Kind,
		Source:    run.Source,
		StartedAt: run.StartedAt,
		Records:   records,
		Metrics:   p.aggregate(records),
	}
	snap.CompletedAt = time.Now().UTC()
	run.FinishedAt = snap.CompletedAt
	run.ElapsedMs = snap.CompletedAt.Sub(run.StartedAt).Milliseconds()

	p.publish(snap, run)

	p.logger.Info().
		Str("cycle_id", run.ID).
		Str("source", run.Source).
		Int("decoded", run.Decoded).
		Int("accepted", run.Accepted).
		Int("rejected", run.Rejected).
		Int64("elapsed_ms", run.ElapsedMs).
		Msg("snapshot refreshed")
	return p.copyOf(snap), run, nil
}

func (p *Pipeline[R, M]) load(ctx context.Context, run *models.Run) ([]R, error) {
	body, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	run.Checksum = utils.Fingerprint(body)
	rows, err := ingest.Decode(body)
	if err != nil {
		return nil, err
	}
	run.Decoded = len(rows)
	records, rejected := p.validator.All(rows)
	run.Rejected = rejected
	return records, nil
}

// publish replaces the current snapshot. Whichever cycle finishes last
// wins, regardless of when it started.
func (p *Pipeline[R, M]) publish(snap *Snapshot[R, M], run models.Run) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = snap
	p.lastRun = &run
}

// Snapshot returns a deep copy of the most recently completed snapshot.
func (p *Pipeline[R, M]) Snapshot() (Snapshot[R, M], bool) {
	p.mu.RLock()
	current := p.current
	p.mu.RUnlock()
	if current == nil {
		return Snapshot[R, M]{}, false
	}
	return p.copyOf(current), true
}

func (p *Pipeline[R, M]) copyOf(snap *Snapshot[R, M]) Snapshot[R, M] {
	out := *snap
	out.Records = slices.Clone(snap.Records)
	out.Metrics = snap.Metrics.Clone()
	return out
}

func (p *Pipeline[R, M]) Current() (View, bool) {
	snap, ok := p.Snapshot()
	if !ok {
		return View{}, false
	}
	return p.view(snap, snap.Records, snap.Metrics), true
}

// Query recomputes the metrics over the records of the current snapshot
// that match criteria.
func (p *Pipeline[R, M]) Query(criteria map[string]string) (View, error) {
	snap, ok := p.Snapshot()
	if !ok {
		return View{}, ErrNoSnapshot
	}
	filtered, err := Filter(p.schema, snap.Records, criteria)
	if err != nil {
		return View{}, err
	}
	return p.view(snap, filtered, p.aggregate(filtered)), nil
}

func (p *Pipeline[R, M]) Records(criteria map[string]string) ([]Record, error) {
	_, out, err := p.Select(criteria)
	return out, err
}

// Select returns the records matching criteria together with the view of
// the snapshot they were read from. The view carries the snapshot's own
// metrics, not ones recomputed over the selection.
func (p *Pipeline[R, M]) Select(criteria map[string]string) (View, []Record, error) {
	snap, ok := p.Snapshot()
	if !ok {
		return View{}, nil, ErrNoSnapshot
	}
	filtered, err := Filter(p.schema, snap.Records, criteria)
	if err != nil {
		return View{}, nil, err
	}
	out := make([]Record, 0, len(filtered))
	for _, r := range filtered {
		out = append(out, r)
	}
	return p.view(snap, filtered, snap.Metrics), out, nil
}

func (p *Pipeline[R, M]) LatestRun() (models.Run, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.lastRun == nil {
		return models.Run{}, false
	}
	return *p.lastRun, true
}

func (p *Pipeline[R, M]) view(snap Snapshot[R, M], records []R, m M) View {
	return View{
		CycleID:     snap.CycleID,
		Kind:        string(snap.Kind),
		Source:      snap.Source,
		StartedAt:   snap.StartedAt,
		CompletedAt: snap.CompletedAt,
		Count:       len(records),
		Records:     records,
		Metrics:     m,
	}
}
