package report

import (
	"context"
	"time"

	"github.com/angelmondragon/routes-report/pkg/claims"
	"github.com/angelmondragon/routes-report/pkg/logger"
	"github.com/angelmondragon/routes-report/pkg/metrics"
)

// ClaimsFetcher lists the claims created inside a window.
type ClaimsFetcher interface {
	FetchClaims(ctx context.Context, credential string, window claims.Window) ([]claims.Claim, error)
}

// Report is one built report before filtering.
type Report struct {
	Client       string             `json:"client"`
	Plan         Plan               `json:"plan"`
	Rows         []Row              `json:"rows"`
	BuiltAt      time.Time          `json:"built_at"`
	CashTracking bool               `json:"cash_tracking"`
	Skipped      map[SkipReason]int `json:"skipped,omitempty"`
}

// Builder runs the fetch, extract and annotate pipeline for one client.
type Builder struct {
	fetcher ClaimsFetcher
	lookups LookupSource
	metrics *metrics.ReportMetrics
	logg    *logger.Logger
	now     func() time.Time
}

type BuilderOption func(*Builder)

func WithMetrics(m *metrics.ReportMetrics) BuilderOption {
	return func(b *Builder) {
		b.metrics = m
	}
}

func WithLogger(logg *logger.Logger) BuilderOption {
	return func(b *Builder) {
		b.logg = logg
	}
}

// WithClock replaces time.Now for build timestamps.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

func NewBuilder(fetcher ClaimsFetcher, lookups LookupSource, opts ...BuilderOption) *Builder {
	b := &Builder{
		fetcher: fetcher,
		lookups: lookups,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Build fetches every claim in the plan window and turns it into annotated
// rows. Any fetch or lookup failure aborts the build.
func (b *Builder) Build(ctx context.Context, cc ClientContext, plan Plan) (rep *Report, err error) {
	started := b.now()
	if b.logg != nil {
		ctx = b.logg.WithPeriod(b.logg.WithClient(ctx, cc.Name), plan.Period.String())
		b.logg.Info(b.logg.WithFields(ctx, map[string]any{
			"from":       plan.From,
			"to":         plan.To,
			"target_day": plan.TargetDay,
		}), "report.build_started")
	}
	defer func() {
		elapsed := b.now().Sub(started)
		b.metrics.ObserveBuild(cc.Name, plan.Period.String(), elapsed, err)
		b.logOutcome(ctx, rep, elapsed, err)
	}()

	fetched, err := b.fetcher.FetchClaims(ctx, cc.Credential, plan.Window())
	if err != nil {
		return nil, err
	}
	b.metrics.AddClaims(cc.Name, len(fetched))

	rows := make([]Row, 0, len(fetched))
	skipped := make(map[SkipReason]int)
	for _, claim := range fetched {
		row, reason := Extract(claim, cc.Location, plan.TargetDay)
		if reason != SkipNone {
			skipped[reason]++
			if reason == SkipMissingPoints && b.logg != nil {
				b.logg.Warn(b.logg.WithField(ctx, "claim_id", claim.ID), "report.claim_missing_route_points")
			}
			continue
		}
		rows = append(rows, row)
	}
	for reason, n := range skipped {
		b.metrics.AddSkipped(cc.Name, string(reason), n)
	}

	pod, err := b.lookups.ProofOfDelivery(ctx)
	if err != nil {
		return nil, err
	}
	var cod CODLinks
	if cc.CashTracking {
		if cod, err = b.lookups.CashDeposits(ctx, cc.CODSheet); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		row = AnnotateProof(row, pod)
		if cc.CashTracking {
			row = AnnotateCash(row, cod)
		}
		rows[i] = WithDistance(row)
	}

	return &Report{
		Client:       cc.Name,
		Plan:         plan,
		Rows:         rows,
		BuiltAt:      b.now(),
		CashTracking: cc.CashTracking,
		Skipped:      skipped,
	}, nil
}

func (b *Builder) logOutcome(ctx context.Context, rep *Report, elapsed time.Duration, err error) {
	if b.logg == nil {
		return
	}
	fields := map[string]any{"duration_ms": elapsed.Milliseconds()}
	if err != nil {
		b.logg.Error(b.logg.WithFields(ctx, fields), "report.build_failed", err)
		return
	}
	skipped := 0
	for _, n := range rep.Skipped {
		skipped += n
	}
	fields["rows"] = len(rep.Rows)
	fields["skipped"] = skipped
	b.logg.Info(b.logg.WithFields(ctx, fields), "report.build_completed")
}
