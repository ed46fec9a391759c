package report

import (
	"context"
	"time"

	"github.com/angelmondragon/routes-report/pkg/config"
	"github.com/angelmondragon/routes-report/pkg/enums"
	pkgerrors "github.com/angelmondragon/routes-report/pkg/errors"
	"github.com/angelmondragon/routes-report/pkg/logger"
	"github.com/angelmondragon/routes-report/pkg/metrics"
)

// Request selects a report. A non-empty Range overrides Period.
type Request struct {
	Client string
	Period enums.ReportPeriod
	Range  DateRange
}

// ClientInfo is the public view of a configured client.
type ClientInfo struct {
	Name         string `json:"name"`
	Timezone     string `json:"timezone"`
	CashTracking bool   `json:"cash_tracking"`
}

type reportBuilder interface {
	Build(ctx context.Context, cc ClientContext, plan Plan) (*Report, error)
}

// Service memoizes report builds per (client, period, window).
type Service struct {
	clients config.ClientsConfig
	builder reportBuilder
	cache   Cache
	plan    PlanOptions
	policy  SummaryPolicy
	metrics *metrics.ReportMetrics
	logg    *logger.Logger
	now     func() time.Time
}

type ServiceParams struct {
	Clients config.ClientsConfig
	Builder reportBuilder
	Cache   Cache
	Plan    PlanOptions
	Policy  SummaryPolicy
	Metrics *metrics.ReportMetrics
	Logger  *logger.Logger
	Now     func() time.Time
}

func NewService(p ServiceParams) *Service {
	if p.Cache == nil {
		p.Cache = NewMemoryCache(0)
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &Service{
		clients: p.Clients,
		builder: p.Builder,
		cache:   p.Cache,
		plan:    p.Plan,
		policy:  p.Policy,
		metrics: p.Metrics,
		logg:    p.Logger,
		now:     p.Now,
	}
}

// Clients lists the configured clients in declaration order.
func (s *Service) Clients() []ClientInfo {
	out := make([]ClientInfo, 0, len(s.clients.Entries))
	for _, entry := range s.clients.Entries {
		out = append(out, ClientInfo{
			Name:         entry.Name,
			Timezone:     entry.Timezone,
			CashTracking: entry.CashTracking(),
		})
	}
	return out
}

func (s *Service) Policy() SummaryPolicy {
	return s.policy
}

// Report returns the memoized report for the request, building it on a miss.
func (s *Service) Report(ctx context.Context, req Request) (*Report, error) {
	cc, plan, err := s.resolve(req)
	if err != nil {
		return nil, err
	}
	key := NewCacheKey(cc.Name, plan)

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.warn(ctx, "report.cache_read_failed", key, err)
	}
	if ok {
		s.metrics.CacheHit()
		return cached, nil
	}
	s.metrics.CacheMiss()
	return s.build(ctx, cc, plan, key)
}

// Refresh drops the memoized report for the request and rebuilds it.
func (s *Service) Refresh(ctx context.Context, req Request) (*Report, error) {
	cc, plan, err := s.resolve(req)
	if err != nil {
		return nil, err
	}
	key := NewCacheKey(cc.Name, plan)
	if err := s.cache.Delete(ctx, key); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalidate cached report")
	}
	return s.build(ctx, cc, plan, key)
}

// InvalidateAll drops every memoized report.
func (s *Service) InvalidateAll(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear report cache")
	}
	if s.logg != nil {
		s.logg.Info(ctx, "report.cache_cleared")
	}
	return nil
}

// Ping checks the cache backend.
func (s *Service) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}

// Resolve returns the client context and plan of a request without building.
func (s *Service) Resolve(req Request) (ClientContext, Plan, error) {
	return s.resolve(req)
}

func (s *Service) resolve(req Request) (ClientContext, Plan, error) {
	entry, ok := s.clients.Lookup(req.Client)
	if !ok {
		return ClientContext{}, Plan{}, pkgerrors.New(pkgerrors.CodeNotFound, "unknown client").
			WithDetails(map[string]any{"client": req.Client})
	}
	cc, err := NewClientContext(entry)
	if err != nil {
		return ClientContext{}, Plan{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve client")
	}
	period := req.Period
	if period == "" {
		period = enums.ReportPeriodToday
	}
	plan, err := NewPlan(period, s.now(), cc.Location, req.Range, s.plan)
	if err != nil {
		return ClientContext{}, Plan{}, err
	}
	return cc, plan, nil
}

func (s *Service) build(ctx context.Context, cc ClientContext, plan Plan, key CacheKey) (*Report, error) {
	rep, err := s.builder.Build(ctx, cc, plan)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, rep); err != nil {
		s.warn(ctx, "report.cache_write_failed", key, err)
	}
	return rep, nil
}

func (s *Service) warn(ctx context.Context, msg string, key CacheKey, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
		"cache_key": key.String(),
		"error":     err.Error(),
	}), msg)
}
