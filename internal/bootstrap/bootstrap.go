// Package bootstrap wires the report service from configuration. The API
// server and the CLI share it so both build reports the same way.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/angelmondragon/routes-report/internal/report"
	"github.com/angelmondragon/routes-report/pkg/claims"
	"github.com/angelmondragon/routes-report/pkg/config"
	"github.com/angelmondragon/routes-report/pkg/logger"
	"github.com/angelmondragon/routes-report/pkg/metrics"
	"github.com/angelmondragon/routes-report/pkg/redis"
	"github.com/angelmondragon/routes-report/pkg/sheets"
)

type Params struct {
	Config *config.Config
	Logger *logger.Logger
	// Registerer receives the report metrics. Nil disables them.
	Registerer prometheus.Registerer
	// PageObserver is notified after each claims page.
	PageObserver claims.PageObserver
}

// Runtime owns the report service and the connections behind it.
type Runtime struct {
	Service *report.Service
	closers []func() error
}

func New(ctx context.Context, p Params) (*Runtime, error) {
	if p.Config == nil {
		return nil, errors.New("config is required")
	}
	if p.Logger == nil {
		return nil, errors.New("logger is required")
	}
	cfg := p.Config
	rt := &Runtime{}

	policy, err := report.NewSummaryPolicy(cfg.Report.UntakenExcludedStatuses)
	if err != nil {
		return nil, err
	}

	fetcher, err := claims.NewClient(cfg.Claims.URL,
		claims.WithPageSize(cfg.Claims.PageSize),
		claims.WithTimeout(cfg.Claims.Timeout),
		claims.WithLanguage(cfg.Claims.Language),
		claims.WithLogger(p.Logger),
		claims.WithPageObserver(p.PageObserver),
	)
	if err != nil {
		return nil, fmt.Errorf("creating claims client: %w", err)
	}

	sheetsClient, err := sheets.NewClient(ctx, cfg.Sheets)
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}
	lookups := report.NewSheetLookups(sheetsClient, report.SheetRange{
		SpreadsheetID: cfg.Sheets.PODSpreadsheet,
		Range:         cfg.Sheets.PODRange,
	})

	cache, err := rt.cache(ctx, cfg, p.Logger)
	if err != nil {
		return nil, err
	}

	reportMetrics := metrics.NewReportMetrics(p.Registerer)
	builder := report.NewBuilder(fetcher, lookups,
		report.WithMetrics(reportMetrics),
		report.WithLogger(p.Logger),
	)

	rt.Service = report.NewService(report.ServiceParams{
		Clients: cfg.Clients,
		Builder: builder,
		Cache:   cache,
		Plan:    PlanOptions(cfg.Report),
		Policy:  policy,
		Metrics: reportMetrics,
		Logger:  p.Logger,
	})
	return rt, nil
}

func (rt *Runtime) cache(ctx context.Context, cfg *config.Config, logg *logger.Logger) (report.Cache, error) {
	switch strings.ToLower(cfg.Cache.Backend) {
	case "", config.CacheBackendMemory:
		return report.NewMemoryCache(cfg.Cache.TTL), nil
	case config.CacheBackendRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrapping redis: %w", err)
		}
		rt.closers = append(rt.closers, client.Close)
		return report.NewRedisCache(client, cfg.Cache.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// PlanOptions maps the report settings onto window planning options.
func PlanOptions(cfg config.ReportConfig) report.PlanOptions {
	return report.PlanOptions{
		LookbackDays: cfg.LookbackDays,
		Monthly: report.DateRange{
			From: strings.TrimSpace(cfg.MonthlyFrom),
			To:   strings.TrimSpace(cfg.MonthlyTo),
		},
	}
}

// Close releases every connection opened by New.
func (rt *Runtime) Close() error {
	if rt == nil {
		return nil
	}
	var err error
	for _, closeFn := range rt.closers {
		err = multierr.Append(err, closeFn())
	}
	return err
}
