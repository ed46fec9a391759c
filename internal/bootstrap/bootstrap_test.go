package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/routes-report/internal/report"
	"github.com/angelmondragon/routes-report/pkg/config"
	"github.com/angelmondragon/routes-report/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Claims:  config.ClaimsConfig{URL: "http://claims.invalid/search", PageSize: 500, Language: "en"},
		Clients: config.ClientsConfig{Entries: config.ClientEntries{{Name: "acme", Token: "tok", Timezone: "UTC"}}},
		Sheets:  config.SheetsConfig{APIKey: "key", PODSpreadsheet: "sheet", PODRange: "A:A"},
		Cache:   config.CacheConfig{Backend: config.CacheBackendMemory},
		Report:  config.ReportConfig{LookbackDays: 3, UntakenExcludedStatuses: []string{"cancelled", "failed"}},
	}
}

func TestNewBuildsMemoryBackedService(t *testing.T) {
	rt, err := New(context.Background(), Params{Config: testConfig(), Logger: logger.New(logger.Options{ServiceName: "test"})})
	require.NoError(t, err)
	require.NotNil(t, rt.Service)
	require.NoError(t, rt.Service.Ping(context.Background()))
	require.NoError(t, rt.Close())

	require.Len(t, rt.Service.Policy().UntakenExcluded, 2)
	require.Equal(t, []report.ClientInfo{{Name: "acme", Timezone: "UTC"}}, rt.Service.Clients())
}

func TestNewRejectsBadSettings(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test"})

	cfg := testConfig()
	cfg.Cache.Backend = "memcached"
	_, err := New(context.Background(), Params{Config: cfg, Logger: logg})
	require.ErrorContains(t, err, "unknown cache backend")

	cfg = testConfig()
	cfg.Report.UntakenExcludedStatuses = []string{"lost"}
	_, err = New(context.Background(), Params{Config: cfg, Logger: logg})
	require.Error(t, err)

	_, err = New(context.Background(), Params{Logger: logg})
	require.Error(t, err)
}

func TestPlanOptions(t *testing.T) {
	got := PlanOptions(config.ReportConfig{LookbackDays: 5, MonthlyFrom: " 2024-03-01 ", MonthlyTo: ""})
	require.Equal(t, report.PlanOptions{LookbackDays: 5, Monthly: report.DateRange{From: "2024-03-01"}}, got)
}

func TestCloseOnNilRuntime(t *testing.T) {
	var rt *Runtime
	require.NoError(t, rt.Close())
}
