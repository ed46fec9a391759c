package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/routes-report/internal/report"
	"github.com/angelmondragon/routes-report/pkg/config"
	"github.com/angelmondragon/routes-report/pkg/enums"
	pkgerrors "github.com/angelmondragon/routes-report/pkg/errors"
)

type fakeReportService struct {
	rep         *report.Report
	err         error
	lastRequest report.Request
	refreshed   int
	cleared     int
}

func (f *fakeReportService) Report(_ context.Context, req report.Request) (*report.Report, error) {
	f.lastRequest = req
	return f.rep, f.err
}

func (f *fakeReportService) Refresh(_ context.Context, req report.Request) (*report.Report, error) {
	f.refreshed++
	f.lastRequest = req
	return f.rep, f.err
}

func (f *fakeReportService) InvalidateAll(context.Context) error {
	f.cleared++
	return f.err
}

func (f *fakeReportService) Policy() report.SummaryPolicy {
	return report.SummaryPolicy{UntakenExcluded: report.DefaultUntakenExcluded}
}

func sampleReport() *report.Report {
	return &report.Report{
		Client: "acme",
		Plan:   report.Plan{Period: enums.ReportPeriodToday, From: "2024-03-05", To: "2024-03-07", TargetDay: "2024-03-07"},
		Rows: []report.Row{
			{ClaimID: "c1", Status: enums.ClaimStatusDelivered, StoreName: "Centro", CourierName: "Ana", Proof: report.ProofProvided, Lat: 19.4, Lon: -99.1, Located: true},
			{ClaimID: "c2", Status: enums.ClaimStatusCancelled, StoreName: "Norte", CourierName: report.NoCourier, Proof: report.NotApplicable, Lat: 19.5, Lon: -99.2, Located: true},
		},
	}
}

func get(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Error map[string]any `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestGetReportAppliesFilterAndDefaults(t *testing.T) {
	svc := &fakeReportService{rep: sampleReport()}

	rec := get(GetReport(svc, nil), "/api/v1/reports?client=acme&store=centro")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, enums.ReportPeriodToday, svc.lastRequest.Period)
	require.Equal(t, "acme", svc.lastRequest.Client)

	var body struct {
		Data report.View `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Data.Rows, 1)
	require.Equal(t, "c1", body.Data.Rows[0].ClaimID)
	require.Equal(t, []string{"Centro", "Norte"}, body.Data.Stores)
}

func TestGetReportPassesExplicitRange(t *testing.T) {
	svc := &fakeReportService{rep: sampleReport()}

	rec := get(GetReport(svc, nil), "/api/v1/reports?client=acme&period=monthly&from=2024-03-01&to=2024-03-03")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, enums.ReportPeriodMonthly, svc.lastRequest.Period)
	require.Equal(t, report.DateRange{From: "2024-03-01", To: "2024-03-03"}, svc.lastRequest.Range)
}

func TestGetReportValidation(t *testing.T) {
	cases := map[string]string{
		"missing client":  "/api/v1/reports?period=today",
		"unknown period":  "/api/v1/reports?client=acme&period=yearly",
		"bad date":        "/api/v1/reports?client=acme&from=03-01-2024",
		"unknown status":  "/api/v1/reports?client=acme&status=lost",
		"bad bool filter": "/api/v1/reports?client=acme&without_cancelled=maybe",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &fakeReportService{rep: sampleReport()}
			rec := get(GetReport(svc, nil), target)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, string(pkgerrors.CodeValidation), decodeError(t, rec)["code"])
			require.Empty(t, svc.lastRequest.Client, "service must not be called")
		})
	}
}

func TestGetReportSurfacesServiceErrors(t *testing.T) {
	svc := &fakeReportService{err: pkgerrors.New(pkgerrors.CodeNotFound, `unknown client "zed"`)}
	rec := get(GetReport(svc, nil), "/api/v1/reports?client=zed")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, `unknown client "zed"`, decodeError(t, rec)["message"])

	svc = &fakeReportService{err: pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("dial tcp"), "claims request failed")}
	rec = get(GetReport(svc, nil), "/api/v1/reports?client=acme")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotContains(t, rec.Body.String(), "dial tcp")
}

func TestRefreshAndClear(t *testing.T) {
	svc := &fakeReportService{rep: sampleReport()}

	rec := httptest.NewRecorder()
	RefreshReport(svc, nil)(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reports/refresh?client=acme", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, svc.refreshed)

	rec = httptest.NewRecorder()
	ClearReportCache(svc, nil)(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reports/cache/clear", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, svc.cleared)
	require.JSONEq(t, `{"data":{"cleared":true}}`, rec.Body.String())
}

func TestExportReport(t *testing.T) {
	svc := &fakeReportService{rep: sampleReport()}

	rec := get(ExportReport(svc, nil), "/api/v1/reports/export?client=acme&without_cancelled=true")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, report.ContentType(report.FormatCSV), rec.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename="route_report_2024-03-07.csv"`, rec.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2, "header plus the single non-cancelled row")
	require.Contains(t, lines[1], "c1")

	rec = get(ExportReport(svc, nil), "/api/v1/reports/export?client=acme&format=xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `attachment; filename="route_report_2024-03-07.xlsx"`, rec.Header().Get("Content-Disposition"))
	require.True(t, strings.HasPrefix(rec.Body.String(), "PK"), "xlsx is a zip container")

	rec = get(ExportReport(svc, nil), "/api/v1/reports/export?client=acme&format=pdf")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, map[string]any{"format": "must be one of: csv, xlsx"}, decodeError(t, rec)["details"])
}

func TestReportMap(t *testing.T) {
	svc := &fakeReportService{rep: sampleReport()}

	rec := get(ReportMap(svc, nil), "/api/v1/reports/map?client=acme&status=delivered")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))
	require.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 1)
	require.Equal(t, "c1", doc.Features[0].Properties["claim_id"])
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestHealth(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}, Cache: config.CacheConfig{Backend: config.CacheBackendRedis}}

	rec := get(HealthLive(cfg), "/health/live")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "test", rec.Header().Get("X-RoutesReport-Env"))

	rec = get(HealthReady(cfg, nil, fakePinger{}), "/health/ready")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"data":{"status":"ready","cache":"redis"}}`, rec.Body.String())

	rec = get(HealthReady(cfg, nil, fakePinger{err: errors.New("connection refused")}), "/health/ready")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, string(pkgerrors.CodeDependency), decodeError(t, rec)["code"])
}

type fakeLister []report.ClientInfo

func (f fakeLister) Clients() []report.ClientInfo { return f }

func TestListClients(t *testing.T) {
	rec := get(ListClients(fakeLister{{Name: "acme", Timezone: "America/Mexico_City"}}), "/api/v1/clients")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"data":{"clients":[{"name":"acme","timezone":"America/Mexico_City","cash_tracking":false}]}}`, rec.Body.String())
}
