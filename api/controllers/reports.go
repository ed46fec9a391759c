package controllers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/angelmondragon/routes-report/api/responses"
	"github.com/angelmondragon/routes-report/api/validators"
	"github.com/angelmondragon/routes-report/internal/report"
	"github.com/angelmondragon/routes-report/pkg/enums"
	pkgerrors "github.com/angelmondragon/routes-report/pkg/errors"
	"github.com/angelmondragon/routes-report/pkg/logger"
)

// ReportService is the slice of report.Service the report endpoints use.
type ReportService interface {
	Report(ctx context.Context, req report.Request) (*report.Report, error)
	Refresh(ctx context.Context, req report.Request) (*report.Report, error)
	InvalidateAll(ctx context.Context) error
	Policy() report.SummaryPolicy
}

type reportQuery struct {
	Client           string   `query:"client" validate:"required"`
	Period           string   `query:"period" validate:"omitempty,report_period"`
	From             string   `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To               string   `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Statuses         []string `query:"status" validate:"dive,claim_status"`
	Stores           []string `query:"store"`
	Couriers         []string `query:"courier"`
	WithoutCancelled bool     `query:"without_cancelled"`
}

func parseReportQuery(r *http.Request) (reportQuery, error) {
	withoutCancelled, err := validators.QueryBool(r, "without_cancelled")
	if err != nil {
		return reportQuery{}, err
	}
	statuses := validators.QueryList(r, "status")
	for i := range statuses {
		statuses[i] = strings.ToLower(statuses[i])
	}
	q := reportQuery{
		Client:           validators.QueryString(r, "client"),
		Period:           strings.ToLower(validators.QueryString(r, "period")),
		From:             validators.QueryString(r, "from"),
		To:               validators.QueryString(r, "to"),
		Statuses:         statuses,
		Stores:           validators.QueryList(r, "store"),
		Couriers:         validators.QueryList(r, "courier"),
		WithoutCancelled: withoutCancelled,
	}
	if err := validators.Struct(q); err != nil {
		return reportQuery{}, err
	}
	return q, nil
}

func (q reportQuery) toRequest() report.Request {
	period := enums.ReportPeriod(q.Period)
	if period == "" {
		period = enums.ReportPeriodToday
	}
	return report.Request{
		Client: q.Client,
		Period: period,
		Range:  report.DateRange{From: q.From, To: q.To},
	}
}

func (q reportQuery) toFilter() report.Filter {
	statuses := make([]enums.ClaimStatus, 0, len(q.Statuses))
	for _, s := range q.Statuses {
		statuses = append(statuses, enums.ClaimStatus(s))
	}
	return report.Filter{
		Statuses:         statuses,
		Stores:           q.Stores,
		Couriers:         q.Couriers,
		WithoutCancelled: q.WithoutCancelled,
	}
}

type reportLoader func(ctx context.Context, req report.Request) (*report.Report, error)

func writeReportView(load reportLoader, svc ReportService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseReportQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rep, err := load(r.Context(), q.toRequest())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report.NewView(rep, q.toFilter(), svc.Policy()))
	}
}

// GetReport returns the memoized report for the selection, filtered and summarized.
func GetReport(svc ReportService, logg *logger.Logger) http.HandlerFunc {
	return writeReportView(svc.Report, svc, logg)
}

// RefreshReport rebuilds the report for the selection, bypassing the cache.
func RefreshReport(svc ReportService, logg *logger.Logger) http.HandlerFunc {
	return writeReportView(svc.Refresh, svc, logg)
}

// ClearReportCache drops every memoized report.
func ClearReportCache(svc ReportService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.InvalidateAll(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cleared": true})
	}
}

// ExportReport streams the filtered rows as a CSV or XLSX attachment.
func ExportReport(svc ReportService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := strings.ToLower(validators.QueryString(r, "format"))
		if format == "" {
			format = report.FormatCSV
		}
		if format != report.FormatCSV && format != report.FormatXLSX {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"format": "must be one of: csv, xlsx"}))
			return
		}
		q, err := parseReportQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rep, err := svc.Report(r.Context(), q.toRequest())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var buf bytes.Buffer
		if err := report.WriteExport(&buf, format, q.toFilter().Apply(rep.Rows), rep.CashTracking); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render export"))
			return
		}
		w.Header().Set("Content-Type", report.ContentType(format))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(rep.Plan, format)))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil && logg != nil {
			logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "report.export_write_failed")
		}
	}
}

// ReportMap returns the filtered drop-off points as GeoJSON.
func ReportMap(svc ReportService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseReportQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rep, err := svc.Report(r.Context(), q.toRequest())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteGeoJSON(w, report.MapLayer(q.toFilter().Apply(rep.Rows)))
	}
}
