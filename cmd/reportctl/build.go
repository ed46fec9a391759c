package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/routes-report/internal/report"
	"github.com/angelmondragon/routes-report/pkg/claims"
	"github.com/angelmondragon/routes-report/pkg/enums"
)

const formatJSON = "json"

type buildOptions struct {
	client           string
	period           string
	from             string
	to               string
	format           string
	out              string
	statuses         []string
	stores           []string
	couriers         []string
	withoutCancelled bool
	quiet            bool
}

func newBuildCommand(open serviceFactory) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a report and write it as CSV, XLSX or JSON",
		Long: `Build the route report for one client and write it out.

Example:
  reportctl build --client acme --period yesterday --format xlsx
  reportctl build --client acme --from 2024-03-01 --to 2024-03-07 --out week.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, open, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.client, "client", "", "configured client name (required)")
	f.StringVar(&opts.period, "period", string(enums.ReportPeriodToday), "today, yesterday, tomorrow or monthly")
	f.StringVar(&opts.from, "from", "", "explicit range start, YYYY-MM-DD")
	f.StringVar(&opts.to, "to", "", "explicit range end, YYYY-MM-DD")
	f.StringVar(&opts.format, "format", report.FormatCSV, "csv, xlsx or json")
	f.StringVarP(&opts.out, "out", "o", "", "output file; defaults to stdout for csv and json")
	f.StringSliceVar(&opts.statuses, "status", nil, "keep only these claim statuses")
	f.StringSliceVar(&opts.stores, "store", nil, "keep only these store names")
	f.StringSliceVar(&opts.couriers, "courier", nil, "keep only these courier names")
	f.BoolVar(&opts.withoutCancelled, "without-cancelled", false, "drop cancelled claims")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "hide the fetch spinner")
	_ = cmd.MarkFlagRequired("client")

	return cmd
}

func (o *buildOptions) request() (report.Request, error) {
	period, err := enums.ParseReportPeriod(o.period)
	if err != nil {
		return report.Request{}, err
	}
	return report.Request{
		Client: o.client,
		Period: period,
		Range:  report.DateRange{From: strings.TrimSpace(o.from), To: strings.TrimSpace(o.to)},
	}, nil
}

func (o *buildOptions) filter() (report.Filter, error) {
	statuses := make([]enums.ClaimStatus, 0, len(o.statuses))
	for _, raw := range o.statuses {
		status, err := enums.ParseClaimStatus(raw)
		if err != nil {
			return report.Filter{}, err
		}
		statuses = append(statuses, status)
	}
	return report.Filter{
		Statuses:         statuses,
		Stores:           o.stores,
		Couriers:         o.couriers,
		WithoutCancelled: o.withoutCancelled,
	}, nil
}

func runBuild(cmd *cobra.Command, open serviceFactory, opts *buildOptions) error {
	format := strings.ToLower(opts.format)
	switch format {
	case report.FormatCSV, report.FormatXLSX, formatJSON:
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
	req, err := opts.request()
	if err != nil {
		return err
	}
	filter, err := opts.filter()
	if err != nil {
		return err
	}

	spinner := newFetchSpinner(cmd.ErrOrStderr(), opts.quiet)
	svc, closeFn, err := open(cmd.Context(), spinner.observe)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	rep, err := svc.Report(cmd.Context(), req)
	spinner.finish()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	path := opts.out
	if path == "" && format == report.FormatXLSX {
		path = report.Filename(rep.Plan, format)
	}
	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = file.Close() }()
		out = file
	}

	if err := writeReport(out, format, rep, filter, svc.Policy()); err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	}
	return nil
}

func writeReport(w io.Writer, format string, rep *report.Report, filter report.Filter, policy report.SummaryPolicy) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report.NewView(rep, filter, policy))
	}
	return report.WriteExport(w, format, filter.Apply(rep.Rows), rep.CashTracking)
}

// fetchSpinner reports claims paging progress on stderr.
type fetchSpinner struct {
	bar *progressbar.ProgressBar
}

func newFetchSpinner(w io.Writer, quiet bool) *fetchSpinner {
	if quiet {
		return &fetchSpinner{}
	}
	return &fetchSpinner{bar: progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("fetching claims"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)}
}

func (s *fetchSpinner) observe(stats claims.PageStats) {
	if s.bar == nil {
		return
	}
	s.bar.Describe(fmt.Sprintf("fetching claims, page %d", stats.Page))
	_ = s.bar.Add(stats.Claims)
}

func (s *fetchSpinner) finish() {
	if s.bar != nil {
		_ = s.bar.Finish()
	}
}
