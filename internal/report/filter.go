package report

import (
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/routes-report/pkg/enums"
)

// Filter narrows a report to the rows the caller selected. Empty lists match
// everything.
type Filter struct {
	Statuses         []enums.ClaimStatus
	Stores           []string
	Couriers         []string
	WithoutCancelled bool
}

func (f Filter) Apply(rows []Row) []Row {
	statuses := make(map[enums.ClaimStatus]struct{}, len(f.Statuses))
	for _, s := range f.Statuses {
		statuses[s] = struct{}{}
	}
	stores := foldSet(f.Stores)
	couriers := foldSet(f.Couriers)

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if f.WithoutCancelled && row.Status.IsCancelled() {
			continue
		}
		if len(statuses) > 0 {
			if _, ok := statuses[row.Status]; !ok {
				continue
			}
		}
		if !matches(stores, row.StoreName) || !matches(couriers, row.CourierName) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func foldSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			set[strings.ToLower(trimmed)] = struct{}{}
		}
	}
	return set
}

func matches(set map[string]struct{}, value string) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// View is a filtered report with its summary.
type View struct {
	Client     string              `json:"client"`
	ReportDate string              `json:"report_date"`
	Plan       Plan                `json:"plan"`
	BuiltAt    time.Time           `json:"built_at"`
	Rows       []Row               `json:"rows"`
	Summary    Summary             `json:"summary"`
	Statuses   []enums.ClaimStatus `json:"statuses"`
	Stores     []string            `json:"stores"`
	Couriers   []string            `json:"couriers"`
}

// NewView filters the report and aggregates the remaining rows. The facet
// lists come from the unfiltered rows so the caller can widen the selection.
func NewView(rep *Report, filter Filter, policy SummaryPolicy) View {
	rows := filter.Apply(rep.Rows)
	return View{
		Client:     rep.Client,
		ReportDate: rep.Plan.Label(),
		Plan:       rep.Plan,
		BuiltAt:    rep.BuiltAt,
		Rows:       rows,
		Summary:    Aggregate(rows, policy),
		Statuses:   presentStatuses(rep.Rows),
		Stores:     distinct(rep.Rows, func(r Row) string { return r.StoreName }),
		Couriers:   distinct(rep.Rows, func(r Row) string { return r.CourierName }),
	}
}

func presentStatuses(rows []Row) []enums.ClaimStatus {
	seen := make(map[enums.ClaimStatus]struct{})
	for _, row := range rows {
		seen[row.Status] = struct{}{}
	}
	out := make([]enums.ClaimStatus, 0, len(seen))
	for _, status := range enums.ClaimStatuses() {
		if _, ok := seen[status]; ok {
			out = append(out, status)
			delete(seen, status)
		}
	}
	// unknown upstream statuses go last
	extra := make([]enums.ClaimStatus, 0, len(seen))
	for status := range seen {
		extra = append(extra, status)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

func distinct(rows []Row, field func(Row) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, row := range rows {
		value := field(row)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}
