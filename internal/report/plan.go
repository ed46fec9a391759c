package report

import (
	"strings"
	"time"

	"github.com/angelmondragon/routes-report/pkg/claims"
	"github.com/angelmondragon/routes-report/pkg/enums"
	pkgerrors "github.com/angelmondragon/routes-report/pkg/errors"
)

// DefaultLookbackDays widens single-day fetches so that claims created before
// their delivery day are still returned.
const DefaultLookbackDays = 3

// DateRange is an inclusive pair of YYYY-MM-DD dates. Either side may be empty.
type DateRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

func (r DateRange) IsZero() bool {
	return strings.TrimSpace(r.From) == "" && strings.TrimSpace(r.To) == ""
}

// PlanOptions carries the configured knobs of window planning.
type PlanOptions struct {
	LookbackDays int
	Monthly      DateRange
}

// Plan is the resolved fetch window of one report.
type Plan struct {
	Period    enums.ReportPeriod `json:"period"`
	From      string             `json:"from"`
	To        string             `json:"to"`
	TargetDay string             `json:"target_day,omitempty"`

	window claims.Window
}

// Window returns the creation-time window to fetch.
func (p Plan) Window() claims.Window {
	return p.window
}

// Label names the report in file names and headers.
func (p Plan) Label() string {
	if p.TargetDay != "" {
		return p.TargetDay
	}
	return p.From + "_" + p.To
}

// NewPlan resolves the fetch window. An explicit range wins over the period and
// disables the same-day filter.
func NewPlan(period enums.ReportPeriod, now time.Time, loc *time.Location, explicit DateRange, opts PlanOptions) (Plan, error) {
	if loc == nil {
		loc = time.UTC
	}
	today := startOfDay(now.In(loc))

	if !explicit.IsZero() {
		from, to, err := parseRange(explicit, loc)
		if err != nil {
			return Plan{}, err
		}
		return newPlan(period, from, to, ""), nil
	}

	if offset, ok := period.DayOffset(); ok {
		lookback := opts.LookbackDays
		if lookback <= 0 {
			lookback = DefaultLookbackDays
		}
		target := today.AddDate(0, 0, offset)
		return newPlan(period, target.AddDate(0, 0, -lookback), target, target.Format(dayLayout)), nil
	}

	if period != enums.ReportPeriodMonthly {
		return Plan{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown report period").
			WithDetails(map[string]any{"period": period.String()})
	}

	from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
	to := today
	if !opts.Monthly.IsZero() {
		bounds := opts.Monthly
		if bounds.From == "" {
			bounds.From = from.Format(dayLayout)
		}
		if bounds.To == "" {
			bounds.To = to.Format(dayLayout)
		}
		var err error
		if from, to, err = parseRange(bounds, loc); err != nil {
			return Plan{}, err
		}
	}
	return newPlan(period, from, to, ""), nil
}

func newPlan(period enums.ReportPeriod, from, to time.Time, target string) Plan {
	return Plan{
		Period:    period,
		From:      from.Format(dayLayout),
		To:        to.Format(dayLayout),
		TargetDay: target,
		window:    claims.Window{From: from, To: to},
	}
}

func parseRange(r DateRange, loc *time.Location) (time.Time, time.Time, error) {
	fromRaw, toRaw := strings.TrimSpace(r.From), strings.TrimSpace(r.To)
	if fromRaw == "" {
		fromRaw = toRaw
	}
	if toRaw == "" {
		toRaw = fromRaw
	}
	from, err := time.ParseInLocation(dayLayout, fromRaw, loc)
	if err != nil {
		return time.Time{}, time.Time{}, invalidDate("from", fromRaw)
	}
	to, err := time.ParseInLocation(dayLayout, toRaw, loc)
	if err != nil {
		return time.Time{}, time.Time{}, invalidDate("to", toRaw)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "date range ends before it starts").
			WithDetails(map[string]any{"from": fromRaw, "to": toRaw})
	}
	return from, to, nil
}

func invalidDate(field, value string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "dates must use YYYY-MM-DD").
		WithDetails(map[string]any{field: value})
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
