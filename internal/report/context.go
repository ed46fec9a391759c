package report

import (
	"strings"
	"time"

	"github.com/angelmondragon/routes-report/pkg/config"
)

// SheetRange addresses a cell range in a spreadsheet.
type SheetRange struct {
	SpreadsheetID string
	Range         string
}

// ClientContext carries everything one build needs to know about the selected
// client. It is resolved per request and passed explicitly.
type ClientContext struct {
	Name         string
	Credential   string `json:"-"`
	Location     *time.Location
	CashTracking bool
	CODSheet     SheetRange
}

// NewClientContext resolves the configured entry, loading its time zone.
func NewClientContext(entry config.ClientEntry) (ClientContext, error) {
	loc, err := entry.Location()
	if err != nil {
		return ClientContext{}, err
	}
	cc := ClientContext{
		Name:         strings.ToLower(entry.Name),
		Credential:   entry.Token,
		Location:     loc,
		CashTracking: entry.CashTracking(),
	}
	if cc.CashTracking {
		cc.CODSheet = SheetRange{SpreadsheetID: entry.CODSpreadsheet, Range: entry.CODRange}
	}
	return cc, nil
}
