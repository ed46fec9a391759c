package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	sheetName = "Report"
)

type column struct {
	header string
	value  func(Row) string
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// located renders a coordinate, or an empty cell when the point has none.
func located(ok bool, v float64) string {
	if !ok {
		return ""
	}
	return formatFloat(v)
}

var baseColumns = []column{
	{"date", func(r Row) string { return r.Date }},
	{"cutoff", func(r Row) string { return r.Cutoff }},
	{"client_id", func(r Row) string { return r.ClientID }},
	{"claim_id", func(r Row) string { return r.ClaimID }},
	{"point_id", func(r Row) string { return r.PointID }},
	{"pickup_address", func(r Row) string { return r.PickupAddress }},
	{"receiver_address", func(r Row) string { return r.ReceiverAddress }},
	{"receiver_phone", func(r Row) string { return r.ReceiverPhone }},
	{"receiver_name", func(r Row) string { return r.ReceiverName }},
	{"status", func(r Row) string { return r.Status.String() }},
	{"status_time", func(r Row) string { return r.StatusTime }},
	{"store_name", func(r Row) string { return r.StoreName }},
	{"courier_name", func(r Row) string { return r.CourierName }},
	{"courier_park", func(r Row) string { return r.CourierPark }},
	{"return_reason", func(r Row) string { return r.ReturnReason }},
	{"return_comment", func(r Row) string { return r.ReturnComment }},
	{"autocancel_reason", func(r Row) string { return r.CancelReason }},
	{"route_id", func(r Row) string { return r.RouteID }},
	{"lat", func(r Row) string { return located(r.Located, r.Lat) }},
	{"lon", func(r Row) string { return located(r.Located, r.Lon) }},
	{"store_lat", func(r Row) string { return located(r.StoreLocated, r.StoreLat) }},
	{"store_lon", func(r Row) string { return located(r.StoreLocated, r.StoreLon) }},
	{"price_of_goods", func(r Row) string { return r.PriceOfGoods.String() }},
	{"proof", func(r Row) string { return r.Proof }},
}

var cashColumns = []column{
	{"cash_collected", func(r Row) string { return r.CashCollected }},
	{"prooflink", func(r Row) string { return r.ProofLink }},
}

var distanceColumn = column{"distance_km", func(r Row) string {
	km, ok := r.Distance()
	return located(ok, km)
}}

func columnsFor(cashTracking bool) []column {
	cols := make([]column, 0, len(baseColumns)+len(cashColumns)+1)
	cols = append(cols, baseColumns...)
	if cashTracking {
		cols = append(cols, cashColumns...)
	}
	return append(cols, distanceColumn)
}

// Filename is the download name of an export, e.g. route_report_2024-03-07.csv.
func Filename(plan Plan, format string) string {
	return fmt.Sprintf("route_report_%s.%s", plan.Label(), format)
}

// ContentType returns the MIME type of an export format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// WriteExport writes rows in the requested format.
func WriteExport(w io.Writer, format string, rows []Row, cashTracking bool) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows, cashTracking)
	case FormatXLSX:
		return WriteXLSX(w, rows, cashTracking)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func WriteCSV(w io.Writer, rows []Row, cashTracking bool) error {
	cols := columnsFor(cashTracking)
	out := csv.NewWriter(w)

	record := make([]string, len(cols))
	for i, col := range cols {
		record[i] = col.header
	}
	if err := out.Write(record); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range rows {
		for i, col := range cols {
			record[i] = col.value(row)
		}
		if err := out.Write(record); err != nil {
			return fmt.Errorf("writing csv row %s: %w", row.ClaimID, err)
		}
	}
	out.Flush()
	return out.Error()
}

func WriteXLSX(w io.Writer, rows []Row, cashTracking bool) error {
	cols := columnsFor(cashTracking)
	book := excelize.NewFile()
	defer func() { _ = book.Close() }()

	if err := book.SetSheetName(book.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	stream, err := book.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("opening sheet stream: %w", err)
	}

	header := make([]any, len(cols))
	for i, col := range cols {
		header[i] = col.header
	}
	if err := stream.SetRow("A1", header); err != nil {
		return fmt.Errorf("writing xlsx header: %w", err)
	}
	for n, row := range rows {
		values := make([]any, len(cols))
		for i, col := range cols {
			values[i] = col.value(row)
		}
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return err
		}
		if err := stream.SetRow(cell, values); err != nil {
			return fmt.Errorf("writing xlsx row %s: %w", row.ClaimID, err)
		}
	}
	if err := stream.Flush(); err != nil {
		return fmt.Errorf("flushing xlsx stream: %w", err)
	}
	if _, err := book.WriteTo(w); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}
	return nil
}
