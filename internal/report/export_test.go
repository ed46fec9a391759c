package report

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/angelmondragon/routes-report/pkg/enums"
)

func exportRows() []Row {
	return []Row{
		{
			Date:            "2024-03-07",
			Cutoff:          "2024-03-07 09:30",
			ClientID:        "A1",
			ClaimID:         "c1",
			PointID:         "d-c1",
			PickupAddress:   "Warehouse 1",
			ReceiverAddress: "Calle 5, Col. Centro",
			ReceiverPhone:   "+521111111111",
			ReceiverName:    "Jane Doe",
			Status:          enums.ClaimStatusDelivered,
			StatusTime:      "2024-03-07T18:00:00+00:00",
			StoreName:       "Main Store",
			CourierName:     "Luis",
			CourierPark:     "Fleet SA",
			ReturnReason:    NoReturnReason,
			ReturnComment:   NoReturnComment,
			CancelReason:    NoCancelReason,
			RouteID:         "r1",
			Lat:             19.4126,
			Lon:             -99.1632,
			StoreLat:        19.4326,
			StoreLon:        -99.1332,
			Located:         true,
			StoreLocated:    true,
			PriceOfGoods:    decimal.RequireFromString("250.00"),
			Proof:           ProofProvided,
			CashCollected:   DepositVerified,
			ProofLink:       "https://drive/a1",
			DistanceKM:      kmPtr(3.76),
		},
		{
			Date:            "2024-03-07",
			Cutoff:          "2024-03-07 11:00",
			ClientID:        "A2",
			ClaimID:         "c2",
			PointID:         "d-c2",
			PickupAddress:   "Warehouse 1",
			ReceiverAddress: "Av. Reforma 10",
			ReceiverPhone:   "+522222222222",
			ReceiverName:    `Bob "B" Smith`,
			Status:          enums.ClaimStatusPerformerLookup,
			StatusTime:      "2024-03-07T17:00:00+00:00",
			StoreName:       "Main Store",
			CourierName:     NoCourier,
			CourierPark:     NoCourier,
			ReturnReason:    NoReturnReason,
			ReturnComment:   NoReturnComment,
			CancelReason:    NoCancelReason,
			RouteID:         NoRoute,
			Lat:             19.5,
			Lon:             -99.2,
			StoreLat:        19.4326,
			StoreLon:        -99.1332,
			Located:         true,
			StoreLocated:    true,
			PriceOfGoods:    decimal.RequireFromString("0.5"),
			Proof:           NotApplicable,
			CashCollected:   Prepaid,
			ProofLink:       Prepaid,
			DistanceKM:      kmPtr(10.2),
		},
	}
}

func TestWriteCSVGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportRows(), false))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "route_report", buf.Bytes())
}

func TestWriteCSVCashColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExport(&buf, FormatCSV, exportRows(), true))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "route_report_cash", buf.Bytes())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExport(&buf, FormatXLSX, exportRows(), true))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = book.Close() }()

	rows, err := book.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "date", rows[0][0])
	require.Equal(t, "distance_km", rows[0][len(rows[0])-1])
	require.Equal(t, "cash_collected", rows[0][len(rows[0])-3])
	require.Equal(t, "c1", rows[1][3])
	require.Equal(t, "Deposit verified", rows[1][len(rows[1])-3])
	require.Equal(t, `Bob "B" Smith`, rows[2][8])
}

func TestWriteExportRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, WriteExport(&buf, "pdf", exportRows(), false))
}

func TestFilename(t *testing.T) {
	single := Plan{From: "2024-03-04", To: "2024-03-07", TargetDay: "2024-03-07"}
	require.Equal(t, "route_report_2024-03-07.csv", Filename(single, FormatCSV))

	window := Plan{From: "2024-03-01", To: "2024-03-07"}
	require.Equal(t, "route_report_2024-03-01_2024-03-07.xlsx", Filename(window, FormatXLSX))
}
