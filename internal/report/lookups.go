package report

import (
	"context"
)

// LookupSource reads the cross-reference records kept outside the claims API.
type LookupSource interface {
	ProofOfDelivery(ctx context.Context) (PODSet, error)
	CashDeposits(ctx context.Context, sheet SheetRange) (CODLinks, error)
}

type sheetReader interface {
	Column(ctx context.Context, spreadsheetID, readRange string) ([]string, error)
	Pairs(ctx context.Context, spreadsheetID, readRange string) ([][2]string, error)
}

// SheetLookups serves both lookups from spreadsheets: one shared POD sheet
// and a per-client COD sheet.
type SheetLookups struct {
	reader sheetReader
	pod    SheetRange
}

func NewSheetLookups(reader sheetReader, pod SheetRange) *SheetLookups {
	return &SheetLookups{reader: reader, pod: pod}
}

func (s *SheetLookups) ProofOfDelivery(ctx context.Context) (PODSet, error) {
	ids, err := s.reader.Column(ctx, s.pod.SpreadsheetID, s.pod.Range)
	if err != nil {
		return nil, err
	}
	return NewPODSet(ids), nil
}

func (s *SheetLookups) CashDeposits(ctx context.Context, sheet SheetRange) (CODLinks, error) {
	pairs, err := s.reader.Pairs(ctx, sheet.SpreadsheetID, sheet.Range)
	if err != nil {
		return nil, err
	}
	return NewCODLinks(pairs), nil
}
