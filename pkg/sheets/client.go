package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/angelmondragon/routes-report/pkg/config"
	pkgerrors "github.com/angelmondragon/routes-report/pkg/errors"
)

var (
	errCredentialsRequired  = errors.New("sheets api key or credentials are required")
	errClientNotInitialized = errors.New("sheets client not initialized")
)

// valuesReader is the slice of the Sheets API the lookups need.
type valuesReader interface {
	Values(ctx context.Context, spreadsheetID, readRange string) ([][]any, error)
}

// Client reads cell ranges from Google Sheets.
type Client struct {
	reader valuesReader
}

// NewClient builds a read-only Sheets client. An API key works for link-shared
// sheets; service-account credentials are needed for private ones.
func NewClient(ctx context.Context, cfg config.SheetsConfig) (*Client, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &Client{reader: &serviceReader{svc: svc}}, nil
}

// NewClientWithReader is used by tests and callers holding their own reader.
func NewClientWithReader(reader valuesReader) *Client {
	return &Client{reader: reader}
}

func clientOptions(cfg config.SheetsConfig) ([]option.ClientOption, error) {
	opts := []option.ClientOption{option.WithScopes(gsheets.SpreadsheetsReadonlyScope)}
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case strings.TrimSpace(cfg.APIKey) != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, errCredentialsRequired
	}
	return opts, nil
}

// Column flattens every non-empty cell of the range, row by row.
func (c *Client) Column(ctx context.Context, spreadsheetID, readRange string) ([]string, error) {
	rows, err := c.read(ctx, spreadsheetID, readRange)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		for _, cell := range row {
			if value := cellString(cell); value != "" {
				out = append(out, value)
			}
		}
	}
	return out, nil
}

// Pairs returns the first two cells of each row. Rows missing a key are dropped;
// a missing second cell yields an empty value.
func (c *Client) Pairs(ctx context.Context, spreadsheetID, readRange string) ([][2]string, error) {
	rows, err := c.read(ctx, spreadsheetID, readRange)
	if err != nil {
		return nil, err
	}
	out := make([][2]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		key := cellString(row[0])
		if key == "" {
			continue
		}
		var value string
		if len(row) > 1 {
			value = cellString(row[1])
		}
		out = append(out, [2]string{key, value})
	}
	return out, nil
}

func (c *Client) read(ctx context.Context, spreadsheetID, readRange string) ([][]any, error) {
	if c == nil || c.reader == nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, errClientNotInitialized, "sheets client not configured")
	}
	if strings.TrimSpace(spreadsheetID) == "" || strings.TrimSpace(readRange) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "spreadsheet id and range are required")
	}
	rows, err := c.reader.Values(ctx, spreadsheetID, readRange)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read spreadsheet range").
			WithDetails(map[string]any{"range": readRange})
	}
	return rows, nil
}

func cellString(cell any) string {
	if cell == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(cell))
}

type serviceReader struct {
	svc *gsheets.Service
}

func (s *serviceReader) Values(ctx context.Context, spreadsheetID, readRange string) ([][]any, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}
