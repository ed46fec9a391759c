package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	clientSeparator = ";"
	fieldSeparator  = "|"
	defaultCODRange = "A:B"
)

var clientValidator = validator.New()

// ClientEntry binds a selectable client name to its bearer token and time zone.
// Clients with a COD spreadsheet are opted into cash-collection tracking.
type ClientEntry struct {
	Name           string `validate:"required"`
	Token          string `validate:"required"`
	Timezone       string `validate:"required,timezone"`
	CODSpreadsheet string
	CODRange       string
}

// Location resolves the IANA zone of the client.
func (c ClientEntry) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("client %q: load timezone %q: %w", c.Name, c.Timezone, err)
	}
	return loc, nil
}

// CashTracking reports whether COD reconciliation applies to the client.
func (c ClientEntry) CashTracking() bool {
	return strings.TrimSpace(c.CODSpreadsheet) != ""
}

func (c ClientEntry) validate() error {
	if err := clientValidator.Struct(c); err != nil {
		name := c.Name
		if name == "" {
			name = "<unnamed>"
		}
		return fmt.Errorf("client %s: %w", name, err)
	}
	return nil
}

// ClientEntries decodes ROUTESREPORT_CLIENTS, a list of
// name|token|timezone[|cod_spreadsheet_id[|cod_range]] entries separated by ';'.
type ClientEntries []ClientEntry

// Decode implements envconfig.Decoder.
func (e *ClientEntries) Decode(value string) error {
	var entries ClientEntries
	seen := map[string]struct{}{}
	for _, raw := range strings.Split(value, clientSeparator) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.Split(raw, fieldSeparator)
		if len(parts) < 3 || len(parts) > 5 {
			return fmt.Errorf("invalid client entry %q: expected name|token|timezone[|cod_spreadsheet[|cod_range]]", redact(parts))
		}
		entry := ClientEntry{
			Name:     strings.TrimSpace(parts[0]),
			Token:    strings.TrimSpace(parts[1]),
			Timezone: strings.TrimSpace(parts[2]),
		}
		if len(parts) > 3 {
			entry.CODSpreadsheet = strings.TrimSpace(parts[3])
			entry.CODRange = defaultCODRange
		}
		if len(parts) > 4 && strings.TrimSpace(parts[4]) != "" {
			entry.CODRange = strings.TrimSpace(parts[4])
		}
		key := strings.ToLower(entry.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate client %q", entry.Name)
		}
		seen[key] = struct{}{}
		entries = append(entries, entry)
	}
	*e = entries
	return nil
}

// redact keeps tokens out of config errors.
func redact(parts []string) string {
	clean := make([]string, len(parts))
	copy(clean, parts)
	if len(clean) > 1 {
		clean[1] = "***"
	}
	return strings.Join(clean, fieldSeparator)
}
