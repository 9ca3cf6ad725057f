// Package sheets mirrors the transaction journal to a Google
// spreadsheet, one appended row per event.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"kharcha/internal/mirror"
)

type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetName     string
}

// New builds a sheets mirror using service-account credentials.
func New(ctx context.Context, spreadsheetID, sheetName, credentialsFile string) (*Client, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}
	if sheetName == "" {
		sheetName = "Transactions"
	}

	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	// Without an explicit credentials file the client falls back to
	// application default credentials.
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// AppendRow implements mirror.RowAppender.
func (c *Client) AppendRow(ctx context.Context, row mirror.Row) error {
	vr := &sheetsapi.ValueRange{
		Values: [][]interface{}{{
			row.Timestamp.Format(time.RFC3339),
			row.Op,
			row.ID,
			row.Title,
			row.Amount,
			row.Category,
			row.Date,
		}},
	}

	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheetName+"!A:G", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row to sheet %q: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Row mirrored to Google Sheets",
		"spreadsheet_id", c.spreadsheetID,
		"sheet", c.sheetName,
		"op", row.Op,
		"id", row.ID)

	return nil
}
