package audit

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	sheetsAppendRange = "Applications!A:J"
	sheetsHeaderRange = "Applications!A1:J1"
)

type SheetsSink struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsSink authenticates with a service account key given as JSON.
func NewSheetsSink(ctx context.Context, serviceAccountJSON []byte, spreadsheetID string) (*SheetsSink, error) {
	conf, err := google.JWTConfigFromJSON(serviceAccountJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	return NewSheetsSinkWithOptions(ctx, spreadsheetID, option.WithHTTPClient(conf.Client(ctx)))
}

func NewSheetsSinkWithOptions(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*SheetsSink, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsSink{service: service, spreadsheetID: spreadsheetID}, nil
}

// Write appends one row. A 400 usually means the Applications sheet has no
// usable range yet, so the header is written and the append retried once.
func (s *SheetsSink) Write(ctx context.Context, event Event) error {
	err := s.append(ctx, event.Row())
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusBadRequest {
		return fmt.Errorf("append audit row: %w", err)
	}
	if err := s.writeHeader(ctx); err != nil {
		return fmt.Errorf("write audit header: %w", err)
	}
	if err := s.append(ctx, event.Row()); err != nil {
		return fmt.Errorf("append audit row after header: %w", err)
	}
	return nil
}

func (s *SheetsSink) append(ctx context.Context, row []string) error {
	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, sheetsAppendRange, &sheets.ValueRange{Values: [][]interface{}{toCells(row)}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

func (s *SheetsSink) writeHeader(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.
		Update(s.spreadsheetID, sheetsHeaderRange, &sheets.ValueRange{Values: [][]interface{}{toCells(Header)}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, value := range row {
		cells[i] = value
	}
	return cells
}
