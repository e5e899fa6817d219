package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

// Config carries the spreadsheet coordinates and service-account credentials.
type Config struct {
	SpreadsheetID   string
	StudentsSheet   string
	AttendanceSheet string
	ServiceAccount  string
	PrivateKey      string
}

// Fixed header rows written to row 1 of each sheet. Data rows start at A2.
var (
	StudentHeaders = []string{
		"id", "studentCode", "classLevel", "room", "number",
		"title", "firstName", "lastName", "createdAt", "updatedAt",
	}
	AttendanceHeaders = []string{
		"id", "studentId", "attendanceDate", "attendanceTime",
		"purposes", "createdAt", "updatedAt",
	}
)

// Client reads and writes whole sheet ranges. Every logical write replaces
// the full data range; there is no partial update.
type Client struct {
	cfg Config

	mu             sync.Mutex
	svc            *sheetsv4.Service
	structureReady bool
}

// NewClient builds a sheets client. Authentication happens lazily on first use.
func NewClient(cfg Config) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id must not be empty")
	}
	if cfg.ServiceAccount == "" || cfg.PrivateKey == "" {
		return nil, fmt.Errorf("service account credentials must not be empty")
	}
	if cfg.StudentsSheet == "" {
		cfg.StudentsSheet = "Students"
	}
	if cfg.AttendanceSheet == "" {
		cfg.AttendanceSheet = "Attendance"
	}

	return &Client{cfg: cfg}, nil
}

// StudentsSheet returns the configured students sheet name.
func (c *Client) StudentsSheet() string { return c.cfg.StudentsSheet }

// AttendanceSheet returns the configured attendance sheet name.
func (c *Client) AttendanceSheet() string { return c.cfg.AttendanceSheet }

// service authorizes the service account once and memoizes the API client.
// A failed handshake clears the memo so the next call retries.
func (c *Client) service(ctx context.Context) (*sheetsv4.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.svc != nil {
		return c.svc, nil
	}

	conf := &jwt.Config{
		Email:      c.cfg.ServiceAccount,
		PrivateKey: []byte(c.cfg.PrivateKey),
		Scopes:     []string{sheetsv4.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheetsv4.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	if err := c.ensureStructure(ctx, svc); err != nil {
		return nil, err
	}

	c.svc = svc

	return svc, nil
}

// ensureStructure creates missing sheet tabs and rewrites the header rows.
func (c *Client) ensureStructure(ctx context.Context, svc *sheetsv4.Service) error {
	if c.structureReady {
		return nil
	}

	spreadsheet, err := svc.Spreadsheets.Get(c.cfg.SpreadsheetID).
		Fields("sheets(properties(title))").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to inspect spreadsheet: %w", err)
	}

	existing := make(map[string]bool, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			existing[sheet.Properties.Title] = true
		}
	}

	definitions := []struct {
		title   string
		headers []string
	}{
		{c.cfg.StudentsSheet, StudentHeaders},
		{c.cfg.AttendanceSheet, AttendanceHeaders},
	}

	var requests []*sheetsv4.Request
	for _, definition := range definitions {
		if !existing[definition.title] {
			requests = append(requests, &sheetsv4.Request{
				AddSheet: &sheetsv4.AddSheetRequest{
					Properties: &sheetsv4.SheetProperties{Title: definition.title},
				},
			})
		}
	}

	if len(requests) > 0 {
		_, err = svc.Spreadsheets.BatchUpdate(c.cfg.SpreadsheetID, &sheetsv4.BatchUpdateSpreadsheetRequest{
			Requests: requests,
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to add missing sheets: %w", err)
		}
	}

	for _, definition := range definitions {
		header := make([]interface{}, len(definition.headers))
		for i, name := range definition.headers {
			header[i] = name
		}

		headerRange := fmt.Sprintf("%s!A1:%s1", escapeSheetName(definition.title), columnLabel(len(definition.headers)))
		_, err = svc.Spreadsheets.Values.Update(c.cfg.SpreadsheetID, headerRange, &sheetsv4.ValueRange{
			Values: [][]interface{}{header},
		}).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to write header row for %s: %w", definition.title, err)
		}
	}

	c.structureReady = true

	return nil
}

// ReadRows returns all data rows of a sheet, padded to columnCount cells.
func (c *Client) ReadRows(ctx context.Context, sheetName string, columnCount int) ([][]string, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	dataRange := fmt.Sprintf("%s!A2:%s", escapeSheetName(sheetName), columnLabel(columnCount))
	response, err := svc.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, dataRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}

	rows := make([][]string, 0, len(response.Values))
	for _, raw := range response.Values {
		row := make([]string, columnCount)
		for i := 0; i < columnCount && i < len(raw); i++ {
			row[i] = fmt.Sprint(raw[i])
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// WriteRows clears the data range and rewrites it with the provided rows.
func (c *Client) WriteRows(ctx context.Context, sheetName string, columnCount int, rows [][]string) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}

	dataRange := fmt.Sprintf("%s!A2:%s", escapeSheetName(sheetName), columnLabel(columnCount))
	_, err = svc.Spreadsheets.Values.Clear(c.cfg.SpreadsheetID, dataRange, &sheetsv4.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear sheet %s: %w", sheetName, err)
	}

	if len(rows) == 0 {
		return nil
	}

	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	_, err = svc.Spreadsheets.Values.Update(c.cfg.SpreadsheetID, dataRange, &sheetsv4.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write sheet %s: %w", sheetName, err)
	}

	return nil
}

// escapeSheetName quotes a sheet title for use inside an A1 range.
func escapeSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// columnLabel converts a 1-based column index to its A1 letter form.
func columnLabel(index int) string {
	label := ""
	for index > 0 {
		remainder := (index - 1) % 26
		label = string(rune('A'+remainder)) + label
		index = (index - 1) / 26
	}

	return label
}
