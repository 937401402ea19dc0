package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	ports "farmhub/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const defaultSheetName = "Ledger"

// Options configures the ledger client. One of CredentialsJSON or
// CredentialsFile must hold a service-account key.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// sheetBase is the name without year; each year gets "<year> <base>".
	sheetBase string

	mu     sync.Mutex
	sheets map[string]int64 // title -> sheet id
}

// Ensure interface conformance
var _ ports.Ledger = (*Client)(nil)

func New(ctx context.Context, opts Options) (*Client, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	base := strings.TrimSpace(opts.SheetName)
	if base == "" {
		base = defaultSheetName
	}

	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetBase: base}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Falls back to GOOGLE_APPLICATION_CREDENTIALS when neither option is set.
func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(opts.CredentialsJSON)
	serviceAccountFile := strings.TrimSpace(opts.CredentialsFile)
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	credentialsJSON, err := readCredentials(serviceAccountJSON, serviceAccountFile)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func readCredentials(inline, file string) ([]byte, error) {
	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// Append writes row at the end of its year's sheet, creating the sheet with
// a header row when it does not exist yet.
func (c *Client) Append(ctx context.Context, row ports.LedgerRow) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if row.Date.IsZero() {
		return "", errors.New("ledger row has no date")
	}

	sheet := yearPrefixedName(c.sheetBase, row.Date.Year())
	if err := c.ensureSheet(ctx, sheet); err != nil {
		return "", err
	}

	vr := &gsheet.ValueRange{Values: [][]any{row.Values()}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, sheet+"!A:H", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", sheet, err)
	}

	ref := sheet
	if resp.Updates != nil {
		ref = resp.Updates.UpdatedRange
	}
	return ref, nil
}

// Delete removes the rows whose ID column equals id from every ledger sheet.
func (c *Client) Delete(ctx context.Context, id int64) (int, error) {
	if c.svc == nil {
		return 0, errors.New("sheets service not initialized")
	}
	if err := c.refreshSheets(ctx); err != nil {
		return 0, err
	}

	c.mu.Lock()
	targets := make(map[string]int64)
	for title, sheetID := range c.sheets {
		if isLedgerSheet(title, c.sheetBase) {
			targets[title] = sheetID
		}
	}
	c.mu.Unlock()

	removed := 0
	for title, sheetID := range targets {
		resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, title+"!A:A").Context(ctx).Do()
		if err != nil {
			return removed, fmt.Errorf("read %s: %w", title, err)
		}
		rows := findRows(resp.Values, id)
		if len(rows) == 0 {
			continue
		}

		req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: deleteRequests(sheetID, rows)}
		if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
			return removed, fmt.Errorf("delete rows from %s: %w", title, err)
		}
		removed += len(rows)
	}
	return removed, nil
}

func (c *Client) ensureSheet(ctx context.Context, title string) error {
	c.mu.Lock()
	_, ok := c.sheets[title]
	c.mu.Unlock()
	if ok {
		return nil
	}

	if err := c.refreshSheets(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	_, ok = c.sheets[title]
	c.mu.Unlock()
	if ok {
		return nil
	}

	slog.InfoContext(ctx, "Creating ledger sheet", "sheet", title)
	req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
		AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: title}},
	}}}
	resp, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil {
		c.mu.Lock()
		c.sheets[title] = resp.Replies[0].AddSheet.Properties.SheetId
		c.mu.Unlock()
	}

	header := &gsheet.ValueRange{Values: [][]any{ports.Header}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, title+"!A1:H1", header).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header to %s: %w", title, err)
	}
	return nil
}

// refreshSheets reloads the title to sheet id map.
func (c *Client) refreshSheets(ctx context.Context) error {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	sheets := make(map[string]int64, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			sheets[s.Properties.Title] = s.Properties.SheetId
		}
	}
	c.mu.Lock()
	c.sheets = sheets
	c.mu.Unlock()
	return nil
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if hasYearPrefix(base) {
		return base
	}
	return fmt.Sprintf("%d %s", year, base)
}

func hasYearPrefix(name string) bool {
	if len(name) < 5 || name[4] != ' ' {
		return false
	}
	y, err := strconv.Atoi(name[0:4])
	return err == nil && y > 1900 && y < 3000
}

// isLedgerSheet reports whether title is a year sheet of base.
func isLedgerSheet(title, base string) bool {
	base = strings.TrimSpace(base)
	if hasYearPrefix(base) {
		return title == base
	}
	return hasYearPrefix(title) && strings.EqualFold(strings.TrimSpace(title[5:]), base)
}

// findRows returns the zero-based indexes of rows whose first cell is id.
func findRows(values [][]any, id int64) []int64 {
	want := strconv.FormatInt(id, 10)
	var rows []int64
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == want {
			rows = append(rows, int64(i))
		}
	}
	return rows
}

// deleteRequests deletes rows bottom-up so earlier indexes stay valid.
func deleteRequests(sheetID int64, rows []int64) []*gsheet.Request {
	reqs := make([]*gsheet.Request, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		reqs = append(reqs, &gsheet.Request{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: rows[i],
					EndIndex:   rows[i] + 1,
				},
			},
		})
	}
	return reqs
}
