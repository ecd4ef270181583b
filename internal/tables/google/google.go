// Package google persists the two collections in a Google Sheets
// spreadsheet, one worksheet per table, first row = header. Saves clear the
// worksheet and rewrite it in full.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"timeline/internal/core"
	"timeline/internal/tables"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const (
	defaultActivitiesSheet = "Activities"
	defaultCategoriesSheet = "Categories"
)

type Config struct {
	SpreadsheetID   string
	ActivitiesSheet string
	CategoriesSheet string
	// Service account credentials: inline JSON wins over the file path.
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc             *gsheet.Service
	spreadsheetID   string
	activitiesSheet string
	categoriesSheet string
}

// Ensure interface conformance
var (
	_ tables.ActivityTable = (*Client)(nil)
	_ tables.CategoryTable = (*Client)(nil)
)

// New creates a Sheets client and provisions the two worksheets if either is
// missing: both get the canonical header row, and Categories gets the seed
// entry so the collection is never empty from first use.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if cfg.ActivitiesSheet == "" {
		cfg.ActivitiesSheet = defaultActivitiesSheet
	}
	if cfg.CategoriesSheet == "" {
		cfg.CategoriesSheet = defaultCategoriesSheet
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	c := &Client{
		svc:             svc,
		spreadsheetID:   cfg.SpreadsheetID,
		activitiesSheet: cfg.ActivitiesSheet,
		categoriesSheet: cfg.CategoriesSheet,
	}
	if err := c.provision(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials, either inline JSON or a key file.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	credentialsJSON := []byte(strings.TrimSpace(cfg.CredentialsJSON))
	if len(credentialsJSON) == 0 {
		file := strings.TrimSpace(cfg.CredentialsFile)
		if file == "" {
			return nil, errors.New("missing service account credentials")
		}
		var err error
		credentialsJSON, err = os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// provision creates any missing worksheet and writes its header row (plus
// the seed category for Categories). Existing worksheets are left untouched.
func (c *Client) provision(ctx context.Context) error {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: get spreadsheet: %v", core.ErrBackend, err)
	}
	existing := map[string]bool{}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil {
			existing[sh.Properties.Title] = true
		}
	}

	if !existing[c.activitiesSheet] {
		if err := c.addSheet(ctx, c.activitiesSheet); err != nil {
			return err
		}
		header := [][]any{toAnyRow(tables.ActivityColumns)}
		if err := c.writeRows(ctx, c.activitiesSheet, header); err != nil {
			return err
		}
		slog.InfoContext(ctx, "Provisioned activities worksheet", "sheet", c.activitiesSheet)
	}
	if !existing[c.categoriesSheet] {
		if err := c.addSheet(ctx, c.categoriesSheet); err != nil {
			return err
		}
		rows := [][]any{
			toAnyRow(tables.CategoryColumns),
			{"Other", core.DefaultColor},
		}
		if err := c.writeRows(ctx, c.categoriesSheet, rows); err != nil {
			return err
		}
		slog.InfoContext(ctx, "Provisioned categories worksheet with seed entry", "sheet", c.categoriesSheet)
	}
	return nil
}

func (c *Client) addSheet(ctx context.Context, title string) error {
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: title},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: add worksheet %s: %v", core.ErrBackend, title, err)
	}
	return nil
}

func (c *Client) LoadActivities(ctx context.Context) (tables.ActivityLoad, error) {
	values, err := c.readAll(ctx, c.activitiesSheet)
	if err != nil {
		return tables.ActivityLoad{}, err
	}
	return decodeActivityRows(ctx, values)
}

func (c *Client) SaveActivities(ctx context.Context, acts []core.Activity) error {
	rows := [][]any{toAnyRow(tables.ActivityColumns)}
	for _, a := range acts {
		rows = append(rows, toAnyRow(tables.EncodeActivityRow(a)))
	}
	return c.replaceAll(ctx, c.activitiesSheet, rows)
}

func (c *Client) LoadCategories(ctx context.Context) (*core.CategorySet, error) {
	values, err := c.readAll(ctx, c.categoriesSheet)
	if err != nil {
		return nil, err
	}
	return decodeCategoryRows(values), nil
}

func (c *Client) SaveCategories(ctx context.Context, cats *core.CategorySet) error {
	rows := [][]any{toAnyRow(tables.CategoryColumns)}
	for _, e := range cats.Entries() {
		rows = append(rows, []any{e.Name, e.Color})
	}
	return c.replaceAll(ctx, c.categoriesSheet, rows)
}

func (c *Client) readAll(ctx context.Context, sheet string) ([][]any, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A1:Z", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", core.ErrBackend, rng, err)
	}
	return resp.Values, nil
}

// replaceAll implements the full-overwrite write policy: clear the whole
// worksheet, then rewrite header and rows in one update.
func (c *Client) replaceAll(ctx context.Context, sheet string, rows [][]any) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A1:Z", sheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: clear %s: %v", core.ErrBackend, rng, err)
	}
	if err := c.writeRows(ctx, sheet, rows); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Worksheet rewritten", "sheet", sheet, "rows", len(rows))
	return nil
}

func (c *Client) writeRows(ctx context.Context, sheet string, rows [][]any) error {
	vr := &gsheet.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, fmt.Sprintf("%s!A1", sheet), vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", core.ErrBackend, sheet, err)
	}
	return nil
}
