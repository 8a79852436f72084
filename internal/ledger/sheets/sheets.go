// Package sheets reads and writes the ledger spreadsheet directly through
// the Google Sheets API, bypassing the Apps Script endpoint. Layout:
// a transactions sheet with columns A:H (ID, Date, Type, Amount, Debit,
// Credit, Description, Note) and an accounts sheet with columns A:B
// (Name, Category), each with one header row.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"gagebu/internal/core"
	"gagebu/internal/ledger"
)

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	transactionsSheet string
	accountsSheet     string
	normalizer        core.DayNormalizer
}

// Ensure interface conformance
var _ ledger.Store = (*Client)(nil)

// Config for the direct Sheets backend. Credentials come from the usual
// service-account environment variables.
type Config struct {
	SpreadsheetID     string
	TransactionsSheet string
	AccountsSheet     string
	Normalizer        core.DayNormalizer
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if cfg.TransactionsSheet == "" {
		cfg.TransactionsSheet = "Transactions"
	}
	if cfg.AccountsSheet == "" {
		cfg.AccountsSheet = "Accounts"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:               svc,
		spreadsheetID:     cfg.SpreadsheetID,
		transactionsSheet: cfg.TransactionsSheet,
		accountsSheet:     cfg.AccountsSheet,
		normalizer:        cfg.Normalizer,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE
// or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A2:H", c.transactionsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return parseTransactions(resp.Values, c.normalizer), nil
}

func (c *Client) ListAccounts(ctx context.Context) ([]core.Account, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A2:B", c.accountsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return parseAccounts(resp.Values), nil
}

func (c *Client) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	_, tx, err := c.findRow(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func (c *Client) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	// Next id is max existing id + 1; sheet ids are numeric.
	existing, err := c.ListTransactions(ctx)
	if err != nil {
		return "", fmt.Errorf("scan existing rows: %w", err)
	}
	var maxID int64
	for _, tx := range existing {
		if n, err := strconv.ParseInt(tx.ID, 10, 64); err == nil && n > maxID {
			maxID = n
		}
	}
	id := strconv.FormatInt(maxID+1, 10)

	rng := fmt.Sprintf("%s!A:H", c.transactionsSheet)
	vr := &gsheet.ValueRange{Values: [][]any{transactionRow(id, t)}}
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", c.transactionsSheet, err)
	}

	slog.InfoContext(ctx, "Transaction appended to sheet",
		"sheet", c.transactionsSheet, "id", id, "amount", t.Amount, "resolved_type", string(t.Resolved))
	return id, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	rowNum, _, err := c.findRow(ctx, t.ID)
	if err != nil {
		return err
	}
	rng := fmt.Sprintf("%s!A%d:H%d", c.transactionsSheet, rowNum, rowNum)
	vr := &gsheet.ValueRange{Values: [][]any{transactionRow(t.ID, t)}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	rowNum, _, err := c.findRow(ctx, id)
	if err != nil {
		return err
	}
	rng := fmt.Sprintf("%s!A%d:H%d", c.transactionsSheet, rowNum, rowNum)
	_, err = c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	return nil
}

// findRow locates a transaction by id and returns its 1-based sheet row
// number together with the parsed transaction.
func (c *Client) findRow(ctx context.Context, id string) (int, core.Transaction, error) {
	if c.svc == nil {
		return 0, core.Transaction{}, errors.New("sheets service not initialized")
	}
	if id == "" {
		return 0, core.Transaction{}, errors.New("missing transaction id")
	}
	rng := fmt.Sprintf("%s!A2:H", c.transactionsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, core.Transaction{}, fmt.Errorf("read %s: %w", rng, err)
	}
	for i, row := range resp.Values {
		cols := toStrings(row)
		if safeGet(cols, 0) == id {
			// Data starts at sheet row 2.
			return i + 2, parseTransactionRow(cols, c.normalizer), nil
		}
	}
	return 0, core.Transaction{}, ledger.ErrNotFound
}

func transactionRow(id string, t core.Transaction) []any {
	return []any{
		id,
		t.Date.String(),
		formatResolved(t.Resolved),
		t.Amount,
		t.DebitAccount,
		t.CreditAccount,
		t.Description,
		t.Note,
	}
}
