// Package webapp talks to the spreadsheet-backed web endpoint (an Apps
// Script web app) that owns ledger persistence. The endpoint's surface is a
// fixed external contract: read actions as query parameters, writes as
// form-encoded POSTs carrying a JSON payload in the "data" field.
package webapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gagebu/internal/core"
	"gagebu/internal/ledger"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	normalizer core.DayNormalizer
}

// Ensure interface conformance
var (
	_ ledger.TransactionLister  = (*Client)(nil)
	_ ledger.AccountLister      = (*Client)(nil)
	_ ledger.TransactionGetter  = (*Client)(nil)
	_ ledger.TransactionWriter  = (*Client)(nil)
	_ ledger.TransactionUpdater = (*Client)(nil)
	_ ledger.TransactionDeleter = (*Client)(nil)
)

// New builds a client for the given endpoint URL. The URL is injected
// configuration, never a package constant: different deployments front
// different spreadsheets.
func New(baseURL string, timeout time.Duration, normalizer core.DayNormalizer) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("missing webapp URL")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid webapp URL: %w", err)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
		normalizer: normalizer,
	}, nil
}

// newHTTPClient returns a pooled client. Apps Script redirects every call
// through script.googleusercontent.com, so redirects must stay enabled and
// keep-alive matters.
func newHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	body, err := c.get(ctx, url.Values{"action": {"getTransactions"}})
	if err != nil {
		return nil, err
	}
	var rows []transactionDTO
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(c.normalizer))
	}
	return out, nil
}

func (c *Client) ListAccounts(ctx context.Context) ([]core.Account, error) {
	body, err := c.get(ctx, url.Values{"action": {"getAccounts"}})
	if err != nil {
		return nil, err
	}
	var rows []accountDTO
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	out := make([]core.Account, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (c *Client) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	body, err := c.get(ctx, url.Values{"action": {"getTransaction"}, "id": {id}})
	if err != nil {
		return core.Transaction{}, err
	}
	var env struct {
		Status  string         `json:"status"`
		Message string         `json:"message"`
		Data    transactionDTO `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return core.Transaction{}, fmt.Errorf("decode transaction envelope: %w", err)
	}
	if env.Status != "success" {
		if strings.Contains(strings.ToLower(env.Message), "not found") {
			return core.Transaction{}, ledger.ErrNotFound
		}
		return core.Transaction{}, fmt.Errorf("webapp getTransaction %s: %s", id, env.Message)
	}
	return env.Data.toDomain(c.normalizer), nil
}

func (c *Client) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	payload, err := json.Marshal(newTransactionDTO(t))
	if err != nil {
		return "", fmt.Errorf("encode transaction: %w", err)
	}
	env, err := c.post(ctx, url.Values{"data": {string(payload)}})
	if err != nil {
		return "", err
	}
	return env.ID, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if t.ID == "" {
		return errors.New("missing transaction id")
	}
	dto := newTransactionDTO(t)
	dto.ID = flexID(t.ID)
	payload, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("encode transaction: %w", err)
	}
	_, err = c.post(ctx, url.Values{
		"action": {"updateTransaction"},
		"data":   {string(payload)},
	})
	return err
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("missing transaction id")
	}
	_, err := c.post(ctx, url.Values{
		"action": {"deleteTransaction"},
		"id":     {id},
	})
	return err
}

type writeEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webapp %s: %w", params.Get("action"), err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("webapp %s: unexpected status %d", params.Get("action"), resp.StatusCode)
	}
	return body, nil
}

func (c *Client) post(ctx context.Context, form url.Values) (writeEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return writeEnvelope{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return writeEnvelope{}, fmt.Errorf("webapp %s: %w", form.Get("action"), err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return writeEnvelope{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return writeEnvelope{}, fmt.Errorf("webapp %s: unexpected status %d", form.Get("action"), resp.StatusCode)
	}
	var env writeEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return writeEnvelope{}, fmt.Errorf("decode write envelope: %w", err)
	}
	if env.Status != "success" {
		msg := env.Message
		if msg == "" {
			msg = "unknown error"
		}
		// Same mapping as GetTransaction so callers can branch on a vanished
		// remote row.
		if strings.Contains(strings.ToLower(msg), "not found") {
			return writeEnvelope{}, ledger.ErrNotFound
		}
		return writeEnvelope{}, fmt.Errorf("webapp %s: %s", form.Get("action"), msg)
	}
	return env, nil
}
