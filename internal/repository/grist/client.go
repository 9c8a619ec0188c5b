package grist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the hosted Grist endpoint.
const DefaultBaseURL = "https://docs.getgrist.com"

// Fields is the column to value bag of a single row.
type Fields map[string]any

// Record is a row returned by the records endpoint.
type Record struct {
	ID     int64  `json:"id"`
	Fields Fields `json:"fields"`
}

// Query narrows a FetchRecords call. Zero values are omitted.
type Query struct {
	// Filter maps a column to the values it may hold.
	Filter map[string][]any
	// Sort is a comma separated list of columns, "-" prefix for descending.
	Sort  string
	Limit int
}

// Config holds the connection settings for a Grist document.
type Config struct {
	APIKey     string
	DocID      string
	BaseURL    string
	HTTPClient *http.Client
}

// Client talks to the records API of one Grist document.
type Client struct {
	apiKey  string
	docURL  string
	httpCli *http.Client
}

// NewClient validates cfg and returns a Client. An empty APIKey is accepted
// for reads, but every mutating call will fail with KindConfig.
func NewClient(cfg Config) (*Client, error) {
	docID := strings.TrimSpace(cfg.DocID)
	if docID == "" {
		return nil, errors.New("grist: document id is required")
	}

	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("grist: invalid base url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("grist: base url must be absolute, got %q", base)
	}

	httpCli := cfg.HTTPClient
	if httpCli == nil {
		httpCli = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		docURL:  strings.TrimRight(u.String(), "/") + "/api/docs/" + url.PathEscape(docID),
		httpCli: httpCli,
	}, nil
}

// CanWrite reports whether an API key is configured.
func (c *Client) CanWrite() bool {
	return c.apiKey != ""
}

// FetchRecords returns the rows of table matching q.
func (c *Client) FetchRecords(ctx context.Context, table string, q Query) ([]Record, error) {
	params := url.Values{}
	if len(q.Filter) > 0 {
		filter, err := json.Marshal(q.Filter)
		if err != nil {
			return nil, &Error{Op: "fetch", Table: table, Kind: KindInvalid, Err: err}
		}
		params.Set("filter", string(filter))
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	endpoint := c.tableURL(table) + "/records"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	body, err := c.do(ctx, "fetch", table, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Records []Record `json:"records"`
	}
	if err := decode(body, &resp); err != nil {
		return nil, &Error{Op: "fetch", Table: table, Kind: KindUnknown, Err: fmt.Errorf("decode records: %w", err)}
	}
	for i := range resp.Records {
		if resp.Records[i].Fields == nil {
			resp.Records[i].Fields = Fields{}
		}
	}
	return resp.Records, nil
}

// AddRecords inserts rows and returns their new ids in order.
func (c *Client) AddRecords(ctx context.Context, table string, rows []Fields) ([]int64, error) {
	if err := c.requireKey("add", table); err != nil {
		return nil, err
	}

	type newRecord struct {
		Fields Fields `json:"fields"`
	}
	payload := struct {
		Records []newRecord `json:"records"`
	}{Records: make([]newRecord, len(rows))}
	for i, f := range rows {
		payload.Records[i] = newRecord{Fields: f}
	}

	body, err := c.do(ctx, "add", table, http.MethodPost, c.tableURL(table)+"/records", payload)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Records []struct {
			ID int64 `json:"id"`
		} `json:"records"`
	}
	if err := decode(body, &resp); err != nil {
		return nil, &Error{Op: "add", Table: table, Kind: KindUnknown, Err: fmt.Errorf("decode ids: %w", err)}
	}
	ids := make([]int64, len(resp.Records))
	for i, r := range resp.Records {
		ids[i] = r.ID
	}
	return ids, nil
}

// UpdateRecords patches the given columns of existing rows.
func (c *Client) UpdateRecords(ctx context.Context, table string, records []Record) error {
	if err := c.requireKey("update", table); err != nil {
		return err
	}
	payload := struct {
		Records []Record `json:"records"`
	}{Records: records}
	_, err := c.do(ctx, "update", table, http.MethodPatch, c.tableURL(table)+"/records", payload)
	return err
}

// DeleteRecords removes rows by id.
func (c *Client) DeleteRecords(ctx context.Context, table string, ids []int64) error {
	if err := c.requireKey("delete", table); err != nil {
		return err
	}
	_, err := c.do(ctx, "delete", table, http.MethodPost, c.tableURL(table)+"/data/delete", ids)
	return err
}

func (c *Client) tableURL(table string) string {
	return c.docURL + "/tables/" + url.PathEscape(table)
}

func (c *Client) requireKey(op, table string) error {
	if c.apiKey == "" {
		return &Error{Op: op, Table: table, Kind: KindConfig, Err: errors.New("api key is not configured")}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, table, method, endpoint string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, &Error{Op: op, Table: table, Kind: KindInvalid, Err: err}
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, &Error{Op: op, Table: table, Kind: KindConfig, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Table: table, Kind: kindForTransport(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: op, Table: table, Kind: KindNetwork, Status: resp.StatusCode, Err: err}
	}

	log.Debug().
		Str("op", op).
		Str("table", table).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Grist request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := strings.TrimSpace(string(body))
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return nil, &Error{Op: op, Table: table, Kind: kindForStatus(resp.StatusCode), Status: resp.StatusCode, Body: text}
	}
	return body, nil
}

func decode(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(v)
}
