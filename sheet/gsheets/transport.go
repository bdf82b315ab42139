// Package gsheets implements sheet.Transport over the Google Sheets REST API
// (v4), plus the credential plumbing the API needs.
package gsheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/gridkit/gridkit/sheet"
)

// ScopeSpreadsheets is the OAuth scope required for read/write sheet access.
const ScopeSpreadsheets = "https://www.googleapis.com/auth/spreadsheets"

const defaultBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// StatusError is a non-2xx response from the Sheets API.
type StatusError struct {
	Code    int
	Message string
	Status  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sheets api: %d %s: %s", e.Code, e.Status, e.Message)
}

// Options configures a Transport.
type Options struct {
	BaseURL string
	Client  *http.Client
}

// Option mutates Options.
type Option func(*Options)

// WithBaseURL points the transport at an alternate API endpoint.
func WithBaseURL(u string) Option {
	return func(o *Options) { o.BaseURL = u }
}

// WithHTTPClient sets the HTTP client used for API calls. The default is
// http.DefaultClient, which only works for unauthenticated test servers; real
// use passes a client from a Credentials provider.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) { o.Client = c }
}

// Transport talks to the Google Sheets API v4.
type Transport struct {
	baseURL string
	client  *http.Client
}

var _ sheet.Transport = (*Transport)(nil)

// New creates a Transport. Pass a client from Credentials.Client for
// authenticated access.
func New(opts ...Option) *Transport {
	o := Options{BaseURL: defaultBaseURL, Client: http.DefaultClient}
	for _, opt := range opts {
		opt(&o)
	}
	return &Transport{baseURL: strings.TrimRight(o.BaseURL, "/"), client: o.Client}
}

// NewWithCredentials creates a Transport authenticated through creds.
func NewWithCredentials(ctx context.Context, creds Credentials, opts ...Option) (*Transport, error) {
	client, err := creds.Client(ctx, ScopeSpreadsheets)
	if err != nil {
		return nil, fmt.Errorf("build sheets client: %w", err)
	}
	return New(append(opts, WithHTTPClient(client))...), nil
}

func (t *Transport) BatchGet(ctx context.Context, spreadsheetID, rng string) ([][]string, error) {
	u := fmt.Sprintf("%s/%s/values:batchGet?ranges=%s",
		t.baseURL, url.PathEscape(spreadsheetID), url.QueryEscape(rng))
	var resp struct {
		ValueRanges []struct {
			Values [][]any `json:"values"`
		} `json:"valueRanges"`
	}
	if err := t.do(ctx, http.MethodGet, u, nil, &resp); err != nil {
		return nil, fmt.Errorf("batch get %s: %w", rng, err)
	}
	if len(resp.ValueRanges) == 0 {
		return nil, nil
	}
	return stringGrid(resp.ValueRanges[0].Values), nil
}

func (t *Transport) BatchUpdate(ctx context.Context, spreadsheetID string, writes []sheet.ValueWrite) error {
	type valueRange struct {
		Range  string     `json:"range"`
		Values [][]string `json:"values"`
	}
	body := struct {
		ValueInputOption string       `json:"valueInputOption"`
		Data             []valueRange `json:"data"`
	}{ValueInputOption: "RAW"}
	for _, w := range writes {
		body.Data = append(body.Data, valueRange{Range: w.Range, Values: w.Values})
	}
	u := fmt.Sprintf("%s/%s/values:batchUpdate", t.baseURL, url.PathEscape(spreadsheetID))
	if err := t.do(ctx, http.MethodPost, u, body, nil); err != nil {
		return fmt.Errorf("batch update %d ranges: %w", len(writes), err)
	}
	return nil
}

func (t *Transport) Metadata(ctx context.Context, spreadsheetID string) ([]sheet.TableInfo, error) {
	u := fmt.Sprintf("%s/%s?fields=sheets.properties", t.baseURL, url.PathEscape(spreadsheetID))
	var resp struct {
		Sheets []struct {
			Properties sheet.TableInfo `json:"properties"`
		} `json:"sheets"`
	}
	if err := t.do(ctx, http.MethodGet, u, nil, &resp); err != nil {
		return nil, fmt.Errorf("get metadata: %w", err)
	}
	infos := make([]sheet.TableInfo, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		infos = append(infos, s.Properties)
	}
	return infos, nil
}

func (t *Transport) CopyTable(ctx context.Context, srcSpreadsheetID string, tableID int64, dstSpreadsheetID string) (sheet.TableInfo, error) {
	body := struct {
		DestinationSpreadsheetID string `json:"destinationSpreadsheetId"`
	}{DestinationSpreadsheetID: dstSpreadsheetID}
	u := fmt.Sprintf("%s/%s/sheets/%d:copyTo", t.baseURL, url.PathEscape(srcSpreadsheetID), tableID)
	var info sheet.TableInfo
	if err := t.do(ctx, http.MethodPost, u, body, &info); err != nil {
		return sheet.TableInfo{}, fmt.Errorf("copy table %d: %w", tableID, err)
	}
	return info, nil
}

func (t *Transport) RenameTable(ctx context.Context, spreadsheetID string, tableID int64, newName string) error {
	type properties struct {
		SheetID int64  `json:"sheetId"`
		Title   string `json:"title"`
	}
	type updateReq struct {
		Properties properties `json:"properties"`
		Fields     string     `json:"fields"`
	}
	type request struct {
		UpdateSheetProperties updateReq `json:"updateSheetProperties"`
	}
	body := struct {
		Requests []request `json:"requests"`
	}{
		Requests: []request{{
			UpdateSheetProperties: updateReq{
				Properties: properties{SheetID: tableID, Title: newName},
				Fields:     "title",
			},
		}},
	}
	u := fmt.Sprintf("%s/%s:batchUpdate", t.baseURL, url.PathEscape(spreadsheetID))
	if err := t.do(ctx, http.MethodPost, u, body, nil); err != nil {
		return fmt.Errorf("rename table %d: %w", tableID, err)
	}
	return nil
}

// do runs one API round-trip: marshal body, issue the request, classify
// failures and decode the response into out when non-nil.
func (t *Transport) do(ctx context.Context, method, u string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// classify maps transport-level failures onto the sentinel error classes the
// sheet package retries on.
func classify(err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w: %v", sheet.ErrTimeout, err)
	}
	return err
}

func statusError(resp *http.Response) error {
	var body struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	se := &StatusError{Code: resp.StatusCode, Status: resp.Status}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error.Code != 0 {
		se.Code = body.Error.Code
		se.Message = body.Error.Message
		se.Status = body.Error.Status
	}
	if se.Code == http.StatusRequestTimeout || se.Code == http.StatusGatewayTimeout {
		return fmt.Errorf("%w: %v", sheet.ErrTimeout, se)
	}
	return se
}

// stringGrid renders the API's loosely typed value grid as strings, the way
// cell values are held locally.
func stringGrid(values [][]any) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		out[i] = make([]string, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			out[i][j] = fmt.Sprint(v)
		}
	}
	return out
}
