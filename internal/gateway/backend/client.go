package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/EdilKulzhabay/courier/internal/apperr"
	"github.com/EdilKulzhabay/courier/internal/domain"
)

// Backend endpoints.
const (
	pathUpdateCourier = "/updateCourierAggregatorData"
	pathAcceptOrder   = "/acceptOrderCourierAggregator"
	pathTestLog       = "/courierAggregatorTestLog"
	pathCourierData   = "/getCourierAggregatorData"
)

// TokenSource yields the bearer token for backend calls. An empty token sends
// no Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// LocationUpdate is one position report.
type LocationUpdate struct {
	CourierID string
	Lat       float64
	Lon       float64
	Accuracy  float64
	Timestamp time.Time
	Source    string
	Seq       string
}

// StatusError is a non-2xx backend response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client is a REST client for the courier backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient creates a backend client. tokens may be nil.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

type pointDTO struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Timestamp string  `json:"timestamp"`
	Accuracy  float64 `json:"accuracy"`
	Source    string  `json:"source"`
	Seq       string  `json:"seq,omitempty"`
}

type updateCourierRequest struct {
	ID          string `json:"id"`
	ChangeField string `json:"changeField"`
	ChangeData  any    `json:"changeData"`
}

// UpdateLocation posts the courier's current point.
func (c *Client) UpdateLocation(ctx context.Context, u LocationUpdate) error {
	req := updateCourierRequest{
		ID:          u.CourierID,
		ChangeField: "point",
		ChangeData: pointDTO{
			Lat:       u.Lat,
			Lon:       u.Lon,
			Timestamp: u.Timestamp.UTC().Format(time.RFC3339),
			Accuracy:  u.Accuracy,
			Source:    u.Source,
			Seq:       u.Seq,
		},
	}
	return c.do(ctx, http.MethodPost, pathUpdateCourier, req, nil)
}

// SetOnline toggles the courier's online flag and reports whether the backend
// applied it.
func (c *Client) SetOnline(ctx context.Context, courierID string, online bool) (bool, error) {
	var resp successResponse
	req := updateCourierRequest{ID: courierID, ChangeField: "onTheLine", ChangeData: online}
	if err := c.do(ctx, http.MethodPost, pathUpdateCourier, req, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

type acceptOrderRequest struct {
	Order json.RawMessage `json:"order"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// AcceptOrder asks the backend to assign order to the courier and reports
// whether the backend confirmed it.
func (c *Client) AcceptOrder(ctx context.Context, order json.RawMessage) (bool, error) {
	var resp successResponse
	if err := c.do(ctx, http.MethodPost, pathAcceptOrder, acceptOrderRequest{Order: order}, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

type logRequest struct {
	Text string `json:"text"`
}

// SendLog posts a free-form diagnostic line.
func (c *Client) SendLog(ctx context.Context, text string) error {
	return c.do(ctx, http.MethodPost, pathTestLog, logRequest{Text: text}, nil)
}

type courierDataResponse struct {
	Success  bool            `json:"success"`
	UserData *domain.Courier `json:"userData"`
}

// GetCourier fetches the authenticated courier's record.
func (c *Client) GetCourier(ctx context.Context) (*domain.Courier, error) {
	var resp courierDataResponse
	if err := c.do(ctx, http.MethodGet, pathCourierData, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.UserData == nil {
		return nil, fmt.Errorf("backend GET %s: %w", pathCourierData, apperr.ErrNotFound)
	}
	return resp.UserData, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("backend %s %s: encode: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("backend %s %s: token: %w", method, path, err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend %s %s: decode: %w", method, path, err)
	}
	return nil
}
