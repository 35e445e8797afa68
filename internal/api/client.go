// Package api is the HTTP client for the Meridian backend: stream
// ingress, the historical list, record deletion, and the read-only
// analytics counters.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/meridianhq/meridian-console/internal/event"
	"github.com/meridianhq/meridian-console/internal/session"
)

// Client talks to one Meridian backend instance.
type Client struct {
	baseURL string
	// rest carries a timeout; stream must not, its body stays open for
	// the whole investigation.
	rest   *http.Client
	stream *http.Client
	logger *log.Logger
}

// NewClient builds a client for baseURL (scheme://host[:port], no
// trailing slash required).
func NewClient(baseURL string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL: trimSlash(baseURL),
		rest:    &http.Client{Timeout: 15 * time.Second},
		stream:  &http.Client{},
		logger:  logger,
	}
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// StartStream begins an investigation and returns the live event stream
// body. The caller owns the returned ReadCloser; cancelling ctx aborts
// the read.
func (c *Client) StartStream(ctx context.Context, target, investigationID string) (io.ReadCloser, error) {
	payload, err := json.Marshal(map[string]string{
		"target":           target,
		"investigation_id": investigationID,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/investigate/stream", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("stream request failed: %s", resp.Status)
	}
	return resp.Body, nil
}

// investigationDoc is the backend's stored investigation document. Older
// backends persist recommended_actions as a JSON-encoded string rather
// than a list; RawMessage lets us accept both.
type investigationDoc struct {
	InvestigationID    string               `json:"investigation_id"`
	TargetName         string               `json:"target_name"`
	Status             string               `json:"status"`
	OverallRiskScore   float64              `json:"overall_risk_score"`
	RiskLevel          string               `json:"risk_level"`
	Summary            string               `json:"summary"`
	RedFlags           []string             `json:"red_flags"`
	RecommendedActions json.RawMessage      `json:"recommended_actions"`
	AgentFindings      []event.AgentFinding `json:"agent_findings"`
	StartedAt          time.Time            `json:"started_at"`
	CompletedAt        time.Time            `json:"completed_at"`
}

func (d investigationDoc) toRecord() session.HistoryRecord {
	return session.HistoryRecord{
		InvestigationID:    d.InvestigationID,
		TargetName:         d.TargetName,
		OverallScore:       d.OverallRiskScore,
		RiskLevel:          d.RiskLevel,
		Summary:            d.Summary,
		RedFlags:           d.RedFlags,
		RecommendedActions: decodeActions(d.RecommendedActions),
		AgentFindings:      d.AgentFindings,
		StartedAt:          d.StartedAt,
		CompletedAt:        d.CompletedAt,
	}
}

func decodeActions(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var embedded string
	if err := json.Unmarshal(raw, &embedded); err == nil {
		if err := json.Unmarshal([]byte(embedded), &list); err == nil {
			return list
		}
		if embedded != "" {
			return []string{embedded}
		}
	}
	return nil
}

// ListInvestigations fetches up to size recent investigations, newest
// first.
func (c *Client) ListInvestigations(ctx context.Context, size int) ([]session.HistoryRecord, error) {
	u := fmt.Sprintf("%s/investigations?size=%s", c.baseURL, url.QueryEscape(strconv.Itoa(size)))

	var body struct {
		Investigations []investigationDoc `json:"investigations"`
		Total          int                `json:"total"`
	}
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, err
	}

	records := make([]session.HistoryRecord, 0, len(body.Investigations))
	for _, doc := range body.Investigations {
		records = append(records, doc.toRecord())
	}
	return records, nil
}

// GetInvestigation fetches one stored investigation by id.
func (c *Client) GetInvestigation(ctx context.Context, id string) (session.HistoryRecord, error) {
	var doc investigationDoc
	if err := c.getJSON(ctx, c.baseURL+"/investigations/"+url.PathEscape(id), &doc); err != nil {
		return session.HistoryRecord{}, err
	}
	return doc.toRecord(), nil
}

// DeleteInvestigation removes one stored investigation. Fire-and-forget:
// no response body beyond success/failure is consumed.
func (c *Client) DeleteInvestigation(ctx context.Context, id string) error {
	return c.drop(ctx, c.baseURL+"/investigations/"+url.PathEscape(id))
}

// ClearInvestigations removes every stored investigation.
func (c *Client) ClearInvestigations(ctx context.Context) error {
	return c.drop(ctx, c.baseURL+"/investigations")
}

// Counts are the read-only summary counters shown in the header. They
// are never on the critical path: callers treat a zero value as
// "unknown" and render nothing.
type Counts struct {
	Investigations int `json:"investigations"`
	Entities       int `json:"entities"`
	NewsArticles   int `json:"news_articles"`
	CourtCases     int `json:"court_cases"`
	SECFilings     int `json:"sec_filings"`
	Sanctions      int `json:"sanctions"`
}

// Analytics fetches the index counters. Failures degrade silently to
// zero counts by the caller's contract.
func (c *Client) Analytics(ctx context.Context) (Counts, error) {
	var counts Counts
	if err := c.getJSON(ctx, c.baseURL+"/analytics/counts", &counts); err != nil {
		return Counts{}, err
	}
	return counts, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.rest.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("request %s: %s", u, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", u, err)
	}
	return nil
}

func (c *Client) drop(ctx context.Context, u string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.rest.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s: %w", u, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("delete %s: %s", u, resp.Status)
	}
	return nil
}
