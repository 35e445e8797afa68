package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/investigate/stream", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Acme", req["target"])
		assert.Equal(t, "inv-1", req["investigation_id"])

		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"event\":\"stream_end\"}\n")
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", nil)
	body, err := c.StartStream(context.Background(), "Acme", "inv-1")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "data: {\"event\":\"stream_end\"}\n", string(data))
}

func TestStartStreamNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.StartStream(context.Background(), "Acme", "inv-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestListInvestigations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/investigations", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("size"))

		io.WriteString(w, `{"total":2,"investigations":[
			{"investigation_id":"a","target_name":"Acme","overall_risk_score":8.2,"risk_level":"CRITICAL",
			 "recommended_actions":["audit","escalate"],"started_at":"2025-03-01T09:00:00Z"},
			{"investigation_id":"b","target_name":"Beta","overall_risk_score":1.0,"risk_level":"LOW",
			 "recommended_actions":"[\"standard checks\"]"}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	records, err := c.ListInvestigations(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Acme", records[0].TargetName)
	assert.Equal(t, []string{"audit", "escalate"}, records[0].RecommendedActions)
	assert.Equal(t, 2025, records[0].StartedAt.Year())

	// Older backends double-encode the actions list.
	assert.Equal(t, []string{"standard checks"}, records[1].RecommendedActions)
}

func TestGetInvestigationNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.GetInvestigation(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestDeleteInvestigation(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	require.NoError(t, c.DeleteInvestigation(context.Background(), "inv-9"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/investigations/inv-9", gotPath)

	require.NoError(t, c.ClearInvestigations(context.Background()))
	assert.Equal(t, "/investigations", gotPath)
}

func TestAnalytics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/analytics/counts", r.URL.Path)
		io.WriteString(w, `{"investigations":12,"entities":3400,"news_articles":900}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	counts, err := c.Analytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, counts.Investigations)
	assert.Equal(t, 3400, counts.Entities)
	assert.Zero(t, counts.CourtCases)
}

func TestDecodeActions(t *testing.T) {
	assert.Nil(t, decodeActions(nil))
	assert.Equal(t, []string{"a"}, decodeActions(json.RawMessage(`["a"]`)))
	assert.Equal(t, []string{"a", "b"}, decodeActions(json.RawMessage(`"[\"a\",\"b\"]"`)))
	assert.Equal(t, []string{"do the thing"}, decodeActions(json.RawMessage(`"do the thing"`)))
	assert.Nil(t, decodeActions(json.RawMessage(`""`)))
	assert.Nil(t, decodeActions(json.RawMessage(`42`)))
}
