package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-meal-map/internal/metrics"
	"mcp-meal-map/internal/models"
)

// toolText returns the text of the first content item of a tool result.
func toolText(t *testing.T, body []byte) string {
	t.Helper()
	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	require.NotEmpty(t, result.Content)
	assert.Equal(t, "text", result.Content[0].Type)
	return result.Content[0].Text
}

func TestHandleMCP_LookupSlot(t *testing.T) {
	srv, _ := newTestServer(t, testSession(), nil)
	h := srv.Routes()

	tests := []struct {
		name     string
		body     string
		wantFood string
		wantFreq bool
	}{
		{name: "numeric arguments", body: `{"name":"lookup_slot","arguments":{"day":1,"hour":8}}`, wantFood: "eggs", wantFreq: true},
		{name: "string arguments", body: `{"name":"lookup_slot","arguments":{"day":"2","hour":"12"}}`, wantFood: "burrito", wantFreq: true},
		{name: "miss", body: `{"name":"lookup_slot","arguments":{"day":9,"hour":23}}`, wantFood: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/mcp", []byte(tt.body))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var view models.MergedView
			require.NoError(t, json.Unmarshal([]byte(toolText(t, rec.Body.Bytes())), &view))
			assert.Equal(t, tt.wantFood, view.TopFood)
			assert.Equal(t, tt.wantFreq, view.HasFrequency)
		})
	}
}

func TestHandleMCP_Collections(t *testing.T) {
	srv, _ := newTestServer(t, testSession(), nil)
	h := srv.Routes()

	for _, tool := range []string{"get_frequency", "get_hourly_frequency", "get_nutrition", "get_time_of_day", "get_stats"} {
		t.Run(tool, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/mcp", []byte(`{"name":"`+tool+`"}`))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.True(t, json.Valid([]byte(toolText(t, rec.Body.Bytes()))))
		})
	}
}

func TestHandleMCP_Errors(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv, err := NewMealMapServer(&Config{}, testSession(), metrics.New(reg), reg, nil)
	require.NoError(t, err)
	h := srv.Routes()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "invalid json", body: `{`, wantStatus: http.StatusBadRequest, wantCode: "INVALID_REQUEST"},
		{name: "unknown tool", body: `{"name":"log_meal"}`, wantStatus: http.StatusNotFound, wantCode: "UNKNOWN_TOOL"},
		{name: "missing hour", body: `{"name":"lookup_slot","arguments":{"day":1}}`, wantStatus: http.StatusBadRequest, wantCode: "INVALID_PARAMETER"},
		{name: "non-numeric day", body: `{"name":"lookup_slot","arguments":{"day":"monday","hour":8}}`, wantStatus: http.StatusBadRequest, wantCode: "INVALID_PARAMETER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/mcp", []byte(tt.body))
			require.Equal(t, tt.wantStatus, rec.Code)

			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Equal(t, tt.wantCode, errResp.Error.ErrorCode)
		})
	}
}

func TestHandleListTools(t *testing.T) {
	srv, _ := newTestServer(t, testSession(), nil)

	rec := do(t, srv.Routes(), http.MethodGet, "/mcp/tools", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tools":["get_frequency","get_hourly_frequency","get_nutrition","get_stats","get_time_of_day","lookup_slot"]}`, rec.Body.String())
}
