package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/consignmentgenie/backend/internal/infrastructure/event"
	"github.com/consignmentgenie/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandlerGetSystemInfo(t *testing.T) {
	h := NewSystemHandler(nil)

	testutil.RunHTTPTestCase(t, h.GetSystemInfo, testutil.HTTPTestCase{
		Method:         http.MethodGet,
		Path:           "/system/info",
		ExpectedStatus: http.StatusOK,
		Validate: func(t *testing.T, tc *testutil.TestContext) {
			testutil.AssertSuccessResponse(t, tc)
			resp := testutil.JSONResponse(t, tc)
			data := resp["data"].(map[string]interface{})
			assert.Equal(t, "ConsignmentGenie API", data["name"])
			assert.Equal(t, "1.0.0", data["version"])
			assert.NotEmpty(t, data["go_version"])
			assert.NotEmpty(t, data["uptime"])
			assert.NotContains(t, data, "event_processing", "omitted when metrics are not wired")
		},
	})
}

func TestSystemHandlerGetSystemInfoEventStats(t *testing.T) {
	metrics := &event.IdempotencyMetrics{}
	metrics.EventsProcessed.Store(12)
	metrics.EventsDuplicate.Store(3)
	metrics.EventsFailed.Store(1)

	h := NewSystemHandler(metrics)

	testutil.RunHTTPTestCase(t, h.GetSystemInfo, testutil.HTTPTestCase{
		Method:         http.MethodGet,
		Path:           "/system/info",
		ExpectedStatus: http.StatusOK,
		Validate: func(t *testing.T, tc *testutil.TestContext) {
			resp := testutil.JSONResponse(t, tc)
			data := resp["data"].(map[string]interface{})
			stats, ok := data["event_processing"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, float64(12), stats["events_processed"])
			assert.Equal(t, float64(3), stats["events_duplicate"])
			assert.Equal(t, float64(1), stats["events_failed"])
		},
	})
}

func TestSystemHandlerPing(t *testing.T) {
	h := NewSystemHandler(nil)

	testutil.RunHTTPTestCase(t, h.Ping, testutil.HTTPTestCase{
		Method:         http.MethodGet,
		Path:           "/system/ping",
		ExpectedStatus: http.StatusOK,
		Validate: func(t *testing.T, tc *testutil.TestContext) {
			testutil.AssertSuccessResponse(t, tc)
			resp := testutil.JSONResponse(t, tc)
			data := resp["data"].(map[string]interface{})
			assert.Equal(t, "pong", data["message"])

			ts, _ := data["timestamp"].(string)
			_, err := time.Parse(time.RFC3339, ts)
			assert.NoError(t, err)
		},
	})
}
