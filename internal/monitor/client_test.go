package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/campaign-studio/internal/domain"
)

func TestClient_JobData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/job/7/data", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"running","total_emails":100,"sent_emails":40,"failed_emails":5,"started_at":"2026-01-02T10:00:00Z","avg_sending_rate":2.5,"opened_emails":3,"clicked_emails":1}`))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", nil)
	snap, err := c.JobData(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, domain.JobRunning, snap.Status)
	assert.Equal(t, 100, snap.TotalEmails)
	assert.Equal(t, 40, snap.SentEmails)
	assert.Equal(t, 5, snap.FailedEmails)
	assert.Equal(t, 2.5, snap.AvgSendingRate)
	require.NotNil(t, snap.StartedAt)
	assert.Equal(t, 10, snap.StartedAt.Hour())
}

func TestClient_JobLogs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/job/7/logs", r.URL.Path)
		w.Write([]byte(`{"logs":[{"timestamp":"2026-01-02T10:00:00Z","level":"warning","message":"slow"}]}`))
	}))
	defer server.Close()

	logs, err := NewClient(server.URL, server.Client()).JobLogs(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.LogWarning, logs[0].Level)
	assert.Equal(t, "slow", logs[0].Message)
}

func TestClient_TestSMTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/smtp-config/3/test", r.URL.Path)
		w.Write([]byte(`{"success":false,"message":"SMTP test failed: auth"}`))
	}))
	defer server.Close()

	res, err := NewClient(server.URL, nil).TestSMTP(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "SMTP test failed: auth", res.Message)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"job not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).JobData(context.Background(), 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).JobData(context.Background(), 1)
	assert.Error(t, err)
}
