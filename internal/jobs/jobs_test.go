package jobs

import (
	"errors"
	"testing"
	"time"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControls(t *testing.T) {
	tests := []struct {
		status domain.JobStatus
		want   []domain.JobAction
	}{
		{domain.JobScheduled, []domain.JobAction{domain.ActionStart, domain.ActionCancel}},
		{domain.JobRunning, []domain.JobAction{domain.ActionPause, domain.ActionStop}},
		{domain.JobPaused, []domain.JobAction{domain.ActionResume, domain.ActionStop}},
		{domain.JobCompleted, nil},
		{domain.JobFailed, nil},
		{domain.JobCancelled, nil},
		{domain.JobStatus("bogus"), nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			controls := Controls(42, tt.status)
			var got []domain.JobAction
			for _, c := range controls {
				got = append(got, c.Action)
				assert.Equal(t, "/job/42/control/"+string(c.Action), c.Href)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestControls_Styles(t *testing.T) {
	c := Controls(1, domain.JobRunning)
	require.Len(t, c, 2)
	assert.Equal(t, "Pause", c[0].Label)
	assert.Equal(t, "btn-warning", c[0].Style)
	assert.Equal(t, "btn-danger", c[1].Style)
}

func TestTransition(t *testing.T) {
	valid := []struct {
		from   domain.JobStatus
		action domain.JobAction
		to     domain.JobStatus
	}{
		{domain.JobScheduled, domain.ActionStart, domain.JobRunning},
		{domain.JobScheduled, domain.ActionCancel, domain.JobCancelled},
		{domain.JobRunning, domain.ActionCancel, domain.JobCancelled},
		{domain.JobRunning, domain.ActionPause, domain.JobPaused},
		{domain.JobPaused, domain.ActionResume, domain.JobRunning},
		{domain.JobRunning, domain.ActionStop, domain.JobCompleted},
		{domain.JobPaused, domain.ActionStop, domain.JobCompleted},
	}
	for _, tt := range valid {
		got, err := Transition(tt.from, tt.action)
		require.NoError(t, err, "%s from %s", tt.action, tt.from)
		assert.Equal(t, tt.to, got)
	}

	invalid := []struct {
		from   domain.JobStatus
		action domain.JobAction
	}{
		{domain.JobRunning, domain.ActionStart},
		{domain.JobPaused, domain.ActionPause},
		{domain.JobScheduled, domain.ActionResume},
		{domain.JobScheduled, domain.ActionStop},
		{domain.JobPaused, domain.ActionCancel},
		{domain.JobCompleted, domain.ActionStart},
		{domain.JobCancelled, domain.ActionResume},
		{domain.JobFailed, domain.ActionStop},
	}
	for _, tt := range invalid {
		got, err := Transition(tt.from, tt.action)
		assert.True(t, errors.Is(err, ErrInvalidTransition), "%s from %s", tt.action, tt.from)
		assert.Equal(t, tt.from, got)
	}
}

func TestControlsOnlyOfferValidTransitions(t *testing.T) {
	for _, status := range domain.AllJobStatuses {
		for _, c := range Controls(1, status) {
			_, err := Transition(status, c.Action)
			assert.NoError(t, err, "%s offered for %s", c.Action, status)
		}
	}
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("Pause")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionPause, a)

	_, err = ParseAction("delete")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestShouldPoll(t *testing.T) {
	assert.True(t, ShouldPoll(domain.JobRunning))
	assert.True(t, ShouldPoll(domain.JobPaused))
	assert.False(t, ShouldPoll(domain.JobScheduled))
	assert.False(t, ShouldPoll(domain.JobCompleted))
}

func TestComputeProgress(t *testing.T) {
	p := ComputeProgress(domain.JobSnapshot{
		Status:      domain.JobRunning,
		TotalEmails: 100, SentEmails: 40, FailedEmails: 5,
		AvgSendingRate: 3.456,
	})
	assert.Equal(t, "40.0%", p.Label)
	assert.InDelta(t, 40.0, p.Percent, 1e-9)
	assert.Equal(t, 55, p.Remaining)
	assert.Equal(t, "3.46 emails/sec", p.RateLabel)

	zero := ComputeProgress(domain.JobSnapshot{})
	assert.Equal(t, "0.0%", zero.Label)
	assert.Equal(t, 0, zero.Remaining)

	third := ComputeProgress(domain.JobSnapshot{TotalEmails: 3, SentEmails: 1})
	assert.Equal(t, "33.3%", third.Label)
	assert.Equal(t, 2, third.Remaining)
}

func TestLogRows(t *testing.T) {
	ts := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	rows := LogRows([]domain.JobLog{
		{Timestamp: ts, Level: domain.LogInfo, Message: "started"},
		{Timestamp: ts, Level: domain.LogWarning, Message: "slow"},
		{Timestamp: ts, Level: domain.LogError, Message: "bounced"},
	})
	require.Len(t, rows, 3)

	assert.Equal(t, "INFO", rows[0].Level)
	assert.Equal(t, "", rows[0].RowClass)
	assert.Equal(t, "bg-info", rows[0].BadgeClass)
	assert.Equal(t, "2026-03-01 09:30:00", rows[0].Timestamp)

	assert.Equal(t, "table-warning", rows[1].RowClass)
	assert.Equal(t, "bg-warning", rows[1].BadgeClass)

	assert.Equal(t, "ERROR", rows[2].Level)
	assert.Equal(t, "table-danger", rows[2].RowClass)
	assert.Equal(t, "bg-danger", rows[2].BadgeClass)
}

func TestLogRows_Empty(t *testing.T) {
	rows := LogRows(nil)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Placeholder)
	assert.Equal(t, NoLogsMessage, rows[0].Message)
}
