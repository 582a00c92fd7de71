package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/service/job"
)

func newScheduledJob() *domain.Job {
	return &domain.Job{
		Name: "Spring sale", Status: domain.JobScheduled,
		TemplateID: 1, SegmentID: 2, SMTPConfigID: 3,
		ScheduledTime: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		TotalEmails:   250,
	}
}

func TestJobRepo_Create(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()
	j := newScheduledJob()
	mock.ExpectQuery(`INSERT INTO scheduled_jobs`).
		WithArgs("Spring sale", domain.JobScheduled, int64(1), int64(2), int64(3), j.ScheduledTime, 250).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(11, now, now))

	require.NoError(t, NewJobRepo(db).Create(context.Background(), j))
	assert.Equal(t, int64(11), j.ID)
}

func TestJobRepo_CreateMissingReferences(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO scheduled_jobs`).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "scheduled_jobs_template_id_fkey"})
	mock.ExpectQuery(`INSERT INTO scheduled_jobs`).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "scheduled_jobs_segment_fk"})

	repo := NewJobRepo(db)
	err := repo.Create(context.Background(), newScheduledJob())
	assert.ErrorIs(t, err, job.ErrInvalidReference)
	assert.ErrorContains(t, err, "template_id")

	assert.ErrorIs(t, repo.Create(context.Background(), newScheduledJob()), job.ErrSegmentNotFound)
}

func TestJobRepo_List(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(`FROM scheduled_jobs\s+WHERE \(\$1 = '' OR status = \$1\)\s+ORDER BY scheduled_time DESC`).
		WithArgs("scheduled", 50).
		WillReturnRows(sqlmock.NewRows(jobCols).
			AddRow(2, "b", "scheduled", 1, 2, 3, now, 10, 0, 0, 0, 0, 0.0, nil, nil, now, now).
			AddRow(1, "a", "scheduled", 1, 2, 3, now, 20, 0, 0, 0, 0, 0.0, nil, nil, now, now))

	out, err := NewJobRepo(db).List(context.Background(), job.ListFilter{Status: domain.JobScheduled, Limit: 50})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(2), out[0].ID)
	assert.Equal(t, 20, out[1].TotalEmails)
}

func TestJobRepo_SegmentSize(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT \(SELECT COUNT\(\*\) FROM contacts`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(250))
	mock.ExpectQuery(`FROM email_segments s WHERE s.id = \$1`).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	repo := NewJobRepo(db)
	n, err := repo.SegmentSize(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 250, n)

	_, err = repo.SegmentSize(context.Background(), 9)
	assert.ErrorIs(t, err, job.ErrSegmentNotFound)
}
