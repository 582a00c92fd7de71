package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/service/segment"
)

// SegmentRepo implements segment.Repository against PostgreSQL.
type SegmentRepo struct{ db *sql.DB }

// NewSegmentRepo creates a Postgres-backed segment repository.
func NewSegmentRepo(db *sql.DB) *SegmentRepo { return &SegmentRepo{db: db} }

const segmentSelect = `
	SELECT s.id, s.name, s.description,
	       (SELECT COUNT(*) FROM contacts c WHERE c.segment_id = s.id),
	       s.created_at, s.updated_at
	FROM email_segments s`

// foreignKeyViolation reports whether err is a Postgres FK violation.
func foreignKeyViolation(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return pqErr, true
	}
	return nil, false
}

func scanSegment(row interface{ Scan(...any) error }) (domain.Segment, error) {
	var s domain.Segment
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.ContactCount, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *SegmentRepo) Create(ctx context.Context, s *domain.Segment) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO email_segments (name, description, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`, s.Name, s.Description).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create segment: %w", err)
	}
	return nil
}

func (r *SegmentRepo) Get(ctx context.Context, id int64) (*domain.Segment, error) {
	s, err := scanSegment(r.db.QueryRowContext(ctx, segmentSelect+` WHERE s.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, segment.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get segment: %w", err)
	}
	return &s, nil
}

func (r *SegmentRepo) List(ctx context.Context) ([]domain.Segment, error) {
	rows, err := r.db.QueryContext(ctx, segmentSelect+` ORDER BY s.created_at DESC, s.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer rows.Close()

	out := []domain.Segment{}
	for rows.Next() {
		s, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SegmentRepo) Update(ctx context.Context, s *domain.Segment) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE email_segments SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, s.ID, s.Name, s.Description).Scan(&s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return segment.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update segment: %w", err)
	}
	return nil
}

// Delete removes the segment; contacts go with it through ON DELETE CASCADE.
// A segment that jobs still point at cannot be deleted.
func (r *SegmentRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM email_segments WHERE id = $1`, id)
	if _, ok := foreignKeyViolation(err); ok {
		return fmt.Errorf("%w: segment %d", segment.ErrInUse, id)
	}
	if err != nil {
		return fmt.Errorf("delete segment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return segment.ErrNotFound
	}
	return nil
}

// AddContacts streams the contacts through COPY in one transaction.
func (r *SegmentRepo) AddContacts(ctx context.Context, segmentID int64, contacts []domain.Contact) (int, error) {
	if len(contacts) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin contact import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("contacts", "segment_id", "email", "name"))
	if err != nil {
		return 0, fmt.Errorf("prepare contact copy: %w", err)
	}
	defer stmt.Close()

	for _, c := range contacts {
		if _, err := stmt.ExecContext(ctx, segmentID, c.Email, c.Name); err != nil {
			return 0, fmt.Errorf("copy contact: %w", err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		if _, ok := foreignKeyViolation(err); ok {
			return 0, segment.ErrNotFound
		}
		return 0, fmt.Errorf("flush contact copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return 0, fmt.Errorf("close contact copy: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE email_segments SET updated_at = NOW() WHERE id = $1`, segmentID); err != nil {
		return 0, fmt.Errorf("touch segment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit contact import: %w", err)
	}
	return len(contacts), nil
}

func (r *SegmentRepo) Contacts(ctx context.Context, segmentID int64) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, segment_id, email, name, created_at
		FROM contacts
		WHERE segment_id = $1
		ORDER BY id
	`, segmentID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	out := []domain.Contact{}
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.SegmentID, &c.Email, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SegmentRepo) DeleteContact(ctx context.Context, segmentID, contactID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM contacts WHERE id = $1 AND segment_id = $2`, contactID, segmentID)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return segment.ErrContactNotFound
	}
	return nil
}
