package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/smtpconf"
)

// SMTPConfigRepo stores SMTP configurations.
type SMTPConfigRepo struct{ db *sql.DB }

// NewSMTPConfigRepo creates a Postgres-backed SMTP config repository.
func NewSMTPConfigRepo(db *sql.DB) *SMTPConfigRepo { return &SMTPConfigRepo{db: db} }

func (r *SMTPConfigRepo) Get(ctx context.Context, id int64) (*domain.SMTPConfig, error) {
	var c domain.SMTPConfig
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, host, port, username, password, use_tls, use_ssl, from_email, from_name, created_at, updated_at
		FROM smtp_configs WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Host, &c.Port, &c.Username, &c.Password, &c.UseTLS, &c.UseSSL,
		&c.FromEmail, &c.FromName, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, smtpconf.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get smtp config: %w", err)
	}
	return &c, nil
}

// Save inserts c when its ID is zero and updates it otherwise. An empty
// password on update keeps the stored one.
func (r *SMTPConfigRepo) Save(ctx context.Context, c *domain.SMTPConfig) error {
	if c.ID == 0 {
		err := r.db.QueryRowContext(ctx, `
			INSERT INTO smtp_configs (name, host, port, username, password, use_tls, use_ssl, from_email, from_name, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			RETURNING id, created_at, updated_at
		`, c.Name, c.Host, c.Port, c.Username, c.Password, c.UseTLS, c.UseSSL, c.FromEmail, c.FromName,
		).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert smtp config: %w", err)
		}
		return nil
	}

	err := r.db.QueryRowContext(ctx, `
		UPDATE smtp_configs SET
			name = $2, host = $3, port = $4, username = $5,
			password = CASE WHEN $6 = '' THEN password ELSE $6 END,
			use_tls = $7, use_ssl = $8, from_email = $9, from_name = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, c.ID, c.Name, c.Host, c.Port, c.Username, c.Password, c.UseTLS, c.UseSSL, c.FromEmail, c.FromName,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return smtpconf.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update smtp config: %w", err)
	}
	return nil
}
