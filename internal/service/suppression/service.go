package suppression

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/mail"
	"strings"

	"github.com/ignite/campaign-studio/internal/domain"
)

// Service implements suppression business logic. It is safe for concurrent use.
type Service struct {
	repo Repository
}

// NewService creates a suppression service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Normalize lower-cases and trims an address and checks it parses.
func Normalize(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return email, nil
}

// IsSuppressed checks whether an address has opted out.
func (s *Service) IsSuppressed(ctx context.Context, email string) (bool, error) {
	email, err := Normalize(email)
	if err != nil {
		return false, err
	}
	return s.repo.IsSuppressed(ctx, email)
}

// Suppress adds an address to the list. jobID names the job whose email
// carried the unsubscribe link, when known.
func (s *Service) Suppress(ctx context.Context, email string, reason domain.SuppressionReason, source domain.SuppressionSource, jobID *int64) error {
	email, err := Normalize(email)
	if err != nil {
		return err
	}
	hash := md5.Sum([]byte(email))
	return s.repo.Suppress(ctx, &domain.Suppression{
		Email:   email,
		MD5Hash: hex.EncodeToString(hash[:]),
		Reason:  reason,
		Source:  source,
		JobID:   jobID,
	})
}

// Remove lifts a suppression.
func (s *Service) Remove(ctx context.Context, email string) error {
	email, err := Normalize(email)
	if err != nil {
		return err
	}
	return s.repo.Remove(ctx, email)
}

// List returns suppression entries matching the given filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]domain.Suppression, int, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}
