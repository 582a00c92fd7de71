package template

import (
	"context"
	"strings"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/instrument"
	"github.com/ignite/campaign-studio/internal/pkg/logger"
)

// SubmitRequest is a draft plus the tracking options chosen in the editor.
type SubmitRequest struct {
	Name     string
	ParentID *int64
	IsDraft  bool
	Draft    instrument.EmailDraft
	Tracking instrument.TrackingConfig
}

// Service saves and loads templates. It is safe for concurrent use.
type Service struct {
	repo     Repository
	editor   *instrument.Editor
	archiver Archiver
	log      *logger.Logger
}

// NewService creates a template service. archiver may be nil.
func NewService(repo Repository, editor *instrument.Editor, archiver Archiver) *Service {
	if editor == nil {
		editor = instrument.NewEditor(nil)
	}
	return &Service{
		repo:     repo,
		editor:   editor,
		archiver: archiver,
		log:      logger.Default().With("component", "template_service"),
	}
}

// Submit instruments the draft and stores it. Archiving is best effort: a
// failed upload is logged and the saved template is still returned.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*domain.Template, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrMissingName
	}

	sub, err := s.editor.Submit(req.Draft, req.Tracking)
	if err != nil {
		return nil, err
	}

	t := &domain.Template{
		Name:     name,
		Subject:  sub.Subject,
		Content:  sub.Content,
		Type:     sub.Type,
		Version:  1,
		IsDraft:  req.IsDraft,
		ParentID: req.ParentID,
	}
	if req.ParentID != nil {
		parent, err := s.repo.Get(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		t.Version = parent.Version + 1
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info("template saved", "template_id", t.ID, "version", t.Version, "type", t.Type)

	if s.archiver != nil {
		key, err := s.archiver.Archive(ctx, *t)
		if err != nil {
			s.log.Warn("template archive failed", "template_id", t.ID, "error", err.Error())
			return t, nil
		}
		if err := s.repo.SetArchiveKey(ctx, t.ID, key); err != nil {
			s.log.Warn("recording archive key failed", "template_id", t.ID, "error", err.Error())
			return t, nil
		}
		t.ArchiveKey = key
	}
	return t, nil
}

// Get returns a saved template.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Template, error) {
	return s.repo.Get(ctx, id)
}
